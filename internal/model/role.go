package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Rank        int         `gorm:"not null;default:0" json:"rank"` // higher rank outranks lower
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants. Rank encodes the permission ordering
// admin > manager > staff > customer.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleStaff    = "STAFF"
	RoleCustomer = "CUSTOMER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Rank:        40,
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleManager,
		Name:        "Warehouse Manager",
		Rank:        30,
		Description: "Runs procurement, production and delivery; no user administration",
	},
	{
		Code:        RoleStaff,
		Name:        "Warehouse Staff",
		Rank:        20,
		Description: "Day-to-day stock and order handling",
	},
	{
		Code:        RoleCustomer,
		Name:        "Customer",
		Rank:        10,
		Description: "Places orders and tracks their progress",
	},
}
