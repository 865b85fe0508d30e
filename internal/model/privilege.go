package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_role", Name: "Update User Role"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "stock:adjust", Name: "Adjust Stock"},
	// Customer orders
	{Code: "order:view", Name: "View Order"},
	{Code: "order:create", Name: "Create Order"},
	{Code: "order:update", Name: "Update Order Production/Delivery"},
	{Code: "order:confirm_payment", Name: "Confirm Order Payment"},
	// Procurement
	{Code: "purchase:view", Name: "View Purchase Order"},
	{Code: "purchase:create", Name: "Create Purchase Order"},
	{Code: "purchase:confirm", Name: "Confirm Purchase Order"},
	{Code: "purchase:cancel", Name: "Cancel Purchase Order"},
	{Code: "withdrawal:view", Name: "View Withdrawal Order"},
	{Code: "withdrawal:create", Name: "Create Withdrawal Order"},
	{Code: "withdrawal:confirm", Name: "Confirm Withdrawal Order"},
	// Dashboard & reports
	{Code: "dashboard:view", Name: "View Dashboard"},
	{Code: "report:export", Name: "Export Reports"},
}

// CustomerPrivilegeCodes are the privileges granted to self-registered
// customers: they can place and follow their own orders, nothing else.
var CustomerPrivilegeCodes = []string{"order:view", "order:create"}
