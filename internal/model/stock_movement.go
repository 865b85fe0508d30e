package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// Reference document types for a stock movement.
const (
	RefPurchaseOrder   = "purchase_order"
	RefWithdrawalOrder = "withdrawal_order"
	RefOrder           = "order"
	RefManual          = "manual"
)

// StockMovement is the ledger journal: one row per applied delta, written
// in the same DB transaction as the stock update itself.
type StockMovement struct {
	BaseModel
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product      `json:"product" validate:"-"`
	Type      MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	RefType   string       `gorm:"type:varchar(30)" json:"ref_type"`
	RefID     string       `gorm:"type:varchar(255);index" json:"ref_id"`
	Note      string       `json:"note"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
