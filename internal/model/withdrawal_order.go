package model

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawalOrder issues stock out of the warehouse for internal or
// departmental use. Stock sufficiency is checked at creation and checked
// again under row locks at confirmation.
type WithdrawalOrder struct {
	BaseModel
	OrderNumber string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	Department  string            `gorm:"type:varchar(100)" json:"department"`
	Purpose     string            `gorm:"type:text" json:"purpose"`
	Items       []WithdrawalItem  `gorm:"constraint:OnDelete:CASCADE" json:"items" validate:"required,min=1,dive"`
	Status      ProcurementStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RequestedBy string            `gorm:"type:varchar(255)" json:"requested_by"`
	ConfirmedBy string            `gorm:"type:varchar(255)" json:"confirmed_by"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
}

type WithdrawalItem struct {
	BaseModel
	WithdrawalOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"withdrawal_order_id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	ProductName       string    `gorm:"type:varchar(255)" json:"product_name"`
	Quantity          int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
}
