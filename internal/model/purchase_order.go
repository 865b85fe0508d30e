package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseOrder restocks inventory from a supplier. Confirming it credits
// the stock ledger with every line item, atomically with the status flip.
type PurchaseOrder struct {
	BaseModel
	Supplier    string              `gorm:"type:varchar(255);not null" json:"supplier" validate:"required"`
	Notes       string              `gorm:"type:text" json:"notes"`
	Items       []PurchaseOrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items" validate:"required,min=1,dive"`
	TotalAmount float64             `gorm:"not null;default:0" json:"total_amount"`
	Status      ProcurementStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ConfirmedBy string              `gorm:"type:varchar(255)" json:"confirmed_by"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
}

type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	ProductName     string    `gorm:"type:varchar(255)" json:"product_name"`
	Quantity        int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64   `gorm:"not null;default:0" json:"unit_price" validate:"gte=0"`
	TotalPrice      float64   `gorm:"not null;default:0" json:"total_price"`
}

// ComputeTotals fills each line's TotalPrice and the order's TotalAmount.
func (po *PurchaseOrder) ComputeTotals() {
	var total float64
	for i := range po.Items {
		po.Items[i].TotalPrice = float64(po.Items[i].Quantity) * po.Items[i].UnitPrice
		total += po.Items[i].TotalPrice
	}
	po.TotalAmount = total
}
