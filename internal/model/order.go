package model

import "github.com/google/uuid"

// Financial constants applied at order creation. The deposit is computed
// once and stored on the order; it never changes afterwards.
const (
	VATRate     = 0.07
	DepositRate = 0.30
)

type Order struct {
	BaseModel
	CustomerID *string `gorm:"type:varchar(255);index" json:"customer_id,omitempty"`
	Customer   *User   `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items" validate:"required,min=1,dive"`

	Subtotal      float64 `gorm:"not null;default:0" json:"subtotal"`
	VAT           float64 `gorm:"not null;default:0" json:"vat"`
	TotalWithVAT  float64 `gorm:"not null;default:0" json:"total_with_vat"`
	DepositAmount float64 `gorm:"not null;default:0" json:"deposit_amount"`

	Status           OrderStatus       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ProductionStatus *ProductionStatus `gorm:"type:varchar(30)" json:"production_status"` // nil once delivered
	DeliveryStatus   DeliveryStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"delivery_status"`
	PaymentStatus    PaymentStatus     `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaymentProof     *string           `gorm:"type:text" json:"payment_proof"`
	TrackingNumber   string            `gorm:"type:varchar(100)" json:"tracking_number"`
}

type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	ProductName string    `gorm:"type:varchar(255)" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64   `gorm:"not null;default:0" json:"unit_price" validate:"gte=0"`
}

// ComputeTotals fills Subtotal, VAT, TotalWithVAT and DepositAmount from
// the line items. Called exactly once, at creation.
func (o *Order) ComputeTotals() {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	o.Subtotal = subtotal
	o.VAT = subtotal * VATRate
	o.TotalWithVAT = subtotal + o.VAT
	o.DepositAmount = o.TotalWithVAT * DepositRate
}
