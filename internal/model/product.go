package model

import "time"

type Product struct {
	BaseModel
	SKU        string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category   string     `gorm:"type:varchar(100)" json:"category"`
	Price      float64    `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	Stock      int        `gorm:"default:0" json:"stock" validate:"gte=0"`
	MinStock   int        `gorm:"default:0" json:"min_stock"`
	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	Supplier   string     `gorm:"type:varchar(255)" json:"supplier"`
	ImageURL   string     `gorm:"type:text" json:"image_url"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	Movements []StockMovement `json:"movements,omitempty"`
}
