package model

import "github.com/google/uuid"

// ThresholdDisabled is the canonical "no low-stock alerting" value.
const ThresholdDisabled = -1

type Product struct {
	BaseModel
	SKU        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null" json:"categoryId" validate:"uuid_required"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Price      float64   `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	// On-hand stock. Mutated only through transaction posting.
	Quantity          int `gorm:"not null;default:0" json:"quantity"`
	LowStockThreshold int `gorm:"not null;default:-1" json:"lowStockThreshold"`

	Transactions []Transaction `json:"transactions,omitempty"`
}

// LowStock reports whether alerting is enabled and the on-hand
// quantity has reached the threshold.
func (p *Product) LowStock() bool {
	return p.LowStockThreshold > 0 && p.Quantity <= p.LowStockThreshold
}
