package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Transaction is one immutable ledger entry for a stock movement.
// Rows are only ever inserted, never updated or deleted.
type Transaction struct {
	BaseModel
	TID       string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"tid" validate:"required"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"productId" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"` // Relation - skip validation
	// SKU is denormalized at posting time so the ledger survives product edits.
	SKU         string          `gorm:"type:varchar(50);not null" json:"sku" validate:"required"`
	Type        TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,gt=0"` // Qty must be > 0
	Description string          `json:"description"`
}
