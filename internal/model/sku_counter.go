package model

// SKUCounter holds the last issued sequence number per location prefix.
// It is advanced atomically (upsert-and-increment) inside the product
// creation transaction; the unique index on products.sku stays as the
// final backstop.
type SKUCounter struct {
	Prefix string `gorm:"type:varchar(8);primaryKey" json:"prefix"`
	Seq    int    `gorm:"not null;default:0" json:"seq"`
}

func (SKUCounter) TableName() string {
	return "sku_counters"
}
