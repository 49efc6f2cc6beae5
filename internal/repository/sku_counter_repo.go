package repository

import "gorm.io/gorm"

type SKUCounterRepository interface {
	// Next atomically increments and returns the sequence for a prefix,
	// creating the counter row on first use.
	Next(tx *gorm.DB, prefix string) (int, error)
	// Reseed raises the counter to at least seq. Used when the counter is
	// found to lag behind the products table (e.g. after a data restore).
	Reseed(tx *gorm.DB, prefix string, seq int) error
}

type skuCounterRepo struct {
	db *gorm.DB
}

func NewSKUCounterRepo(db *gorm.DB) SKUCounterRepository {
	return &skuCounterRepo{db}
}

func (r *skuCounterRepo) Next(tx *gorm.DB, prefix string) (int, error) {
	if tx == nil {
		tx = r.db
	}
	var seq int
	err := tx.Raw(`
		INSERT INTO sku_counters (prefix, seq) VALUES (?, 1)
		ON CONFLICT (prefix) DO UPDATE SET seq = sku_counters.seq + 1
		RETURNING seq`, prefix).Scan(&seq).Error
	return seq, err
}

func (r *skuCounterRepo) Reseed(tx *gorm.DB, prefix string, seq int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Exec(`
		INSERT INTO sku_counters (prefix, seq) VALUES (?, ?)
		ON CONFLICT (prefix) DO UPDATE SET seq = GREATEST(sku_counters.seq, EXCLUDED.seq)`,
		prefix, seq).Error
}
