package repository

import (
	"errors"

	"restocked-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindBySKUForUpdate(tx *gorm.DB, sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	// AdjustQuantity applies a single conditional delta. The guard keeps
	// quantity from ever going negative; zero rows matched means the
	// movement would overdraw the product.
	AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int) (bool, error)
	// MaxSKU returns the greatest existing SKU for a prefix, including
	// soft-deleted rows (their SKUs stay consumed), or "" if none.
	MaxSKU(prefix string) (string, error)
	FindLowStock() ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("sku ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "sku = ?", sku).Error
	return &product, err
}

// FindBySKUForUpdate locks the product row for the duration of the
// surrounding transaction (pessimistic locking).
func (r *productRepo) FindBySKUForUpdate(tx *gorm.DB, sku string) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "sku = ?", sku).Error
	return &product, err
}

// Update persists the editable columns only. Quantity is owned by
// AdjustQuantity and sku is immutable, so neither is ever written here;
// a stock posting landing between the caller's read and this write
// survives it.
func (r *productRepo) Update(product *model.Product) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Select("name", "category_id", "price", "low_stock_threshold").
		Updates(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) MaxSKU(prefix string) (string, error) {
	var product model.Product
	err := r.db.Unscoped().
		Where("sku ~ ?", "^"+prefix+`\d{5}$`).
		Order("sku DESC").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return product.SKU, nil
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").
		Where("low_stock_threshold > 0 AND quantity <= low_stock_threshold").
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}
