package service

import (
	"errors"
	"fmt"
	"strings"

	"restocked-api/internal/metrics"
	"restocked-api/internal/model"
	"restocked-api/internal/repository"
	"restocked-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

type CreateProductInput struct {
	Name       string    `json:"name" validate:"required"`
	CategoryID uuid.UUID `json:"categoryId" validate:"uuid_required"`
	Location   string    `json:"location" validate:"required"`
	Price      float64   `json:"price" validate:"gte=0"`
	// nil or any value <= 0 disables low-stock alerting.
	LowStockThreshold *int `json:"lowStockThreshold"`
}

type UpdateProductInput struct {
	Name              *string    `json:"name"`
	CategoryID        *uuid.UUID `json:"categoryId"`
	Price             *float64   `json:"price"`
	LowStockThreshold *int       `json:"lowStockThreshold"`
}

type ProductService interface {
	CreateProduct(in *CreateProductInput) (*model.Product, error)
	UpdateProduct(id uuid.UUID, in *UpdateProductInput) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
}

type productService struct {
	db         repository.TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	skus       *skuAllocator
	hub        Broadcaster
}

func NewProductService(
	db repository.TxRunner,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	counters repository.SKUCounterRepository,
	hub Broadcaster,
) ProductService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &productService{
		db:         db,
		products:   products,
		categories: categories,
		skus:       newSKUAllocator(counters, products),
		hub:        hub,
	}
}

func (s *productService) CreateProduct(in *CreateProductInput) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	prefix, err := PrefixForLocation(in.Location)
	if err != nil {
		return nil, err
	}

	if _, err := s.categories.FindByID(in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	threshold := model.ThresholdDisabled
	if in.LowStockThreshold != nil && *in.LowStockThreshold > 0 {
		threshold = *in.LowStockThreshold
	}

	// The allocator's counter and the insert share one transaction, so a
	// failed insert rolls the reserved sequence back. A collision with
	// the sku unique index means the counter lagged behind the table;
	// realign it and retry, bounded.
	for attempt := 0; attempt < skuAllocAttempts; attempt++ {
		product := &model.Product{
			Name:              in.Name,
			CategoryID:        in.CategoryID,
			Price:             in.Price,
			Quantity:          0,
			LowStockThreshold: threshold,
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			sku, err := s.skus.Next(tx, prefix)
			if err != nil {
				return err
			}
			product.SKU = sku
			return s.products.Create(tx, product)
		})
		if err == nil {
			metrics.SKUsAllocated.WithLabelValues(prefix).Inc()
			s.hub.BroadcastJSON(map[string]interface{}{
				"type":   "stock_update",
				"action": "product_created",
				"product": map[string]interface{}{
					"id":       product.ID,
					"sku":      product.SKU,
					"name":     product.Name,
					"quantity": product.Quantity,
					"price":    product.Price,
				},
			})
			return product, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.SKUCollisionRetries.Inc()
			if rerr := s.skus.Resync(prefix); rerr != nil {
				return nil, rerr
			}
			continue
		}
		return nil, err
	}

	return nil, ErrSKUAllocationFailed
}

func (s *productService) UpdateProduct(id uuid.UUID, in *UpdateProductInput) (*model.Product, error) {
	if in.Name == nil && in.CategoryID == nil && in.Price == nil && in.LowStockThreshold == nil {
		return nil, ErrNoFieldsToUpdate
	}

	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
		}
		product.Name = name
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(*in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price must be a valid positive number", ErrValidation)
		}
		product.Price = *in.Price
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold > 0 {
			product.LowStockThreshold = *in.LowStockThreshold
		} else {
			product.LowStockThreshold = model.ThresholdDisabled
		}
	}

	// SKU and quantity are never touched here: the SKU is immutable and
	// quantity moves only through posted transactions.
	if err := s.products.Update(product); err != nil {
		return nil, err
	}
	return s.products.FindByID(id)
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.products.FindAll()
}
