package service

import (
	"restocked-api/internal/model"
	"restocked-api/internal/repository"
)

// InventoryItem is the joined product/category row the inventory page
// renders.
type InventoryItem struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Description string  `json:"description"`
}

type InventoryService interface {
	GetInventory() ([]InventoryItem, error)
	GetLowStock() ([]model.Product, error)
}

type inventoryService struct {
	products repository.ProductRepository
}

func NewInventoryService(products repository.ProductRepository) InventoryService {
	return &inventoryService{products: products}
}

func (s *inventoryService) GetInventory() ([]InventoryItem, error) {
	products, err := s.products.FindAll()
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, 0, len(products))
	for _, p := range products {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		items = append(items, InventoryItem{
			Name:        p.Name,
			SKU:         p.SKU,
			Category:    categoryName,
			Quantity:    p.Quantity,
			UnitPrice:   p.Price,
			Description: "",
		})
	}
	return items, nil
}

func (s *inventoryService) GetLowStock() ([]model.Product, error) {
	return s.products.FindLowStock()
}
