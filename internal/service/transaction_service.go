package service

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"restocked-api/internal/metrics"
	"restocked-api/internal/model"
	"restocked-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFoundForSKU  = errors.New("product not found for provided SKU")
	ErrInsufficientStock      = errors.New("insufficient stock for OUT transaction")
	ErrInvalidQuantity        = errors.New("quantity must be a positive number")
	ErrInvalidTransactionType = errors.New("transaction type must be IN or OUT")
	ErrDuplicateTID           = errors.New("duplicate transaction id")
)

type PostTransactionInput struct {
	SKU         string                `json:"sku"`
	Type        model.TransactionType `json:"type"`
	Quantity    int                   `json:"quantity"`
	Description string                `json:"description"`
}

type TransactionItem struct {
	SKU         string                `json:"sku"`
	Type        model.TransactionType `json:"type"`
	Quantity    int                   `json:"quantity"`
	Description string                `json:"description"`
}

// TransactionGroup is the list shape the frontend consumes: one group
// per ledger entry, date compacted to YYYY-MM-DD.
type TransactionGroup struct {
	TID   string            `json:"tid"`
	Date  string            `json:"date"`
	Items []TransactionItem `json:"items"`
}

type TransactionService interface {
	Post(in *PostTransactionInput) (*model.Transaction, error)
	GetAllGrouped() ([]TransactionGroup, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
}

type transactionService struct {
	db           repository.TxRunner
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	hub          Broadcaster
	now          func() time.Time
}

func NewTransactionService(
	db repository.TxRunner,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	hub Broadcaster,
) TransactionService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &transactionService{
		db:           db,
		products:     products,
		transactions: transactions,
		hub:          hub,
		now:          time.Now,
	}
}

// newTID builds a ledger identifier: date prefix for operators, UUID-
// derived hex suffix for uniqueness. The unique index on tid is only a
// backstop.
func newTID(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("T%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(id[:4])))
}

// Post validates and applies one stock movement and records it as an
// immutable ledger entry. The quantity update and the ledger insert
// share a single DB transaction, and the quantity delta is applied as a
// guarded in-place update, so concurrent OUT postings cannot overdraw
// the product.
func (s *transactionService) Post(in *PostTransactionInput) (*model.Transaction, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" {
		return nil, fmt.Errorf("%w: sku is required", ErrValidation)
	}
	if in.Type != model.TxIn && in.Type != model.TxOut {
		return nil, ErrInvalidTransactionType
	}
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var (
		record  *model.Transaction
		product *model.Product
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.products.FindBySKUForUpdate(tx, in.SKU)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFoundForSKU
			}
			return err
		}

		delta := in.Quantity
		if in.Type == model.TxOut {
			delta = -in.Quantity
		}

		// The guard on the update, not the read above, enforces the
		// non-negative invariant.
		applied, err := s.products.AdjustQuantity(tx, product.ID, delta)
		if err != nil {
			return err
		}
		if !applied {
			metrics.InsufficientStockRejections.Inc()
			return ErrInsufficientStock
		}
		product.Quantity += delta

		record = &model.Transaction{
			TID:         newTID(s.now()),
			ProductID:   product.ID,
			SKU:         product.SKU,
			Type:        in.Type,
			Quantity:    in.Quantity,
			Description: strings.TrimSpace(in.Description),
		}
		if err := s.transactions.Create(tx, record); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTID
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsPosted.WithLabelValues(string(in.Type)).Inc()
	s.notifyPosted(record, product)
	return record, nil
}

func (s *transactionService) notifyPosted(record *model.Transaction, product *model.Product) {
	s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_created",
		"transaction": map[string]interface{}{
			"tid":      record.TID,
			"sku":      record.SKU,
			"type":     record.Type,
			"quantity": record.Quantity,
		},
		"product": map[string]interface{}{
			"id":       product.ID,
			"name":     product.Name,
			"quantity": product.Quantity,
		},
	})

	if product.LowStock() {
		metrics.LowStockAlerts.Inc()
		s.hub.BroadcastJSON(map[string]interface{}{
			"type": "low_stock_alert",
			"product": map[string]interface{}{
				"id":        product.ID,
				"name":      product.Name,
				"sku":       product.SKU,
				"quantity":  product.Quantity,
				"threshold": product.LowStockThreshold,
			},
		})
	}
}

func (s *transactionService) GetAllGrouped() ([]TransactionGroup, error) {
	transactions, err := s.transactions.FindAll()
	if err != nil {
		return nil, err
	}

	groups := make([]TransactionGroup, 0, len(transactions))
	for _, t := range transactions {
		groups = append(groups, TransactionGroup{
			TID:  t.TID,
			Date: t.CreatedAt.Format("2006-01-02"),
			Items: []TransactionItem{{
				SKU:         t.SKU,
				Type:        t.Type,
				Quantity:    t.Quantity,
				Description: t.Description,
			}},
		})
	}
	return groups, nil
}

func (s *transactionService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.transactions.FindByID(id)
}
