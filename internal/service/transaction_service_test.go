package service

import (
	"regexp"
	"testing"
	"time"

	"restocked-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type transactionFixture struct {
	svc      TransactionService
	products *fakeProductRepo
	ledger   *fakeTransactionRepo
	hub      *fakeBroadcaster
}

func newTransactionFixture(t *testing.T, seed ...*model.Product) *transactionFixture {
	t.Helper()
	f := &transactionFixture{
		products: newFakeProductRepo(),
		ledger:   &fakeTransactionRepo{},
		hub:      &fakeBroadcaster{},
	}
	for _, p := range seed {
		require.NoError(t, f.products.Create(nil, p))
	}
	f.svc = NewTransactionService(fakeTxRunner{}, f.products, f.ledger, f.hub)
	return f
}

func (f *transactionFixture) quantityOf(t *testing.T, sku string) int {
	t.Helper()
	p, err := f.products.FindBySKU(sku)
	require.NoError(t, err)
	return p.Quantity
}

func TestPostTransactionIn(t *testing.T) {
	f := newTransactionFixture(t, productWithSKU("SEA00001"))

	record, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxIn,
		Quantity: 25,
	})
	require.NoError(t, err)
	require.Equal(t, "SEA00001", record.SKU)
	require.Equal(t, model.TxIn, record.Type)
	require.Equal(t, 25, record.Quantity)
	require.Equal(t, 25, f.quantityOf(t, "SEA00001"))
}

func TestPostTransactionOut(t *testing.T) {
	p := productWithSKU("SEA00001")
	p.Quantity = 40
	f := newTransactionFixture(t, p)

	_, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxOut,
		Quantity: 15,
	})
	require.NoError(t, err)
	require.Equal(t, 25, f.quantityOf(t, "SEA00001"))

	// draining to exactly zero is allowed
	_, err = f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxOut,
		Quantity: 25,
	})
	require.NoError(t, err)
	require.Equal(t, 0, f.quantityOf(t, "SEA00001"))
}

func TestPostTransactionInsufficientStock(t *testing.T) {
	p := productWithSKU("SEA00001")
	p.Quantity = 10
	f := newTransactionFixture(t, p)

	_, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxOut,
		Quantity: 11,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// rejected posting leaves no trace
	require.Equal(t, 10, f.quantityOf(t, "SEA00001"))
	require.Empty(t, f.ledger.records)
	require.Empty(t, f.hub.events)
}

func TestPostTransactionUnknownSKU(t *testing.T) {
	f := newTransactionFixture(t)

	_, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00099",
		Type:     model.TxIn,
		Quantity: 1,
	})
	require.ErrorIs(t, err, ErrProductNotFoundForSKU)
}

func TestPostTransactionValidation(t *testing.T) {
	f := newTransactionFixture(t, productWithSKU("SEA00001"))

	_, err := f.svc.Post(&PostTransactionInput{SKU: "  ", Type: model.TxIn, Quantity: 1})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Post(&PostTransactionInput{SKU: "SEA00001", Type: "TRANSFER", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidTransactionType)

	_, err = f.svc.Post(&PostTransactionInput{SKU: "SEA00001", Type: model.TxIn, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.Post(&PostTransactionInput{SKU: "SEA00001", Type: model.TxOut, Quantity: -5})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPostTransactionTIDFormat(t *testing.T) {
	f := newTransactionFixture(t, productWithSKU("SEA00001"))
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	f.svc.(*transactionService).now = func() time.Time { return fixed }

	record, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxIn,
		Quantity: 1,
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^T20260314-[0-9A-F]{8}$`), record.TID)
}

func TestPostTransactionBroadcasts(t *testing.T) {
	p := productWithSKU("SEA00001")
	p.Quantity = 10
	f := newTransactionFixture(t, p)

	record, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxOut,
		Quantity: 3,
	})
	require.NoError(t, err)

	updates := f.hub.eventsOfType("stock_update")
	require.Len(t, updates, 1)
	tx := updates[0]["transaction"].(map[string]interface{})
	require.Equal(t, record.TID, tx["tid"])
	prod := updates[0]["product"].(map[string]interface{})
	require.Equal(t, 7, prod["quantity"])

	// threshold disabled, so no alert
	require.Empty(t, f.hub.eventsOfType("low_stock_alert"))
}

func TestPostTransactionLowStockAlert(t *testing.T) {
	p := productWithSKU("SEA00001")
	p.Quantity = 6
	p.LowStockThreshold = 5
	f := newTransactionFixture(t, p)

	// 6 -> 5 crosses into low stock (quantity <= threshold)
	_, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxOut,
		Quantity: 1,
	})
	require.NoError(t, err)

	alerts := f.hub.eventsOfType("low_stock_alert")
	require.Len(t, alerts, 1)
	prod := alerts[0]["product"].(map[string]interface{})
	require.Equal(t, 5, prod["quantity"])
	require.Equal(t, 5, prod["threshold"])
}

func TestGetAllGrouped(t *testing.T) {
	f := newTransactionFixture(t, productWithSKU("SEA00001"))

	first, err := f.svc.Post(&PostTransactionInput{
		SKU:         "SEA00001",
		Type:        model.TxIn,
		Quantity:    10,
		Description: "initial stock",
	})
	require.NoError(t, err)
	second, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxOut,
		Quantity: 4,
	})
	require.NoError(t, err)

	groups, err := f.svc.GetAllGrouped()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.NotEqual(t, first.TID, second.TID)

	// newest first, one item per group
	require.Equal(t, second.TID, groups[0].TID)
	require.Equal(t, first.TID, groups[1].TID)
	require.Len(t, groups[0].Items, 1)
	require.Equal(t, model.TxOut, groups[0].Items[0].Type)
	require.Equal(t, "initial stock", groups[1].Items[0].Description)
	require.Equal(t, time.Now().Format("2006-01-02"), groups[0].Date)
}

func TestGetTransactionByID(t *testing.T) {
	f := newTransactionFixture(t, productWithSKU("SEA00001"))

	record, err := f.svc.Post(&PostTransactionInput{
		SKU:      "SEA00001",
		Type:     model.TxIn,
		Quantity: 2,
	})
	require.NoError(t, err)

	found, err := f.svc.GetTransactionByID(record.ID)
	require.NoError(t, err)
	require.Equal(t, record.TID, found.TID)

	_, err = f.svc.GetTransactionByID(uuid.New())
	require.Error(t, err)
}
