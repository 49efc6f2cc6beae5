package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"restocked-api/internal/repository"

	"gorm.io/gorm"
)

const (
	skuSeqWidth = 5
	skuSeqMax   = 99999

	// Bounded retries when a freshly allocated SKU collides with the
	// unique index (counter lagging behind the products table).
	skuAllocAttempts = 3
)

var (
	ErrInvalidLocation      = errors.New("invalid location, must be Boston, Seattle, or Oakland")
	ErrSKUSequenceExhausted = errors.New("SKU sequence exhausted for this location")
	ErrSKUAllocationFailed  = errors.New("could not allocate a unique SKU")
)

var locationPrefixes = map[string]string{
	"Boston":  "BOS",
	"Seattle": "SEA",
	"Oakland": "OAK",
}

// PrefixForLocation maps a stocking location name (case-sensitive) to
// its 3-letter SKU prefix.
func PrefixForLocation(location string) (string, error) {
	prefix, ok := locationPrefixes[location]
	if !ok {
		return "", ErrInvalidLocation
	}
	return prefix, nil
}

// FormatSKU renders a prefix + zero-padded sequence, e.g. SEA00001.
func FormatSKU(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, skuSeqWidth, seq)
}

var skuPattern = regexp.MustCompile(`^(BOS|SEA|OAK)(\d{5})$`)

// ParseSKUSequence extracts the numeric suffix of a well-formed SKU.
func ParseSKUSequence(sku string) (int, bool) {
	m := skuPattern.FindStringSubmatch(sku)
	if m == nil {
		return 0, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return seq, true
}

// skuAllocator issues sequential location-prefixed SKUs. The primary
// mechanism is an atomic per-prefix counter advanced in the same DB
// transaction as the product insert; the unique index on products.sku
// remains the final backstop, with Resync realigning the counter after
// a collision.
type skuAllocator struct {
	counters repository.SKUCounterRepository
	products repository.ProductRepository
}

func newSKUAllocator(counters repository.SKUCounterRepository, products repository.ProductRepository) *skuAllocator {
	return &skuAllocator{counters: counters, products: products}
}

// Next reserves the next sequence for prefix and returns the formatted
// SKU. Must run inside the transaction that commits the insert, so an
// aborted insert rolls the counter back with it.
func (a *skuAllocator) Next(tx *gorm.DB, prefix string) (string, error) {
	seq, err := a.counters.Next(tx, prefix)
	if err != nil {
		return "", err
	}
	if seq > skuSeqMax {
		return "", ErrSKUSequenceExhausted
	}
	return FormatSKU(prefix, seq), nil
}

// Resync raises the counter to the highest sequence already committed
// for prefix. Called after an insert hit the sku unique index.
func (a *skuAllocator) Resync(prefix string) error {
	maxSKU, err := a.products.MaxSKU(prefix)
	if err != nil {
		return err
	}
	if maxSKU == "" {
		return nil
	}
	seq, ok := ParseSKUSequence(maxSKU)
	if !ok {
		return nil
	}
	return a.counters.Reseed(nil, prefix, seq)
}
