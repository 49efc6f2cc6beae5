package service

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"restocked-api/internal/model"
	"restocked-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeTxRunner runs the unit directly; the fakes below ignore the tx
// handle the same way the real repositories receive it.
type fakeTxRunner struct{}

func (fakeTxRunner) Transaction(fn func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fn(nil)
}

type fakeProductRepo struct {
	products map[string]*model.Product // keyed by SKU
	// forceDuplicate makes every Create fail as if the unique index
	// rejected the row.
	forceDuplicate bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*model.Product)}
}

func (r *fakeProductRepo) Create(_ *gorm.DB, product *model.Product) error {
	if r.forceDuplicate {
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.products[product.SKU]; exists {
		return gorm.ErrDuplicatedKey
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	clone := *product
	r.products[product.SKU] = &clone
	return nil
}

func (r *fakeProductRepo) FindAll() ([]model.Product, error) {
	skus := make([]string, 0, len(r.products))
	for sku := range r.products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	out := make([]model.Product, 0, len(skus))
	for _, sku := range skus {
		out = append(out, *r.products[sku])
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	if p, ok := r.products[sku]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindBySKUForUpdate(_ *gorm.DB, sku string) (*model.Product, error) {
	return r.FindBySKU(sku)
}

// Update writes the same column set the real repository selects; sku
// and quantity stay whatever the stored row holds.
func (r *fakeProductRepo) Update(product *model.Product) error {
	for _, p := range r.products {
		if p.ID == product.ID {
			p.Name = product.Name
			p.CategoryID = product.CategoryID
			p.Price = product.Price
			p.LowStockThreshold = product.LowStockThreshold
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Delete(id uuid.UUID) error {
	for sku, p := range r.products {
		if p.ID == id {
			delete(r.products, sku)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) AdjustQuantity(_ *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	for _, p := range r.products {
		if p.ID == id {
			if p.Quantity+delta < 0 {
				return false, nil
			}
			p.Quantity += delta
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) MaxSKU(prefix string) (string, error) {
	max := ""
	for sku := range r.products {
		if strings.HasPrefix(sku, prefix) && sku > max {
			max = sku
		}
	}
	return max, nil
}

func (r *fakeProductRepo) FindLowStock() ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *fakeCategoryRepo) add(name string) *model.Category {
	c := &model.Category{Name: name}
	c.ID = uuid.New()
	r.categories[c.ID] = c
	return c
}

func (r *fakeCategoryRepo) Create(category *model.Category) error {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) FindAll() ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	if c, ok := r.categories[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) FindByName(name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) Update(category *model.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Delete(id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.categories, id)
	return nil
}

type fakeCounterRepo struct {
	seqs map[string]int
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{seqs: make(map[string]int)}
}

func (r *fakeCounterRepo) Next(_ *gorm.DB, prefix string) (int, error) {
	r.seqs[prefix]++
	return r.seqs[prefix], nil
}

func (r *fakeCounterRepo) Reseed(_ *gorm.DB, prefix string, seq int) error {
	if r.seqs[prefix] < seq {
		r.seqs[prefix] = seq
	}
	return nil
}

type fakeTransactionRepo struct {
	records []model.Transaction
}

func (r *fakeTransactionRepo) Create(_ *gorm.DB, transaction *model.Transaction) error {
	for _, existing := range r.records {
		if existing.TID == transaction.TID {
			return gorm.ErrDuplicatedKey
		}
	}
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	transaction.CreatedAt = time.Now()
	r.records = append(r.records, *transaction)
	return nil
}

func (r *fakeTransactionRepo) FindAll() ([]model.Transaction, error) {
	out := make([]model.Transaction, len(r.records))
	copy(out, r.records)
	// newest first, like the real repository
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeTransactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	for _, t := range r.records {
		if t.ID == id {
			clone := t
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTransactionRepo) GetStockMovement(startDate, endDate time.Time) ([]repository.StockMovementData, error) {
	return nil, nil
}

func (r *fakeTransactionRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func productWithSKU(sku string) *model.Product {
	p := &model.Product{
		SKU:               sku,
		Name:              "Product " + sku,
		CategoryID:        uuid.New(),
		Price:             1,
		LowStockThreshold: model.ThresholdDisabled,
	}
	p.ID = uuid.New()
	return p
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	u, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashedPassword
	return nil
}

type fakeBroadcaster struct {
	events []map[string]interface{}
}

func (b *fakeBroadcaster) BroadcastJSON(v interface{}) {
	if m, ok := v.(map[string]interface{}); ok {
		b.events = append(b.events, m)
	}
}

func (b *fakeBroadcaster) eventsOfType(eventType string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, e := range b.events {
		if e["type"] == eventType {
			out = append(out, e)
		}
	}
	return out
}
