// internal/repository/memory_store.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/models"
)

// MemoryStore is an in-process CatalogStore. It mirrors the constraints of the
// postgres schema (case-insensitive unique category names, variant foreign key)
// and lets callers inject failures per operation.
type MemoryStore struct {
	mu         sync.Mutex
	categories []models.Category
	products   []models.Product
	variants   []models.Variant
	failures   map[string]error
	calls      []string
	clock      time.Time
	noTx       bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		failures: make(map[string]error),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithoutTransactions makes Transaction report ErrTxUnsupported.
func (s *MemoryStore) WithoutTransactions() *MemoryStore {
	s.noTx = true
	return s
}

// FailOn makes every later call to op fail with err. A nil err clears it.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls lists the operations invoked so far, in order.
func (s *MemoryStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *MemoryStore) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// VariantsOf returns the stored variant rows of one product in position order.
func (s *MemoryStore) VariantsOf(productID uuid.UUID) []models.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variantsOf(productID)
}

func (s *MemoryStore) enter(op string) error {
	s.calls = append(s.calls, op)
	if err, ok := s.failures[op]; ok {
		return err
	}
	if err, ok := s.failures["*"]; ok {
		return err
	}
	return nil
}

func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListCategories"); err != nil {
		return nil, err
	}

	out := append([]models.Category(nil), s.categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateCategory"); err != nil {
		return nil, err
	}
	if s.categoryTaken(name, uuid.Nil) {
		return nil, apperr.RemoteRejected(fmt.Errorf("duplicate key value violates unique constraint idx_categories_name_lower"))
	}

	category := models.Category{BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: s.tick()}, Name: name}
	s.categories = append(s.categories, category)
	return &category, nil
}

func (s *MemoryStore) UpdateCategory(ctx context.Context, id uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateCategory"); err != nil {
		return err
	}
	if s.categoryTaken(name, id) {
		return apperr.RemoteRejected(fmt.Errorf("duplicate key value violates unique constraint idx_categories_name_lower"))
	}

	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
		}
	}
	return nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteCategory"); err != nil {
		return err
	}

	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func (s *MemoryStore) categoryTaken(name string, except uuid.UUID) bool {
	for _, c := range s.categories {
		if c.ID != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListProducts"); err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, s.hydrate(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetProduct"); err != nil {
		return nil, err
	}

	for _, p := range s.products {
		if p.ID == id {
			product := s.hydrate(p)
			return &product, nil
		}
	}
	return nil, apperr.NotFoundErr("record not found")
}

func (s *MemoryStore) InsertProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertProduct"); err != nil {
		return err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = s.tick()
	row := copyProduct(*p)
	row.Variants = nil
	s.products = append(s.products, row)
	return nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *models.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateProduct"); err != nil {
		return 0, err
	}

	for i := range s.products {
		if s.products[i].ID == p.ID {
			row := copyProduct(*p)
			row.Variants = nil
			row.CreatedAt = s.products[i].CreatedAt
			s.products[i] = row
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) DeleteProducts(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteProducts"); err != nil {
		return err
	}

	set := idSet(ids)
	kept := s.products[:0]
	for _, p := range s.products {
		if !set[p.ID] {
			kept = append(kept, p)
		}
	}
	s.products = kept
	// ON DELETE CASCADE
	s.dropVariants(set)
	return nil
}

func (s *MemoryStore) SetInStock(ctx context.Context, ids []uuid.UUID, inStock bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetInStock"); err != nil {
		return err
	}

	set := idSet(ids)
	for i := range s.products {
		if set[s.products[i].ID] {
			s.products[i].InStock = inStock
		}
	}
	return nil
}

func (s *MemoryStore) DeleteVariants(ctx context.Context, productIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteVariants"); err != nil {
		return err
	}

	s.dropVariants(idSet(productIDs))
	return nil
}

func (s *MemoryStore) InsertVariants(ctx context.Context, variants []models.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertVariants"); err != nil {
		return err
	}

	for _, v := range variants {
		if !s.productExists(v.ProductID) {
			return apperr.RemoteRejected(fmt.Errorf("insert on product_variants violates foreign key constraint"))
		}
	}
	for _, v := range variants {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.Images = append(pq.StringArray{}, v.Images...)
		s.variants = append(s.variants, v)
	}
	return nil
}

// Transaction restores a snapshot of every table when fn fails.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(CatalogStore) error) error {
	if s.noTx {
		return ErrTxUnsupported
	}

	s.mu.Lock()
	if err := s.enter("Transaction"); err != nil {
		s.mu.Unlock()
		return err
	}
	categories := append([]models.Category(nil), s.categories...)
	products := make([]models.Product, len(s.products))
	for i, p := range s.products {
		products[i] = copyProduct(p)
	}
	variants := append([]models.Variant(nil), s.variants...)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.categories, s.products, s.variants = categories, products, variants
		s.calls = append(s.calls, "Rollback")
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) hydrate(p models.Product) models.Product {
	out := copyProduct(p)
	out.Variants = s.variantsOf(p.ID)
	out.Normalize()
	return out
}

func (s *MemoryStore) variantsOf(productID uuid.UUID) []models.Variant {
	var out []models.Variant
	for _, v := range s.variants {
		if v.ProductID == productID {
			v.Images = append(pq.StringArray(nil), v.Images...)
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (s *MemoryStore) productExists(id uuid.UUID) bool {
	for _, p := range s.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *MemoryStore) dropVariants(productIDs map[uuid.UUID]bool) {
	kept := s.variants[:0]
	for _, v := range s.variants {
		if !productIDs[v.ProductID] {
			kept = append(kept, v)
		}
	}
	s.variants = kept
}

func copyProduct(p models.Product) models.Product {
	out := p
	out.Sizes = cloneArray(p.Sizes)
	out.Colors = cloneArray(p.Colors)
	out.Images = cloneArray(p.Images)
	if p.Variants != nil {
		out.Variants = append([]models.Variant{}, p.Variants...)
	}
	return out
}

func cloneArray(a pq.StringArray) pq.StringArray {
	if a == nil {
		return nil
	}
	return append(pq.StringArray{}, a...)
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
