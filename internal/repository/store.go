// internal/repository/store.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-admin/internal/models"
)

// ErrTxUnsupported is returned by CatalogStore.Transaction when the store cannot
// group statements. Callers fall back to running the steps one by one.
var ErrTxUnsupported = errors.New("store does not support transactions")

// IsTxUnsupported reports whether err came from a store without transactions.
func IsTxUnsupported(err error) bool {
	return errors.Is(err, ErrTxUnsupported)
}

// Store kinds accepted by NewStore.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// NewStore returns the catalog store named by kind. db is only used by the
// postgres store and may be nil there too.
func NewStore(kind string, db *gorm.DB) (CatalogStore, error) {
	switch kind {
	case StorePostgres, "":
		return NewGormStore(db), nil
	case StoreMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown catalog store: %s", kind)
}

// CatalogStore is the remote catalog: categories, products and their variants.
// Every method returns an *apperr.Error classified as backend_unavailable,
// validation (rejected by the store) or not_found.
type CatalogStore interface {
	// Categories, ordered by name ascending.
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	// UpdateCategory affecting zero rows is not an error.
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Products with their variants embedded, newest first.
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// InsertProduct writes the parent row only; ID and CreatedAt are filled in.
	InsertProduct(ctx context.Context, p *models.Product) error
	// UpdateProduct replaces every parent column and reports the rows touched.
	UpdateProduct(ctx context.Context, p *models.Product) (int64, error)
	DeleteProducts(ctx context.Context, ids []uuid.UUID) error
	SetInStock(ctx context.Context, ids []uuid.UUID, inStock bool) error

	DeleteVariants(ctx context.Context, productIDs []uuid.UUID) error
	InsertVariants(ctx context.Context, variants []models.Variant) error

	// Transaction runs fn against a store bound to one transaction.
	Transaction(ctx context.Context, fn func(CatalogStore) error) error
}
