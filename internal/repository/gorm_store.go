// internal/repository/gorm_store.go
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/database"
	"github.com/javajoker/catalog-admin/internal/models"
)

var errNotConfigured = errors.New("catalog store not configured")

type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened database. A nil db yields a store whose every
// call fails with backend_unavailable.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, apperr.BackendUnavailableErr(errNotConfigured)
	}
	return s.db.WithContext(ctx), nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, classify(err)
	}
	return categories, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		return nil, classify(err)
	}
	return category, nil
}

func (s *GormStore) UpdateCategory(ctx context.Context, id uuid.UUID, name string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	err = db.Model(&models.Category{}).Where("id = ?", id).Update("name", name).Error
	return classify(err)
}

func (s *GormStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(db.Where("id = ?", id).Delete(&models.Category{}).Error)
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := db.Preload("Variants", orderVariants).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, classify(err)
	}

	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.Preload("Variants", orderVariants).First(&product, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	product.Normalize()
	return &product, nil
}

func (s *GormStore) InsertProduct(ctx context.Context, p *models.Product) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(insertProduct(db, p).Error)
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *models.Product) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	result := updateProduct(db, p)
	if result.Error != nil {
		return 0, classify(result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) DeleteProducts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(db.Where("id IN ?", ids).Delete(&models.Product{}).Error)
}

func (s *GormStore) SetInStock(ctx context.Context, ids []uuid.UUID, inStock bool) error {
	if len(ids) == 0 {
		return nil
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(setInStock(db, ids, inStock).Error)
}

func (s *GormStore) DeleteVariants(ctx context.Context, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(deleteVariants(db, productIDs).Error)
}

func (s *GormStore) InsertVariants(ctx context.Context, variants []models.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(db.Create(&variants).Error)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(CatalogStore) error) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	err = database.WithTransaction(db, func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	if _, ok := apperr.As(err); ok || err == nil {
		return err
	}
	// Begin or Commit failed.
	return classify(err)
}

func orderVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// insertProduct writes the parent row only. gorm swaps a zero value for the
// field's default tag, so the isNew and inStock flags must not carry one.
func insertProduct(db *gorm.DB, p *models.Product) *gorm.DB {
	return db.Omit(clause.Associations).Create(p)
}

// updateProduct uses a map so zero values (false flags, empty arrays) are
// written too.
func updateProduct(db *gorm.DB, p *models.Product) *gorm.DB {
	return db.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"category":    p.Category,
		"description": p.Description,
		"isNew":       p.IsNew,
		"inStock":     p.InStock,
		"currency":    p.Currency,
		"price":       p.Price,
		"stock":       p.Stock,
		"sizes":       p.Sizes,
		"colors":      p.Colors,
		"images":      p.Images,
	})
}

func setInStock(db *gorm.DB, ids []uuid.UUID, inStock bool) *gorm.DB {
	return db.Model(&models.Product{}).Where("id IN ?", ids).Update("inStock", inStock)
}

func deleteVariants(db *gorm.DB, productIDs []uuid.UUID) *gorm.DB {
	return db.Where("product_id IN ?", productIDs).Delete(&models.Variant{})
}

// classify maps driver errors onto the catalog error kinds. A PgError means the
// server received and refused the statement, except for the connection and
// resource classes which mean the server is not usable right now.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundErr("record not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, class := range []string{"08", "53", "57"} {
			if strings.HasPrefix(pgErr.Code, class) {
				return apperr.BackendUnavailableErr(err)
			}
		}
		return apperr.RemoteRejected(err)
	}

	return apperr.BackendUnavailableErr(err)
}
