// internal/services/bulk_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/repository"
)

// BulkService applies one mutation to a set of selected products.
type BulkService struct {
	store repository.CatalogStore
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type BulkStockRequest struct {
	IDs     []uuid.UUID `json:"ids" validate:"required,min=1"`
	InStock *bool       `json:"inStock" validate:"required"`
}

func NewBulkService(store repository.CatalogStore) *BulkService {
	return &BulkService{store: store}
}

// Delete removes the variants of every id, then the products. Both deletes run
// in one transaction when the store has them; otherwise a failure between them
// leaves the variants gone and the products in place.
func (s *BulkService) Delete(ctx context.Context, ids []uuid.UUID) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return apperr.ValidationErr("no products selected", nil)
	}

	run := func(st repository.CatalogStore) error {
		if err := st.DeleteVariants(ctx, ids); err != nil {
			return err
		}
		return st.DeleteProducts(ctx, ids)
	}

	err := s.store.Transaction(ctx, run)
	if repository.IsTxUnsupported(err) {
		err = run(s.store)
	}
	if err != nil {
		return observe("BulkDelete", err)
	}

	logrus.WithField("count", len(ids)).Info("Bulk deleted products")
	return nil
}

// SetStock flips the in-stock flag only. Numeric stock and variants are not
// touched.
func (s *BulkService) SetStock(ctx context.Context, ids []uuid.UUID, inStock bool) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return apperr.ValidationErr("no products selected", nil)
	}

	if err := s.store.SetInStock(ctx, ids, inStock); err != nil {
		return observe("BulkSetStock", err)
	}

	logrus.WithFields(logrus.Fields{
		"count":    len(ids),
		"in_stock": inStock,
	}).Info("Bulk updated stock flag")
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
