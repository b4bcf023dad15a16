// internal/services/product_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/forms"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/repository"
)

type ProductService struct {
	store    repository.CatalogStore
	currency string
}

// ProductSummary is a product with the values the list view derives from it.
type ProductSummary struct {
	models.Product
	PriceRange string `json:"price_range"`
	TotalStock int    `json:"total_stock"`
}

type MoveImageRequest struct {
	Index     int             `json:"index" validate:"gte=0"`
	Direction forms.Direction `json:"direction" validate:"required,oneof=left right"`
}

type ReorderImageRequest struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to" validate:"gte=0"`
}

func NewProductService(store repository.CatalogStore, currency string) *ProductService {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &ProductService{store: store, currency: currency}
}

// List returns every product, newest first, narrowed by the list view search
// term when one is given.
func (s *ProductService) List(ctx context.Context, search string) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, observe("ListProducts", err)
	}
	for i := range products {
		products[i].Normalize()
	}
	return forms.SearchProducts(products, search), nil
}

func Summarize(products []models.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, ProductSummary{
			Product:    p,
			PriceRange: p.PriceRange(),
			TotalStock: p.TotalStock(),
		})
	}
	return out
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, observe("GetProduct", err)
	}
	product.Normalize()
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, form *forms.ProductForm) (*models.Product, error) {
	product, err := s.prepare(ctx, form)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, &product, nil); err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

// Update replaces every field of the product and its whole variant list. An
// id matching no row is not an error: nothing is written and nil is returned.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, form *forms.ProductForm) (*models.Product, error) {
	product, err := s.prepare(ctx, form)
	if err != nil {
		return nil, err
	}
	product.ID = id

	previous, err := s.store.GetProduct(ctx, id)
	if apperr.KindOf(err) == apperr.NotFound {
		previous = nil
	} else if err != nil {
		return nil, observe("GetProduct", err)
	}

	if err := s.save(ctx, &product, previous); err != nil {
		return nil, err
	}
	if previous == nil {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Delete removes the variants explicitly before the product, whether or not the
// store cascades.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	ids := []uuid.UUID{id}
	return observe("DeleteProduct", s.inTransaction(ctx, func(st repository.CatalogStore) error {
		if err := st.DeleteVariants(ctx, ids); err != nil {
			return err
		}
		return st.DeleteProducts(ctx, ids)
	}))
}

func (s *ProductService) MoveImage(ctx context.Context, id uuid.UUID, req MoveImageRequest) (*models.Product, error) {
	return s.editImages(ctx, id, []int{req.Index}, func(f *forms.ProductForm) bool {
		return f.MoveImage(req.Index, req.Direction)
	})
}

func (s *ProductService) ReorderImage(ctx context.Context, id uuid.UUID, req ReorderImageRequest) (*models.Product, error) {
	return s.editImages(ctx, id, []int{req.From, req.To}, func(f *forms.ProductForm) bool {
		return f.ReorderImage(req.From, req.To)
	})
}

// editImages applies a form image operation and writes back the parent row
// only; variants are untouched. An operation that changes nothing, such as
// moving the first image left, writes nothing.
func (s *ProductService) editImages(ctx context.Context, id uuid.UUID, positions []int, op func(*forms.ProductForm) bool) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, pos := range positions {
		if pos < 0 || pos >= len(product.Images) {
			return nil, apperr.ValidationErr("image position out of range", map[string]string{"images": "Invalid image position"})
		}
	}

	form := forms.FromProduct(*product)
	if !op(form) {
		return product, nil
	}
	product.Images = form.Product(s.currency).Images

	if _, err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, observe("UpdateProduct", err)
	}
	return s.Get(ctx, id)
}

// prepare normalizes and validates the form against the current categories.
// Nothing is written when it fails.
func (s *ProductService) prepare(ctx context.Context, form *forms.ProductForm) (models.Product, error) {
	form.Normalize()

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return models.Product{}, observe("ListCategories", err)
	}
	if err := form.Validate(categories); err != nil {
		return models.Product{}, err
	}
	return form.Product(s.currency), nil
}

// save runs the two-phase write: the product row, then its variants. Both
// phases share one transaction. A store without transactions gets the phases
// one after the other, and a failed variant phase is compensated by restoring
// the previous state (or deleting the new row) and reported as PartiallyWritten.
func (s *ProductService) save(ctx context.Context, product *models.Product, previous *models.Product) error {
	creating := product.ID == uuid.Nil

	phases := func(st repository.CatalogStore) error {
		found, err := s.writeParent(ctx, st, product, creating)
		if err != nil || !found {
			return err
		}
		return s.writeVariants(ctx, st, product, creating)
	}

	err := s.store.Transaction(ctx, phases)
	if !repository.IsTxUnsupported(err) {
		return observe("SaveProduct", err)
	}

	found, err := s.writeParent(ctx, s.store, product, creating)
	if err != nil {
		return observe("SaveProduct", err)
	}
	if !found {
		return nil
	}
	if err := s.writeVariants(ctx, s.store, product, creating); err != nil {
		s.compensate(ctx, product, previous, creating)
		return observe("SaveProduct", apperr.PartiallyWrittenErr("product and variants were not written together", err))
	}
	return nil
}

func (s *ProductService) writeParent(ctx context.Context, st repository.CatalogStore, product *models.Product, creating bool) (bool, error) {
	if creating {
		return true, st.InsertProduct(ctx, product)
	}
	rows, err := st.UpdateProduct(ctx, product)
	if err != nil {
		return false, err
	}
	if rows == 0 {
		logrus.WithField("product_id", product.ID).Info("Update matched no product, variants left untouched")
	}
	return rows > 0, nil
}

// writeVariants replaces the variant rows of product with product.Variants.
func (s *ProductService) writeVariants(ctx context.Context, st repository.CatalogStore, product *models.Product, creating bool) error {
	if !creating {
		if err := st.DeleteVariants(ctx, []uuid.UUID{product.ID}); err != nil {
			return err
		}
	}
	if len(product.Variants) == 0 {
		return nil
	}

	rows := make([]models.Variant, len(product.Variants))
	for i, v := range product.Variants {
		v.ID = uuid.Nil
		v.ProductID = product.ID
		v.Position = i
		rows[i] = v
	}
	return st.InsertVariants(ctx, rows)
}

func (s *ProductService) compensate(ctx context.Context, product, previous *models.Product, creating bool) {
	log := logrus.WithField("product_id", product.ID)

	var err error
	if creating {
		err = s.store.DeleteProducts(ctx, []uuid.UUID{product.ID})
	} else if previous != nil {
		restore := *previous
		if _, err = s.store.UpdateProduct(ctx, &restore); err == nil {
			err = s.writeVariants(ctx, s.store, &restore, false)
		}
	}

	if err != nil {
		log.WithError(err).Error("Compensation failed, product left partially written")
		return
	}
	log.Warn("Variant write failed, product row compensated")
}

func (s *ProductService) inTransaction(ctx context.Context, fn func(repository.CatalogStore) error) error {
	err := s.store.Transaction(ctx, fn)
	if repository.IsTxUnsupported(err) {
		return fn(s.store)
	}
	return err
}
