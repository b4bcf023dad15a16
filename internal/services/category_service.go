// internal/services/category_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/javajoker/catalog-admin/internal/forms"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/repository"
)

type CategoryService struct {
	store repository.CatalogStore
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func NewCategoryService(store repository.CatalogStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, observe("ListCategories", err)
	}
	return categories, nil
}

// Create rejects names that already exist, ignoring case, before anything is
// written. The check runs against a fresh list; a concurrent admin can still
// race it, and the store's unique index is the backstop.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	name, err = forms.ValidateNewCategory(name, categories)
	if err != nil {
		return nil, err
	}

	category, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		return nil, observe("CreateCategory", err)
	}
	return category, nil
}

// Rename runs the inline edit flow for one row: open, set the value, commit.
func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	categories, err := s.List(ctx)
	if err != nil {
		return err
	}

	editor := forms.NewCategoryEditor(categories)
	if err := editor.Begin(id); err != nil {
		return err
	}
	editor.SetValue(name)

	id, name, err = editor.Commit()
	if err != nil {
		return err
	}
	return observe("UpdateCategory", s.store.UpdateCategory(ctx, id, name))
}

// Delete removes the category only. Products keep the name as their label.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return observe("DeleteCategory", s.store.DeleteCategory(ctx, id))
}
