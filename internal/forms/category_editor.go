// internal/forms/category_editor.go
package forms

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/models"
)

type EditState string

const (
	StateViewing   EditState = "viewing"
	StateEditing   EditState = "editing"
	StateCancelled EditState = "cancelled"
)

// CategoryEditor drives inline renaming over an already loaded category list.
// Only one row is editable at a time; beginning another row replaces it.
type CategoryEditor struct {
	categories []models.Category
	state      EditState
	editingID  uuid.UUID
	value      string
}

func NewCategoryEditor(categories []models.Category) *CategoryEditor {
	return &CategoryEditor{categories: categories, state: StateViewing}
}

func (e *CategoryEditor) State() EditState     { return e.state }
func (e *CategoryEditor) EditingID() uuid.UUID { return e.editingID }
func (e *CategoryEditor) Value() string        { return e.value }

// Begin starts editing the row with id, seeded with its current name.
func (e *CategoryEditor) Begin(id uuid.UUID) error {
	for _, c := range e.categories {
		if c.ID == id {
			e.state = StateEditing
			e.editingID = id
			e.value = c.Name
			return nil
		}
	}
	return apperr.NotFoundErr("category not found")
}

func (e *CategoryEditor) SetValue(value string) {
	e.value = value
}

func (e *CategoryEditor) Cancel() {
	e.state = StateCancelled
	e.editingID = uuid.Nil
	e.value = ""
}

// Commit validates the pending name and returns it trimmed. The editor goes
// back to viewing only on success; a rejected name keeps the row open.
func (e *CategoryEditor) Commit() (uuid.UUID, string, error) {
	if e.state != StateEditing {
		return uuid.Nil, "", apperr.ValidationErr("no category is being edited", nil)
	}

	name, err := checkCategoryName(e.value, e.categories, e.editingID)
	if err != nil {
		return uuid.Nil, "", err
	}

	id := e.editingID
	e.state = StateViewing
	e.editingID = uuid.Nil
	e.value = ""
	return id, name, nil
}

// ValidateNewCategory checks a name for creation against the loaded list.
func ValidateNewCategory(name string, categories []models.Category) (string, error) {
	return checkCategoryName(name, categories, uuid.Nil)
}

// SameName compares category names ignoring case and surrounding space.
func SameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

func checkCategoryName(name string, categories []models.Category, except uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.ValidationErr("category name is required", map[string]string{"name": "Name is required"})
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", apperr.ValidationErr("category name is too long", map[string]string{"name": "Name must be at most 100 characters"})
	}
	for _, c := range categories {
		if c.ID != except && SameName(c.Name, name) {
			return "", apperr.ValidationErr("category already exists", map[string]string{"name": "Category already exists"})
		}
	}
	return name, nil
}
