package forms

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/models"
)

func category(name string) models.Category {
	return models.Category{BaseModel: models.BaseModel{ID: uuid.New()}, Name: name}
}

func TestSizesAndColors(t *testing.T) {
	f := &ProductForm{}

	assert.True(t, f.AddSize(" M "))
	assert.False(t, f.AddSize("M"))
	assert.False(t, f.AddSize("   "))
	assert.True(t, f.AddSize("L"))
	assert.Equal(t, []string{"M", "L"}, f.Sizes)

	assert.True(t, f.RemoveSize("M"))
	assert.False(t, f.RemoveSize("XXL"))
	assert.Equal(t, []string{"L"}, f.Sizes)

	assert.True(t, f.AddColor("Red"))
	assert.True(t, f.AddColor("red"))
	assert.Equal(t, []string{"Red", "red"}, f.Colors)
	assert.True(t, f.RemoveColor("Red"))
	assert.Equal(t, []string{"red"}, f.Colors)
}

func TestNormalize(t *testing.T) {
	f := &ProductForm{
		Name:   "  Saree ",
		Sizes:  []string{"S", "", "S", " M"},
		Images: []string{"a.jpg", " ", "b.jpg"},
	}
	f.Normalize()

	assert.Equal(t, "Saree", f.Name)
	assert.Equal(t, []string{"S", "M"}, f.Sizes)
	assert.Equal(t, []string{}, f.Colors)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, f.Images)
}

func TestMoveImage(t *testing.T) {
	f := &ProductForm{Images: []string{"a", "b", "c"}}

	assert.False(t, f.MoveImage(0, Left))
	assert.False(t, f.MoveImage(2, Right))
	assert.False(t, f.MoveImage(1, "up"))

	assert.True(t, f.MoveImage(0, Right))
	assert.Equal(t, []string{"b", "a", "c"}, f.Images)

	assert.True(t, f.MoveImage(2, Left))
	assert.Equal(t, []string{"b", "c", "a"}, f.Images)
}

func TestReorderImage(t *testing.T) {
	f := &ProductForm{Images: []string{"a", "b", "c", "d"}}

	assert.True(t, f.ReorderImage(0, 2))
	assert.Equal(t, []string{"b", "c", "a", "d"}, f.Images)

	assert.True(t, f.ReorderImage(3, 0))
	assert.Equal(t, []string{"d", "b", "c", "a"}, f.Images)

	assert.False(t, f.ReorderImage(1, 1))
	assert.False(t, f.ReorderImage(-1, 2))
	assert.False(t, f.ReorderImage(0, 4))
	assert.Len(t, f.Images, 4)
}

func TestRemoveAndAppendImages(t *testing.T) {
	f := &ProductForm{Images: []string{"a", "b"}}
	assert.True(t, f.RemoveImage(0))
	assert.False(t, f.RemoveImage(5))
	f.AppendImages("c", "d")
	assert.Equal(t, []string{"b", "c", "d"}, f.Images)
}

func TestValidate(t *testing.T) {
	categories := []models.Category{category("Women"), category("Men")}

	ok := &ProductForm{Name: "Saree", Category: "Women", Price: 0}
	assert.NoError(t, ok.Validate(categories))

	bad := &ProductForm{Name: "", Category: "women", Price: -1}
	err := bad.Validate(categories)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ae, _ := apperr.As(err)
	assert.Contains(t, ae.Fields, "name")
	assert.Contains(t, ae.Fields, "price")
	assert.Contains(t, ae.Fields, "category")

	variant := &ProductForm{Name: "Panjabi", Category: "Men", Variants: []VariantForm{{Price: -5}}}
	assert.ErrorIs(t, variant.Validate(categories), apperr.ErrValidation)
}

func TestProductKeepsVariantOrder(t *testing.T) {
	f := &ProductForm{
		Name:     "Kurta",
		Variants: []VariantForm{{Size: "S", Price: 10}, {Size: "M", Price: 12}},
	}
	p := f.Product("BDT")

	assert.Equal(t, "BDT", p.Currency)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, 0, p.Variants[0].Position)
	assert.Equal(t, "M", p.Variants[1].Size)
	assert.Equal(t, 1, p.Variants[1].Position)
	assert.NotNil(t, p.Sizes)
	assert.NotNil(t, p.Variants[0].Images)
}

func TestFromProductRoundTrip(t *testing.T) {
	p := models.Product{Name: "Lungi", Category: "Men", Price: 350, Variants: []models.Variant{{Size: "L", Price: 400}}}
	f := FromProduct(p)
	assert.Equal(t, "Lungi", f.Name)
	require.Len(t, f.Variants, 1)
	assert.Equal(t, 400.0, f.Variants[0].Price)
}

func TestCategoryEditor(t *testing.T) {
	women, men := category("Women"), category("Men")
	e := NewCategoryEditor([]models.Category{women, men})
	assert.Equal(t, StateViewing, e.State())

	require.NoError(t, e.Begin(women.ID))
	assert.Equal(t, StateEditing, e.State())
	assert.Equal(t, "Women", e.Value())

	e.SetValue(" MEN ")
	_, _, err := e.Commit()
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, StateEditing, e.State())

	// Renaming to its own name with different case is allowed.
	e.SetValue("women ")
	id, name, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, women.ID, id)
	assert.Equal(t, "women", name)
	assert.Equal(t, StateViewing, e.State())
}

func TestCategoryEditorOneRowAtATime(t *testing.T) {
	women, men := category("Women"), category("Men")
	e := NewCategoryEditor([]models.Category{women, men})

	require.NoError(t, e.Begin(women.ID))
	require.NoError(t, e.Begin(men.ID))
	assert.Equal(t, men.ID, e.EditingID())
	assert.Equal(t, "Men", e.Value())

	e.Cancel()
	assert.Equal(t, StateCancelled, e.State())
	_, _, err := e.Commit()
	assert.Error(t, err)

	assert.ErrorIs(t, e.Begin(uuid.New()), apperr.ErrNotFound)
}

func TestValidateNewCategory(t *testing.T) {
	categories := []models.Category{category("Straße")}

	_, err := ValidateNewCategory("STRASSE", categories)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = ValidateNewCategory("  ", categories)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	name, err := ValidateNewCategory(" Kids ", categories)
	require.NoError(t, err)
	assert.Equal(t, "Kids", name)
}

func TestCategoryNameLengthCountsCharacters(t *testing.T) {
	bengali := strings.Repeat("শা", 50)
	name, err := ValidateNewCategory(bengali, nil)
	require.NoError(t, err)
	assert.Equal(t, bengali, name)

	_, err = ValidateNewCategory(bengali+"ড়", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSelection(t *testing.T) {
	a, b, c := models.Product{}, models.Product{}, models.Product{}
	a.ID, b.ID, c.ID = uuid.New(), uuid.New(), uuid.New()

	s := NewSelection()
	s.Toggle(a.ID)
	assert.True(t, s.Contains(a.ID))
	s.Toggle(a.ID)
	assert.False(t, s.Contains(a.ID))

	visible := []models.Product{a, b}
	s.Toggle(c.ID)
	s.ToggleAll(visible)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, s.IDs())

	s.ToggleAll(visible)
	assert.Zero(t, s.Len())

	s.ToggleAll(nil)
	assert.Zero(t, s.Len())

	s.Toggle(c.ID)
	s.Toggle(a.ID)
	picked := s.Pick([]models.Product{a, b, c})
	require.Len(t, picked, 2)
	assert.Equal(t, a.ID, picked[0].ID)

	s.Clear()
	assert.Empty(t, s.IDs())
}

func TestSearchProducts(t *testing.T) {
	products := []models.Product{
		{Name: "Silk Saree", Category: "Women"},
		{Name: "Panjabi", Category: "Men"},
	}

	assert.Len(t, SearchProducts(products, ""), 2)
	got := SearchProducts(products, "MEN")
	require.Len(t, got, 2)
	got = SearchProducts(products, "silk")
	require.Len(t, got, 1)
	assert.Equal(t, "Silk Saree", got[0].Name)
}
