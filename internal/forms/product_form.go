// internal/forms/product_form.go
package forms

import (
	"strings"

	"github.com/lib/pq"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// ProductForm is the editable state of one product. Currency is not part of
// the form: it is always set from the catalog configuration.
type ProductForm struct {
	Name        string        `json:"name" validate:"required,max=255"`
	Category    string        `json:"category" validate:"required"`
	Description string        `json:"description"`
	IsNew       bool          `json:"isNew"`
	InStock     bool          `json:"inStock"`
	Price       float64       `json:"price" validate:"gte=0"`
	Stock       int           `json:"stock" validate:"gte=0"`
	Sizes       []string      `json:"sizes"`
	Colors      []string      `json:"colors"`
	Images      []string      `json:"images"`
	Variants    []VariantForm `json:"variants" validate:"dive"`
}

type VariantForm struct {
	Size   string   `json:"size" validate:"max=50"`
	Color  string   `json:"color" validate:"max=50"`
	Price  float64  `json:"price" validate:"gte=0"`
	Stock  int      `json:"stock" validate:"gte=0"`
	Images []string `json:"images"`
}

// FromProduct loads a stored product into a form for editing.
func FromProduct(p models.Product) *ProductForm {
	f := &ProductForm{
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		IsNew:       p.IsNew,
		InStock:     p.InStock,
		Price:       p.Price,
		Stock:       p.Stock,
		Sizes:       append([]string{}, p.Sizes...),
		Colors:      append([]string{}, p.Colors...),
		Images:      append([]string{}, p.Images...),
	}
	for _, v := range p.Variants {
		f.Variants = append(f.Variants, VariantForm{
			Size:   v.Size,
			Color:  v.Color,
			Price:  v.Price,
			Stock:  v.Stock,
			Images: append([]string{}, v.Images...),
		})
	}
	return f
}

// Normalize trims text fields and rebuilds the size and color lists through
// AddSize/AddColor so blanks and duplicates are dropped.
func (f *ProductForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Description = strings.TrimSpace(f.Description)

	sizes, colors := f.Sizes, f.Colors
	f.Sizes, f.Colors = []string{}, []string{}
	for _, s := range sizes {
		f.AddSize(s)
	}
	for _, c := range colors {
		f.AddColor(c)
	}

	images := f.Images[:0]
	for _, url := range f.Images {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	f.Images = images
	if f.Images == nil {
		f.Images = []string{}
	}
}

// AddSize appends a trimmed size label. Blank and already present labels are
// ignored; the return value reports whether the list changed.
func (f *ProductForm) AddSize(size string) bool {
	return addLabel(&f.Sizes, size)
}

func (f *ProductForm) RemoveSize(size string) bool {
	return removeLabel(&f.Sizes, size)
}

func (f *ProductForm) AddColor(color string) bool {
	return addLabel(&f.Colors, color)
}

func (f *ProductForm) RemoveColor(color string) bool {
	return removeLabel(&f.Colors, color)
}

func addLabel(list *[]string, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, existing := range *list {
		if existing == label {
			return false
		}
	}
	*list = append(*list, label)
	return true
}

func removeLabel(list *[]string, label string) bool {
	for i, existing := range *list {
		if existing == label {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// MoveImage swaps the image at index with its neighbour. Moving the first
// image left or the last image right is a no-op.
func (f *ProductForm) MoveImage(index int, dir Direction) bool {
	target := index - 1
	if dir == Right {
		target = index + 1
	} else if dir != Left {
		return false
	}
	if index < 0 || index >= len(f.Images) || target < 0 || target >= len(f.Images) {
		return false
	}
	f.Images[index], f.Images[target] = f.Images[target], f.Images[index]
	return true
}

// ReorderImage removes the image at from and reinserts it at to, the way a
// drag and drop lands it.
func (f *ProductForm) ReorderImage(from, to int) bool {
	n := len(f.Images)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	moved := f.Images[from]
	rest := append(append([]string{}, f.Images[:from]...), f.Images[from+1:]...)
	f.Images = append(rest[:to], append([]string{moved}, rest[to:]...)...)
	return true
}

func (f *ProductForm) RemoveImage(index int) bool {
	if index < 0 || index >= len(f.Images) {
		return false
	}
	f.Images = append(f.Images[:index], f.Images[index+1:]...)
	return true
}

func (f *ProductForm) AppendImages(urls ...string) {
	f.Images = append(f.Images, urls...)
}

// Validate checks the form before anything is sent to the store. The category
// must match the name of a loaded category exactly.
func (f *ProductForm) Validate(categories []models.Category) error {
	fields := make(map[string]string)
	for _, ve := range utils.GetValidationErrors(utils.ValidateStruct(f)) {
		fields[ve.Field] = ve.Message
	}

	if _, ok := fields["category"]; !ok {
		known := false
		for _, c := range categories {
			if c.Name == f.Category {
				known = true
				break
			}
		}
		if !known {
			fields["category"] = "Category must be one of the existing categories"
		}
	}

	if len(fields) > 0 {
		return apperr.ValidationErr("invalid product", fields)
	}
	return nil
}

// Product builds the row to persist. Variant positions follow form order.
func (f *ProductForm) Product(currency string) models.Product {
	p := models.Product{
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		IsNew:       f.IsNew,
		InStock:     f.InStock,
		Currency:    currency,
		Price:       f.Price,
		Stock:       f.Stock,
		Sizes:       pq.StringArray(nonNil(f.Sizes)),
		Colors:      pq.StringArray(nonNil(f.Colors)),
		Images:      pq.StringArray(nonNil(f.Images)),
		Variants:    make([]models.Variant, 0, len(f.Variants)),
	}
	for i, v := range f.Variants {
		p.Variants = append(p.Variants, models.Variant{
			Size:     strings.TrimSpace(v.Size),
			Color:    strings.TrimSpace(v.Color),
			Price:    v.Price,
			Stock:    v.Stock,
			Images:   pq.StringArray(nonNil(v.Images)),
			Position: i,
		})
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
