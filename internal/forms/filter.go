// internal/forms/filter.go
package forms

import (
	"strings"

	"github.com/javajoker/catalog-admin/internal/models"
)

// Filter keeps the items for which keep returns true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SearchProducts is the list view filter: a case-insensitive substring match
// on name or category. A blank term keeps everything.
func SearchProducts(products []models.Product, term string) []models.Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return products
	}
	return Filter(products, func(p models.Product) bool { return p.Matches(term) })
}
