// internal/models/product.go
package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product.Category holds a category name by value. There is no foreign key:
// deleting a category leaves the label on existing products.
type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:255;not null"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Description string         `json:"description" gorm:"type:text"`
	IsNew       bool           `json:"isNew" gorm:"column:isNew;not null"`
	InStock     bool           `json:"inStock" gorm:"column:inStock;not null"`
	Currency    string         `json:"currency" gorm:"size:3;default:'BDT'"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int            `json:"stock" gorm:"default:0"`
	Sizes       pq.StringArray `json:"sizes" gorm:"type:text[]"`
	Colors      pq.StringArray `json:"colors" gorm:"type:text[]"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Variants []Variant `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type Variant struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	Size      string         `json:"size" gorm:"size:50"`
	Color     string         `json:"color" gorm:"size:50"`
	Price     float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int            `json:"stock" gorm:"default:0"`
	Images    pq.StringArray `json:"images" gorm:"type:text[]"`
	Position  int            `json:"-" gorm:"default:0"`
}

func (Variant) TableName() string {
	return "product_variants"
}

// Normalize replaces nil collections with empty ones and falls back to the
// first variant's images when the product carries none.
func (p *Product) Normalize() {
	if p.Sizes == nil {
		p.Sizes = pq.StringArray{}
	}
	if p.Colors == nil {
		p.Colors = pq.StringArray{}
	}
	if p.Variants == nil {
		p.Variants = []Variant{}
	}
	if p.Images == nil {
		if len(p.Variants) > 0 && p.Variants[0].Images != nil {
			p.Images = append(pq.StringArray{}, p.Variants[0].Images...)
		} else {
			p.Images = pq.StringArray{}
		}
	}
	for i := range p.Variants {
		if p.Variants[i].Images == nil {
			p.Variants[i].Images = pq.StringArray{}
		}
	}
}

// PriceRange renders the displayed price: the base price, or the min-max span of
// the variant prices when variants exist.
func (p *Product) PriceRange() string {
	if len(p.Variants) == 0 {
		return fmt.Sprintf("%.2f", p.Price)
	}
	lo, hi := p.Variants[0].Price, p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		lo = math.Min(lo, v.Price)
		hi = math.Max(hi, v.Price)
	}
	if lo == hi {
		return fmt.Sprintf("%.2f", lo)
	}
	return fmt.Sprintf("%.2f - %.2f", lo, hi)
}

// TotalStock is the sum of variant stock, or the base stock without variants.
func (p *Product) TotalStock() int {
	if len(p.Variants) == 0 {
		return p.Stock
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// Matches reports whether term is a case-insensitive substring of the name or
// the category label.
func (p *Product) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}
