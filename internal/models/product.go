package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category classifies a product on the ordering screen
type Category string

const (
	CategoryTradicional    Category = "tradicional"
	CategoryAcompanhamento Category = "acompanhamento"
	CategoryEspecial       Category = "especial"
	CategoryDoce           Category = "doce"
	CategoryBebida         Category = "bebida"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryTradicional,
	CategoryAcompanhamento,
	CategoryEspecial,
	CategoryDoce,
	CategoryBebida,
}

var categoryLabels = map[Category]string{
	CategoryTradicional:    "Sabores Tradicionais",
	CategoryAcompanhamento: "Acompanhamentos",
	CategoryEspecial:       "Sabores Especiais",
	CategoryDoce:           "Sabores Doces",
	CategoryBebida:         "Bebidas",
}

// Label returns the human readable name shown on the ordering UI
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Product represents a catalog entry
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category Category        `json:"category"`
	Quantity int             `json:"quantity"`
}

// Validate checks the product fields that the database cannot enforce portably
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("product quantity must not be negative")
	}
	return nil
}

// CategoryGroup is the set of products shown under one category heading
type CategoryGroup struct {
	Category Category  `json:"category"`
	Label    string    `json:"label"`
	Products []Product `json:"products"`
}
