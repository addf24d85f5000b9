package model

import "github.com/shopspring/decimal"

// Product represents an item in the shop catalogue.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Exclusive bool            `json:"exclusive"`
	Category  *string         `json:"category,omitempty"`
}

// InCategory reports whether the product belongs to the named category.
func (p Product) InCategory(category string) bool {
	return p.Category != nil && *p.Category == category
}

func (p Product) String() string {
	s := p.ID + ": " + p.Name + " - $" + p.Price.StringFixed(2)
	if p.Category != nil {
		s += " [" + *p.Category + "]"
	}
	if p.Exclusive {
		s += " (exclusive)"
	}
	return s
}
