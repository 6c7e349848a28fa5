package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string
	Name           string
	Description    string
	Price          decimal.Decimal
	Category       string
	ImageURL       string
	AvailableSizes []string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasSize reports whether size is one of the product's offered variants.
func (p Product) HasSize(size string) bool {
	for _, s := range p.AvailableSizes {
		if s == size {
			return true
		}
	}
	return false
}
