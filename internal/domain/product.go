package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted records keep prices as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// Validate reports ErrInvalidProduct for a blank id or a negative price.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProduct
	}
	if p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}
