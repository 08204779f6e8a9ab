package domain

import "github.com/shopspring/decimal"

// CartLine is a product copied by value plus the quantity in the cart.
type CartLine struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
}

func NewCartLine(p Product) CartLine {
	return CartLine{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Quantity:    1,
	}
}

func (l CartLine) Product() Product {
	return Product{
		ID:          l.ID,
		Title:       l.Title,
		Price:       l.Price,
		Image:       l.Image,
		Description: l.Description,
	}
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
