// Package catalog is the read-only product lookup table behind the page.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New indexes products in display order. Duplicate or invalid products are rejected.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default is the catalog shipped with the storefront page.
func Default() *Catalog {
	price := decimal.RequireFromString("25.75")
	c, err := New([]domain.Product{
		{ID: "attire", Title: "Attire", Price: price, Image: "./assets/images/slide-1.jpg", Description: "Artisanal designs that make every day a feast"},
		{ID: "jewellry", Title: "Jewellry", Price: price, Image: "./assets/images/slide-2.jpg", Description: "Casual but Sophisticated pieces for every room in the house"},
		{ID: "lamp", Title: "Lamp", Price: price, Image: "./assets/images/slide-3.jpg", Description: "Makes the inside of room aesthetic"},
		{ID: "product1", Title: "Purse", Price: price, Image: "./assets/images/slide-4.jpg", Description: "Stylish and functional purse"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) List() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}
