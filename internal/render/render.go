// Package render projects engine state into the view model the page host
// draws. Projection is pure: the same input always yields the same page.
package render

import (
	"github.com/shopspring/decimal"

	"storefront/internal/carousel"
	"storefront/internal/domain"
	"storefront/internal/notify"
)

const (
	IconWishlisted = "heart"
	IconWishlist   = "heart-outline"
)

type PageInput struct {
	Lines     []domain.CartLine
	Products  []domain.Product
	Wishlist  []string
	QuickView *domain.Product
	Toasts    []notify.Toast
	Carousels []carousel.Snapshot
}

type Page struct {
	Cart          CartView            `json:"cart"`
	Products      []ProductCard       `json:"products"`
	WishlistCount int                 `json:"wishlistCount"`
	QuickView     *QuickViewPanel     `json:"quickView,omitempty"`
	Toasts        []notify.Toast      `json:"toasts"`
	Carousels     []carousel.Snapshot `json:"carousels"`
}

type CartView struct {
	Empty     bool       `json:"empty"`
	Lines     []LineView `json:"lines"`
	Subtotal  string     `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
	// ShowBadge is false when the cart holds nothing.
	ShowBadge bool `json:"showBadge"`
}

type LineView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

type ProductCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Wishlisted  bool   `json:"wishlisted"`
	Icon        string `json:"icon"`
	InCart      int    `json:"inCart"`
}

type QuickViewPanel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// FormatCurrency renders an amount with exactly two decimals.
func FormatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func Project(in PageInput) Page {
	page := Page{
		Cart:          projectCart(in.Lines),
		Products:      make([]ProductCard, 0, len(in.Products)),
		WishlistCount: len(in.Wishlist),
		Toasts:        append([]notify.Toast{}, in.Toasts...),
		Carousels:     append([]carousel.Snapshot{}, in.Carousels...),
	}

	wished := make(map[string]bool, len(in.Wishlist))
	for _, id := range in.Wishlist {
		wished[id] = true
	}
	inCart := make(map[string]int, len(in.Lines))
	for _, l := range in.Lines {
		inCart[l.ID] = l.Quantity
	}
	for _, p := range in.Products {
		card := ProductCard{
			ID:          p.ID,
			Title:       p.Title,
			Price:       FormatCurrency(p.Price),
			Image:       p.Image,
			Description: p.Description,
			Wishlisted:  wished[p.ID],
			Icon:        IconWishlist,
			InCart:      inCart[p.ID],
		}
		if card.Wishlisted {
			card.Icon = IconWishlisted
		}
		page.Products = append(page.Products, card)
	}

	if p := in.QuickView; p != nil {
		page.QuickView = &QuickViewPanel{
			ID:          p.ID,
			Title:       p.Title,
			Price:       FormatCurrency(p.Price),
			Image:       p.Image,
			Description: p.Description,
		}
	}
	return page
}

func projectCart(lines []domain.CartLine) CartView {
	view := CartView{Lines: make([]LineView, 0, len(lines))}
	subtotal := decimal.Zero
	for _, l := range lines {
		total := l.LineTotal()
		subtotal = subtotal.Add(total)
		view.ItemCount += l.Quantity
		view.Lines = append(view.Lines, LineView{
			ID:       l.ID,
			Title:    l.Title,
			Image:    l.Image,
			Quantity: l.Quantity,
			Price:    FormatCurrency(l.Price),
			Total:    FormatCurrency(total),
		})
	}
	view.Subtotal = FormatCurrency(subtotal)
	view.Empty = view.ItemCount == 0
	view.ShowBadge = view.ItemCount > 0
	return view
}
