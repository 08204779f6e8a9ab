// Package quickview holds the product shown in the quick-view modal.
package quickview

import (
	"context"

	"storefront/internal/domain"
)

type cartAdder interface {
	Add(ctx context.Context, p domain.Product) error
}

type Service struct {
	cart    cartAdder
	current *domain.Product
}

func New(cart cartAdder) *Service {
	return &Service{cart: cart}
}

// Open shows p, replacing any product already on display.
func (s *Service) Open(p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.current = &p
	return nil
}

func (s *Service) Close() {
	s.current = nil
}

func (s *Service) Current() (domain.Product, bool) {
	if s.current == nil {
		return domain.Product{}, false
	}
	return *s.current, true
}

// AddToCart adds the open product. The modal stays open.
func (s *Service) AddToCart(ctx context.Context) error {
	if s.current == nil {
		return domain.ErrNotFound
	}
	return s.cart.Add(ctx, *s.current)
}
