// Package cart is the cart engine: an ordered list of lines with quantity
// arithmetic, mirrored to the store after every mutation.
package cart

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/notify"
)

// StoreKey is the record the cart is persisted under.
const StoreKey = "cart"

const (
	msgAdded      = "Added to cart"
	msgEmpty      = "Your cart is empty"
	msgCheckout   = "Proceeding to checkout..."
	msgSaveFailed = "Cart could not be saved"
)

type cartStore interface {
	Load(ctx context.Context, key string, dst any) error
	Save(ctx context.Context, key string, value any) error
}

type Deps struct {
	Notifier notify.Notifier
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// OnChange runs after every persisted mutation.
	OnChange func()
}

// Service is not safe for concurrent use; the page event loop serializes calls.
type Service struct {
	store     cartStore
	notifier  notify.Notifier
	logger    *zap.Logger
	metrics   *metrics.Metrics
	onChange  func()
	lines     []domain.CartLine
	saveFails bool
}

// New loads the persisted cart. Missing or malformed data starts an empty cart.
func New(ctx context.Context, st cartStore, deps Deps) *Service {
	s := &Service{
		store:    st,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		onChange: deps.OnChange,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.lines = s.load(ctx)
	return s
}

// SetOnChange replaces the refresh callback.
func (s *Service) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Service) load(ctx context.Context) []domain.CartLine {
	var lines []domain.CartLine
	err := s.store.Load(ctx, StoreKey, &lines)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		s.logger.Warn("cart reset to empty", zap.Error(err))
		s.metrics.StorageFailure(StoreKey, "load")
		return nil
	}
	if err := validLines(lines); err != nil {
		s.logger.Warn("cart reset to empty", zap.Error(err))
		s.metrics.StorageFailure(StoreKey, "load")
		return nil
	}
	return lines
}

func validLines(lines []domain.CartLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if err := l.Product().Validate(); err != nil {
			return errors.Join(domain.ErrMalformedState, err)
		}
		if l.Quantity < 1 {
			return errors.Join(domain.ErrMalformedState, errors.New("non-positive quantity"))
		}
		if _, dup := seen[l.ID]; dup {
			return errors.Join(domain.ErrMalformedState, errors.New("duplicate line "+l.ID))
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

// Add increments the line for p, or appends a new line with quantity 1.
func (s *Service) Add(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		s.logger.Debug("ignored invalid product", zap.String("product_id", p.ID))
		return err
	}
	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity = addQuantity(s.lines[i].Quantity, 1)
	} else {
		s.lines = append(s.lines, domain.NewCartLine(p))
	}
	s.commit(ctx, "add")
	s.notifier.Notify(msgAdded)
	return nil
}

// Remove deletes the line for id. Removing an absent id changes nothing.
func (s *Service) Remove(ctx context.Context, id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.commit(ctx, "remove")
}

// SetQuantity adds delta to the line's quantity, removing the line when the
// result is not positive. Unknown ids are ignored.
func (s *Service) SetQuantity(ctx context.Context, id string, delta int) {
	i := s.index(id)
	if i < 0 || delta == 0 {
		return
	}
	q := addQuantity(s.lines[i].Quantity, delta)
	if q <= 0 {
		s.Remove(ctx, id)
		return
	}
	s.lines[i].Quantity = q
	s.commit(ctx, "quantity")
}

// addQuantity saturates at math.MaxInt instead of wrapping. q is always
// positive, so only a positive delta can overflow.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}

func (s *Service) Clear(ctx context.Context) {
	s.lines = nil
	s.commit(ctx, "clear")
}

// Checkout announces the next step. It reports false for an empty cart.
func (s *Service) Checkout(_ context.Context) bool {
	if s.ItemCount() == 0 {
		s.notifier.Notify(msgEmpty)
		return false
	}
	s.notifier.Notify(msgCheckout)
	return true
}

// commit persists the full snapshot, then refreshes the view. A save failure
// is announced once per failing streak, after the refresh.
func (s *Service) commit(ctx context.Context, op string) {
	s.metrics.CartMutation(op)
	newlyFailing := s.persist(ctx)
	if s.onChange != nil {
		s.onChange()
	}
	if newlyFailing {
		s.notifier.Notify(msgSaveFailed)
	}
}

func (s *Service) persist(ctx context.Context) bool {
	snapshot := s.lines
	if snapshot == nil {
		snapshot = []domain.CartLine{}
	}
	if err := s.store.Save(ctx, StoreKey, snapshot); err != nil {
		s.metrics.StorageFailure(StoreKey, "save")
		s.logger.Error("save cart", zap.Error(err), zap.Int("lines", len(snapshot)))
		newlyFailing := !s.saveFails
		s.saveFails = true
		return newlyFailing
	}
	if s.saveFails {
		s.logger.Info("cart saved after earlier failures")
	}
	s.saveFails = false
	return false
}

func (s *Service) index(id string) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// Lines returns a copy of the lines in first-add order.
func (s *Service) Lines() []domain.CartLine {
	return append([]domain.CartLine(nil), s.lines...)
}

func (s *Service) Line(id string) (domain.CartLine, bool) {
	if i := s.index(id); i >= 0 {
		return s.lines[i], true
	}
	return domain.CartLine{}, false
}

// ItemCount is the sum of quantities, computed on each call.
func (s *Service) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price×quantity, computed on each call.
func (s *Service) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Unsaved reports whether the last save failed.
func (s *Service) Unsaved() bool {
	return s.saveFails
}
