// Package session wires one page session: catalog, engines, carousels and
// the toaster, with every change re-projected into a render.Page.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/carousel"
	"storefront/internal/catalog"
	"storefront/internal/clock"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/notify"
	"storefront/internal/render"
	cartsvc "storefront/internal/service/cart"
	quickviewsvc "storefront/internal/service/quickview"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/store"
)

type Options struct {
	Catalog   *catalog.Catalog
	Store     *store.Adapter
	Scheduler clock.Scheduler
	Logger    *zap.Logger
	Metrics   *metrics.Metrics

	Carousels []string
	Carousel  carousel.Options

	ToastVisible time.Duration
	ToastFade    time.Duration
}

// Session is not safe for concurrent use; every call must come from the
// page event loop.
type Session struct {
	catalog   *catalog.Catalog
	logger    *zap.Logger
	toaster   *notify.Toaster
	cart      *cartsvc.Service
	wishlist  *wishlistsvc.Service
	quickview *quickviewsvc.Service
	carousels []*carousel.Controller
	byName    map[string]*carousel.Controller

	last     render.Page
	refreshN int
}

func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil || opts.Store == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("session: catalog, store and scheduler are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		catalog: opts.Catalog,
		logger:  logger,
		toaster: notify.NewToaster(opts.Scheduler, opts.ToastVisible, opts.ToastFade),
		byName:  make(map[string]*carousel.Controller),
	}
	notifier := notify.Multi{s.toaster, notify.LogNotifier{Logger: logger}}

	s.cart = cartsvc.New(ctx, opts.Store, cartsvc.Deps{
		Notifier: notifier,
		Logger:   logger.Named("cart"),
		Metrics:  opts.Metrics,
		OnChange: s.refresh,
	})
	s.wishlist = wishlistsvc.New(ctx, opts.Store, wishlistsvc.Deps{
		Notifier: notifier,
		Logger:   logger.Named("wishlist"),
		Metrics:  opts.Metrics,
		OnChange: s.refresh,
	})
	s.quickview = quickviewsvc.New(s.cart)

	for _, name := range opts.Carousels {
		if _, dup := s.byName[name]; dup {
			return nil, fmt.Errorf("session: duplicate carousel %q", name)
		}
		c := carousel.New(carousel.Config{
			Name:      name,
			Options:   opts.Carousel,
			Scheduler: opts.Scheduler,
			Display:   display{s},
			Logger:    logger.Named("carousel"),
			Metrics:   opts.Metrics,
		})
		s.carousels = append(s.carousels, c)
		s.byName[name] = c
	}

	s.refresh()
	return s, nil
}

// display re-projects the page whenever a carousel moves or its arrows change.
type display struct{ s *Session }

func (d display) ScrollTo(float64, bool)     { d.s.refresh() }
func (d display) ShowArrows(carousel.Arrows) { d.s.refresh() }

func (s *Session) refresh() {
	s.last = s.project()
	s.refreshN++
}

func (s *Session) project() render.Page {
	in := render.PageInput{
		Lines:    s.cart.Lines(),
		Products: s.catalog.List(),
		Wishlist: s.wishlist.IDs(),
		Toasts:   s.toaster.Active(),
	}
	if p, ok := s.quickview.Current(); ok {
		in.QuickView = &p
	}
	for _, c := range s.carousels {
		in.Carousels = append(in.Carousels, c.Snapshot())
	}
	return render.Project(in)
}

// Page projects the current state. Toasts expire on their own timers, so
// the projection is rebuilt rather than served from the last refresh.
func (s *Session) Page() render.Page {
	return s.project()
}

// LastRender is the page produced by the most recent refresh.
func (s *Session) LastRender() render.Page {
	return s.last
}

// RefreshCount counts refreshes since the session was built.
func (s *Session) RefreshCount() int {
	return s.refreshN
}

func (s *Session) product(id string) (domain.Product, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *Session) AddToCart(ctx context.Context, productID string) error {
	p, err := s.product(productID)
	if err != nil {
		return err
	}
	return s.cart.Add(ctx, p)
}

func (s *Session) RemoveFromCart(ctx context.Context, productID string) {
	s.cart.Remove(ctx, productID)
}

func (s *Session) SetQuantity(ctx context.Context, productID string, delta int) {
	s.cart.SetQuantity(ctx, productID, delta)
}

func (s *Session) ClearCart(ctx context.Context) {
	s.cart.Clear(ctx)
}

// Checkout reports whether the cart held anything.
func (s *Session) Checkout(ctx context.Context) bool {
	ok := s.cart.Checkout(ctx)
	s.refresh()
	return ok
}

func (s *Session) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	if _, err := s.product(productID); err != nil {
		return false, err
	}
	return s.wishlist.Toggle(ctx, productID)
}

func (s *Session) OpenQuickView(productID string) error {
	p, err := s.product(productID)
	if err != nil {
		return err
	}
	if err := s.quickview.Open(p); err != nil {
		return err
	}
	s.refresh()
	return nil
}

func (s *Session) CloseQuickView() {
	s.quickview.Close()
	s.refresh()
}

func (s *Session) QuickViewAddToCart(ctx context.Context) error {
	return s.quickview.AddToCart(ctx)
}

// Carousel looks a controller up by name.
func (s *Session) Carousel(name string) (*carousel.Controller, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Close stops every carousel timer and pending toast.
func (s *Session) Close() {
	for _, c := range s.carousels {
		c.Stop()
	}
	s.toaster.Stop()
	s.logger.Debug("session closed")
}
