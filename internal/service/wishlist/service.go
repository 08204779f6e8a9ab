package wishlist

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/notify"
)

const StoreKey = "wishlist"

const (
	msgAdded      = "Added to wishlist"
	msgRemoved    = "Removed from wishlist"
	msgSaveFailed = "Wishlist could not be saved"
)

type store interface {
	Load(ctx context.Context, key string, dst any) error
	Save(ctx context.Context, key string, value any) error
}

type Deps struct {
	Notifier notify.Notifier
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	OnChange func()
}

// Service holds the set of wishlisted product ids. Toggle is the only mutator.
type Service struct {
	store     store
	notifier  notify.Notifier
	logger    *zap.Logger
	metrics   *metrics.Metrics
	onChange  func()
	ids       []string
	members   map[string]struct{}
	saveFails bool
}

func New(ctx context.Context, st store, deps Deps) *Service {
	s := &Service{
		store:    st,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		onChange: deps.OnChange,
		members:  make(map[string]struct{}),
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.load(ctx)
	return s
}

func (s *Service) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Service) load(ctx context.Context) {
	var ids []string
	if err := s.store.Load(ctx, StoreKey, &ids); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("wishlist reset to empty", zap.Error(err))
			s.metrics.StorageFailure(StoreKey, "load")
		}
		return
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" || s.Contains(id) {
			continue
		}
		s.ids = append(s.ids, id)
		s.members[id] = struct{}{}
	}
}

// Toggle adds id when absent and removes it when present, then persists.
func (s *Service) Toggle(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, domain.ErrInvalidProduct
	}

	added := !s.Contains(id)
	if added {
		s.ids = append(s.ids, id)
		s.members[id] = struct{}{}
	} else {
		delete(s.members, id)
		for i, cur := range s.ids {
			if cur == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
	s.metrics.WishlistToggle(added)

	newlyFailing := s.persist(ctx)
	if s.onChange != nil {
		s.onChange()
	}
	if added {
		s.notifier.Notify(msgAdded)
	} else {
		s.notifier.Notify(msgRemoved)
	}
	if newlyFailing {
		s.notifier.Notify(msgSaveFailed)
	}
	return added, nil
}

func (s *Service) persist(ctx context.Context) bool {
	snapshot := s.IDs()
	if err := s.store.Save(ctx, StoreKey, snapshot); err != nil {
		s.metrics.StorageFailure(StoreKey, "save")
		s.logger.Error("save wishlist", zap.Error(err))
		newlyFailing := !s.saveFails
		s.saveFails = true
		return newlyFailing
	}
	s.saveFails = false
	return false
}

func (s *Service) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// IDs returns the wishlisted ids in the order they were added.
func (s *Service) IDs() []string {
	return append([]string{}, s.ids...)
}

func (s *Service) Len() int {
	return len(s.ids)
}
