// Package store persists named JSON documents per origin, the way a browser
// keeps localStorage entries.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"storefront/internal/domain"
)

// Backend reads and writes raw documents. Get returns domain.ErrNotFound for
// a missing key.
type Backend interface {
	Get(ctx context.Context, origin, key string) ([]byte, error)
	Set(ctx context.Context, origin, key string, value []byte) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Adapter encodes values for one origin.
type Adapter struct {
	backend Backend
	origin  string
}

func NewAdapter(backend Backend, origin string) *Adapter {
	return &Adapter{backend: backend, origin: origin}
}

func (a *Adapter) Origin() string {
	return a.origin
}

// Load decodes the document stored under key into dst. The returned error is
// one of domain.ErrNotFound, domain.ErrMalformedState or
// domain.ErrStorageUnavailable (possibly wrapped). dst must be a pointer and
// is only written on success.
func (a *Adapter) Load(ctx context.Context, key string, dst any) error {
	raw, err := a.backend.Get(ctx, a.origin, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: get %q: %v", domain.ErrStorageUnavailable, key, err)
	}
	if len(raw) == 0 {
		return domain.ErrNotFound
	}
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("load %q: destination must be a non-nil pointer", key)
	}
	tmp := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		return fmt.Errorf("%w: decode %q: %v", domain.ErrMalformedState, key, err)
	}
	target.Elem().Set(tmp.Elem())
	return nil
}

// Save overwrites key with the JSON encoding of value.
func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", domain.ErrStorageUnavailable, key, err)
	}
	if err := a.backend.Set(ctx, a.origin, key, raw); err != nil {
		return fmt.Errorf("%w: set %q: %v", domain.ErrStorageUnavailable, key, err)
	}
	return nil
}

// Ping checks the backend, for readiness probes.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.backend.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
