package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type failingBackend struct {
	getErr error
	setErr error
	raw    []byte
}

func (f *failingBackend) Get(context.Context, string, string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.raw, nil
}

func (f *failingBackend) Set(context.Context, string, string, []byte) error {
	return f.setErr
}

func (f *failingBackend) Ping(context.Context) error { return f.getErr }

func (f *failingBackend) Close() error { return nil }

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), "http://localhost")

	require.NoError(t, a.Save(ctx, "wishlist", []string{"lamp", "attire"}))

	var got []string
	require.NoError(t, a.Load(ctx, "wishlist", &got))
	assert.Equal(t, []string{"lamp", "attire"}, got)
}

func TestAdapterSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), "o")

	require.NoError(t, a.Save(ctx, "wishlist", []string{"lamp"}))
	require.NoError(t, a.Save(ctx, "wishlist", []string{}))

	var got []string
	require.NoError(t, a.Load(ctx, "wishlist", &got))
	assert.Empty(t, got)
}

func TestAdapterLoadMissing(t *testing.T) {
	a := NewAdapter(NewMemory(), "o")
	var got []string
	err := a.Load(context.Background(), "cart", &got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdapterLoadMalformed(t *testing.T) {
	a := NewAdapter(&failingBackend{raw: []byte(`{"not":"a list"`)}, "o")
	got := []string{"untouched"}
	err := a.Load(context.Background(), "wishlist", &got)
	assert.ErrorIs(t, err, domain.ErrMalformedState)
	assert.Equal(t, []string{"untouched"}, got)
}

func TestAdapterLoadBackendFailure(t *testing.T) {
	a := NewAdapter(&failingBackend{getErr: errors.New("disk gone")}, "o")
	var got []string
	err := a.Load(context.Background(), "cart", &got)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestAdapterSaveFailures(t *testing.T) {
	ctx := context.Background()

	quota := NewAdapter(&failingBackend{setErr: errors.New("quota exceeded")}, "o")
	err := quota.Save(ctx, "cart", []string{"x"})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorContains(t, err, "quota exceeded")

	encode := NewAdapter(NewMemory(), "o")
	err = encode.Save(ctx, "cart", map[string]any{"bad": make(chan int)})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestMemoryIsolatesOrigins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, NewAdapter(m, "a").Save(ctx, "wishlist", []string{"lamp"}))

	var got []string
	err := NewAdapter(m, "b").Load(ctx, "wishlist", &got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdapterLoadMalformedLeavesStructUntouched(t *testing.T) {
	type doc struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	a := NewAdapter(&failingBackend{raw: []byte(`{"a":"partial","b":"nan"}`)}, "o")
	got := doc{A: "keep", B: 7}
	err := a.Load(context.Background(), "doc", &got)
	assert.ErrorIs(t, err, domain.ErrMalformedState)
	assert.Equal(t, doc{A: "keep", B: 7}, got)
}

func TestAdapterLoadRejectsNonPointer(t *testing.T) {
	a := NewAdapter(&failingBackend{raw: []byte(`[]`)}, "o")
	var got []string
	assert.Error(t, a.Load(context.Background(), "cart", got))
}

func TestAdapterPing(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, NewAdapter(NewMemory(), "o").Ping(ctx))

	err := NewAdapter(&failingBackend{getErr: errors.New("conn refused")}, "o").Ping(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
