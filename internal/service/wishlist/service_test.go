package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/notify"
)

type stubStore struct {
	loadRaw  string
	loadErr  error
	saveErr  error
	saves    int
	lastSave []string
	events   *[]string
}

func (s *stubStore) Load(_ context.Context, _ string, dst any) error {
	if s.loadErr != nil {
		return s.loadErr
	}
	if s.loadRaw == "" {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal([]byte(s.loadRaw), dst); err != nil {
		return errors.Join(domain.ErrMalformedState, err)
	}
	return nil
}

func (s *stubStore) Save(_ context.Context, _ string, value any) error {
	s.saves++
	if s.events != nil {
		*s.events = append(*s.events, "save")
	}
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lastSave = value.([]string)
	return nil
}

func newService(st *stubStore) (*Service, *[]string, *[]string) {
	var messages, events []string
	st.events = &events
	svc := New(context.Background(), st, Deps{
		Notifier: notify.Func(func(m string) {
			messages = append(messages, m)
			events = append(events, "notify")
		}),
		OnChange: func() { events = append(events, "refresh") },
	})
	return svc, &messages, &events
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	st := &stubStore{}
	svc, messages, _ := newService(st)
	ctx := context.Background()

	added, err := svc.Toggle(ctx, "jewellry")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, svc.Contains("jewellry"))
	assert.Equal(t, []string{"jewellry"}, st.lastSave)

	added, err = svc.Toggle(ctx, "jewellry")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, svc.Contains("jewellry"))
	assert.Equal(t, 0, svc.Len())
	assert.Equal(t, []string{}, st.lastSave)

	assert.Equal(t, []string{"Added to wishlist", "Removed from wishlist"}, *messages)
	assert.Equal(t, 2, st.saves)
}

func TestToggleOrder(t *testing.T) {
	svc, _, events := newService(&stubStore{})
	_, err := svc.Toggle(context.Background(), "lamp")
	require.NoError(t, err)
	assert.Equal(t, []string{"save", "refresh", "notify"}, *events)
}

func TestToggleBlankIDIgnored(t *testing.T) {
	st := &stubStore{}
	svc, messages, _ := newService(st)

	_, err := svc.Toggle(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	assert.Equal(t, 0, st.saves)
	assert.Empty(t, *messages)
}

func TestToggleKeepsOtherIDs(t *testing.T) {
	svc, _, _ := newService(&stubStore{})
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.Toggle(ctx, id)
		require.NoError(t, err)
	}
	_, err := svc.Toggle(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, svc.IDs())
}

func TestLoadDropsDuplicatesAndBlanks(t *testing.T) {
	svc, _, _ := newService(&stubStore{loadRaw: `["lamp","","lamp","attire"]`})
	assert.Equal(t, []string{"lamp", "attire"}, svc.IDs())
}

func TestMalformedWishlistStartsEmpty(t *testing.T) {
	for name, st := range map[string]*stubStore{
		"object":      {loadRaw: `{"lamp":true}`},
		"numbers":     {loadRaw: `[1,2]`},
		"truncated":   {loadRaw: `["lamp"`},
		"unavailable": {loadErr: domain.ErrStorageUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newService(st)
			assert.Equal(t, 0, svc.Len())
		})
	}
}

func TestSaveFailureStillToggles(t *testing.T) {
	st := &stubStore{saveErr: domain.ErrStorageUnavailable}
	svc, messages, _ := newService(st)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "lamp")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "attire")
	require.NoError(t, err)

	assert.True(t, svc.Contains("lamp"))
	assert.Equal(t, []string{"Added to wishlist", "Wishlist could not be saved", "Added to wishlist"}, *messages)
}
