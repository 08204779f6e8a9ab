package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/clock"
)

func TestToasterAutoDismiss(t *testing.T) {
	m := clock.NewManual()
	toaster := NewToaster(m, 2*time.Second, 300*time.Millisecond)

	toaster.Notify("Added to cart")
	require.Len(t, toaster.Active(), 1)
	assert.Equal(t, "Added to cart", toaster.Active()[0].Message)
	assert.False(t, toaster.Active()[0].Fading)

	m.Advance(2 * time.Second)
	require.Len(t, toaster.Active(), 1)
	assert.True(t, toaster.Active()[0].Fading)

	m.Advance(300 * time.Millisecond)
	assert.Empty(t, toaster.Active())
	assert.Equal(t, 0, m.Pending())
}

func TestToasterStacksIndependently(t *testing.T) {
	m := clock.NewManual()
	toaster := NewToaster(m, 2*time.Second, 300*time.Millisecond)

	toaster.Notify("first")
	m.Advance(time.Second)
	toaster.Notify("second")
	m.Advance(1300 * time.Millisecond)

	active := toaster.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestToasterStop(t *testing.T) {
	m := clock.NewManual()
	toaster := NewToaster(m, 2*time.Second, 300*time.Millisecond)
	toaster.Notify("a")
	toaster.Notify("b")

	toaster.Stop()
	assert.Empty(t, toaster.Active())
	assert.Equal(t, 0, m.Pending())
}

func TestMultiAndLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var got []string
	n := Multi{Func(func(m string) { got = append(got, m) }), LogNotifier{Logger: zap.New(core)}, Nop{}}

	n.Notify("Added to wishlist")

	assert.Equal(t, []string{"Added to wishlist"}, got)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Added to wishlist", logs.All()[0].ContextMap()["message"])
}
