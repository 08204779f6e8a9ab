package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, 280.0, cfg.Carousel.Step)
	assert.Equal(t, 1500*time.Millisecond, cfg.Carousel.TickPeriod)
	assert.Equal(t, time.Second, cfg.Carousel.SettleDelay)
	assert.Equal(t, 2.0, cfg.Carousel.DragFactor)
	assert.Equal(t, 2*time.Second, cfg.Notify.Visible)
	assert.Equal(t, 300*time.Millisecond, cfg.Notify.Fade)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: memory\ncarousel:\n  step: 300\n"), 0o600))
	t.Setenv("STOREFRONT_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 300.0, cfg.Carousel.Step)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREFRONT_STORE_BACKEND", "cookies")

	_, err := Load("")
	assert.ErrorContains(t, err, "unknown store backend")
}
