package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"storefront/internal/domain"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// File stores one document per key under <dir>/<origin-slug>-<hash>/<key>.json.
type File struct {
	fs  afero.Fs
	dir string
}

func NewFile(fs afero.Fs, dir string) *File {
	return &File{fs: fs, dir: dir}
}

func (f *File) path(origin, key string) string {
	return filepath.Join(f.dir, originDir(origin), slug(key)+".json")
}

// originDir keeps the readable slug and appends a short hash of the raw
// origin, since different origins can share a slug.
func originDir(origin string) string {
	sum := sha256.Sum256([]byte(origin))
	return slug(origin) + "-" + hex.EncodeToString(sum[:4])
}

func slug(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "_"
	}
	return s
}

func (f *File) Get(_ context.Context, origin, key string) ([]byte, error) {
	raw, err := afero.ReadFile(f.fs, f.path(origin, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

// Set writes to a temp file and renames it over the target so a crash never
// leaves a half-written document.
func (f *File) Set(_ context.Context, origin, key string, value []byte) error {
	target := f.path(origin, key)
	if err := f.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp := target + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.fs.Rename(tmp, target); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Ping checks that the data directory can be created.
func (f *File) Ping(context.Context) error {
	return f.fs.MkdirAll(f.dir, 0o755)
}

func (f *File) Close() error {
	return nil
}
