package cachetest

import (
	"testing"

	"github.com/goforj/filecache"
)

// NewConfig returns a Config whose directory is a fresh t.TempDir().
func NewConfig(t testing.TB) *filecache.Config {
	t.Helper()
	cfg := filecache.NewConfig()
	if err := cfg.Set(map[string]any{filecache.OptionDirectory: t.TempDir()}); err != nil {
		t.Fatalf("set directory: %v", err)
	}
	return cfg
}

// New returns a cache bound to NewConfig(t). opts are applied after the
// config option, so a WithConfig among them wins.
func New(t testing.TB, opts ...filecache.Option) *filecache.Cache {
	t.Helper()
	all := append([]filecache.Option{filecache.WithConfig(NewConfig(t))}, opts...)
	c := filecache.NewCache(all...)
	if err := c.Ready(); err != nil {
		t.Fatalf("cache not ready: %v", err)
	}
	return c
}

// MustEntry returns the entry for key or fails the test.
func MustEntry(t testing.TB, c *filecache.Cache, key string) *filecache.Entry {
	t.Helper()
	entry, err := c.Entry(key)
	if err != nil {
		t.Fatalf("entry %q: %v", key, err)
	}
	return entry
}
