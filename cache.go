package filecache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Cache binds entries to a Config and to the logging, observing and value
// shaping settings they share. It also owns the operations that act on the
// whole directory.
type Cache struct {
	config   *Config
	logger   zerolog.Logger
	observer Observer
	shape    shaper
	initErr  error
}

// NewCache builds a cache from functional options.
//
// Example: isolated cache
//
//	cfg := filecache.NewConfig()
//	_ = cfg.Set(map[string]any{"directory": "/tmp/app-cache"})
//	c := filecache.NewCache(filecache.WithConfig(cfg))
//	n, _ := c.CountAll()
//	fmt.Println(n) // 0
func NewCache(opts ...Option) *Cache {
	var cfg CacheConfig
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return NewCacheWithConfig(cfg)
}

// NewCacheWithConfig builds a cache from an explicit CacheConfig.
// An invalid encryption key does not fail construction; it is reported by
// Ready and by every read and write.
func NewCacheWithConfig(cfg CacheConfig) *Cache {
	cfg = cfg.withDefaults()
	c := &Cache{
		config:   cfg.Config,
		logger:   *cfg.Logger,
		observer: cfg.Observer,
		shape: shaper{
			codec: cfg.Compression,
			max:   cfg.MaxValueBytes,
		},
	}
	switch cfg.Compression {
	case CompressionNone, CompressionGzip, CompressionSnappy:
	default:
		c.initErr = fmt.Errorf("%w: %q", ErrUnsupportedCodec, cfg.Compression)
	}
	aead, err := newAEAD(cfg.EncryptionKey)
	if err != nil && c.initErr == nil {
		c.initErr = err
	}
	c.shape.aead = aead
	return c
}

var defaultCache = NewCache()

// Default returns the cache bound to the process-wide configuration.
func Default() *Cache {
	return defaultCache
}

// Config returns the configuration the cache reads its directory and expiry from.
func (c *Cache) Config() *Config {
	return c.config
}

// Ready reports a construction problem such as an invalid encryption key.
func (c *Cache) Ready() error {
	return c.initErr
}

// Entry returns the entry for key. The key must contain a non-whitespace
// character. The cache directory is created if it does not exist yet.
func (c *Cache) Entry(key string) (*Entry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrInvalidKey
	}
	if err := c.config.EnsureDirectoryExists(); err != nil {
		return nil, err
	}
	return &Entry{key: key, cache: c}, nil
}

// New returns the entry for key in the default cache.
//
// Example: store and read back
//
//	entry, _ := filecache.New("greeting")
//	_ = entry.PutInCache("hello")
//	v, _ := entry.CachedData()
//	fmt.Println(v) // hello
func New(key string) (*Entry, error) {
	return defaultCache.Entry(key)
}

// ClearAll removes every regular file directly inside the cache directory.
// Subdirectories and the directory itself are left alone, and a missing
// directory is not an error. Removal continues past failures; all of them
// are returned joined under ErrWrite.
func (c *Cache) ClearAll() error {
	start := time.Now()
	dir := c.config.Directory()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.observe(OpClearAll, "", false, nil, start)
			return nil
		}
		err = fmt.Errorf("%w: list %s: %w", ErrWrite, dir, err)
		c.observe(OpClearAll, "", false, err, start)
		return err
	}

	var failures []error
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := removeFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn().Err(err).Str("path", path).Msg("failed to remove cache file")
			failures = append(failures, err)
			continue
		}
		removed++
	}
	c.logger.Debug().Str("dir", dir).Int("removed", removed).Msg("cache cleared")

	if len(failures) > 0 {
		err = fmt.Errorf("%w: clear %s: %w", ErrWrite, dir, errors.Join(failures...))
	}
	c.observe(OpClearAll, "", removed > 0, err, start)
	return err
}

// CountAll returns the number of regular files directly inside the cache
// directory, read from disk on every call. A missing directory counts as zero.
func (c *Cache) CountAll() (int, error) {
	start := time.Now()
	entries, err := c.list()
	if err != nil {
		c.observe(OpCountAll, "", false, err, start)
		return 0, err
	}
	n := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			n++
		}
	}
	c.observe(OpCountAll, "", n > 0, nil, start)
	return n, nil
}

// Stats summarizes the files in a cache directory.
type Stats struct {
	Directory string
	Files     int
	Bytes     int64
	Expired   int
}

// Stats walks the cache directory once. Files removed during the walk are skipped.
func (c *Cache) Stats() (Stats, error) {
	st := Stats{Directory: c.config.Directory()}
	entries, err := c.list()
	if err != nil {
		return st, err
	}
	ttl := c.config.Expiry()
	now := time.Now()
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return st, fmt.Errorf("%w: stat %s: %w", ErrRead, entry.Name(), err)
		}
		st.Files++
		st.Bytes += info.Size()
		if now.Sub(info.ModTime()) > ttl {
			st.Expired++
		}
	}
	return st, nil
}

func (c *Cache) list() ([]os.DirEntry, error) {
	dir := c.config.Directory()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %w", ErrRead, dir, err)
	}
	return entries, nil
}

func (c *Cache) observe(op, key string, hit bool, err error, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.OnCacheOp(op, key, hit, err, time.Since(start))
}

// ClearAll removes every entry of the default cache.
func ClearAll() error {
	return defaultCache.ClearAll()
}

// CountAll counts the entries of the default cache.
func CountAll() (int, error) {
	return defaultCache.CountAll()
}
