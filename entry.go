package filecache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

const fileExt = ".cache"

// Entry is one cached value, identified by its key. It holds no open files
// between calls; the backing file belongs to the filesystem.
type Entry struct {
	key   string
	cache *Cache
}

// Key returns the key the entry was created with.
func (e *Entry) Key() string {
	return e.key
}

// FilePath returns the path of the entry's file under the current directory option.
func (e *Entry) FilePath() string {
	return e.cache.config.Directory() + fileName(e.key)
}

func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + fileExt
}

// PutInCache encodes value and writes it to the entry's file, replacing any
// previous value and resetting the file's age.
//
// Example: cache an ordered mapping
//
//	entry, _ := filecache.New("profile")
//	_ = entry.PutInCache(filecache.MapOf("foo", "Bar", "hello", "World"))
func (e *Entry) PutInCache(value any) error {
	start := time.Now()
	path := e.FilePath()
	if err := e.cache.Ready(); err != nil {
		return e.done(OpPut, false, fmt.Errorf("%w: %w", ErrWrite, err), start)
	}
	data, err := e.cache.shape.encode(value)
	if err != nil {
		return e.done(OpPut, false, fmt.Errorf("%w: encode %q: %w", ErrWrite, e.key, err), start)
	}
	if err := e.cache.config.EnsureDirectoryExists(); err != nil {
		return e.done(OpPut, false, err, start)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return e.done(OpPut, false, fmt.Errorf("%w: %s: %w", ErrWrite, path, err), start)
	}
	e.cache.logger.Debug().Str("key", e.key).Str("path", path).Int("bytes", len(data)).Msg("cache entry written")
	return e.done(OpPut, false, nil, start)
}

// CachedData reads the entry's value. Mappings come back as Map, signed
// integers as int64, unsigned integers as uint64, floats as float64 and byte
// slices as []byte. A nil Map reads back as nil. Use Decode for a typed target.
func (e *Entry) CachedData() (any, error) {
	var v any
	if err := e.decode(OpGet, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode reads the entry's value into v, which must be a non-nil pointer.
func (e *Entry) Decode(v any) error {
	return e.decode(OpDecode, v)
}

// Value reads an entry's value as T.
//
// Example: typed read
//
//	entry, _ := filecache.New("limits")
//	_ = entry.PutInCache(map[string]int{"rps": 50})
//	limits, _ := filecache.Value[map[string]int](entry)
//	fmt.Println(limits["rps"]) // 50
func Value[T any](e *Entry) (T, error) {
	var out T
	if err := e.Decode(&out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (e *Entry) decode(op string, v any) error {
	start := time.Now()
	payload, err := e.read()
	if err != nil {
		return e.done(op, false, err, start)
	}
	if err := unmarshalValue(payload, v); err != nil {
		return e.done(op, false, fmt.Errorf("%w: decode %q: %w", ErrRead, e.key, err), start)
	}
	return e.done(op, true, nil, start)
}

func (e *Entry) read() ([]byte, error) {
	if err := e.cache.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	path := e.FilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	payload, err := e.cache.shape.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	e.cache.logger.Debug().Str("key", e.key).Str("path", path).Msg("cache entry read")
	return payload, nil
}

// IsCached reports whether the entry's file exists and its age does not
// exceed the cacheExpiry option. Expired files are not removed.
func (e *Entry) IsCached() bool {
	start := time.Now()
	info, err := os.Stat(e.FilePath())
	cached := err == nil && info.Mode().IsRegular() && time.Since(info.ModTime()) <= e.cache.config.Expiry()
	e.cache.observe(OpIsCached, e.key, cached, nil, start)
	return cached
}

// Age returns the time since the entry was last written, and false when it
// has no file.
func (e *Entry) Age() (time.Duration, bool) {
	info, err := os.Stat(e.FilePath())
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

// Purge removes the entry's file. A missing file is not an error.
func (e *Entry) Purge() error {
	start := time.Now()
	path := e.FilePath()
	err := removeFile(path)
	switch {
	case err == nil:
		e.cache.logger.Debug().Str("key", e.key).Str("path", path).Msg("cache entry purged")
		return e.done(OpPurge, true, nil, start)
	case errors.Is(err, fs.ErrNotExist):
		return e.done(OpPurge, false, nil, start)
	default:
		return e.done(OpPurge, false, fmt.Errorf("%w: %s: %w", ErrWrite, path, err), start)
	}
}

func (e *Entry) done(op string, hit bool, err error, start time.Time) error {
	e.cache.observe(op, e.key, hit, err, start)
	return err
}
