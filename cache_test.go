package filecache

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearingAllCache(t *testing.T) {
	c := newTempCache(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, mustEntry(t, c, "testdata"+strconv.Itoa(i)).PutInCache("payload "+strconv.Itoa(i)))
	}
	n, err := c.CountAll()
	require.NoError(t, err)
	assert.NotZero(t, n)
	assert.Equal(t, 10, n)

	require.NoError(t, c.ClearAll())

	n, err = c.CountAll()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.DirExists(t, c.Config().Directory())
}

func TestClearAllIsFlat(t *testing.T) {
	c := newTempCache(t)
	dir := c.Config().Directory()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.cache"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))
	require.NoError(t, mustEntry(t, c, "k").PutInCache("v"))

	n, err := c.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "subdirectories are not counted")

	require.NoError(t, c.ClearAll())
	assert.FileExists(t, filepath.Join(sub, "inner.cache"))
	assert.NoFileExists(t, filepath.Join(dir, "stray.txt"))

	n, err = c.CountAll()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkOperationsOnMissingDirectory(t *testing.T) {
	cfg := NewConfig()
	dir := filepath.Join(t.TempDir(), "never-created")
	require.NoError(t, cfg.Set(map[string]any{OptionDirectory: dir}))
	c := NewCache(WithConfig(cfg))

	n, err := c.CountAll()
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, c.ClearAll())

	st, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Directory: cfg.Directory()}, st)

	_, err = os.Stat(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist), "bulk operations must not create the directory")
}

func TestBulkOperationsOnFilePath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg := NewConfig()
	require.NoError(t, cfg.Set(map[string]any{OptionDirectory: file}))
	c := NewCache(WithConfig(cfg))

	_, err := c.CountAll()
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, c.ClearAll(), ErrWrite)
	_, err = c.Stats()
	assert.ErrorIs(t, err, ErrRead)
}

func TestClearAllAggregatesFailures(t *testing.T) {
	c := newTempCache(t)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, mustEntry(t, c, key).PutInCache(key))
	}
	blocked := filepath.Base(mustEntry(t, c, "b").FilePath())

	orig := removeFile
	removeFile = func(path string) error {
		if filepath.Base(path) == blocked {
			return errors.New("busy")
		}
		return os.Remove(path)
	}
	defer func() { removeFile = orig }()

	err := c.ClearAll()
	assert.ErrorIs(t, err, ErrWrite)
	assert.ErrorContains(t, err, "busy")

	n, err := c.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, mustEntry(t, c, "b").FilePath())
}

func TestCountAllCountsForeignFiles(t *testing.T) {
	c := newTempCache(t)
	dir := c.Config().Directory()
	require.NoError(t, os.WriteFile(dir+"a", []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(dir+"b", []byte("2"), 0o644))

	n, err := c.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStats(t *testing.T) {
	c := newTempCache(t)
	require.NoError(t, c.Config().Set(map[string]any{OptionCacheExpiry: 60}))
	var stale *Entry
	for i, key := range []string{"one", "two", "three"} {
		e := mustEntry(t, c, key)
		require.NoError(t, e.PutInCache(strings.Repeat("x", 10*(i+1))))
		stale = e
	}
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(stale.FilePath(), past, past))

	st, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, c.Config().Directory(), st.Directory)
	assert.Equal(t, 3, st.Files)
	assert.Equal(t, 1, st.Expired)

	var want int64
	for _, key := range []string{"one", "two", "three"} {
		info, err := os.Stat(mustEntry(t, c, key).FilePath())
		require.NoError(t, err)
		want += info.Size()
	}
	assert.Equal(t, want, st.Bytes)
}

func TestCachesShareConfig(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Set(map[string]any{OptionDirectory: t.TempDir()}))
	a := NewCache(WithConfig(cfg))
	b := NewCache(WithConfig(cfg))

	require.NoError(t, mustEntry(t, a, "shared").PutInCache("v"))
	assert.True(t, mustEntry(t, b, "shared").IsCached())
	require.NoError(t, b.ClearAll())
	assert.False(t, mustEntry(t, a, "shared").IsCached())
}

func TestNewCacheDefaults(t *testing.T) {
	c := NewCache()
	assert.Same(t, DefaultConfig(), c.Config())
	assert.NoError(t, c.Ready())
	assert.Same(t, DefaultConfig(), Default().Config())

	c = NewCacheWithConfig(CacheConfig{})
	assert.Same(t, DefaultConfig(), c.Config())
	assert.Equal(t, CompressionNone, c.shape.codec)
}

func TestCacheReadyErrors(t *testing.T) {
	c := newTempCache(t, WithEncryptionKey([]byte("short")))
	assert.ErrorIs(t, c.Ready(), ErrEncryptionKey)

	c = newTempCache(t, WithCompression(CompressionCodec("lz4")))
	assert.ErrorIs(t, c.Ready(), ErrUnsupportedCodec)

	c = newTempCache(t, WithEncryptionKey(testKey), WithCompression(CompressionGzip))
	assert.NoError(t, c.Ready())
}

func TestPackageLevelFunctions(t *testing.T) {
	dir := useDefaultConfig(t)

	entry, err := New("testdata1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.FilePath(), dir))
	require.NoError(t, entry.PutInCache(MapOf("foo", "Bar")))

	again, err := New("testdata1")
	require.NoError(t, err)
	assert.True(t, again.IsCached())

	n, err := CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, ClearAll())
	n, err = CountAll()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = New("   ")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
