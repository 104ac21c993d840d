package cachetest

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goforj/filecache"
)

// Options configures the shared contract checks.
type Options struct {
	// CaseName is used to namespace keys. Defaults to t.Name().
	CaseName string
	// Entries is how many entries the bulk checks create. Defaults to 3.
	Entries int
	// SkipExpiry disables the check that backdates a file past cacheExpiry.
	SkipExpiry bool
}

// RunCacheContract runs the entry and bulk checks against c.
func RunCacheContract(t *testing.T, c *filecache.Cache, opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	entries := opts.Entries
	if entries <= 0 {
		entries = 3
	}
	key := func(s string) string {
		return sanitize(caseName) + ":" + s
	}

	if err := c.ClearAll(); err != nil {
		t.Fatalf("initial clear failed: %v", err)
	}

	// Blank keys.
	for _, blank := range []string{"", "  ", "\t\n"} {
		if _, err := c.Entry(blank); !errors.Is(err, filecache.ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", blank, err)
		}
	}

	// Round-trips.
	values := []any{
		"this is just a test data",
		int64(42),
		true,
		3.5,
		[]any{"a", int64(1), nil},
		[]byte{1, 2, 3},
		uint64(9),
		uint64(1 << 40),
		filecache.MapOf("foo", "Bar", "hello", "World"),
		filecache.MapOf("raw", []byte("blob"), "count", uint64(3), "delta", int64(-3)),
		filecache.MapOf("zeta", int64(1), "alpha", filecache.MapOf("y", "2", "x", "1")),
	}
	for i, want := range values {
		entry := MustEntry(t, c, key(fmt.Sprintf("value-%d", i)))
		if err := entry.PutInCache(want); err != nil {
			t.Fatalf("put %#v failed: %v", want, err)
		}
		got, err := entry.CachedData()
		if err != nil {
			t.Fatalf("cached data failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round-trip mismatch: want %#v, got %#v", want, got)
		}
	}

	// Overwrite through a second handle.
	first := MustEntry(t, c, key("overwrite"))
	if err := first.PutInCache("first"); err != nil {
		t.Fatalf("put first failed: %v", err)
	}
	second := MustEntry(t, c, key("overwrite"))
	if first.FilePath() != second.FilePath() {
		t.Fatalf("same key produced different paths: %s vs %s", first.FilePath(), second.FilePath())
	}
	if err := second.PutInCache("second"); err != nil {
		t.Fatalf("put second failed: %v", err)
	}
	if got, err := first.CachedData(); err != nil || got != "second" {
		t.Fatalf("expected latest value, got %#v err=%v", got, err)
	}

	// Presence and purge.
	entry := MustEntry(t, c, key("purge"))
	if entry.IsCached() {
		t.Fatalf("expected fresh key to be absent")
	}
	if err := entry.PutInCache("Foo Bar"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !entry.IsCached() {
		t.Fatalf("expected key cached after put")
	}
	if err := entry.Purge(); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if entry.IsCached() {
		t.Fatalf("expected key absent after purge")
	}
	if _, err := entry.CachedData(); !errors.Is(err, filecache.ErrRead) {
		t.Fatalf("expected ErrRead after purge, got %v", err)
	}
	if err := entry.Purge(); err != nil {
		t.Fatalf("purge of absent file should not error: %v", err)
	}

	// Expiry is judged from the file's modification time.
	if !opts.SkipExpiry {
		stale := MustEntry(t, c, key("stale"))
		if err := stale.PutInCache("old"); err != nil {
			t.Fatalf("put stale failed: %v", err)
		}
		past := time.Now().Add(-c.Config().Expiry() - time.Minute)
		if err := os.Chtimes(stale.FilePath(), past, past); err != nil {
			t.Fatalf("chtimes failed: %v", err)
		}
		if stale.IsCached() {
			t.Fatalf("expected backdated entry to be expired")
		}
		if got, err := stale.CachedData(); err != nil || got != "old" {
			t.Fatalf("expected expired entry still readable, got %#v err=%v", got, err)
		}
	}

	// Bulk clear and count.
	if err := c.ClearAll(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	assertCount(t, c, 0)
	for i := 0; i < entries; i++ {
		e := MustEntry(t, c, key(fmt.Sprintf("bulk-%d", i)))
		if err := e.PutInCache(fmt.Sprintf("Foo BAr %d", i)); err != nil {
			t.Fatalf("put bulk failed: %v", err)
		}
	}
	assertCount(t, c, entries)
	if err := c.ClearAll(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	assertCount(t, c, 0)
}

func assertCount(t *testing.T, c *filecache.Cache, want int) {
	t.Helper()
	got, err := c.CountAll()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %d entries, got %d", want, got)
	}
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
