package cachefake

import (
	"sync"
	"testing"
	"time"

	"github.com/goforj/filecache"
)

// Op identifies a cache operation for assertions.
type Op = string

const (
	OpPut      Op = filecache.OpPut
	OpGet      Op = filecache.OpGet
	OpDecode   Op = filecache.OpDecode
	OpIsCached Op = filecache.OpIsCached
	OpPurge    Op = filecache.OpPurge
	OpClearAll Op = filecache.OpClearAll
	OpCountAll Op = filecache.OpCountAll
)

type call struct {
	op  Op
	key string
}

// Fake is a real cache in a per-test directory plus assertion helpers.
// Bulk operations are recorded under the empty key.
type Fake struct {
	cache  *filecache.Cache
	counts map[call]int
	hits   map[call]int
	errs   map[call]int
	mu     sync.Mutex
}

// New creates a Fake whose directory is removed when t ends. opts are applied
// after the fake's own config and observer.
func New(t testing.TB, opts ...filecache.Option) *Fake {
	t.Helper()
	cfg := filecache.NewConfig()
	if err := cfg.Set(filecache.Options{filecache.OptionDirectory: t.TempDir()}); err != nil {
		t.Fatalf("set directory: %v", err)
	}
	f := &Fake{}
	f.Reset()
	all := append([]filecache.Option{filecache.WithConfig(cfg), filecache.WithObserver(f)}, opts...)
	f.cache = filecache.NewCache(all...)
	return f
}

// Cache returns the cache to inject into code under test.
func (f *Fake) Cache() *filecache.Cache { return f.cache }

// OnCacheOp implements filecache.Observer.
func (f *Fake) OnCacheOp(op string, key string, hit bool, err error, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := call{op: op, key: key}
	f.counts[c]++
	if hit {
		f.hits[c]++
	}
	if err != nil {
		f.errs[c]++
	}
}

// Reset clears recorded calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[call]int)
	f.hits = make(map[call]int)
	f.errs = make(map[call]int)
}

// AssertCalled verifies key was touched by op the expected number of times.
func (f *Fake) AssertCalled(t testing.TB, op Op, key string, times int) {
	t.Helper()
	if got := f.Count(op, key); got != times {
		t.Fatalf("expected %s %q called %d times, got %d", op, key, times, got)
	}
}

// AssertNotCalled ensures key was never touched by op.
func (f *Fake) AssertNotCalled(t testing.TB, op Op, key string) {
	t.Helper()
	if got := f.Count(op, key); got != 0 {
		t.Fatalf("expected %s %q not called, got %d", op, key, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t testing.TB, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

// Count returns calls for op+key.
func (f *Fake) Count(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[call{op: op, key: key}]
}

// Hits returns calls for op+key that reported a hit.
func (f *Fake) Hits(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[call{op: op, key: key}]
}

// Errors returns calls for op+key that failed.
func (f *Fake) Errors(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[call{op: op, key: key}]
}

// Total returns total calls for an op across keys.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for c, n := range f.counts {
		if c.op == op {
			sum += n
		}
	}
	return sum
}
