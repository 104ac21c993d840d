package cachefake

import (
	"testing"
)

func TestFakeRecordsOperations(t *testing.T) {
	f := New(t)
	c := f.Cache()

	entry, err := c.Entry("user:1")
	if err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if _, err := entry.CachedData(); err == nil {
		t.Fatalf("expected miss on empty cache")
	}
	if err := entry.PutInCache("ada"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := entry.CachedData(); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if _, err := c.CountAll(); err != nil {
		t.Fatalf("count failed: %v", err)
	}

	f.AssertCalled(t, OpPut, "user:1", 1)
	f.AssertCalled(t, OpGet, "user:1", 2)
	f.AssertCalled(t, OpCountAll, "", 1)
	f.AssertNotCalled(t, OpPurge, "user:1")
	f.AssertTotal(t, OpGet, 2)

	if got := f.Hits(OpGet, "user:1"); got != 1 {
		t.Fatalf("expected 1 get hit, got %d", got)
	}
	if got := f.Errors(OpGet, "user:1"); got != 1 {
		t.Fatalf("expected 1 get error, got %d", got)
	}

	f.Reset()
	f.AssertTotal(t, OpGet, 0)
}

func TestFakeIsolatesDirectories(t *testing.T) {
	a, b := New(t), New(t)
	if a.Cache().Config().Directory() == b.Cache().Config().Directory() {
		t.Fatalf("fakes share a directory")
	}
}
