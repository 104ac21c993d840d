package filecache

import "time"

// Operation names reported to an Observer.
const (
	OpPut      = "put"
	OpGet      = "get"
	OpDecode   = "decode"
	OpIsCached = "is_cached"
	OpPurge    = "purge"
	OpClearAll = "clear_all"
	OpCountAll = "count_all"
)

// Observer receives events for cache operations.
// It is called after each operation completes. key is empty for bulk operations.
type Observer interface {
	OnCacheOp(op string, key string, hit bool, err error, dur time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op string, key string, hit bool, err error, dur time.Duration)

// OnCacheOp implements Observer.
func (f ObserverFunc) OnCacheOp(op string, key string, hit bool, err error, dur time.Duration) {
	if f == nil {
		return
	}
	f(op, key, hit, err, dur)
}
