package filecache

import "errors"

// Error kinds returned by cache operations. Callers match them with errors.Is;
// the wrapped cause (for example an *fs.PathError) stays reachable as well.
var (
	// ErrInvalidKey is returned when an entry key is empty after trimming whitespace.
	ErrInvalidKey = errors.New("filecache: key must not be empty")

	// ErrConfiguration is returned when options passed to SetConfig are not a
	// mapping or carry an invalid value.
	ErrConfiguration = errors.New("filecache: invalid configuration")

	// ErrWrite is returned when a cache file or directory cannot be written or removed.
	ErrWrite = errors.New("filecache: write failed")

	// ErrRead is returned when a cache file is missing or cannot be decoded.
	ErrRead = errors.New("filecache: read failed")
)
