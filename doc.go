// Package filecache is a small file-backed key-value cache.
//
// Every entry lives in its own file directly inside a configured directory.
// The file name is the hex SHA-256 of the key, so any key is safe to use and
// cannot escape the directory. Values are encoded with msgpack; mappings are
// read back as an ordered Map so key order survives a round-trip.
//
// Expiry is lazy: an entry is cached while the age of its file (now minus the
// file's modification time) does not exceed the configured cacheExpiry.
// Nothing sweeps expired files; they stay readable until purged or cleared.
//
//	_ = filecache.SetConfig(map[string]any{
//		"directory":   "/tmp/app-cache",
//		"cacheExpiry": 600,
//	})
//	entry, _ := filecache.New("user:42")
//	_ = entry.PutInCache(filecache.MapOf("name", "Ada", "role", "admin"))
//	if entry.IsCached() {
//		value, _ := entry.CachedData()
//		fmt.Println(value) // [{name Ada} {role admin}]
//	}
//
// The package-level functions operate on a process-wide Config. Tests and
// embedders that want isolation build their own with NewConfig and bind it to
// a Cache with WithConfig.
package filecache
