// Package cachetest provides helpers and a reusable behaviour contract for
// filecache.Cache configurations.
//
// New builds a cache rooted in t.TempDir() so tests never share state through
// the process-wide configuration:
//
//	func TestProfileCache(t *testing.T) {
//		c := cachetest.New(t, filecache.WithCompression(filecache.CompressionGzip))
//		entry, err := c.Entry("profile:1")
//		if err != nil {
//			t.Fatalf("entry: %v", err)
//		}
//		...
//	}
//
// RunCacheContract checks the entry and bulk semantics every configuration
// (plain, compressed, encrypted) must keep. It clears the cache directory, so
// give it a dedicated one:
//
//	func TestEncryptedContract(t *testing.T) {
//		c := cachetest.New(t, filecache.WithEncryptionKey(key))
//		cachetest.RunCacheContract(t, c, cachetest.Options{})
//	}
package cachetest
