package filecache_test

import (
	"testing"

	"github.com/goforj/filecache"
	"github.com/goforj/filecache/cachetest"
)

var contractKey = []byte("0123456789abcdef")

func TestCachetestRunCacheContract_Plain(t *testing.T) {
	cachetest.RunCacheContract(t, cachetest.New(t), cachetest.Options{})
}

func TestCachetestRunCacheContract_Shaped(t *testing.T) {
	cases := map[string][]filecache.Option{
		"gzip":           {filecache.WithCompression(filecache.CompressionGzip)},
		"snappy":         {filecache.WithCompression(filecache.CompressionSnappy)},
		"encrypted":      {filecache.WithEncryptionKey(contractKey)},
		"gzip_encrypted": {filecache.WithCompression(filecache.CompressionGzip), filecache.WithEncryptionKey(contractKey)},
		"size_limited":   {filecache.WithMaxValueBytes(1 << 10)},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			c := cachetest.New(t, opts...)
			cachetest.RunCacheContract(t, c, cachetest.Options{CaseName: name, Entries: 5})
		})
	}
}

func TestCachetestRunCacheContract_ShortExpiry(t *testing.T) {
	cfg := cachetest.NewConfig(t)
	if err := cfg.Set(map[string]any{filecache.OptionCacheExpiry: "2m"}); err != nil {
		t.Fatalf("set expiry: %v", err)
	}
	c := cachetest.New(t, filecache.WithConfig(cfg))
	cachetest.RunCacheContract(t, c, cachetest.Options{})
}
