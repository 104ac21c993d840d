package filecache

import "github.com/rs/zerolog"

// CacheConfig controls how a Cache is constructed.
type CacheConfig struct {
	// Config supplies the directory and expiry. Defaults to DefaultConfig().
	Config *Config

	// Logger receives debug and warning events. Defaults to a disabled logger.
	Logger *zerolog.Logger

	// Observer, when set, is called after every operation.
	Observer Observer

	// Compression selects the codec applied to written values.
	Compression CompressionCodec

	// MaxValueBytes rejects encoded values larger than this. Zero disables the check.
	MaxValueBytes int

	// EncryptionKey enables AES-GCM when set; it must be 16, 24, or 32 bytes.
	EncryptionKey []byte
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.Config == nil {
		c.Config = DefaultConfig()
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Compression == "" {
		c.Compression = CompressionNone
	}
	return c
}

// Option mutates CacheConfig when constructing a Cache.
type Option func(CacheConfig) CacheConfig

// WithConfig binds the cache to cfg instead of the process-wide configuration.
func WithConfig(cfg *Config) Option {
	return func(c CacheConfig) CacheConfig {
		c.Config = cfg
		return c
	}
}

// WithLogger sets the logger used for operation events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c CacheConfig) CacheConfig {
		c.Logger = &logger
		return c
	}
}

// WithObserver attaches an observer to receive operation events.
func WithObserver(o Observer) Option {
	return func(c CacheConfig) CacheConfig {
		c.Observer = o
		return c
	}
}

// WithCompression compresses values before they are written.
func WithCompression(codec CompressionCodec) Option {
	return func(c CacheConfig) CacheConfig {
		c.Compression = codec
		return c
	}
}

// WithMaxValueBytes limits the encoded size of a value.
func WithMaxValueBytes(n int) Option {
	return func(c CacheConfig) CacheConfig {
		c.MaxValueBytes = n
		return c
	}
}

// WithEncryptionKey encrypts values with AES-GCM under key.
func WithEncryptionKey(key []byte) Option {
	return func(c CacheConfig) CacheConfig {
		c.EncryptionKey = key
		return c
	}
}
