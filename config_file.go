package filecache

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadEnv.
const (
	EnvDirectory   = "FILECACHE_DIR"
	EnvCacheExpiry = "FILECACHE_EXPIRY"
)

// LoadFile merges options from a YAML document of the form
//
//	directory: /var/cache/app
//	cacheExpiry: 2h
//
// An empty document is a no-op.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
	}
	var options map[string]any
	if err := yaml.Unmarshal(data, &options); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrConfiguration, path, err)
	}
	if len(options) == 0 {
		return nil
	}
	return c.Set(options)
}

// LoadEnv applies FILECACHE_DIR and FILECACHE_EXPIRY when set and non-empty.
// A nil lookup reads the process environment.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	options := map[string]any{}
	if dir, ok := lookup(EnvDirectory); ok && dir != "" {
		options[OptionDirectory] = dir
	}
	if expiry, ok := lookup(EnvCacheExpiry); ok && expiry != "" {
		options[OptionCacheExpiry] = expiry
	}
	if len(options) == 0 {
		return nil
	}
	return c.Set(options)
}
