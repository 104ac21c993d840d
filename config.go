package filecache

import (
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

// Recognized option names. Any other name is stored as given and ignored.
const (
	OptionDirectory   = "directory"
	OptionCacheExpiry = "cacheExpiry"
)

const defaultCacheExpiry = 3600 // seconds

// Options is a set of named configuration values for Set.
type Options map[string]any

func defaultDirectory() string {
	return normalizeDirectory(filepath.Join(os.TempDir(), "filecache"))
}

// Config holds cache settings as a mapping from option name to value.
// The directory option is always stored with exactly one trailing separator
// and cacheExpiry as int seconds between 0 and math.MaxInt32 (about 68 years).
type Config struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfig returns a Config populated with the default directory and expiry.
func NewConfig() *Config {
	c := &Config{}
	c.Reset()
	return c
}

// Reset discards every option and restores the defaults.
func (c *Config) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = map[string]any{
		OptionDirectory:   defaultDirectory(),
		OptionCacheExpiry: defaultCacheExpiry,
	}
}

// Set merges options into the configuration. options must be a map with string
// keys; anything else fails with ErrConfiguration. cacheExpiry must resolve to
// 0..math.MaxInt32 seconds; negative, fractional or larger values fail with
// ErrConfiguration. All values are validated
// before any is stored, so a failed call leaves the configuration unchanged.
func (c *Config) Set(options any) error {
	opts, err := toOptionMap(options)
	if err != nil {
		return err
	}
	normalized := make(map[string]any, len(opts))
	for name, value := range opts {
		v, err := normalizeOption(name, value)
		if err != nil {
			return err
		}
		normalized[name] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.values, normalized)
	return nil
}

// All returns a copy of every option.
func (c *Config) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.values)
}

// Value returns a single option.
func (c *Config) Value(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Directory returns the normalized cache directory.
func (c *Config) Directory() string {
	v, _ := c.Value(OptionDirectory)
	if dir, ok := v.(string); ok && dir != "" {
		return dir
	}
	return defaultDirectory()
}

// Expiry returns the cacheExpiry option as a duration.
func (c *Config) Expiry() time.Duration {
	v, _ := c.Value(OptionCacheExpiry)
	seconds, ok := v.(int)
	if !ok {
		seconds = defaultCacheExpiry
	}
	return time.Duration(seconds) * time.Second
}

// EnsureDirectoryExists creates the cache directory and its parents when missing.
func (c *Config) EnsureDirectoryExists() error {
	dir := c.Directory()
	if err := mkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("%w: create cache directory %s: %w", ErrWrite, dir, err)
	}
	return nil
}

func toOptionMap(options any) (map[string]any, error) {
	switch m := options.(type) {
	case map[string]any:
		return m, nil
	case Options:
		return m, nil
	}
	rv := reflect.ValueOf(options)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: options must be a mapping with string keys, got %T", ErrConfiguration, options)
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}

func normalizeOption(name string, value any) (any, error) {
	switch name {
	case OptionDirectory:
		dir, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrConfiguration, name, value)
		}
		if strings.TrimSpace(dir) == "" {
			return defaultDirectory(), nil
		}
		return normalizeDirectory(dir), nil
	case OptionCacheExpiry:
		seconds, err := parseExpiry(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfiguration, name, err)
		}
		return seconds, nil
	default:
		return value, nil
	}
}

// normalizeDirectory collapses any run of trailing separators into exactly one.
func normalizeDirectory(dir string) string {
	sep := string(os.PathSeparator)
	return strings.TrimRight(dir, "/"+sep) + sep
}

// parseExpiry converts the accepted cacheExpiry inputs into whole seconds.
func parseExpiry(value any) (int, error) {
	var seconds int64
	switch v := value.(type) {
	case time.Duration:
		seconds = int64(v / time.Second)
	case int, int8, int16, int32, int64:
		seconds = reflect.ValueOf(v).Int()
	case uint, uint8, uint16, uint32, uint64:
		u := reflect.ValueOf(v).Uint()
		if u > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of range", u)
		}
		seconds = int64(u)
	case float32, float64:
		f := reflect.ValueOf(v).Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("value %v is not a whole number of seconds", f)
		}
		seconds = int64(f)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			seconds = n
			break
		}
		d, err := str2duration.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", v, err)
		}
		seconds = int64(d / time.Second)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("value %d must not be negative", seconds)
	}
	if seconds > math.MaxInt32 {
		return 0, fmt.Errorf("value %d out of range", seconds)
	}
	return int(seconds), nil
}

var defaultConfig = NewConfig()

// DefaultConfig returns the process-wide configuration used by the package-level functions.
func DefaultConfig() *Config {
	return defaultConfig
}

// SetConfig merges options into the process-wide configuration. It follows
// Config.Set, including the 0..math.MaxInt32 second range for cacheExpiry.
//
// Example: configure directory and expiry
//
//	_ = filecache.SetConfig(map[string]any{
//		"cacheExpiry": 44556,
//		"directory":   "foo-cache/",
//	})
//	v, _ := filecache.ConfigValue("cacheExpiry")
//	fmt.Println(v) // 44556
func SetConfig(options any) error {
	return defaultConfig.Set(options)
}

// GetConfig returns a copy of the process-wide configuration.
func GetConfig() map[string]any {
	return defaultConfig.All()
}

// ConfigValue returns one option of the process-wide configuration.
func ConfigValue(name string) (any, bool) {
	return defaultConfig.Value(name)
}

// ResetConfig restores the process-wide configuration to its defaults.
func ResetConfig() {
	defaultConfig.Reset()
}

// EnsureDirectoryExists creates the process-wide cache directory when missing.
func EnsureDirectoryExists() error {
	return defaultConfig.EnsureDirectoryExists()
}
