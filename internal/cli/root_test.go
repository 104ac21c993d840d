package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goforj/filecache"
)

func noEnv(string) (string, bool) { return "", false }

// execute runs the CLI with args against dir and returns stdout and stderr.
func execute(t *testing.T, env func(string) (string, bool), args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmdWithEnv("test", env)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out, _, err := execute(t, noEnv, append([]string{"--dir", dir}, args...)...)
	return out, err
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("1.2.3")
	require.NotNil(t, root)
	assert.Equal(t, "filecache", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"put", "get", "has", "purge", "clear", "count", "stats", "config"} {
		assert.Contains(t, names, want)
	}
}

func TestConfigCommandPrecedence(t *testing.T) {
	fileDir := t.TempDir()
	envDir := t.TempDir()
	flagDir := t.TempDir()
	cfgFile := filepath.Join(t.TempDir(), "filecache.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("directory: "+fileDir+"\ncacheExpiry: 2h\n"), 0o644))

	out, _, err := execute(t, noEnv, "--config", cfgFile, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "cacheExpiry: 7200")
	assert.Contains(t, out, "directory: "+fileDir+string(os.PathSeparator))

	env := func(name string) (string, bool) {
		switch name {
		case filecache.EnvDirectory:
			return envDir, true
		case filecache.EnvCacheExpiry:
			return "30m", true
		}
		return "", false
	}
	out, _, err = execute(t, env, "--config", cfgFile, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "cacheExpiry: 1800")
	assert.Contains(t, out, "directory: "+envDir+string(os.PathSeparator))

	out, _, err = execute(t, env, "--config", cfgFile, "--dir", flagDir, "--expiry", "60", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "cacheExpiry: 60")
	assert.Contains(t, out, "directory: "+flagDir+string(os.PathSeparator))
	assert.Less(t, strings.Index(out, "cacheExpiry"), strings.Index(out, "directory"))
}

func TestInvalidSettingsFail(t *testing.T) {
	_, _, err := execute(t, noEnv, "--dir", t.TempDir(), "--expiry=-5", "count")
	assert.ErrorIs(t, err, filecache.ErrConfiguration)

	_, _, err = execute(t, noEnv, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "count")
	assert.ErrorIs(t, err, filecache.ErrConfiguration)
}

func TestDebugLogging(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, noEnv, "--dir", dir, "--log-level", "debug", "put", "k", "v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "cache configured")
	assert.Contains(t, stderr, "cache entry written")

	_, stderr, err = execute(t, noEnv, "--dir", dir, "put", "k", "v")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "bogus")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=cli")

	buf.Reset()
	l = newLogger(&buf, "")
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestExitError(t *testing.T) {
	e := &ExitError{Code: 2}
	assert.Equal(t, "exit status 2", e.Error())
	assert.NoError(t, e.Unwrap())

	e = &ExitError{Code: 1, Err: filecache.ErrRead}
	assert.ErrorIs(t, e, filecache.ErrRead)
	assert.Equal(t, filecache.ErrRead.Error(), e.Error())
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	for _, key := range []string{"a", "b"} {
		_, err := run(t, dir, "put", key, strings.Repeat("x", 2048))
		require.NoError(t, err)
	}
	past := time.Now().Add(-2 * time.Hour)
	cfg := filecache.NewConfig()
	require.NoError(t, cfg.Set(filecache.Options{filecache.OptionDirectory: dir}))
	entry, err := filecache.NewCache(filecache.WithConfig(cfg)).Entry("a")
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(entry.FilePath(), past, past))

	out, err := run(t, dir, "stats")
	require.NoError(t, err)
	assert.Regexp(t, `files\s+2\n`, out)
	assert.Regexp(t, `expired\s+1\n`, out)
	assert.Regexp(t, `size\s+4\.\d KiB\n`, out)
	assert.Regexp(t, `expiry\s+1h0m0s\n`, out)
}
