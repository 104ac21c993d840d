package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goforj/filecache"
)

// app carries what the persistent pre-run builds for the subcommands.
type app struct {
	lookupEnv func(string) (string, bool)
	logger    zerolog.Logger
	config    *filecache.Config
	cache     *filecache.Cache
}

// NewRootCmd creates the root command for the filecache CLI, reading
// environment overrides from the process environment.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	a := &app{lookupEnv: lookupEnv}

	var (
		dir        string
		expiry     string
		configFile string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "filecache",
		Short:         "Inspect and manage a file-backed cache directory",
		Long:          "filecache stores one file per key in a flat directory and treats a file as cached while its age is within cacheExpiry.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), logLevel)

			cfg := filecache.NewConfig()
			if configFile != "" {
				if err := cfg.LoadFile(configFile); err != nil {
					return err
				}
			}
			if err := cfg.LoadEnv(a.lookupEnv); err != nil {
				return err
			}
			// Flags override the config file and the environment.
			overrides := filecache.Options{}
			if cmd.Flags().Changed("dir") {
				overrides[filecache.OptionDirectory] = dir
			}
			if cmd.Flags().Changed("expiry") {
				overrides[filecache.OptionCacheExpiry] = expiry
			}
			if err := cfg.Set(overrides); err != nil {
				return err
			}

			a.config = cfg
			a.cache = filecache.NewCache(
				filecache.WithConfig(cfg),
				filecache.WithLogger(a.logger),
			)
			a.logger.Debug().
				Str("dir", cfg.Directory()).
				Dur("expiry", cfg.Expiry()).
				Msg("cache configured")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "", "cache directory (overrides config file and "+filecache.EnvDirectory+")")
	cmd.PersistentFlags().StringVar(&expiry, "expiry", "", "cache expiry in seconds or as a duration such as 90m or 2d")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file with directory and cacheExpiry options")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPutCmd(a),
		newGetCmd(a),
		newHasCmd(a),
		newPurgeCmd(a),
		newClearCmd(a),
		newCountCmd(a),
		newStatsCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

const rootCmdExample = `  # Store a string
  filecache --dir /tmp/app-cache put greeting hello

  # Store a YAML mapping, keeping its key order
  filecache put profile 'name: Ada
lang: en' --yaml

  # Read it back as YAML
  filecache get profile

  # Exit status 2 when the key is missing or expired
  filecache --expiry 10m has profile || echo stale

  # Remove every entry
  filecache clear`

func (a *app) entry(key string) (*filecache.Entry, error) {
	entry, err := a.cache.Entry(key)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", key, err)
	}
	return entry, nil
}
