package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPutCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "put KEY VALUE",
		Short: "Store a value under KEY",
		Long: `Stores VALUE under KEY, replacing any previous value and resetting its age.
VALUE is stored as a string unless --yaml is given, in which case it is parsed
as a YAML document and mappings keep their key order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.entry(args[0])
			if err != nil {
				return err
			}
			var value any = args[1]
			if asYAML {
				if value, err = parseYAML(args[1]); err != nil {
					return err
				}
			}
			return entry.PutInCache(value)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "parse VALUE as YAML")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY as YAML",
		Long:  "Prints the stored value whether or not it has expired. Use has to check freshness.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.entry(args[0])
			if err != nil {
				return err
			}
			v, err := entry.CachedData()
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), v)
		},
	}
}

func newHasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has KEY",
		Short: "Report whether KEY is cached and fresh",
		Long:  "Prints true or false. Exits with status 2 when the entry is absent or older than cacheExpiry.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.entry(args[0])
			if err != nil {
				return err
			}
			cached := entry.IsCached()
			fmt.Fprintln(cmd.OutOrStdout(), cached)
			if !cached {
				return &ExitError{Code: ExitCodeNotCached}
			}
			return nil
		},
	}
}

func newPurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge KEY",
		Short: "Remove the entry stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.entry(args[0])
			if err != nil {
				return err
			}
			return entry.Purge()
		},
	}
}
