package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/cache"
)

// cacheCommand groups the point cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the relaxed point cache",
		Long: `Relaxed point sets are cached per image and relaxation settings, so
re-exporting the same image in another format or style skips relaxation.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show cache location and size",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return runCacheInfo() },
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached point sets",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return runCacheClear() },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// openExistingCache returns nil without creating anything when the cache
// directory does not exist yet.
func openExistingCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func runCacheInfo() error {
	fc, err := openExistingCache()
	if err != nil {
		return err
	}
	if fc == nil {
		printInfo("Cache is empty")
		return nil
	}
	n, size, err := fc.Stats()
	if err != nil {
		return err
	}
	printKeyValue("Directory", fc.Dir())
	printKeyValue("Entries", fmt.Sprintf("%d", n))
	printKeyValue("Size", formatBytes(size))
	return nil
}

func runCacheClear() error {
	fc, err := openExistingCache()
	if err != nil {
		return err
	}
	if fc == nil {
		printInfo("Cache is empty")
		return nil
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached point sets", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
