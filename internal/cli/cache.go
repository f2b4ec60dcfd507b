package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturefit/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the local result cache",
		Long: `Search results are cached on disk so that repeating a run with the same
room, fixtures, seed and catalog returns immediately. Entries expire after
a week. When --redis is set the CLI uses Redis instead, whose entries
expire through Redis TTLs and are not touched by these commands.`,
	}
	cmd.AddCommand(
		c.cacheSubcommand("path", "Print the cache directory", showCachePath),
		c.cacheSubcommand("stats", "Show entry count and size", showCacheStats),
		c.cacheSubcommand("prune", "Remove expired and unreadable entries", pruneCache),
		c.cacheSubcommand("clear", "Remove every cached entry", clearCache),
	)
	return cmd
}

// cacheSubcommand opens the file cache and hands it to fn.
func (c *CLI) cacheSubcommand(use, short string, fn func(*cache.FileCache) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := fn(fc); err != nil {
				return err
			}
			if use != "path" && c.redisURL != "" {
				printInfo("Redis is configured; its entries are managed by Redis TTLs")
			}
			return nil
		},
	}
}

func showCachePath(fc *cache.FileCache) error {
	fmt.Fprintln(out, fc.Dir())
	return nil
}

func showCacheStats(fc *cache.FileCache) error {
	st, err := fc.Stats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	printKeyValue("Directory", fc.Dir())
	printKeyValue("Entries", fmt.Sprint(st.Entries))
	printKeyValue("Expired", fmt.Sprint(st.Expired))
	printKeyValue("Size", humanBytes(st.Bytes))
	return nil
}

func pruneCache(fc *cache.FileCache) error {
	n, err := fc.Prune()
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	printSuccess("Pruned %d stale entries", n)
	return nil
}

func clearCache(fc *cache.FileCache) error {
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
