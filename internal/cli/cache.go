package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphvis/pkg/cache"
	errs "github.com/matzehuels/graphvis/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
		Long: `Manage the local file cache of settled layouts and rendered artifacts.
A Redis cache configured with --redis-url expires entries on its own.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := localCache()
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			c.Logger.Debug("cache cleared", "dir", fc.Dir(), "entries", n)
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Removed %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := localCache()
			if err != nil {
				return err
			}
			u, err := fc.Usage()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprint(u.Entries))
			printKeyValue("Size", formatBytes(u.Bytes))
			if url := c.settings().Cache.RedisURL; url != "" {
				printDetail("Redis at %s is configured; its entries are not counted", url)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidPath, err, "locate cache directory")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// localCache opens the file cache the render command writes to.
func localCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "locate cache directory")
	}
	return cache.NewFileCache(dir), nil
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
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
