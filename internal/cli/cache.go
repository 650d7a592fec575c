package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
		Long: `Manage the file-backed artifact cache. Redis caches expire on their
own and are not touched by these commands.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.settings.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count, _, err := usage(dir)
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("cleared cache", "dir", fc.Dir(), "entries", count)

			printSuccess("Cleared %s cached %s", humanize.Comma(int64(count)), plural(count, "artifact"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.settings.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache backend, location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			printKeyValue("Backend", c.settings.CacheBackend)
			if c.settings.CacheBackend == backendRedis {
				printKeyValue("Address", StyleLink.Render("redis://"+c.settings.RedisAddr))
				return nil
			}
			dir, err := c.settings.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			count, size, err := usage(dir)
			if err != nil {
				return err
			}
			printKeyValue("Directory", StyleHighlight.Render(dir))
			printKeyValue("Artifacts", humanize.Comma(int64(count)))
			printKeyValue("Size", humanize.Bytes(uint64(size)))
			return nil
		},
	}
}

// usage counts the files under dir and their total size. A missing
// directory is empty.
func usage(dir string) (count int, size int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		count++
		size += info.Size()
		return nil
	})
	return count, size, err
}
