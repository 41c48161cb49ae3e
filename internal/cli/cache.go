package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
)

// cacheCommand groups the commands that inspect and empty the result cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the result cache",
		Long: `Count and class results are cached by the hash of their raw inputs. The
backend (file, redis, badger or none) and TTL come from the [cache] section
of the config file.`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured backend and, for file caches, usage per result kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return err
			}
			writeKeyValue(c.out, "backend", cfg.Backend)
			if cfg.Dir != "" {
				writeKeyValue(c.out, "directory", cfg.Dir)
			}
			if cfg.Backend == cache.BackendRedis {
				writeKeyValue(c.out, "address", cfg.RedisAddr)
			}
			ttl := "never expires"
			if cfg.TTL > 0 {
				ttl = cfg.TTL.String()
			}
			writeKeyValue(c.out, "ttl", ttl)

			if cfg.Backend != cache.BackendFile {
				return nil
			}
			fc, err := cache.NewFileCache(cfg.Dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "open %s", cfg.Dir)
			}
			usage, err := fc.Usage(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "scan %s", cfg.Dir)
			}
			for _, kind := range []string{"count", "classes"} {
				u := usage[kind]
				writeKeyValue(c.out, kind, fmt.Sprintf("%s entries, %s",
					strconv.Itoa(u.Entries), humanize.IBytes(uint64(u.Bytes))))
			}
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result from the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return err
			}
			cc, err := cache.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cc.Close()

			cl, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("The %s backend keeps nothing to clear", cfg.Backend)
				return nil
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "clear %s cache", cfg.Backend)
			}
			printSuccess("Cleared the %s cache", cfg.Backend)
			if cfg.Dir != "" {
				printFile(cfg.Dir)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory of the file and badger backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return err
			}
			if cfg.Dir == "" {
				return errors.New(errors.ErrCodeUnsupported, "the %s backend has no directory", cfg.Backend)
			}
			_, err = fmt.Fprintln(c.out, cfg.Dir)
			return err
		},
	}
}
