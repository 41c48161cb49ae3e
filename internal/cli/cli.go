// Package cli implements the homcount command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/buildinfo"
	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "homcount"

	// configFile is the name of the TOML config inside the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded in the root command's PersistentPreRunE.
	Config *Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level. Debug also reports callers.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// SetQuiet silences status lines. Results and warnings from the logger are
// still written.
func (c *CLI) SetQuiet(quiet bool) {
	if quiet {
		status = io.Discard
	} else {
		status = os.Stderr
	}
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "homcount counts graph homomorphisms over nice tree decompositions",
		Long: `homcount counts homomorphisms from a pattern graph into a target graph by
dynamic programming over a nice tree decomposition of the pattern. The
generalized variant counts homomorphisms for every subgraph of the
decomposition in a single pass.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/homcount/config.toml)")

	root.AddCommand(c.countCommand())
	root.AddCommand(c.classesCommand())
	root.AddCommand(c.bruteCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	registerCompletions(root)
	return root
}

// versionCommand prints the build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, buildinfo.String())
			return err
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. A nil
// keyer uses the default key layout.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openCache opens the cache backend named in the config. A broken remote
// backend degrades to no caching with a warning.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg, err := c.cacheConfig()
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.Backend = cache.BackendNone
	}
	cc, err := cache.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, errors.ErrCodeCache) {
			c.Logger.Warn("cache disabled", "backend", cfg.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return cc, nil
}

// cacheConfig resolves the [cache] table into a cache.Config.
func (c *CLI) cacheConfig() (cache.Config, error) {
	cfg := cache.Config{
		Backend:   c.Config.Cache.Backend,
		Dir:       c.Config.Cache.Dir,
		RedisAddr: c.Config.Cache.RedisAddr,
	}
	ttl, err := c.Config.Cache.ttl()
	if err != nil {
		return cfg, err
	}
	cfg.TTL = ttl
	if cfg.Dir == "" && cfg.Backend != cache.BackendRedis && cfg.Backend != cache.BackendNone {
		dir, err := cacheDir()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeCache, err, "resolve cache dir")
		}
		cfg.Dir = dir
		if cfg.Backend == cache.BackendBadger {
			cfg.Dir = filepath.Join(dir, "badger")
		}
	}
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/homcount/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/homcount/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
