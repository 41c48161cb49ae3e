package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/bench"
	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/io"
)

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	Workers    int    `toml:"workers"`
	TrackEdges bool   `toml:"track_edges"`
	DeferredGC bool   `toml:"deferred_gc"`
	Format     string `toml:"format"`

	Cache  CacheSection  `toml:"cache"`
	Bench  BenchSection  `toml:"bench"`
	Server ServerSection `toml:"server"`
}

// CacheSection is the [cache] table.
type CacheSection struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir,omitempty"`
	RedisAddr string `toml:"redis_addr,omitempty"`
	TTL       string `toml:"ttl,omitempty"`
}

// BenchSection is the [bench] table.
type BenchSection struct {
	Repetitions int    `toml:"repetitions"`
	Store       string `toml:"store"`
	Dir         string `toml:"dir,omitempty"`
	MongoURI    string `toml:"mongo_uri,omitempty"`
	MongoDB     string `toml:"mongo_db,omitempty"`
}

// ServerSection is the [server] table.
type ServerSection struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Format: formatText,
		Cache: CacheSection{
			Backend:   cache.BackendFile,
			RedisAddr: "localhost:6379",
		},
		Bench: BenchSection{
			Repetitions: bench.DefaultRepetitions,
			Store:       bench.StoreFile,
		},
		Server: ServerSection{Addr: ":8080"},
	}
}

// ReadConfig decodes a TOML config on top of the defaults.
func ReadConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		var pe toml.ParseError
		if stderrors.As(err, &pe) {
			return nil, errors.FormatErrorf(pe.Position.Line, "%s", pe.Message)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that flags cannot correct later.
func (c *Config) Validate() error {
	if err := errors.ValidateWorkers(c.Workers); err != nil {
		return err
	}
	if err := errors.ValidateChoice("format", c.Format, outputFormats); err != nil {
		return err
	}
	if err := errors.ValidateChoice("cache backend", c.Cache.Backend, cache.Backends); err != nil {
		return err
	}
	if _, err := c.Cache.ttl(); err != nil {
		return err
	}
	if err := errors.ValidateRepetitions(c.Bench.Repetitions); err != nil {
		return err
	}
	return errors.ValidateChoice("bench store", c.Bench.Store, bench.Stores)
}

func (s CacheSection) ttl() (time.Duration, error) {
	if s.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "cache ttl %q", s.TTL)
	}
	return d, nil
}

// Encode writes the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// resolveConfigPath returns the --config flag or the XDG default.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// loadConfig reads the config file. A missing default file is not an error;
// a missing file named by --config is.
func (c *CLI) loadConfig() error {
	path, err := c.resolveConfigPath()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && c.configPath == "" {
			return nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	cfg, err := ReadConfig(data)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.Config.Encode()
			if err != nil {
				return err
			}
			_, err = c.out.Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(c.out, path)
			return nil
		},
	})

	return cmd
}

// outputFormats lists the values of the --format flag.
var outputFormats = []string{formatText, io.FormatJSON, io.FormatYAML, io.FormatCSV}

const formatText = "text"
