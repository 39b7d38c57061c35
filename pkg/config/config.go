// Package config loads promiscuity settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/promiscuity/config.toml
//  3. PROMISCUITY_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example file:
//
//	[analysis]
//	strategy = "search"
//	max_trees = 10000
//	timeout = "30s"
//	max_bound = 1000000
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	perr "github.com/matzehuels/promiscuity/pkg/errors"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// AppName names the config and cache directories.
const AppName = "promiscuity"

// Strategies accepted by [Analysis.Strategy].
const (
	StrategySearch = "search"
	StrategyFilter = "filter"
	StrategyBoth   = "both"
)

// Cache backends accepted by [Cache.Backend].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full set of settings.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Batch    Batch    `toml:"batch"`
	Cache    Cache    `toml:"cache"`
	Sink     Sink     `toml:"sink"`
	Server   Server   `toml:"server"`
}

// Analysis holds per-sentence enumeration settings.
type Analysis struct {
	Strategy string   `toml:"strategy"`
	MaxTrees int      `toml:"max_trees"`
	MaxSteps int      `toml:"max_steps"`
	Timeout  Duration `toml:"timeout"`
	// MaxBound skips enumeration when the spanning-tree bound exceeds it.
	// Zero disables the check.
	MaxBound int64 `toml:"max_bound"`
}

// Budget converts the analysis limits to a search budget.
func (a Analysis) Budget() tree.Budget {
	return tree.Budget{
		MaxTrees: a.MaxTrees,
		MaxSteps: a.MaxSteps,
		Timeout:  a.Timeout.Duration,
	}
}

// Batch holds batch-run settings.
type Batch struct {
	Workers int `toml:"workers"`
	// Column is the zero-based tab column holding the JSON record. Lines
	// without tabs are taken whole.
	Column int `toml:"column"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Sink configures the optional MongoDB result sink.
type Sink struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct{ time.Duration }

// UnmarshalText parses strings like "30s" or "1h30m".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Strategy: StrategySearch,
			MaxTrees: 100000,
			Timeout:  Duration{time.Minute},
		},
		Batch: Batch{
			Workers: 4,
			Column:  2,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Server: Server{Addr: ":8090"},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path means the default location, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)

	if cfg.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return perr.Wrap(perr.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return perr.New(perr.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Analysis.Strategy {
	case StrategySearch, StrategyFilter, StrategyBoth:
	default:
		return perr.New(perr.ErrCodeInvalidConfig, "unknown strategy %q", c.Analysis.Strategy)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return perr.New(perr.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return perr.New(perr.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	if c.Analysis.MaxTrees < 0 || c.Analysis.MaxSteps < 0 || c.Analysis.MaxBound < 0 {
		return perr.New(perr.ErrCodeInvalidConfig, "analysis limits must not be negative")
	}
	if c.Batch.Workers < 1 {
		return perr.New(perr.ErrCodeInvalidConfig, "batch workers must be at least 1")
	}
	if c.Batch.Column < 0 {
		return perr.New(perr.ErrCodeInvalidConfig, "batch column must not be negative")
	}
	return nil
}

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
