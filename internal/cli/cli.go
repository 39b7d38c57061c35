package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/pkg/buildinfo"
	"github.com/matzehuels/promiscuity/pkg/cache"
	"github.com/matzehuels/promiscuity/pkg/config"
	"github.com/matzehuels/promiscuity/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	errOut     io.Writer // spinner output
	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		errOut: w,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Promiscuity enumerates the dependency trees an underspecified annotation allows",
		Long: `Promiscuity reads partial dependency annotations (GFL) with
coordination-style brackets (CBB groups) and enumerates, counts or bounds
every fully resolved dependency tree compatible with them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/promiscuity/config.toml)")

	// Register all subcommands
	root.AddCommand(c.countCommand())
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.boundCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.conllCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment and attaches the logger
// to the command context.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	c.Logger.Debug("loaded config", "strategy", cfg.Analysis.Strategy, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	if c.cfg.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(c.cfg.Cache.Dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// analysisFlags holds the flags shared by every analysis command. Only flags
// the user set override the configuration.
type analysisFlags struct {
	strategy string
	maxTrees int
	maxSteps int
	timeout  string
	maxBound int64
	strict   bool
	noCache  bool
	refresh  bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.strategy, "strategy", pipeline.DefaultStrategy, "enumeration strategy: search, filter or both")
	fs.IntVar(&f.maxTrees, "max-trees", 0, "stop after this many trees (0 = unlimited)")
	fs.IntVar(&f.maxSteps, "max-steps", 0, "stop after this many search steps (0 = unlimited)")
	fs.StringVar(&f.timeout, "timeout", "", "stop after this long, e.g. 30s")
	fs.Int64Var(&f.maxBound, "max-bound", 0, "skip enumeration when the spanning-tree bound exceeds this (0 = no limit)")
	fs.BoolVar(&f.strict, "strict", false, "treat truncation and skipped enumeration as errors")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute cached results")
	completeValues(cmd, "strategy", strategyValues)
}

// options merges set flags over the configured analysis settings.
func (f *analysisFlags) options(cmd *cobra.Command, base config.Analysis) (pipeline.Options, error) {
	changed := cmd.Flags().Changed
	if changed("strategy") {
		base.Strategy = f.strategy
	}
	if changed("max-trees") {
		base.MaxTrees = f.maxTrees
	}
	if changed("max-steps") {
		base.MaxSteps = f.maxSteps
	}
	if changed("max-bound") {
		base.MaxBound = f.maxBound
	}
	if changed("timeout") {
		var d config.Duration
		if err := d.UnmarshalText([]byte(f.timeout)); err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid --timeout %q: %w", f.timeout, err)
		}
		base.Timeout = d
	}
	opts := pipeline.Options{
		Strategy: base.Strategy,
		Budget:   base.Budget(),
		MaxBound: base.MaxBound,
		Strict:   f.strict,
		Refresh:  f.refresh,
	}
	if err := pipeline.ValidateStrategy(opts.Strategy); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
