// Package cli implements the panelmap command-line interface.
//
// # Commands
//
//   - normalize: merge sibling leaves of a panel tree and print the result
//   - layout: turn a panel tree into a laid-out diagram (JSON)
//   - export: write PDF, SVG, PNG or JSON documents for a laid-out diagram
//   - render: run layout and export in one step
//   - browse: page through the nodes of a laid-out tree in the terminal
//   - serve: start the HTTP API
//   - cache: manage the local diagram cache
//
// # Configuration
//
// Defaults come from a TOML file located via --config, $PANELMAP_CONFIG
// or $XDG_CONFIG_HOME/panelmap/config.toml. Command flags override it.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context; see loggerFromContext.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelmap/pkg/buildinfo"
	"github.com/matzehuels/panelmap/pkg/cache"
	"github.com/matzehuels/panelmap/pkg/config"
	"github.com/matzehuels/panelmap/pkg/pipeline"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// appName is the application name used for directories and display.
const appName = "panelmap"

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
	Config config.Config

	out        *printer
	configPath string
	configFrom string
	verbose    bool
}

// New creates a CLI that logs to logw and prints results to out. A nil
// writer discards.
func New(out, logw io.Writer, level log.Level) *CLI {
	if logw == nil {
		logw = io.Discard
	}
	return &CLI{
		Logger: newLogger(logw, level),
		Config: config.Default(),
		out:    newPrinter(out),
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
		Short: "Panelmap draws architecture maps of control panels",
		Long: `Panelmap turns a hierarchical description of a control panel (screens,
sections and the actions they offer) into an architecture map and exports it
as PDF, SVG or PNG.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $"+config.EnvVar+" or the user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the config file and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, from, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config, c.configFrom = cfg, from
	if from != "" {
		c.Logger.Debug("loaded config", "path", from)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. A
// backend that cannot be opened is reported and replaced by no caching.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.openCache(ctx, noCache), nil, c.Logger)
}

func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.Config.Cache.Backend, "error", err)
		return cache.NewNullCache()
	}
	return cc
}

// =============================================================================
// Options Helpers
// =============================================================================

// buildFlags are the flags shared by every command that lays out a tree.
type buildFlags struct {
	engine      string
	direction   string
	rankSep     float64
	nodeSep     float64
	noNormalize bool
	randomIDs   bool
	noCache     bool
	refresh     bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.engine, "engine", "", "layout engine: graphviz, tree (default from config)")
	fs.StringVar(&f.direction, "direction", "", "layout direction: LR, TB (default from config)")
	fs.Float64Var(&f.rankSep, "rank-sep", 0, "distance between tree levels")
	fs.Float64Var(&f.nodeSep, "node-sep", 0, "distance between siblings")
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "keep sibling leaves as separate nodes")
	fs.BoolVar(&f.randomIDs, "random-ids", false, "generate random ids for nodes that have none")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results but store new ones")
}

// apply overrides config defaults with the flags that were set.
func (f *buildFlags) apply(opts *pipeline.Options) {
	if f.engine != "" {
		opts.Engine = f.engine
	}
	if f.direction != "" {
		opts.Direction = directionFlag(f.direction)
	}
	if f.rankSep > 0 {
		opts.RankSep = f.rankSep
	}
	if f.nodeSep > 0 {
		opts.NodeSep = f.nodeSep
	}
	if f.noNormalize {
		opts.SkipNormalize = true
	}
	opts.Refresh = f.refresh
	opts.IDs = f.ids()
}

func (f *buildFlags) ids() tree.IDGenerator {
	if f.randomIDs {
		return tree.NewRandomIDs()
	}
	return tree.NewCounter()
}

// pipelineOptions returns options carrying the config defaults and the
// CLI logger.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := pipeline.FromConfig(c.Config)
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the configured formats apply.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
