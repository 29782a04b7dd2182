// Package cli implements the stipple command-line interface.
//
// This package provides commands for turning images into stipple drawings,
// watching a relaxation live, inspecting telemetry and managing the point
// cache. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Relax stipples over an image and export SVG, PNG, JSON or CSV
//   - animate: Run an open-ended relaxation in a live terminal view
//   - stats: Summarize a telemetry CSV
//   - config: Show the effective configuration or its path
//   - cache: Manage the relaxed point cache
//
// # Configuration
//
// Settings are resolved in order: embedded defaults, the config file
// ($XDG_CONFIG_HOME/stipple/config.toml or --config) and finally flags that
// were set explicitly on the command line.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/buildinfo"
	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/observability"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stipple"

	// outputSuffix is appended to the input name for derived output paths,
	// so a PNG export never overwrites a PNG input.
	outputSuffix = "_stipple"

	// traceStepEvery samples step events in --verbose traces.
	traceStepEvery = 10
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

	// configPath is the --config flag. Empty means the XDG default.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level. At debug level, run, pipeline
// and cache events are traced through the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.Register(observability.NewLogHooks(c.Logger).EveryStep(traceStepEvery).All())
	}
}

// SetLogFormat switches the logger between text, json and logfmt output.
func (c *CLI) SetLogFormat(name string) error {
	f, err := parseLogFormat(name)
	if err != nil {
		return err
	}
	c.Logger.SetFormatter(f)
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "stipple",
		Short: "Stipple turns images into weighted Voronoi stipple drawings",
		Long: `Stipple is a CLI tool that places dots over an image and relaxes them
with density-weighted Lloyd iterations until they settle into a stipple
drawing of the image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .json)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads --config, or the default config file when present.
func (c *CLI) loadConfig() (*config.File, error) {
	if c.configPath != "" {
		c.Logger.Debug("loading config", "path", c.configPath)
		return config.Load(c.configPath)
	}
	f, path, err := config.LoadDefault()
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return f, err
}

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped
// by build version.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cacheKeyer()
	return pipeline.NewRunner(cache, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func cacheKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stipple/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the configured formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
