// Package cli implements the processflow command-line interface.
//
// This package provides commands for parsing flowchart schemas, computing
// layouts, and rendering diagrams to SVG, PNG, PDF, and DOT. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - parse: Parse a markdown flowchart schema into a graph JSON file
//   - layout: Compute page geometry from a parsed graph
//   - visualize: Render a computed layout to image formats
//   - render: Full pipeline from schema to rendered output
//   - cache: Manage the local result cache
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/buildinfo"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/cache"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "processflow"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "processflow",
		Short:        "Processflow turns markdown process schemas into flowchart diagrams",
		Long:         `Processflow is a CLI tool that parses markdown process schemas, computes a left-to-right flowchart layout with orthogonal connectors, and renders the result to SVG, PNG, PDF, or DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
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

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/processflow/).
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
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// loadConfigFlag loads a sizing configuration from a TOML file when path is
// non-empty. A nil result means the pipeline default applies.
func loadConfigFlag(path string) (*config.Config, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// format extension (.svg, .pdf, ...), that extension is stripped so multiple
// formats can share the base.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		// Strip the stage suffix so rendering checkout.layout.json produces
		// checkout.svg rather than checkout.layout.svg.
		for _, suffix := range []string{".graph", ".layout"} {
			base = strings.TrimSuffix(base, suffix)
		}
		return base
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
