package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/pipeline"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/schema"
)

// layoutCommand creates the layout command for computing flowchart geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		configPath string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute flowchart geometry from a flow graph",
		Long: `Compute flowchart geometry from a flow graph.

The layout command takes a graph.json file (produced by 'parse') and assigns
every step a column, a row, and an absolute box on the page, then routes
orthogonal connectors between the boxes. The output is a layout.json file
(same format as 'render -f json') that can be rendered to SVG/PNG/PDF using
the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFlag(configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", configPath, err)
			}
			opts.Config = cfg
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")

	// Layout flags
	cmd.Flags().StringVar(&opts.Heading, "heading", "", "slide heading above the diagram")
	cmd.Flags().BoolVar(&opts.Key, "key", false, "include the node type legend")
	cmd.Flags().StringVar(&configPath, "config", "", "sizing configuration TOML file")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	doc := &schema.Document{Graph: g, ShowKey: opts.Key}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".graph")
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", "processflow visualize "+outputPath)

	return nil
}
