package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/pipeline"
)

// renderCommand creates the render command for the full schema-to-image pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		configPath string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [schema.md]",
		Short: "Render a process schema straight to a diagram",
		Long: `Render a process schema straight to a diagram.

The render command runs the full pipeline: it parses the markdown schema,
computes the flowchart layout, and renders the requested output formats in
one step. Each stage is cached independently, so editing the schema only
invalidates the stages downstream of the change.

Use 'parse', 'layout', and 'visualize' to run the stages individually.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SchemaFile = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			cfg, err := loadConfigFlag(configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", configPath, err)
			}
			opts.Config = cfg
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute every stage, ignoring cached results")

	// Layout flags
	cmd.Flags().StringVar(&opts.Heading, "heading", "", "slide heading above the diagram")
	cmd.Flags().BoolVar(&opts.Key, "key", false, "include the node type legend")
	cmd.Flags().StringVar(&configPath, "config", "", "sizing configuration TOML file")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "raster scale factor for PNG output")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include detail lines in DOT labels")

	return cmd
}

// runRender executes the full pipeline and writes all requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Building flowchart...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(output, opts.SchemaFile)

	var written []string
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if output != "" && len(opts.Formats) == 1 {
			path = output
		}
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Flowchart complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	if result.Stats.Warnings > 0 {
		printWarning("%d layout warning(s), run with --verbose for details", result.Stats.Warnings)
	}

	return nil
}
