package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/pipeline"
)

// parseCommand creates the parse command for reading flowchart schemas.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "parse [schema.md]",
		Short: "Parse a markdown process schema into a flow graph",
		Long: `Parse a markdown process schema into a flow graph.

Each step opens with a kind directive such as 'Start: [S1] Title' or
'Action: [A1]', followed by optional 'Title:' and 'Details: - ...' lines.
Transitions use 'Leads to: [ID]', and decision branches use
'Path "Label" -> [ID]'. Lines matching no directive are commentary. The
output is a graph.json file describing the validated flow graph, ready
for the 'layout' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reparse even when a cached graph exists")

	return cmd
}

// runParse parses the schema file and writes the graph JSON.
func (c *CLI) runParse(ctx context.Context, input, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{SchemaFile: input, Refresh: refresh, Logger: c.Logger}

	prog := newProgress(c.Logger)
	doc, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Parsed %d steps with %d transitions", doc.Graph.NodeCount(), doc.Graph.EdgeCount()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, ".md") + ".graph.json"
	}

	if err := graph.WriteGraphFile(doc.Graph, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Parse complete")
	printFile(outputPath)
	printStats(doc.Graph.NodeCount(), doc.Graph.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Compute layout", "processflow layout "+outputPath)

	return nil
}
