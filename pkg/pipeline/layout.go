package pipeline

import (
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/layout"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/schema"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the complete serializable layout for a document:
// column assignment, ordering, sizing, placement and connector routing,
// bundled with the page extent and the graph itself so rendering can run
// from the serialized form alone.
//
// Overflow and routing diagnostics do not fail generation; they travel in
// the result's warning list.
func GenerateLayout(doc *schema.Document, opts Options) (graph.Layout, error) {
	cfg := opts.EffectiveConfig()

	engine := layout.New(cfg)
	res, err := engine.Layout(doc.Graph)
	if err != nil {
		return graph.Layout{}, err
	}

	showKey := doc.ShowKey || opts.Key

	return graph.Layout{
		PageWidth:  cfg.Page.Width,
		PageHeight: cfg.Page.Height,
		Graph:      graph.FromFlow(doc.Graph),
		Result:     *res,
		Heading:    opts.Heading,
		ShowKey:    showKey,
	}, nil
}
