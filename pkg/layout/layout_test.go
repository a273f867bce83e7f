package layout

// Shared fixtures for the layout tests. The test configuration pins font
// metrics to the ratio fallback so results do not depend on the fonts
// installed on the machine running the tests.

import (
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Font.Families = nil
	return cfg
}

func testEngine() *Engine {
	return New(testConfig())
}

func build(t *testing.T, nodes []flow.Node, edges []flow.Edge) *flow.Graph {
	t.Helper()
	g := flow.New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s -> %s): %v", e.From, e.To, err)
		}
	}
	return g
}

// chainGraph is Start -> Action -> End.
func chainGraph(t *testing.T) *flow.Graph {
	return build(t,
		[]flow.Node{
			{ID: "S", Kind: flow.KindStart, Title: "Start"},
			{ID: "A", Kind: flow.KindAction, Title: "Work", Details: []flow.Line{{Text: "Do the thing"}}},
			{ID: "E", Kind: flow.KindEnd, Title: "End"},
		},
		[]flow.Edge{
			{From: "S", To: "A"},
			{From: "A", To: "E"},
		})
}

// decisionGraph is Start -> Decision with Yes -> End(right) and
// No -> Action(down) -> End.
func decisionGraph(t *testing.T) *flow.Graph {
	return build(t,
		[]flow.Node{
			{ID: "S", Kind: flow.KindStart, Title: "Start"},
			{ID: "D", Kind: flow.KindDecision, Title: "Approved?"},
			{ID: "R", Kind: flow.KindAction, Title: "Rework", Details: []flow.Line{{Text: "Fix and resubmit"}}},
			{ID: "E", Kind: flow.KindEnd, Title: "End"},
		},
		[]flow.Edge{
			{From: "S", To: "D"},
			{From: "D", To: "E", Label: "Yes"},
			{From: "D", To: "R", Label: "No"},
			{From: "R", To: "E"},
		})
}

func mustLayout(t *testing.T, e *Engine, g *flow.Graph) *Result {
	t.Helper()
	res, err := e.Layout(g)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}
