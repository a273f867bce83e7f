package render

import (
	"strings"
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

func dotGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New()
	g.AddNode(flow.Node{ID: "S", Kind: flow.KindStart, Title: "Begin"})
	g.AddNode(flow.Node{ID: "D", Kind: flow.KindDecision, Title: "Approved?"})
	g.AddNode(flow.Node{ID: "E", Kind: flow.KindEnd, Title: "Done"})
	g.AddNode(flow.Node{ID: "R", Kind: flow.KindAction, Title: "Rework", Details: []flow.Line{
		{Text: "collect comments", Bullet: true},
	}})
	g.AddEdge(flow.Edge{From: "S", To: "D"})
	g.AddEdge(flow.Edge{From: "D", To: "E", Label: "Yes"})
	g.AddEdge(flow.Edge{From: "D", To: "R", Label: "No"})
	g.AddEdge(flow.Edge{From: "R", To: "E"})
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(dotGraph(t), DOTOptions{})

	checks := []struct {
		name string
		want string
	}{
		{"digraph", "digraph flowchart {"},
		{"left to right", "rankdir=LR"},
		{"orthogonal", "splines=ortho"},
		{"start oval", `"S" [label="Begin", shape=oval`},
		{"decision diamond", `"D" [label="Approved?", shape=diamond`},
		{"action box", "shape=box"},
		{"labeled edge", `"D" -> "E" [label="Yes"];`},
		{"plain edge", `"S" -> "D";`},
	}
	for _, c := range checks {
		if !strings.Contains(dot, c.want) {
			t.Errorf("%s: DOT missing %q", c.name, c.want)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	plain := ToDOT(dotGraph(t), DOTOptions{})
	if strings.Contains(plain, "collect comments") {
		t.Error("details included without Detailed")
	}

	detailed := ToDOT(dotGraph(t), DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "collect comments") {
		t.Error("details missing with Detailed")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := dotGraph(t)
	first := ToDOT(g, DOTOptions{Detailed: true})
	for i := 0; i < 5; i++ {
		if again := ToDOT(g, DOTOptions{Detailed: true}); again != first {
			t.Fatalf("render %d differs from first", i)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 144.00 108.00" xmlns="http://www.w3.org/2000/svg">body</svg>`)

	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 144.00 108.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="144" height="108"`) {
		t.Errorf("pixel size not set: %s", out)
	}
	if !strings.Contains(out, "body</svg>") {
		t.Error("document body lost")
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte(`<svg>unversioned</svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("unmatched svg mutated: %s", got)
	}
}
