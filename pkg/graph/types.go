package graph

import (
	"fmt"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// =============================================================================
// Graph - Flow Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for flow graphs.
// Used for pipeline staging, storage, caching, and cross-tool exchange.
//
// Node and edge order is preserved exactly: declaration order is semantic
// in a flow graph (it decides the affirmative decision path and start
// ordering), so import → export → re-import keeps behavior identical.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one serialized flow node.
type Node struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	Details []Line `json:"details,omitempty"`
}

// Line is one body text line of a node.
type Line struct {
	Text   string `json:"text"`
	Bullet bool   `json:"bullet,omitempty"`
}

// Edge is one serialized directed edge. Label is set on decision paths.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// =============================================================================
// flow.Graph ↔ Graph Conversion
// =============================================================================

// FromFlow converts a flow graph to its serialization format,
// preserving declaration order for nodes and edges.
func FromFlow(g *flow.Graph) Graph {
	nodes := g.Nodes()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:      n.ID,
			Kind:    n.Kind.String(),
			Title:   n.Title,
			Details: linesFromFlow(n.Details),
		}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Label: e.Label})
	}
	return out
}

// ToFlow converts a serialized Graph back to a flow graph. Unknown kinds,
// duplicate ids and edges to missing nodes are conversion errors; deeper
// integrity checks stay with flow.Graph.Validate.
func ToFlow(gj Graph) (*flow.Graph, error) {
	g := flow.New()
	for _, nj := range gj.Nodes {
		kind, err := flow.ParseKind(nj.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nj.ID, err)
		}
		n := flow.Node{
			ID:      nj.ID,
			Kind:    kind,
			Title:   nj.Title,
			Details: linesToFlow(nj.Details),
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range gj.Edges {
		e := flow.Edge{From: ej.From, To: ej.To, Label: ej.Label}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}
	return g, nil
}

func linesFromFlow(in []flow.Line) []Line {
	if len(in) == 0 {
		return nil
	}
	out := make([]Line, len(in))
	for i, l := range in {
		out[i] = Line{Text: l.Text, Bullet: l.Bullet}
	}
	return out
}

func linesToFlow(in []Line) []flow.Line {
	if len(in) == 0 {
		return nil
	}
	out := make([]flow.Line, len(in))
	for i, l := range in {
		out[i] = flow.Line{Text: l.Text, Bullet: l.Bullet}
	}
	return out
}
