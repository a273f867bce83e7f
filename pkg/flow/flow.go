package flow

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrDanglingEdge is returned by [Graph.AddEdge] and [Graph.Validate]
	// when an edge references a target node that doesn't exist.
	ErrDanglingEdge = errors.New("edge references unknown target node")

	// ErrNoStartNode is returned by [Graph.Validate] when the graph has no
	// Start node. Layout always begins from the start set.
	ErrNoStartNode = errors.New("graph has no start node")

	// ErrUnreachableNode is returned by [Graph.Validate] when a node cannot
	// be reached from any start node. Unreachable nodes would be silently
	// dropped by traversal-based layout, so they are rejected instead.
	ErrUnreachableNode = errors.New("node unreachable from any start node")

	// ErrMissingSuccessor is returned by [Graph.Validate] when a non-End
	// node has no outgoing edge. Every flow must terminate in an End node.
	ErrMissingSuccessor = errors.New("non-end node has no outgoing edge")

	// ErrInvalidBranch is returned by [Graph.Validate] when edge labels
	// violate the branch rules: only Decision nodes carry labeled paths,
	// and non-Decision nodes have at most one (unlabeled) successor.
	ErrInvalidBranch = errors.New("invalid branch structure")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is
	// detected. The layout engine assumes an acyclic flow.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Kind identifies the flowchart role of a node, which determines both its
// rendered shape and how the layout engine treats it.
type Kind int

const (
	// KindStart marks an entry point of the flow, rendered as a lozenge.
	KindStart Kind = iota
	// KindInformation marks an informational step, rendered as a rounded box.
	KindInformation
	// KindAction marks a process step, rendered as a rectangle.
	KindAction
	// KindDecision marks a branch point with labeled outgoing paths,
	// rendered as a diamond.
	KindDecision
	// KindEnd marks a terminal of the flow, rendered as a lozenge.
	KindEnd
)

// String returns the lowercase kind name used in serialization.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindInformation:
		return "info"
	case KindAction:
		return "action"
	case KindDecision:
		return "decision"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseKind converts a serialized kind name back to a Kind.
// "information" is accepted as an alias for "info".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "start":
		return KindStart, nil
	case "info", "information":
		return KindInformation, nil
	case "action":
		return KindAction, nil
	case "decision":
		return KindDecision, nil
	case "end":
		return KindEnd, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}

// Line is one line of node body text. Bullet lines render with a leading
// marker and are wrapped with a hanging indent.
type Line struct {
	Text   string
	Bullet bool
}

// Node is a vertex in the flow graph.
//
// Title is the heading text (the only text for Start/End/Decision nodes);
// Details are the body lines of Action and Information boxes.
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID      string
	Kind    Kind
	Title   string
	Details []Line
}

// Lines returns the node's full text content, title first.
// Used by size estimation, which wraps every line independently.
func (n *Node) Lines() []Line {
	if n.Title == "" {
		return n.Details
	}
	out := make([]Line, 0, len(n.Details)+1)
	out = append(out, Line{Text: n.Title})
	return append(out, n.Details...)
}

// Edge is a directed connection between two nodes. Label is non-empty only
// for Decision paths; its declaration order determines branch placement.
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph is the immutable node/edge model consumed by the layout engine.
// It is built once from parsed input; layout never mutates it.
//
// Graph is not safe for concurrent mutation; the pipeline builds and
// reads it from a single goroutine.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in declaration order
	edges    []Edge
	outgoing map[string][]int // node ID -> indices into edges
	incoming map[string][]int
	starts   []string
}

// New creates an empty flow graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
}

// AddNode adds a node to the graph. Start nodes are recorded in the start
// set in declaration order. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID if the ID is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	node := n
	g.nodes[node.ID] = &node
	g.order = append(g.order, node.ID)
	if node.Kind == KindStart {
		g.starts = append(g.starts, node.ID)
	}
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrDanglingEdge when an endpoint is
// missing; dangling references are never silently dropped.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrDanglingEdge, e.From, e.To)
	}
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], idx)
	g.incoming[e.To] = append(g.incoming[e.To], idx)
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns all node IDs in declaration order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in declaration order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Outgoing returns the outgoing edges of a node in declaration order.
func (g *Graph) Outgoing(id string) []Edge {
	idxs := g.outgoing[id]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// Incoming returns the incoming edges of a node in declaration order.
func (g *Graph) Incoming(id string) []Edge {
	idxs := g.incoming[id]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// Starts returns the start node IDs in declaration order.
func (g *Graph) Starts() []string { return slices.Clone(g.starts) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgeIndex returns the declaration index of the given edge, or -1.
// Routing uses it as the final tie-break in its deterministic edge order.
func (g *Graph) EdgeIndex(from, to, label string) int {
	for i, e := range g.edges {
		if e.From == from && e.To == to && e.Label == label {
			return i
		}
	}
	return -1
}

// Validate checks graph integrity before layout:
//
//  1. Every edge references existing nodes (rechecked for graphs built
//     outside AddEdge, e.g. deserialized ones).
//  2. At least one start node exists.
//  3. Every node is reachable from a start node.
//  4. Every non-End node has at least one outgoing edge; Decision nodes
//     have only labeled paths; other kinds at most one unlabeled successor.
//  5. The graph is acyclic.
//
// The first violated rule is returned; layout must not run on an invalid
// graph.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingEdge, e.From, e.To)
		}
	}

	if len(g.starts) == 0 {
		return ErrNoStartNode
	}

	if err := g.validateBranches(); err != nil {
		return err
	}
	if err := g.validateReachability(); err != nil {
		return err
	}
	return g.detectCycles()
}

func (g *Graph) validateBranches() error {
	for _, id := range g.order {
		n := g.nodes[id]
		outs := g.Outgoing(id)
		if n.Kind == KindEnd {
			if len(outs) > 0 {
				return fmt.Errorf("%w: end node %s has outgoing edges", ErrInvalidBranch, id)
			}
			continue
		}
		if len(outs) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingSuccessor, id)
		}
		if n.Kind == KindDecision {
			for _, e := range outs {
				if e.Label == "" {
					return fmt.Errorf("%w: decision %s has an unlabeled path", ErrInvalidBranch, id)
				}
			}
			continue
		}
		if len(outs) > 1 {
			return fmt.Errorf("%w: %s has %d successors", ErrInvalidBranch, id, len(outs))
		}
		if outs[0].Label != "" {
			return fmt.Errorf("%w: non-decision %s has a labeled edge", ErrInvalidBranch, id)
		}
	}
	return nil
}

func (g *Graph) validateReachability() error {
	seen := make(map[string]bool, len(g.nodes))
	queue := slices.Clone(g.starts)
	for _, s := range queue {
		seen[s] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.Outgoing(id) {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	for _, id := range g.order {
		if !seen[id] {
			return fmt.Errorf("%w: %s", ErrUnreachableNode, id)
		}
	}
	return nil
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, e := range g.Outgoing(id) {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
