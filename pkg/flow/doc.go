// Package flow defines the node/edge model for process flow diagrams.
//
// A flow graph is a directed acyclic graph of typed nodes: Start and End
// lozenges, Action and Information boxes, and Decision diamonds whose
// outgoing edges carry path labels ("Yes", "No", ...). The graph is built
// once from parsed input (see [pkg/schema]) and is immutable during layout.
//
// # Structure rules
//
// Every non-End node has at least one outgoing edge. Decision nodes own
// the only labeled edges; all other kinds have exactly one unlabeled
// successor. These rules, plus reachability from the start set and
// acyclicity, are checked by [Graph.Validate] before any geometry is
// computed.
//
// # Example
//
//	g := flow.New()
//	g.AddNode(flow.Node{ID: "S1", Kind: flow.KindStart, Title: "Start"})
//	g.AddNode(flow.Node{ID: "A1", Kind: flow.KindAction, Details: []flow.Line{{Text: "Do the thing"}}})
//	g.AddNode(flow.Node{ID: "E1", Kind: flow.KindEnd, Title: "End"})
//	g.AddEdge(flow.Edge{From: "S1", To: "A1"})
//	g.AddEdge(flow.Edge{From: "A1", To: "E1"})
//	if err := g.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package flow
