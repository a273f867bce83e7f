// Package graph provides serialization types for flowcharts and layouts.
//
// This package defines the canonical wire format for ProcessFlowBuilder's
// graph data, used for JSON files, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/flow.Graph: Internal graph representation
//   - pkg/layout.Result: Internal layout (positions, connectors, labels)
//
// Use [FromFlow]/[ToFlow] to convert between them.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "S1", "kind": "start", "title": "Begin"}],
//	  "edges": [{"from": "S1", "to": "A1"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("flow.json")     // File → flow.Graph
//	graph.WriteGraphFile(fg, "output.json")      // flow.Graph → File
//	data, _ := graph.MarshalGraph(fg)            // flow.Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//
// Nodes and edges serialize in declaration order. Order is semantic for
// flowcharts (it drives branch routing and row ordering), so marshaling is
// deterministic without any sorting pass.
//
// # Layout Serialization
//
// [Layout] bundles the page geometry, the source graph, and a computed
// [pkg/layout.Result] so a rendering step can run without recomputing
// placement:
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//	for id, r := range l.Result.Rects { ... }
//
// [UnmarshalLayout] validates page dimensions, node rectangles, and
// connector polylines before returning.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
