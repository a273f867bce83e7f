// Package pkg provides the core libraries for ProcessFlowBuilder.
//
// # Overview
//
// ProcessFlowBuilder turns a textual process schema into a finished
// flowchart: typed steps arranged left to right in columns, connected by
// orthogonal arrows that route around every box. The pkg directory is
// organized into these areas:
//
//  1. [schema] - Parsing the flow description format into a graph
//  2. [flow] - The validated flow graph structure
//  3. [layout] - Column/row assignment, box sizing, connector routing
//  4. [render] - SVG, PNG, PDF, and DOT output
//  5. [graph] - Serialization types for graphs and layouts
//  6. [pipeline] - Orchestration (parse → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	Schema text
//	     ↓
//	[schema] package (parse and validate)
//	     ↓
//	[layout] package (columns, rows, boxes, connectors)
//	     ↓
//	[render] package (SVG and derived formats)
//	     ↓
//	SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
// Parse a schema and render it to SVG:
//
//	import (
//	    "github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
//	    "github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
//	    "github.com/shtaneja28/ProcessFlowBuilder/pkg/layout"
//	    "github.com/shtaneja28/ProcessFlowBuilder/pkg/render"
//	    "github.com/shtaneja28/ProcessFlowBuilder/pkg/schema"
//	)
//
//	// 1. Parse the schema
//	doc, _ := schema.ParseFile("checkout.md")
//
//	// 2. Compute the layout
//	cfg := config.Default()
//	eng := layout.New(cfg)
//	res, _ := eng.Layout(doc.Graph)
//
//	// 3. Render SVG
//	l := graph.Layout{
//	    PageWidth:  cfg.Page.Width,
//	    PageHeight: cfg.Page.Height,
//	    Graph:      graph.FromFlow(doc.Graph),
//	    Result:     *res,
//	}
//	svg := render.RenderSVG(l, render.WithConfig(cfg))
//
// The [pipeline] package wraps these stages with validation, caching, and
// observability hooks; most consumers should start there.
package pkg
