// Package render turns computed flowchart layouts into visual outputs.
//
// # Overview
//
// This package is the rendering end of the pipeline. It provides:
//
//   - Native SVG emission from a [pkg/graph.Layout] ([RenderSVG])
//   - Graphviz DOT export and in-process DOT rendering ([ToDOT], [RenderDOT])
//   - Generic format conversion (SVG to PDF/PNG)
//
// # SVG Emission
//
// [RenderSVG] draws the layout exactly as computed: pills for Start/End,
// diamonds for Decision, rounded rectangles for Action/Information,
// orthogonal connector polylines with arrowheads, and branch labels.
// Geometry is taken verbatim from the layout result; the renderer never
// moves anything, so two renders of the same layout are byte-identical.
//
//	svg := render.RenderSVG(l, render.WithConfig(cfg))
//
// # DOT Export
//
// [ToDOT] emits the flow graph in Graphviz DOT format for interoperability
// with external tooling, and [RenderDOT] rasterizes a DOT string to SVG
// in-process using the goccy/go-graphviz bindings. DOT output delegates
// placement to Graphviz and is a structural view, not the engine's layout.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
package render
