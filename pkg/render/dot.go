package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed includes node detail lines in labels.
	// When false, only the title (or ID) is shown.
	Detailed bool

	// Palette supplies fill colors per node kind. Zero value falls back
	// to the default palette.
	Palette config.Palette
}

// ToDOT converts a flow graph to Graphviz DOT format. Placement is left
// to Graphviz; use [RenderSVG] on an engine layout when exact geometry
// matters. The resulting string renders with [RenderDOT] or any external
// dot tool.
func ToDOT(g *flow.Graph, opts DOTOptions) string {
	pal := opts.Palette
	if pal == (config.Palette{}) {
		pal = config.Default().Palette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph flowchart {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  node [style=filled, fontsize=11, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.35;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := dotLabel(n, opts.Detailed)
		attrs := dotAttrs(n, label, pal)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *flow.Node, detailed bool) string {
	label := n.Title
	if label == "" {
		label = n.ID
	}
	if !detailed || len(n.Details) == 0 {
		return label
	}

	parts := []string{label}
	for _, d := range n.Details {
		text := d.Text
		if d.Bullet {
			text = "• " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

func dotAttrs(n *flow.Node, label string, pal config.Palette) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}

	switch n.Kind {
	case flow.KindStart, flow.KindEnd:
		attrs = append(attrs, "shape=oval")
	case flow.KindDecision:
		attrs = append(attrs, "shape=diamond")
	default:
		attrs = append(attrs, "shape=box", `style="rounded,filled"`)
	}

	attrs = append(attrs, fmt.Sprintf("fillcolor=%q", pal.Fill(n.Kind.String())))
	return attrs
}

// RenderDOT renders a DOT graph to SVG using the in-process Graphviz
// bindings. Returns SVG bytes ready for display or further conversion
// with [ToPDF] or [ToPNG].
func RenderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz-emitted svg element so the
// viewBox starts at the origin and the pixel size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
