package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/layout"
)

const (
	// renderDPI converts layout inches to SVG pixel coordinates.
	renderDPI = 96.0

	// textInset matches the horizontal inset the sizer wraps against.
	textInset = 0.1

	// diamondTextRatio matches the sizer's usable width inside a diamond.
	diamondTextRatio = 0.55

	cornerRadiusPx   = 6.0
	connectorStroke  = 1.5
	legendSwatchIn   = 0.18
	legendSpacingIn  = 1.45
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cfg   config.Config
	sizer *layout.Sizer
}

// WithConfig renders with the given configuration instead of the defaults.
// The palette, font stack and page margins come from here; geometry always
// comes from the layout itself.
func WithConfig(cfg config.Config) SVGOption {
	return func(r *svgRenderer) { r.cfg = cfg }
}

// WithTextSizer substitutes the sizer used to re-wrap node text, mainly
// for tests that need fixed metrics independent of installed fonts.
func WithTextSizer(s *layout.Sizer) SVGOption {
	return func(r *svgRenderer) { r.sizer = s }
}

// RenderSVG draws a computed layout as a standalone SVG document.
//
// Geometry is taken verbatim from l.Result; the renderer wraps text with
// the same measurer the layout engine sized boxes with, so lines fit the
// rectangles they were estimated for. Output is deterministic for a given
// layout and configuration.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	pw := px(l.PageWidth)
	ph := px(l.PageHeight)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		pw, ph, pw, ph)

	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#FFFFFF"/>`+"\n", pw, ph)

	if l.Heading != "" {
		r.renderHeading(&buf, l)
	}

	for _, n := range l.Graph.Nodes {
		rect, ok := l.Result.Rects[n.ID]
		if !ok {
			continue
		}
		r.renderShape(&buf, n, rect)
	}

	for _, c := range l.Result.Connectors {
		r.renderConnector(&buf, c)
	}
	for _, lb := range l.Result.Labels {
		r.renderLabel(&buf, lb)
	}

	for _, n := range l.Graph.Nodes {
		rect, ok := l.Result.Rects[n.ID]
		if !ok {
			continue
		}
		r.renderText(&buf, n, rect)
	}

	if l.ShowKey {
		r.renderKey(&buf, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cfg: config.Default()}
	for _, opt := range opts {
		opt(&r)
	}
	if r.sizer == nil {
		r.sizer = layout.NewSizer(r.cfg)
	}
	return r
}

func px(in float64) float64 { return in * renderDPI }

// ptPx converts a point size to SVG pixels at render DPI.
func ptPx(pt float64) float64 { return pt / 72.0 * renderDPI }

func (r *svgRenderer) fontStack() string {
	if len(r.cfg.Font.Families) == 0 {
		return "sans-serif"
	}
	return strings.Join(r.cfg.Font.Families, ", ") + ", sans-serif"
}

// lineHeightIn mirrors the sizer's per-line advance so rendered text fits
// the estimated box heights.
func (r *svgRenderer) lineHeightIn() float64 {
	return r.sizer.Body().LineHeight() + r.cfg.Font.LinePad/72.0
}

// ===== Defs =====

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">`+"\n")
	fmt.Fprintf(buf, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", escapeXML(r.cfg.Palette.Arrows))
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
}

// ===== Heading and Key =====

func (r *svgRenderer) renderHeading(buf *bytes.Buffer, l graph.Layout) {
	y := px(r.cfg.Page.MarginTop * 0.55)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f" font-weight="bold" fill="%s">%s</text>`+"\n",
		px(l.PageWidth)/2, y, escapeXML(r.fontStack()), ptPx(r.cfg.Font.TitleSize),
		escapeXML(r.cfg.Palette.Heading), escapeXML(l.Heading))
}

func (r *svgRenderer) renderKey(buf *bytes.Buffer, l graph.Layout) {
	entries := []struct {
		kind string
		name string
	}{
		{"start", "Start"},
		{"info", "Information"},
		{"action", "Action"},
		{"decision", "Decision"},
		{"end", "End"},
	}

	sw := px(legendSwatchIn)
	y := px(l.PageHeight - r.cfg.Page.MarginBottom*0.6)
	x := px(r.cfg.Page.MarginLeft)
	fs := ptPx(r.cfg.Font.BodySize)

	for _, e := range entries {
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			x, y-sw, sw, sw, escapeXML(r.cfg.Palette.Fill(e.kind)), escapeXML(r.cfg.Palette.Footer))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
			x+sw+4, y-sw*0.2, escapeXML(r.fontStack()), fs, escapeXML(r.cfg.Palette.Text), e.name)
		x += px(legendSpacingIn)
	}
}

// ===== Shapes =====

func (r *svgRenderer) renderShape(buf *bytes.Buffer, n graph.Node, rect layout.Rect) {
	fill := escapeXML(r.cfg.Palette.Fill(n.Kind))
	outline := escapeXML(r.cfg.Palette.Outline)

	switch n.Kind {
	case "start", "end":
		// Pill: full-height corner radius.
		fmt.Fprintf(buf, `  <rect id="node-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			escapeXML(n.ID), px(rect.X), px(rect.Y), px(rect.W), px(rect.H), px(rect.H)/2, fill, outline)
	case "decision":
		fmt.Fprintf(buf, `  <polygon id="node-%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			escapeXML(n.ID),
			px(rect.CenterX()), px(rect.Y),
			px(rect.Right()), px(rect.CenterY()),
			px(rect.CenterX()), px(rect.Bottom()),
			px(rect.X), px(rect.CenterY()),
			fill, outline)
	default:
		fmt.Fprintf(buf, `  <rect id="node-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			escapeXML(n.ID), px(rect.X), px(rect.Y), px(rect.W), px(rect.H), cornerRadiusPx, fill, outline)
	}
}

// ===== Text =====

func (r *svgRenderer) renderText(buf *bytes.Buffer, n graph.Node, rect layout.Rect) {
	switch n.Kind {
	case "start", "end":
		r.renderCenteredText(buf, []string{n.Title}, rect, true)
	case "decision":
		lines := r.sizer.Wrap(n.Title, rect.W*diamondTextRatio)
		r.renderCenteredText(buf, lines, rect, true)
	default:
		r.renderBoxText(buf, n, rect)
	}
}

// renderCenteredText stacks lines around the vertical center of the rect.
func (r *svgRenderer) renderCenteredText(buf *bytes.Buffer, lines []string, rect layout.Rect, bold bool) {
	lineH := r.lineHeightIn()
	total := float64(len(lines)) * lineH
	top := rect.CenterY() - total/2

	weight := ""
	if bold {
		weight = ` font-weight="bold"`
	}

	for i, line := range lines {
		if line == "" {
			continue
		}
		y := px(top + (float64(i)+0.78)*lineH)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f"%s fill="%s">%s</text>`+"\n",
			px(rect.CenterX()), y, escapeXML(r.fontStack()), ptPx(r.cfg.Font.BodySize), weight,
			escapeXML(r.cfg.Palette.Text), escapeXML(line))
	}
}

// renderBoxText draws the title bold on top, then detail lines, wrapped the
// same way the sizer estimated the box height.
func (r *svgRenderer) renderBoxText(buf *bytes.Buffer, n graph.Node, rect layout.Rect) {
	innerW := rect.W - 2*textInset
	lineH := r.lineHeightIn()
	fs := ptPx(r.cfg.Font.BodySize)
	left := px(rect.X + textInset)
	top := rect.Y + r.cfg.Font.BoxPadding/2

	row := 0
	emit := func(text string, bold bool) {
		weight := ""
		if bold {
			weight = ` font-weight="bold"`
		}
		y := px(top + (float64(row)+0.78)*lineH)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f"%s fill="%s">%s</text>`+"\n",
			left, y, escapeXML(r.fontStack()), fs, weight, escapeXML(r.cfg.Palette.Text), escapeXML(text))
		row++
	}

	if n.Title != "" {
		for _, line := range r.sizer.Wrap(n.Title, innerW) {
			emit(line, true)
		}
	}
	for _, d := range n.Details {
		for _, line := range r.sizer.WrapLine(flow.Line{Text: d.Text, Bullet: d.Bullet}, innerW) {
			emit(line, false)
		}
	}
}

// ===== Connectors and Labels =====

func (r *svgRenderer) renderConnector(buf *bytes.Buffer, c layout.Connector) {
	pts := make([]string, len(c.Points))
	for i, p := range c.Points {
		pts[i] = fmt.Sprintf("%.1f,%.1f", px(p.X), px(p.Y))
	}

	dash := ""
	if c.Fallback {
		dash = ` stroke-dasharray="6 4"`
	}

	fmt.Fprintf(buf, `  <polyline id="edge-%s" points="%s" fill="none" stroke="%s" stroke-width="%.1f"%s marker-end="url(#arrow)"/>`+"\n",
		escapeXML(c.From+"-"+c.To), strings.Join(pts, " "),
		escapeXML(r.cfg.Palette.Arrows), connectorStroke, dash)
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, lb layout.Label) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#FFFFFF" stroke="%s" stroke-width="0.5"/>`+"\n",
		px(lb.X), px(lb.Y), px(lb.W), px(lb.H), escapeXML(r.cfg.Palette.Footer))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
		px(lb.X+lb.W/2), px(lb.Y+lb.H*0.68), escapeXML(r.fontStack()), ptPx(r.cfg.Font.BodySize-1),
		escapeXML(r.cfg.Palette.Text), escapeXML(lb.Text))
}

// ===== Helpers =====

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
