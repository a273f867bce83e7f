package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// Engine turns a validated flow graph into absolute page geometry.
type Engine struct {
	cfg    config.Config
	policy Policy
	sizer  *Sizer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPolicy substitutes the edge direction policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithSizer substitutes the box sizer, mainly for tests that need
// fixed metrics independent of installed fonts.
func WithSizer(s *Sizer) Option {
	return func(e *Engine) { e.sizer = s }
}

// New creates a layout engine for the given configuration.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, policy: PlanRoutes}
	for _, opt := range opts {
		opt(e)
	}
	if e.sizer == nil {
		e.sizer = NewSizer(cfg)
	}
	return e
}

// Layout computes the full layout: validation, direction planning,
// column assignment, vertical ordering, sizing, placement and routing.
//
// Graph integrity failures abort before any geometry is computed. A
// column taller than the drawable area or a diagram wider than the page
// does not abort: layout completes and the condition is reported as an
// overflow diagnostic naming the column and its nodes.
func (e *Engine) Layout(g *flow.Graph) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, integrityError(err)
	}

	pref := e.policy(g)
	cols, err := AssignColumns(g, pref)
	if err != nil {
		return nil, err
	}
	byCol := OrderColumns(g, cols)

	res := &Result{
		Rects:   make(map[string]Rect, g.NodeCount()),
		Columns: cols,
		Rows:    make(map[string]int, g.NodeCount()),
		Frame: Rect{
			X: e.cfg.Page.MarginLeft,
			Y: e.cfg.Page.MarginTop,
			W: e.cfg.Page.UsableWidth(),
			H: e.cfg.Page.UsableHeight(),
		},
	}

	e.placeColumns(g, pref, byCol, res)

	conns, labels, warns := RouteConnectors(g, e.cfg, res.Rects, cols, res.Rows, pref)
	res.Connectors = conns
	res.Labels = labels
	res.Warnings = append(res.Warnings, warns...)
	return res, nil
}

// placeColumns assigns absolute rectangles column by column. Each column
// is vertically centered in the drawable area; Start and End lozenges
// are narrower than the column and centered horizontally within it.
func (e *Engine) placeColumns(g *flow.Graph, pref map[flow.Edge]Direction, byCol map[int][]string, res *Result) {
	lay := e.cfg.Layout
	downDecisions := decisionsWithDownBranch(g, pref)

	colIdx := make([]int, 0, len(byCol))
	for c := range byCol {
		colIdx = append(colIdx, c)
	}
	sort.Ints(colIdx)

	usableH := e.cfg.Page.UsableHeight()
	neededW := float64(len(colIdx))*lay.BoxWidth + float64(len(colIdx)-1)*lay.ColumnGap
	if neededW > e.cfg.Page.UsableWidth() {
		res.Warnings = append(res.Warnings, pferrors.Diagnostic{
			Code: pferrors.ErrCodeColumnOverflow,
			Message: fmt.Sprintf("%d columns need %.2fin, page provides %.2fin",
				len(colIdx), neededW, e.cfg.Page.UsableWidth()),
		})
	}

	x := e.cfg.Page.MarginLeft
	for _, c := range colIdx {
		ids := byCol[c]

		totalH := 0.0
		for i, id := range ids {
			n, _ := g.Node(id)
			_, h := e.sizer.Size(n)
			totalH += h
			if i < len(ids)-1 {
				totalH += lay.RowGap
				if downDecisions[id] {
					totalH += lay.DecisionGap
				}
			}
		}
		if totalH > usableH {
			res.Warnings = append(res.Warnings, pferrors.Diagnostic{
				Code: pferrors.ErrCodeColumnOverflow,
				Message: fmt.Sprintf("column %d needs %.2fin, page provides %.2fin",
					c, totalH, usableH),
				IDs: append([]string(nil), ids...),
			})
		}

		y := e.cfg.Page.MarginTop
		if slack := usableH - totalH; slack > 0 {
			y += slack / 2
		}
		for row, id := range ids {
			n, _ := g.Node(id)
			w, h := e.sizer.Size(n)
			bx := x
			if w < lay.BoxWidth {
				bx += (lay.BoxWidth - w) / 2
			}
			res.Rects[id] = Rect{X: bx, Y: y, W: w, H: h}
			res.Rows[id] = row
			y += h + lay.RowGap
			if downDecisions[id] {
				y += lay.DecisionGap
			}
		}
		x += lay.BoxWidth + lay.ColumnGap
	}
}

// decisionsWithDownBranch marks decisions with at least one down path.
// Those get extra clearance below for arrow labels.
func decisionsWithDownBranch(g *flow.Graph, pref map[flow.Edge]Direction) map[string]bool {
	out := make(map[string]bool)
	for _, e := range g.Edges() {
		n, ok := g.Node(e.From)
		if ok && n.Kind == flow.KindDecision && pref[e] == DirDown {
			out[e.From] = true
		}
	}
	return out
}

// integrityError maps model validation failures onto structured codes.
func integrityError(err error) error {
	switch {
	case errors.Is(err, flow.ErrNoStartNode):
		return pferrors.Wrap(pferrors.ErrCodeNoStartNode, err, "graph validation")
	case errors.Is(err, flow.ErrUnreachableNode):
		return pferrors.Wrap(pferrors.ErrCodeUnreachable, err, "graph validation")
	case errors.Is(err, flow.ErrDanglingEdge), errors.Is(err, flow.ErrUnknownSourceNode):
		return pferrors.Wrap(pferrors.ErrCodeDanglingEdge, err, "graph validation")
	default:
		return pferrors.Wrap(pferrors.ErrCodeGraphIntegrity, err, "graph validation")
	}
}
