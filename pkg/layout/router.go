package layout

import (
	"math"
	"sort"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// boxClearance is the minimum distance between a connector segment and
// any box it does not attach to, in inches.
const boxClearance = 0.05

// entryLaneFrac positions the shared vertical entry lane left of a
// target box, as a fraction of the column gap. Connectors converging on
// one box merge onto this lane and enter together.
const entryLaneFrac = 0.6

// label box extent, in inches.
const (
	labelW = 0.6
	labelH = 0.28
)

// router carries the shared state of one routing pass.
type router struct {
	cfg    config.Config
	g      *flow.Graph
	rects  map[string]Rect
	lanes  *LaneTable
	entry  map[string]float64 // target id -> shared entry lane x
	warns  []pferrors.Diagnostic
	labels []Label
}

// RouteConnectors routes every edge of the graph as an orthogonal
// polyline between box boundaries.
//
// Edges are processed in (source column, source row, declaration) order,
// so lane assignment and therefore the whole output is deterministic.
// Connectors depart and arrive perpendicular to the box edge: right
// edges leave MidRight and enter MidLeft, down edges leave MidBottom and
// enter MidTop. Segments keep boxClearance from unrelated boxes and
// claim lanes in the shared table; a blocked segment shifts to the
// nearest free parallel lane, sliding its anchor along the box edge.
// When the bounded lane search is exhausted the edge degrades to a
// direct two-point connector and a routing fallback diagnostic.
func RouteConnectors(
	g *flow.Graph,
	cfg config.Config,
	rects map[string]Rect,
	cols map[string]int,
	rows map[string]int,
	pref map[flow.Edge]Direction,
) ([]Connector, []Label, []pferrors.Diagnostic) {
	r := &router{
		cfg:   cfg,
		g:     g,
		rects: rects,
		lanes: NewLaneTable(),
		entry: make(map[string]float64),
	}

	edges := g.Edges()
	order := make([]int, len(edges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := edges[order[a]], edges[order[b]]
		if cols[ea.From] != cols[eb.From] {
			return cols[ea.From] < cols[eb.From]
		}
		if rows[ea.From] != rows[eb.From] {
			return rows[ea.From] < rows[eb.From]
		}
		return order[a] < order[b]
	})

	conns := make([]Connector, 0, len(edges))
	for _, idx := range order {
		e := edges[idx]
		var c Connector
		if pref[e] == DirDown {
			c = r.routeDown(e)
		} else {
			c = r.routeRight(e)
		}
		r.lanes.Add(c.Points)
		r.placeLabel(e, pref[e], c)
		conns = append(conns, c)
	}
	return conns, r.labels, r.warns
}

// ===== Right edges =====

// routeRight connects MidRight of the source to MidLeft of the target.
// Aligned boxes get a straight segment; otherwise the connector runs
// horizontally to the target's entry lane, vertically along it, and
// enters horizontally.
func (r *router) routeRight(e flow.Edge) Connector {
	su, sv := r.rects[e.From], r.rects[e.To]
	p1, p2 := su.MidRight(), sv.MidLeft()

	if math.Abs(p1.Y-p2.Y) < laneQuantum {
		return r.straightH(e, su, sv, p1, p2)
	}

	laneX, ok := r.entryLane(e, su, sv, p1.Y, p2.Y)
	if !ok {
		return r.fallback(e, p1, p2)
	}

	// Departure segment shifts vertically when its lane is taken,
	// sliding the anchor along the source's right edge.
	anchorMax := su.H/2 - boxClearance
	dy, ok := NextFreeOffset(func(off float64) bool {
		if math.Abs(off) > anchorMax {
			return false
		}
		y := p1.Y + off
		return r.segmentClear(Point{p1.X, y}, Point{laneX, y}, e.From, e.To) &&
			r.lanes.FreeH(y, p1.X, laneX)
	}, r.cfg.Layout.LaneClearance, r.cfg.Layout.MaxLaneOffset)
	if !ok {
		return r.fallback(e, p1, p2)
	}
	p1.Y += dy

	if !r.segmentClear(Point{laneX, p1.Y}, Point{laneX, p2.Y}, e.From, e.To) {
		return r.fallback(e, p1, p2)
	}

	return Connector{From: e.From, To: e.To, Label: e.Label, Points: []Point{
		p1,
		{laneX, p1.Y},
		{laneX, p2.Y},
		p2,
	}}
}

// straightH routes an aligned horizontal connector, shifting both
// anchors together when the row lane is occupied.
func (r *router) straightH(e flow.Edge, su, sv Rect, p1, p2 Point) Connector {
	anchorMax := math.Min(su.H, sv.H)/2 - boxClearance
	dy, ok := NextFreeOffset(func(off float64) bool {
		if math.Abs(off) > anchorMax {
			return false
		}
		y := p1.Y + off
		return r.segmentClear(Point{p1.X, y}, Point{p2.X, y}, e.From, e.To) &&
			r.lanes.FreeH(y, p1.X, p2.X)
	}, r.cfg.Layout.LaneClearance, r.cfg.Layout.MaxLaneOffset)
	if !ok {
		return r.fallback(e, p1, p2)
	}
	return Connector{From: e.From, To: e.To, Label: e.Label, Points: []Point{
		{p1.X, p1.Y + dy},
		{p2.X, p2.Y + dy},
	}}
}

// entryLane returns the shared vertical lane for connectors entering
// the target from the left. The first edge to reach a target claims a
// vertically free lane near the preferred gap fraction; later edges to
// the same target merge onto it so arrivals coincide. Lanes claimed for
// other targets stay exclusive.
func (r *router) entryLane(e flow.Edge, su, sv Rect, y1, y2 float64) (float64, bool) {
	if x, ok := r.entry[e.To]; ok {
		return x, true
	}
	base := sv.X - r.cfg.Layout.ColumnGap*entryLaneFrac
	lo := su.Right() + boxClearance
	hi := sv.X - boxClearance
	if base < lo {
		base = lo
	}
	dx, ok := NextFreeOffset(func(off float64) bool {
		x := base + off
		return x >= lo && x <= hi && r.lanes.FreeV(x, y1, y2)
	}, r.cfg.Layout.LaneClearance, r.cfg.Layout.MaxLaneOffset)
	if !ok {
		return 0, false
	}
	x := base + dx
	r.entry[e.To] = x
	return x, true
}

// ===== Down edges =====

// routeDown connects MidBottom of the source to MidTop of the target.
// Aligned boxes get a straight drop, offset boxes cross over in the
// horizontal band between them, and when either is blocked the
// connector swings out through the side channel left of the column.
func (r *router) routeDown(e flow.Edge) Connector {
	su, sv := r.rects[e.From], r.rects[e.To]
	p1, p2 := su.MidBottom(), sv.MidTop()

	if p2.Y <= p1.Y {
		// Target sits beside or above the source (a join pulled it into
		// a later column); enter from the left like a right edge.
		return r.routeRight(e)
	}

	if math.Abs(p1.X-p2.X) < laneQuantum {
		if c, ok := r.straightV(e, su, sv, p1, p2); ok {
			return c
		}
	} else if c, ok := r.crossover(e, p1, p2); ok {
		return c
	}
	if c, ok := r.sideChannel(e, su, sv); ok {
		return c
	}
	return r.fallback(e, p1, p2)
}

// crossover routes an offset down edge through the horizontal band
// between source bottom and target top.
func (r *router) crossover(e flow.Edge, p1, p2 Point) (Connector, bool) {
	bandLo := p1.Y + boxClearance
	bandHi := p2.Y - boxClearance
	mid := (p1.Y + p2.Y) / 2
	dy, ok := NextFreeOffset(func(off float64) bool {
		y := mid + off
		if y < bandLo || y > bandHi {
			return false
		}
		return r.segmentClear(Point{p1.X, y}, Point{p2.X, y}, e.From, e.To) &&
			r.lanes.FreeH(y, p1.X, p2.X) &&
			r.lanes.FreeV(p1.X, p1.Y, y) &&
			r.lanes.FreeV(p2.X, y, p2.Y)
	}, r.cfg.Layout.LaneClearance, r.cfg.Layout.MaxLaneOffset)
	if !ok {
		return Connector{}, false
	}
	y := mid + dy
	return Connector{From: e.From, To: e.To, Label: e.Label, Points: []Point{
		p1,
		{p1.X, y},
		{p2.X, y},
		p2,
	}}, true
}

// straightV routes an aligned vertical connector, shifting both anchors
// along the horizontal box edges when the column lane is occupied.
func (r *router) straightV(e flow.Edge, su, sv Rect, p1, p2 Point) (Connector, bool) {
	anchorMax := math.Min(su.W, sv.W)/2 - boxClearance
	dx, ok := NextFreeOffset(func(off float64) bool {
		if math.Abs(off) > anchorMax {
			return false
		}
		x := p1.X + off
		return r.segmentClear(Point{x, p1.Y}, Point{x, p2.Y}, e.From, e.To) &&
			r.lanes.FreeV(x, p1.Y, p2.Y)
	}, r.cfg.Layout.LaneClearance, r.cfg.Layout.MaxLaneOffset)
	if !ok {
		return Connector{}, false
	}
	return Connector{From: e.From, To: e.To, Label: e.Label, Points: []Point{
		{p1.X + dx, p1.Y},
		{p2.X + dx, p2.Y},
	}}, true
}

// sideChannel routes a down edge that cannot drop through its column:
// out of the source bottom, left into the channel between columns, down
// past the blocking boxes and in through the target's left edge.
func (r *router) sideChannel(e flow.Edge, su, sv Rect) (Connector, bool) {
	p1 := su.MidBottom()
	p2 := sv.MidLeft()
	if p2.Y <= p1.Y {
		return Connector{}, false
	}

	dropBase := su.Bottom() + r.cfg.Layout.RowGap/2
	chanBase := math.Min(su.X, sv.X) - r.cfg.Layout.ColumnGap*entryLaneFrac/2
	if chanBase <= boxClearance {
		return Connector{}, false
	}

	step := r.cfg.Layout.LaneClearance
	maxSteps := r.cfg.Layout.MaxLaneOffset

	dx, ok := NextFreeOffset(func(off float64) bool {
		x := chanBase + off
		return x > boxClearance &&
			r.segmentClear(Point{x, dropBase}, Point{x, p2.Y}, e.From, e.To) &&
			r.lanes.FreeV(x, dropBase, p2.Y)
	}, step, maxSteps)
	if !ok {
		return Connector{}, false
	}
	chanX := chanBase + dx

	dy, ok := NextFreeOffset(func(off float64) bool {
		y := dropBase + off
		if y <= su.Bottom() {
			return false
		}
		return r.segmentClear(Point{chanX, y}, Point{p1.X, y}, e.From, e.To) &&
			r.lanes.FreeH(y, chanX, p1.X)
	}, step, maxSteps)
	if !ok {
		return Connector{}, false
	}
	dropY := dropBase + dy

	// Several branches leave the same bottom edge; slide this one's
	// departure anchor until its short drop has a lane of its own.
	anchorMax := su.W/2 - boxClearance
	ax, ok := NextFreeOffset(func(off float64) bool {
		return math.Abs(off) <= anchorMax &&
			r.lanes.FreeV(p1.X+off, p1.Y, dropY)
	}, step, maxSteps)
	if !ok {
		return Connector{}, false
	}
	p1.X += ax

	if !r.segmentClear(Point{chanX, p2.Y}, p2, e.From, e.To) {
		return Connector{}, false
	}
	return Connector{From: e.From, To: e.To, Label: e.Label, Points: []Point{
		p1,
		{p1.X, dropY},
		{chanX, dropY},
		{chanX, p2.Y},
		p2,
	}}, true
}

// ===== Shared helpers =====

// fallback emits a direct connector and records the routing diagnostic.
func (r *router) fallback(e flow.Edge, p1, p2 Point) Connector {
	c := Connector{From: e.From, To: e.To, Label: e.Label, Points: []Point{p1, p2}, Fallback: true}
	r.warns = append(r.warns, pferrors.Diagnostic{
		Code:    pferrors.ErrCodeRoutingFallback,
		Message: "lane search exhausted, connector drawn direct",
		IDs:     []string{c.EdgeKey()},
	})
	return c
}

// segmentClear reports whether an axis-aligned segment keeps clearance
// from every box except the two it connects.
func (r *router) segmentClear(a, b Point, from, to string) bool {
	for _, id := range r.g.NodeIDs() {
		if id == from || id == to {
			continue
		}
		if segmentHitsRect(a, b, r.rects[id].Expand(boxClearance)) {
			return false
		}
	}
	return true
}

// segmentHitsRect tests an axis-aligned segment against a rect. Running
// exactly along a rect side counts as a hit, which is what forces
// connectors off box boundaries. Diagonal segments always count as hits
// so only orthogonal geometry passes clearance checks.
func segmentHitsRect(a, b Point, rc Rect) bool {
	switch {
	case a.X == b.X:
		lo, hi := span(a.Y, b.Y)
		return rc.X <= a.X && a.X <= rc.Right() && !(rc.Bottom() <= lo || rc.Y >= hi)
	case a.Y == b.Y:
		lo, hi := span(a.X, b.X)
		return rc.Y <= a.Y && a.Y <= rc.Bottom() && !(rc.Right() <= lo || rc.X >= hi)
	default:
		return true
	}
}

// placeLabel records the caption for a labeled decision path, anchored
// near the connector origin: above the line for right paths, left of
// the line for down paths.
func (r *router) placeLabel(e flow.Edge, dir Direction, c Connector) {
	if e.Label == "" {
		return
	}
	n, ok := r.g.Node(e.From)
	if !ok || n.Kind != flow.KindDecision {
		return
	}
	origin := c.Points[0]
	var x, y float64
	if dir == DirRight {
		x, y = origin.X-0.10, origin.Y-0.30
	} else {
		x, y = origin.X-0.15, origin.Y+0.14
	}
	r.labels = append(r.labels, Label{Text: e.Label, X: x, Y: y, W: labelW, H: labelH})
}
