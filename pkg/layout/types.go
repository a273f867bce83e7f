package layout

import (
	"fmt"

	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// Point is a position on the page, in inches from the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box on the page, in inches.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the x coordinate of the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the y coordinate of the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// MidTop returns the midpoint of the top edge.
func (r Rect) MidTop() Point { return Point{r.CenterX(), r.Y} }

// MidBottom returns the midpoint of the bottom edge.
func (r Rect) MidBottom() Point { return Point{r.CenterX(), r.Bottom()} }

// MidLeft returns the midpoint of the left edge.
func (r Rect) MidLeft() Point { return Point{r.X, r.CenterY()} }

// MidRight returns the midpoint of the right edge.
func (r Rect) MidRight() Point { return Point{r.Right(), r.CenterY()} }

// Expand returns the rect grown by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Overlaps reports whether two rects intersect with positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Direction classifies how an edge leaves its source box.
type Direction int

const (
	// DirRight departs from the right edge into the next column.
	DirRight Direction = iota
	// DirDown departs from the bottom edge within the same column.
	DirDown
)

func (d Direction) String() string {
	if d == DirDown {
		return "down"
	}
	return "right"
}

// Connector is one routed edge: an orthogonal polyline from the source
// box boundary to the target box boundary. Fallback marks connectors that
// exhausted the lane search and were drawn as a direct line instead.
type Connector struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Label    string  `json:"label,omitempty"`
	Points   []Point `json:"points"`
	Fallback bool    `json:"fallback,omitempty"`
}

// EdgeKey names a connector for diagnostics, "From->To" with the label
// appended for decision paths.
func (c Connector) EdgeKey() string {
	if c.Label == "" {
		return fmt.Sprintf("%s->%s", c.From, c.To)
	}
	return fmt.Sprintf("%s->%s(%s)", c.From, c.To, c.Label)
}

// Label is a decision path caption placed near the connector origin.
type Label struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// Result is the complete computed layout for one graph.
//
// Rects, Columns and Rows are keyed by node ID. Connectors are in routing
// order, which is itself deterministic, so identical input yields an
// identical Result.
type Result struct {
	Rects      map[string]Rect       `json:"rects"`
	Columns    map[string]int        `json:"columns"`
	Rows       map[string]int        `json:"rows"`
	Connectors []Connector           `json:"connectors"`
	Labels     []Label               `json:"labels,omitempty"`
	Frame      Rect                  `json:"frame"`
	Warnings   []pferrors.Diagnostic `json:"warnings,omitempty"`
}

// Policy decides the departure direction of every edge in the graph.
// The engine ships a default (see PlanRoutes); callers may substitute
// their own to change branch geometry without touching the router.
type Policy func(g *flow.Graph) map[flow.Edge]Direction
