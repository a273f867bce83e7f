package layout

import "math"

// laneQuantum is the grid connector coordinates snap to when registered
// as lanes, in inches. Coordinates closer than this share a lane.
const laneQuantum = 0.01

func quantize(v float64) int {
	return int(math.Round(v / laneQuantum))
}

// LaneTable records the horizontal and vertical lanes already occupied by
// routed connectors. Two collinear segments whose spans overlap would be
// drawn on top of each other; the router consults the table and shifts
// to a free parallel lane instead.
type LaneTable struct {
	h map[int][][2]float64 // quantized y -> occupied x spans
	v map[int][][2]float64 // quantized x -> occupied y spans
}

// NewLaneTable returns an empty lane table.
func NewLaneTable() *LaneTable {
	return &LaneTable{
		h: make(map[int][][2]float64),
		v: make(map[int][][2]float64),
	}
}

// FreeH reports whether a horizontal segment at y spanning [x1,x2] would
// overlap an occupied lane.
func (t *LaneTable) FreeH(y, x1, x2 float64) bool {
	lo, hi := span(x1, x2)
	for _, s := range t.h[quantize(y)] {
		if !(s[1] <= lo || s[0] >= hi) {
			return false
		}
	}
	return true
}

// FreeV reports whether a vertical segment at x spanning [y1,y2] would
// overlap an occupied lane.
func (t *LaneTable) FreeV(x, y1, y2 float64) bool {
	lo, hi := span(y1, y2)
	for _, s := range t.v[quantize(x)] {
		if !(s[1] <= lo || s[0] >= hi) {
			return false
		}
	}
	return true
}

// Add registers every segment of an orthogonal polyline as occupied.
// Zero-length segments are skipped.
func (t *LaneTable) Add(points []Point) {
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		switch {
		case a.X == b.X && a.Y == b.Y:
		case a.X == b.X:
			lo, hi := span(a.Y, b.Y)
			k := quantize(a.X)
			t.v[k] = append(t.v[k], [2]float64{lo, hi})
		case a.Y == b.Y:
			lo, hi := span(a.X, b.X)
			k := quantize(a.Y)
			t.h[k] = append(t.h[k], [2]float64{lo, hi})
		}
	}
}

func span(a, b float64) (lo, hi float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// NextFreeOffset searches for the smallest perpendicular displacement at
// which free reports true. Candidates are 0, +step, -step, +2·step,
// -2·step and so on, up to maxSteps steps out on either side, so the
// chosen offset is deterministic and hugs the original position.
// The second return is false when the search space is exhausted.
func NextFreeOffset(free func(offset float64) bool, step float64, maxSteps int) (float64, bool) {
	if free(0) {
		return 0, true
	}
	for i := 1; i <= maxSteps; i++ {
		d := float64(i) * step
		if free(d) {
			return d, true
		}
		if free(-d) {
			return -d, true
		}
	}
	return 0, false
}
