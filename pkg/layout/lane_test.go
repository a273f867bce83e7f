package layout

import "testing"

func TestNextFreeOffset(t *testing.T) {
	tests := []struct {
		name     string
		occupied []float64
		want     float64
		wantOK   bool
	}{
		{"all free", nil, 0, true},
		{"zero taken", []float64{0}, 0.1, true},
		{"zero and plus taken", []float64{0, 0.1}, -0.1, true},
		{"first ring taken", []float64{0, 0.1, -0.1}, 0.2, true},
		{"everything taken", []float64{0, 0.1, -0.1, 0.2, -0.2, 0.3, -0.3}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free := func(off float64) bool {
				for _, o := range tt.occupied {
					if almostEqual(o, off) {
						return false
					}
				}
				return true
			}
			got, ok := NextFreeOffset(free, 0.1, 3)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !almostEqual(got, tt.want) {
				t.Errorf("offset = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextFreeOffsetPrefersPositiveSide(t *testing.T) {
	// +step and -step both free: the positive side wins deterministically.
	got, ok := NextFreeOffset(func(off float64) bool { return off != 0 }, 0.1, 3)
	if !ok || !almostEqual(got, 0.1) {
		t.Errorf("offset = %v, %v, want +0.1", got, ok)
	}
}

func TestLaneTableOverlap(t *testing.T) {
	lt := NewLaneTable()
	lt.Add([]Point{{1, 2}, {4, 2}}) // horizontal at y=2, x 1..4

	if lt.FreeH(2, 3, 5) {
		t.Error("overlapping span at same y should be occupied")
	}
	if !lt.FreeH(2, 4, 6) {
		t.Error("span that only touches endpoint should be free")
	}
	if !lt.FreeH(2.5, 1, 4) {
		t.Error("same span at different y should be free")
	}

	lt.Add([]Point{{5, 0}, {5, 3}}) // vertical at x=5, y 0..3
	if lt.FreeV(5, 2, 4) {
		t.Error("overlapping vertical span should be occupied")
	}
	if !lt.FreeV(5.5, 2, 4) {
		t.Error("vertical span on another lane should be free")
	}
}

func TestLaneTableRegistersPolyline(t *testing.T) {
	lt := NewLaneTable()
	lt.Add([]Point{{0, 0}, {2, 0}, {2, 3}, {4, 3}})

	if lt.FreeH(0, 1, 3) {
		t.Error("first segment not registered")
	}
	if lt.FreeV(2, 1, 2) {
		t.Error("middle segment not registered")
	}
	if lt.FreeH(3, 2.5, 3.5) {
		t.Error("last segment not registered")
	}
}

func TestLaneTableQuantizesNearbyCoordinates(t *testing.T) {
	lt := NewLaneTable()
	lt.Add([]Point{{0, 1.0}, {5, 1.0}})
	// Within the quantum, 1.004 lands on the same lane as 1.0.
	if lt.FreeH(1.004, 2, 3) {
		t.Error("coordinates within the lane quantum should share a lane")
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
