package layout

import (
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

func orderFor(t *testing.T, g *flow.Graph) (map[string]int, map[int][]string) {
	t.Helper()
	cols, err := AssignColumns(g, PlanRoutes(g))
	if err != nil {
		t.Fatalf("AssignColumns: %v", err)
	}
	return cols, OrderColumns(g, cols)
}

func TestOrderColumnsFollowsTopology(t *testing.T) {
	g := decisionGraph(t)
	cols, byCol := orderFor(t, g)

	ids := byCol[cols["D"]]
	src := indexOf(ids, "D")
	dst := indexOf(ids, "R")
	if src < 0 || dst < 0 {
		t.Fatalf("column %d = %v, want D and R present", cols["D"], ids)
	}
	if dst < src {
		t.Errorf("down target R placed above its decision: %v", ids)
	}
}

func TestOrderColumnsPullsDownBranchBelowDecision(t *testing.T) {
	// Column 1 holds A (plain chain member), D, and D's down target R.
	// Topological rank alone would order by discovery; the pull pass must
	// put R immediately after D.
	g := build(t,
		[]flow.Node{
			{ID: "S1", Kind: flow.KindStart},
			{ID: "S2", Kind: flow.KindStart},
			{ID: "D", Kind: flow.KindDecision},
			{ID: "A", Kind: flow.KindAction},
			{ID: "B", Kind: flow.KindAction},
			{ID: "R", Kind: flow.KindAction},
			{ID: "E", Kind: flow.KindEnd},
		},
		[]flow.Edge{
			{From: "S1", To: "D"},
			{From: "S2", To: "A"},
			{From: "D", To: "E", Label: "Yes"},
			{From: "D", To: "R", Label: "No"},
			{From: "A", To: "B"},
			{From: "B", To: "E"},
			{From: "R", To: "E"},
		})
	cols, byCol := orderFor(t, g)

	ids := byCol[cols["D"]]
	src := indexOf(ids, "D")
	if src < 0 || src+1 >= len(ids) || ids[src+1] != "R" {
		t.Errorf("column order = %v, want R immediately after D", ids)
	}
}

func TestOrderColumnsCoversEveryNodeOnce(t *testing.T) {
	g := decisionGraph(t)
	_, byCol := orderFor(t, g)

	seen := map[string]int{}
	for _, ids := range byCol {
		for _, id := range ids {
			seen[id]++
		}
	}
	for _, id := range g.NodeIDs() {
		if seen[id] != 1 {
			t.Errorf("node %s appears %d times in column order, want 1", id, seen[id])
		}
	}
}

func TestOrderColumnsDeterministic(t *testing.T) {
	g := decisionGraph(t)
	cols, err := AssignColumns(g, PlanRoutes(g))
	if err != nil {
		t.Fatal(err)
	}
	first := OrderColumns(g, cols)
	for i := 0; i < 5; i++ {
		again := OrderColumns(g, cols)
		for c, ids := range first {
			other := again[c]
			if len(other) != len(ids) {
				t.Fatalf("run %d: column %d length changed", i, c)
			}
			for j := range ids {
				if ids[j] != other[j] {
					t.Fatalf("run %d: column %d order changed: %v vs %v", i, c, ids, other)
				}
			}
		}
	}
}
