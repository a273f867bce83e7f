package layout

import (
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

func TestPlanRoutesLinearEdgesGoRight(t *testing.T) {
	g := chainGraph(t)
	pref := PlanRoutes(g)
	for _, e := range g.Edges() {
		if pref[e] != DirRight {
			t.Errorf("edge %s->%s = %v, want right", e.From, e.To, pref[e])
		}
	}
}

func TestPlanRoutesYesGoesRight(t *testing.T) {
	g := decisionGraph(t)
	pref := PlanRoutes(g)

	if got := pref[flow.Edge{From: "D", To: "E", Label: "Yes"}]; got != DirRight {
		t.Errorf("Yes path = %v, want right", got)
	}
	if got := pref[flow.Edge{From: "D", To: "R", Label: "No"}]; got != DirDown {
		t.Errorf("No path = %v, want down", got)
	}
}

func TestPlanRoutesYesIsCaseInsensitive(t *testing.T) {
	g := build(t,
		[]flow.Node{
			{ID: "S", Kind: flow.KindStart},
			{ID: "D", Kind: flow.KindDecision},
			{ID: "A", Kind: flow.KindAction},
			{ID: "E", Kind: flow.KindEnd},
		},
		[]flow.Edge{
			{From: "S", To: "D"},
			{From: "D", To: "A", Label: "no"},
			{From: "D", To: "E", Label: "YES"},
			{From: "A", To: "E"},
		})
	pref := PlanRoutes(g)
	if got := pref[flow.Edge{From: "D", To: "E", Label: "YES"}]; got != DirRight {
		t.Errorf("YES path = %v, want right despite later declaration", got)
	}
	if got := pref[flow.Edge{From: "D", To: "A", Label: "no"}]; got != DirDown {
		t.Errorf("no path = %v, want down", got)
	}
}

func TestPlanRoutesNoYesLabelUsesFirstDeclared(t *testing.T) {
	g := build(t,
		[]flow.Node{
			{ID: "S", Kind: flow.KindStart},
			{ID: "D", Kind: flow.KindDecision},
			{ID: "A", Kind: flow.KindAction},
			{ID: "B", Kind: flow.KindAction},
			{ID: "E", Kind: flow.KindEnd},
		},
		[]flow.Edge{
			{From: "S", To: "D"},
			{From: "D", To: "A", Label: "Approve"},
			{From: "D", To: "B", Label: "Reject"},
			{From: "A", To: "E"},
			{From: "B", To: "E"},
		})
	pref := PlanRoutes(g)
	if got := pref[flow.Edge{From: "D", To: "A", Label: "Approve"}]; got != DirRight {
		t.Errorf("first declared path = %v, want right", got)
	}
	if got := pref[flow.Edge{From: "D", To: "B", Label: "Reject"}]; got != DirDown {
		t.Errorf("second path = %v, want down", got)
	}
}

func TestPlanRoutesSinglePathDecisionGoesDown(t *testing.T) {
	g := build(t,
		[]flow.Node{
			{ID: "S", Kind: flow.KindStart},
			{ID: "D", Kind: flow.KindDecision},
			{ID: "E", Kind: flow.KindEnd},
		},
		[]flow.Edge{
			{From: "S", To: "D"},
			{From: "D", To: "E", Label: "Done"},
		})
	pref := PlanRoutes(g)
	if got := pref[flow.Edge{From: "D", To: "E", Label: "Done"}]; got != DirDown {
		t.Errorf("single decision path = %v, want down", got)
	}
}

func TestPlanRoutesAtMostOneRightPerDecision(t *testing.T) {
	g := build(t,
		[]flow.Node{
			{ID: "S", Kind: flow.KindStart},
			{ID: "D", Kind: flow.KindDecision},
			{ID: "A", Kind: flow.KindAction},
			{ID: "B", Kind: flow.KindAction},
			{ID: "C", Kind: flow.KindAction},
			{ID: "E", Kind: flow.KindEnd},
		},
		[]flow.Edge{
			{From: "S", To: "D"},
			{From: "D", To: "A", Label: "High"},
			{From: "D", To: "B", Label: "Medium"},
			{From: "D", To: "C", Label: "Low"},
			{From: "A", To: "E"},
			{From: "B", To: "E"},
			{From: "C", To: "E"},
		})
	pref := PlanRoutes(g)
	rights := 0
	for _, e := range g.Outgoing("D") {
		if pref[e] == DirRight {
			rights++
		}
	}
	if rights != 1 {
		t.Errorf("decision has %d right paths, want exactly 1", rights)
	}
}
