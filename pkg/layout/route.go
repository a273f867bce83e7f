package layout

import (
	"strings"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// PlanRoutes is the default routing policy.
//
// Decision branches: the affirmative path goes right, everything else
// goes down. The affirmative path is the first declared path labeled
// "yes" (case-insensitive); when no path is labeled yes, the first
// declared path takes its place. A decision with a single path routes it
// down, keeping the remainder of the flow in the source column.
//
// Every other edge goes right: a linear chain reads left to right across
// columns rather than stacking in one.
func PlanRoutes(g *flow.Graph) map[flow.Edge]Direction {
	pref := make(map[flow.Edge]Direction, g.EdgeCount())
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		outs := g.Outgoing(id)
		if n.Kind != flow.KindDecision {
			for _, e := range outs {
				pref[e] = DirRight
			}
			continue
		}
		if len(outs) == 0 {
			continue
		}
		if len(outs) == 1 {
			pref[outs[0]] = DirDown
			continue
		}
		right := affirmativePath(outs)
		for _, e := range outs {
			if e == right {
				pref[e] = DirRight
			} else {
				pref[e] = DirDown
			}
		}
	}
	return pref
}

func affirmativePath(outs []flow.Edge) flow.Edge {
	for _, e := range outs {
		if strings.EqualFold(e.Label, "yes") {
			return e
		}
	}
	return outs[0]
}
