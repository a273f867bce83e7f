package layout

import (
	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// AssignColumns places every node in a column. Start nodes seed column 0;
// an edge routed right proposes its source's column plus one, an edge
// routed down proposes the same column. A node keeps the maximum of all
// proposals, so joins land to the right of their furthest contributor
// and never to the left of any predecessor.
//
// The walk is breadth-first with indegree counting: a node is expanded
// once all its incoming edges have proposed, which on a validated acyclic
// graph visits every node exactly once. A node left without a column
// is unreachable and reported as a graph integrity error.
func AssignColumns(g *flow.Graph, pref map[flow.Edge]Direction) (map[string]int, error) {
	cols := make(map[string]int, g.NodeCount())
	assigned := make(map[string]bool, g.NodeCount())

	queue := g.Starts()
	for _, s := range queue {
		cols[s] = 0
		assigned[s] = true
	}

	remaining := make(map[string]int, g.NodeCount())
	for _, id := range g.NodeIDs() {
		remaining[id] = g.InDegree(id)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		cu := cols[u]
		for _, e := range g.Outgoing(u) {
			proposal := cu
			if pref[e] == DirRight {
				proposal = cu + 1
			}
			if !assigned[e.To] || proposal > cols[e.To] {
				cols[e.To] = proposal
				assigned[e.To] = true
			}
			remaining[e.To]--
			if remaining[e.To] <= 0 {
				queue = append(queue, e.To)
			}
		}
	}

	for _, id := range g.NodeIDs() {
		if !assigned[id] {
			return nil, pferrors.New(pferrors.ErrCodeUnreachable,
				"node %s was never assigned a column", id)
		}
	}
	return cols, nil
}

// ColumnCount returns the number of columns a column assignment spans.
func ColumnCount(cols map[string]int) int {
	max := -1
	for _, c := range cols {
		if c > max {
			max = c
		}
	}
	return max + 1
}
