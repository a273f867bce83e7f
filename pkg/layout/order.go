package layout

import (
	"sort"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// OrderColumns decides the top-to-bottom order of nodes within each
// column. Ordering is by topological rank (Kahn's algorithm seeded in
// declaration order), which keeps flow direction downward within a
// column. A second pass then pulls each decision's down-branch target
// directly beneath its decision when both share a column, so the short
// vertical branch does not have to thread past unrelated boxes.
func OrderColumns(g *flow.Graph, cols map[string]int) map[int][]string {
	rank := topoRank(g)

	byCol := make(map[int][]string)
	for _, id := range g.NodeIDs() {
		c := cols[id]
		byCol[c] = append(byCol[c], id)
	}
	for c := range byCol {
		ids := byCol[c]
		sort.SliceStable(ids, func(i, j int) bool { return rank[ids[i]] < rank[ids[j]] })
	}

	pullDownBranches(g, cols, byCol)
	return byCol
}

// topoRank returns each node's position in a stable topological order.
func topoRank(g *flow.Graph) map[string]int {
	remaining := make(map[string]int, g.NodeCount())
	var queue []string
	for _, id := range g.NodeIDs() {
		remaining[id] = g.InDegree(id)
		if remaining[id] == 0 {
			queue = append(queue, id)
		}
	}

	rank := make(map[string]int, g.NodeCount())
	next := 0
	seen := make(map[string]bool, g.NodeCount())
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if seen[u] {
			continue
		}
		seen[u] = true
		rank[u] = next
		next++
		for _, e := range g.Outgoing(u) {
			remaining[e.To]--
			if remaining[e.To] <= 0 {
				queue = append(queue, e.To)
			}
		}
	}
	return rank
}

// pullDownBranches moves a decision's first down target to the slot
// right after the decision within the same column. Only the first
// matching target moves; later down branches keep their topological
// slots, and nothing is reordered across columns.
func pullDownBranches(g *flow.Graph, cols map[string]int, byCol map[int][]string) {
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		if n.Kind != flow.KindDecision {
			continue
		}
		for _, e := range g.Outgoing(id) {
			if cols[e.To] != cols[id] {
				continue
			}
			ids := byCol[cols[id]]
			src := indexOf(ids, id)
			dst := indexOf(ids, e.To)
			if src >= 0 && dst > src+1 {
				target := ids[dst]
				copy(ids[src+2:dst+1], ids[src+1:dst])
				ids[src+1] = target
			}
			break
		}
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
