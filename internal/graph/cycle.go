package graph

import (
	"slices"

	"github.com/petrijr/flowgraph/pkg/api"
)

// FindCycle performs a DFS over nodes in index order and returns the first
// cycle it meets as a forward path v -> ... -> v, or nil.
//
// This does not attempt to list all cycles; it returns a single stable witness.
func FindCycle(nodes []api.Node) []api.Node {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[api.Node]int, len(nodes))
	parent := make(map[api.Node]api.Node, len(nodes))

	var cycle []api.Node

	var dfs func(u api.Node) bool
	dfs = func(u api.Node) bool {
		color[u] = gray
		for e := range u.Outgoing() {
			v := e.Dst()
			if v == nil {
				continue
			}
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back-edge u -> v: walk parents from u up to v.
				var back []api.Node
				for cur := u; cur != v; cur = parent[cur] {
					back = append(back, cur)
				}
				slices.Reverse(back)
				cycle = append([]api.Node{v}, back...)
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, n := range nodes {
		if color[n] == white && dfs(n) {
			return cycle
		}
	}
	return nil
}
