package ch

import "seaways/pkg/graph"

// workingGraph is the mutable view contraction operates over: the original
// CSR graph plus a removed set. Edges to or from a removed node are treated
// as absent, without ever rebuilding the CSR arrays.
type workingGraph struct {
	g       *graph.Graph
	removed []bool
}

func newWorkingGraph(g *graph.Graph, removed []bool) *workingGraph {
	return &workingGraph{g: g, removed: removed}
}

// forEachLiveEdge visits u's out-edges whose target is not removed and not excludeNode.
func (wg *workingGraph) forEachLiveEdge(u, excludeNode uint32, fn func(target, weight uint32)) {
	if wg.removed[u] {
		return
	}
	start, end := wg.g.EdgesFrom(u)
	for e := start; e < end; e++ {
		v := wg.g.Head[e]
		if wg.removed[v] || v == excludeNode {
			continue
		}
		fn(v, wg.g.Weight[e])
	}
}

// neighbors returns u's live neighbors (not removed) with their edge weights.
func (wg *workingGraph) neighbors(u uint32) []pair {
	var out []pair
	wg.forEachLiveEdge(u, noExclusion, func(v, w uint32) {
		out = append(out, pair{v, w})
	})
	return out
}

type pair struct {
	node   uint32
	weight uint32
}

const noExclusion = ^uint32(0)
