// Package ch implements contraction hierarchy preprocessing and the
// CH-accelerated bidirectional query, grounded on the independent-set batch
// contraction algorithm rather than an edge-difference priority queue: each
// round samples an independent set of nodes, buckets them by original
// out-degree, exempts the largest bucket (the emerging core), and contracts
// the rest via witness search.
package ch

import "seaways/pkg/graph"

// Shortcut is a single entry in shortcuts_by_source: the edge it adds plus
// the node-id path it replaces. ReplacedEdges includes both endpoints;
// interior ids are the contracted path.
type Shortcut struct {
	ReplacedEdges []uint32
	Target        uint32
	Dist          uint32
}

// Metadata is the output of contraction: the original graph augmented with
// shortcut edges, plus the map used to unwrap them back to original edges.
type Metadata struct {
	Graph             *graph.Graph
	ShortcutsBySource map[uint32][]Shortcut
}

// addShortcut records a shortcut from source to target if none already
// exists for that ordered pair, enforcing "at most one shortcut per (u,v)".
func addShortcut(shortcuts map[uint32][]Shortcut, source uint32, sc Shortcut) bool {
	for _, existing := range shortcuts[source] {
		if existing.Target == sc.Target {
			return false
		}
	}
	shortcuts[source] = append(shortcuts[source], sc)
	return true
}

// mergeShortcuts builds the augmented graph: original edges plus one
// directed edge per recorded shortcut.
func mergeShortcuts(g *graph.Graph, shortcuts map[uint32][]Shortcut) *graph.Graph {
	type edge struct{ from, to, w uint32 }
	edges := make([]edge, 0, len(g.Head)+len(shortcuts)*2)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			edges = append(edges, edge{u, g.Head[e], g.Weight[e]})
		}
	}
	for source, scs := range shortcuts {
		for _, sc := range scs {
			edges = append(edges, edge{source, sc.Target, sc.Dist})
		}
	}

	firstOut := make([]uint32, g.NumNodes+1)
	for _, e := range edges {
		firstOut[e.from+1]++
	}
	for i := uint32(1); i <= g.NumNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}
	head := make([]uint32, len(edges))
	weight := make([]uint32, len(edges))
	pos := make([]uint32, g.NumNodes)
	copy(pos, firstOut[:g.NumNodes])
	for _, e := range edges {
		idx := pos[e.from]
		head[idx] = e.to
		weight[idx] = e.w
		pos[e.from]++
	}

	return &graph.Graph{
		NumNodes: g.NumNodes,
		NumEdges: uint32(len(edges)),
		FirstOut: firstOut,
		Head:     head,
		Weight:   weight,
		NodeLat:  g.NodeLat,
		NodeLon:  g.NodeLon,
	}
}
