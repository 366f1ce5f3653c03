package ch

import (
	"seaways/pkg/graph"
	"seaways/pkg/routing"
)

// Query runs the CH-accelerated bidirectional search over meta's augmented
// graph, then unwraps the resulting path back into original-edge terms.
type Query struct {
	meta  *Metadata
	state *routing.BidiState
}

// NewQuery builds a reusable CH query engine over meta.
func NewQuery(meta *Metadata) *Query {
	return &Query{meta: meta, state: routing.NewBidiState(meta.Graph.NumNodes)}
}

// Route returns the unwrapped node-id path from src to dst, its total
// distance in meters, and the number of heap pops performed.
func (q *Query) Route(src, dst uint32) (path []uint32, distMeters uint32, nodesPopped int, err error) {
	view := graph.View(q.meta.Graph)
	res, err := routing.BidiDijkstra(view, q.state, src, dst)
	if err != nil {
		return nil, 0, 0, err
	}
	return Unwrap(q.meta.ShortcutsBySource, res.Nodes), res.DistMeters, res.NodesPopped, nil
}
