// Package bench cross-checks the path engines against each other: Dijkstra
// is the baseline, and A*, Bidirectional Dijkstra, and contraction
// hierarchy queries are only kept in the results if they agree with it on
// both distance and path length.
package bench

import (
	"math/rand/v2"
	"time"

	"seaways/pkg/ch"
	"seaways/pkg/graph"
	"seaways/pkg/routing"
)

// Result records one query's outcome for one engine.
type Result struct {
	QueryID            int
	StartNode, EndNode uint32
	NumNodes           int
	DistMeters         uint32
	NodesPopped        int
	Elapsed            time.Duration
}

// AlgoResults collects every accepted result for one engine.
type AlgoResults struct {
	Results []Result
}

// Collected holds one AlgoResults per engine run during a benchmark pass.
type Collected struct {
	Dijkstra     AlgoResults
	AStar        AlgoResults
	BidiDijkstra AlgoResults
	CH           AlgoResults
}

// Run draws numQueries+1 random nodes and chains them into numQueries
// queries, running all four engines on each and discarding any disagreement
// with the Dijkstra baseline.
func Run(g *graph.Graph, meta *ch.Metadata, numQueries int, rng *rand.Rand) Collected {
	var collected Collected
	if g.NumNodes == 0 {
		return collected
	}

	sample := randomNodeSample(int(g.NumNodes), numQueries+1, rng)

	view := graph.View(g)
	es := routing.NewEngineState(g.NumNodes)
	bs := routing.NewBidiState(g.NumNodes)
	q := ch.NewQuery(meta)

	for i := 0; i+1 < len(sample); i++ {
		src, dst := uint32(sample[i]), uint32(sample[i+1])

		base, ok := runDijkstra(view, es, src, dst, i)
		if !ok {
			continue // some node pairs are unreachable, e.g. isolated islands
		}
		collected.Dijkstra.Results = append(collected.Dijkstra.Results, base)

		if r, ok := runAStar(view, es, src, dst, i); ok && agrees(r, base) {
			collected.AStar.Results = append(collected.AStar.Results, r)
		}
		if r, ok := runBidi(view, bs, src, dst, i); ok && agrees(r, base) {
			collected.BidiDijkstra.Results = append(collected.BidiDijkstra.Results, r)
		}
		if r, ok := runCH(q, src, dst, i); ok && agrees(r, base) {
			collected.CH.Results = append(collected.CH.Results, r)
		}
	}
	return collected
}

func agrees(a, b Result) bool {
	return a.NumNodes == b.NumNodes && a.DistMeters == b.DistMeters
}

// randomNodeSample draws min(k, n) distinct node ids without replacement.
func randomNodeSample(n, k int, rng *rand.Rand) []int {
	if k > n {
		k = n
	}
	perm := rng.Perm(n)
	return perm[:k]
}

func runDijkstra(g graph.AdjacencyView, s *routing.EngineState, src, dst uint32, queryID int) (Result, bool) {
	start := time.Now()
	res, err := routing.Dijkstra(g, s, src, dst)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, false
	}
	return Result{
		QueryID: queryID, StartNode: src, EndNode: dst,
		NumNodes: len(res.Nodes), DistMeters: res.DistMeters,
		NodesPopped: res.NodesPopped, Elapsed: elapsed,
	}, true
}

func runAStar(g graph.AdjacencyView, s *routing.EngineState, src, dst uint32, queryID int) (Result, bool) {
	start := time.Now()
	res, err := routing.AStar(g, s, src, dst)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, false
	}
	return Result{
		QueryID: queryID, StartNode: src, EndNode: dst,
		NumNodes: len(res.Nodes), DistMeters: res.DistMeters,
		NodesPopped: res.NodesPopped, Elapsed: elapsed,
	}, true
}

func runBidi(g graph.AdjacencyView, s *routing.BidiState, src, dst uint32, queryID int) (Result, bool) {
	start := time.Now()
	res, err := routing.BidiDijkstra(g, s, src, dst)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, false
	}
	return Result{
		QueryID: queryID, StartNode: src, EndNode: dst,
		NumNodes: len(res.Nodes), DistMeters: res.DistMeters,
		NodesPopped: res.NodesPopped, Elapsed: elapsed,
	}, true
}

func runCH(q *ch.Query, src, dst uint32, queryID int) (Result, bool) {
	start := time.Now()
	path, dist, popped, err := q.Route(src, dst)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, false
	}
	return Result{
		QueryID: queryID, StartNode: src, EndNode: dst,
		NumNodes: len(path), DistMeters: dist,
		NodesPopped: popped, Elapsed: elapsed,
	}, true
}
