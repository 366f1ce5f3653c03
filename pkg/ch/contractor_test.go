package ch

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaways/pkg/graph"
	"seaways/pkg/routing"
)

// buildTrivialGraph mirrors the 8-node "dummy graph" used across the path
// engine tests: 0-1:2, 0-4:1, 1-2:2, 1-4:1, 2-3:1, 2-4:2, 3-4:3, 3-6:2,
// 4-5:1, 5-6:3, 5-7:1, 6-7:1 (all edges bidirectional).
func buildTrivialGraph(t *testing.T) *graph.Graph {
	t.Helper()
	type e struct{ a, b, w uint32 }
	edges := []e{
		{0, 1, 2}, {0, 4, 1},
		{1, 2, 2}, {1, 4, 1},
		{2, 3, 1}, {2, 4, 2},
		{3, 4, 3}, {3, 6, 2},
		{4, 5, 1},
		{5, 6, 3}, {5, 7, 1},
		{6, 7, 1},
	}
	const n = 8
	firstOut := make([]uint32, n+1)
	type directed struct{ from, to, w uint32 }
	var all []directed
	for _, edge := range edges {
		all = append(all, directed{edge.a, edge.b, edge.w}, directed{edge.b, edge.a, edge.w})
	}
	for _, d := range all {
		firstOut[d.from+1]++
	}
	for i := 1; i <= n; i++ {
		firstOut[i] += firstOut[i-1]
	}
	head := make([]uint32, len(all))
	weight := make([]uint32, len(all))
	pos := make([]uint32, n)
	copy(pos, firstOut[:n])
	for _, d := range all {
		idx := pos[d.from]
		head[idx] = d.to
		weight[idx] = d.w
		pos[d.from]++
	}
	return &graph.Graph{
		NumNodes: n, NumEdges: uint32(len(all)),
		FirstOut: firstOut, Head: head, Weight: weight,
		NodeLat: make([]float64, n), NodeLon: make([]float64, n),
	}
}

// plainDijkstra is a baseline O(V^2) shortest-path computation independent
// of the package under test, used to cross-check CH query results.
func plainDijkstra(g *graph.Graph, src, dst uint32) (uint32, bool) {
	const inf = ^uint32(0)
	dist := make([]uint32, g.NumNodes)
	visited := make([]bool, g.NumNodes)
	for i := range dist {
		dist[i] = inf
	}
	dist[src] = 0
	for range g.NumNodes {
		u, best := uint32(0), inf
		found := false
		for v := uint32(0); v < g.NumNodes; v++ {
			if !visited[v] && dist[v] < best {
				u, best, found = v, dist[v], true
			}
		}
		if !found {
			break
		}
		visited[u] = true
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if nd := dist[u] + g.Weight[e]; nd < dist[v] {
				dist[v] = nd
			}
		}
	}
	if dist[dst] == inf {
		return 0, false
	}
	return dist[dst], true
}

func TestContractPreservesAllPairDistances(t *testing.T) {
	g := buildTrivialGraph(t)
	rng := rand.New(rand.NewPCG(1, 2))
	meta := Build(g, rng)

	q := NewQuery(meta)
	for src := uint32(0); src < g.NumNodes; src++ {
		for dst := uint32(0); dst < g.NumNodes; dst++ {
			if src == dst {
				continue
			}
			wantDist, reachable := plainDijkstra(g, src, dst)
			path, gotDist, _, err := q.Route(src, dst)
			if !reachable {
				assert.Errorf(t, err, "(%d->%d): expected unreachable, got distance %d", src, dst, gotDist)
				continue
			}
			require.NoErrorf(t, err, "(%d->%d): CH query failed", src, dst)
			assert.Equalf(t, wantDist, gotDist, "(%d->%d): CH distance mismatch", src, dst)
			assert.Equalf(t, src, path[0], "(%d->%d): unwrapped path start wrong: %v", src, dst, path)
			assert.Equalf(t, dst, path[len(path)-1], "(%d->%d): unwrapped path end wrong: %v", src, dst, path)
			assert.Truef(t, isValidOriginalPath(g, path), "(%d->%d): unwrapped path uses a non-existent edge: %v", src, dst, path)
		}
	}
}

// isValidOriginalPath checks that every consecutive pair in path is a real
// edge in g (not a shortcut) — confirming Unwrap fully expanded the route.
func isValidOriginalPath(g *graph.Graph, path []uint32) bool {
	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]
		found := false
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			if g.Head[e] == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestShortcutInvariants(t *testing.T) {
	g := buildTrivialGraph(t)
	rng := rand.New(rand.NewPCG(7, 9))
	meta := Build(g, rng)

	seen := make(map[[2]uint32]bool)
	for source, scs := range meta.ShortcutsBySource {
		for _, sc := range scs {
			key := [2]uint32{source, sc.Target}
			assert.Falsef(t, seen[key], "duplicate shortcut for (%d,%d)", source, sc.Target)
			seen[key] = true

			var sum uint32
			for i := 0; i+1 < len(sc.ReplacedEdges); i++ {
				u, v := sc.ReplacedEdges[i], sc.ReplacedEdges[i+1]
				start, end := g.EdgesFrom(u)
				found := false
				for e := start; e < end; e++ {
					if g.Head[e] == v {
						sum += g.Weight[e]
						found = true
						break
					}
				}
				require.Truef(t, found, "replaced_edges step (%d,%d) is not an original edge", u, v)
			}
			assert.LessOrEqualf(t, sc.Dist, sum, "shortcut (%d,%d) distance exceeds replaced path length", source, sc.Target)
		}
	}
}

func TestQueryMatchesPlainRoutingEngines(t *testing.T) {
	g := buildTrivialGraph(t)
	rng := rand.New(rand.NewPCG(3, 4))
	meta := Build(g, rng)
	q := NewQuery(meta)

	view := graph.View(g)
	es := routing.NewEngineState(g.NumNodes)

	for dst := uint32(1); dst < g.NumNodes; dst++ {
		dijkstraRes, err := routing.Dijkstra(view, es, 0, dst)
		require.NoErrorf(t, err, "Dijkstra(0->%d)", dst)
		_, chDist, _, err := q.Route(0, dst)
		require.NoErrorf(t, err, "CH Route(0->%d)", dst)
		assert.Equalf(t, dijkstraRes.DistMeters, chDist, "CH(0->%d) vs Dijkstra(0->%d)", dst, dst)
	}
}
