package routing

import (
	"slices"
	"testing"

	"seaways/pkg/graph"
)

// buildTrivialGraph constructs the 8-node "dummy graph" used throughout the
// shortest-path test scenarios: 0-1:2, 0-4:1, 1-2:2, 1-4:1, 2-3:1, 2-4:2,
// 3-4:3, 3-6:2, 4-5:1, 5-6:3, 5-7:1, 6-7:1 (all edges bidirectional).
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

func TestDijkstraDistancesFromTrivialGraph(t *testing.T) {
	g := buildTrivialGraph(t)
	view := graph.View(g)
	s := NewEngineState(g.NumNodes)

	want := []uint32{0, 2, 3, 4, 1, 2, 4, 3}
	for dst, wantDist := range want {
		res, err := Dijkstra(view, s, 0, uint32(dst))
		if err != nil {
			t.Fatalf("Dijkstra(0->%d): %v", dst, err)
		}
		if res.DistMeters != wantDist {
			t.Errorf("Dijkstra(0->%d) = %d, want %d", dst, res.DistMeters, wantDist)
		}
	}
}

func TestAStarMatchesDijkstraOnTrivialGraph(t *testing.T) {
	g := buildTrivialGraph(t)
	view := graph.View(g)
	s := NewEngineState(g.NumNodes)

	res, err := AStar(view, s, 0, 7)
	if err != nil {
		t.Fatalf("AStar: %v", err)
	}
	if res.DistMeters != 3 {
		t.Errorf("AStar distance = %d, want 3", res.DistMeters)
	}
	want := []uint32{0, 4, 5, 7}
	if !slices.Equal(res.Nodes, want) {
		t.Errorf("AStar path = %v, want %v", res.Nodes, want)
	}
}

func TestBidiDijkstraMeetingPoint(t *testing.T) {
	g := buildTrivialGraph(t)
	view := graph.View(g)
	s := NewBidiState(g.NumNodes)

	res, err := BidiDijkstra(view, s, 0, 7)
	if err != nil {
		t.Fatalf("BidiDijkstra: %v", err)
	}
	if res.DistMeters != 3 {
		t.Errorf("BidiDijkstra distance = %d, want 3", res.DistMeters)
	}
	if res.Nodes[0] != 0 || res.Nodes[len(res.Nodes)-1] != 7 {
		t.Fatalf("path does not start/end at src/dst: %v", res.Nodes)
	}
	meetOK := false
	for _, n := range res.Nodes {
		if n == 4 || n == 5 || n == 6 {
			meetOK = true
		}
	}
	if !meetOK {
		t.Errorf("expected path through one of {4,5,6}, got %v", res.Nodes)
	}
}

func TestDijkstraNoRoute(t *testing.T) {
	g := &graph.Graph{
		NumNodes: 2, NumEdges: 0,
		FirstOut: []uint32{0, 0, 0},
		NodeLat:  []float64{0, 0}, NodeLon: []float64{0, 0},
	}
	view := graph.View(g)
	s := NewEngineState(g.NumNodes)
	if _, err := Dijkstra(view, s, 0, 1); err != ErrNoRoute {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestEngineStateResetIsIdempotent(t *testing.T) {
	g := buildTrivialGraph(t)
	view := graph.View(g)
	s := NewEngineState(g.NumNodes)

	for range 3 {
		res, err := Dijkstra(view, s, 0, 7)
		if err != nil {
			t.Fatalf("Dijkstra: %v", err)
		}
		if res.DistMeters != 3 {
			t.Errorf("DistMeters = %d, want 3 (state may be leaking between queries)", res.DistMeters)
		}
	}
}
