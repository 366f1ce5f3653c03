package graph

import "testing"

func buildDirected(numNodes uint32, edges [][3]uint32) *Graph {
	firstOut := make([]uint32, numNodes+1)
	for _, e := range edges {
		firstOut[e[0]+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}
	head := make([]uint32, len(edges))
	weight := make([]uint32, len(edges))
	pos := make([]uint32, numNodes)
	copy(pos, firstOut[:numNodes])
	for _, e := range edges {
		idx := pos[e[0]]
		head[idx] = e[1]
		weight[idx] = e[2]
		pos[e[0]]++
	}
	return &Graph{
		NumNodes: numNodes,
		NumEdges: uint32(len(edges)),
		FirstOut: firstOut,
		Head:     head,
		Weight:   weight,
		NodeLat:  make([]float64, numNodes),
		NodeLon:  make([]float64, numNodes),
	}
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	for i := range uint32(5) {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	uf.Union(1, 3)
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
}

func TestLargestComponent(t *testing.T) {
	// Component 1: 0 <-> 1 <-> 2 (3 nodes); Component 2: 3 <-> 4 (2 nodes).
	g := buildDirected(5, [][3]uint32{
		{0, 1, 100}, {1, 0, 100},
		{1, 2, 200}, {2, 1, 200},
		{3, 4, 300}, {4, 3, 300},
	})

	nodes := LargestComponent(g)
	if len(nodes) != 3 {
		t.Fatalf("LargestComponent has %d nodes, want 3", len(nodes))
	}
}

func TestFilterToComponent(t *testing.T) {
	g := buildDirected(5, [][3]uint32{
		{0, 1, 100}, {1, 2, 200}, {2, 0, 300}, // triangle
		{3, 4, 400}, // isolated pair
	})

	nodes := LargestComponent(g)
	filtered := FilterToComponent(g, nodes)

	if filtered.NumNodes != 3 {
		t.Fatalf("filtered NumNodes = %d, want 3", filtered.NumNodes)
	}
	if filtered.NumEdges != 3 {
		t.Fatalf("filtered NumEdges = %d, want 3", filtered.NumEdges)
	}

	if err := filtered.Validate(); err != nil {
		t.Errorf("filtered graph invalid: %v", err)
	}

	var total uint32
	for _, w := range filtered.Weight {
		total += w
	}
	if total != 600 {
		t.Errorf("total weight = %d, want 600", total)
	}
}

func TestFilterToComponentEmptyGraph(t *testing.T) {
	g := &Graph{}
	nodes := LargestComponent(g)
	if nodes != nil {
		t.Errorf("expected nil for empty graph, got %v", nodes)
	}

	filtered := FilterToComponent(g, nil)
	if filtered.NumNodes != 0 || filtered.NumEdges != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", filtered.NumNodes, filtered.NumEdges)
	}
}
