// Package routing implements the plain (non-contracted) shortest-path
// engines: Dijkstra, A*, and Bidirectional Dijkstra, all sharing one
// concrete-typed binary heap to avoid interface boxing in the hot loop.
package routing

import (
	"errors"
	"math"

	"seaways/pkg/geo"
	"seaways/pkg/graph"
)

// ErrNoRoute is returned when no route exists between the two nodes.
var ErrNoRoute = errors.New("no route found")

const noNode = ^uint32(0)

// MinHeap is a concrete-typed min-heap keyed by priority (not necessarily
// distance — A* pushes g+h).
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node     uint32
	Priority uint32
	Dist     uint32 // g(u); equals Priority for Dijkstra, differs for A*
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(item PQItem) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekPriority() uint32 {
	if len(h.items) == 0 {
		return math.MaxUint32
	}
	return h.items[0].Priority
}

func (h *MinHeap) Reset() { h.items = h.items[:0] }

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Priority >= h.items[parent].Priority {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].Priority < h.items[smallest].Priority {
			smallest = left
		}
		if right < n && h.items[right].Priority < h.items[smallest].Priority {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// Result is the outcome of a single-direction shortest-path search.
type Result struct {
	Nodes       []uint32
	DistMeters  uint32
	NodesPopped int
}

// EngineState holds the distance, predecessor, and heap arrays shared by
// Dijkstra and A*, reset between queries without reallocation.
type EngineState struct {
	dist    []uint32
	prev    []uint32
	touched []uint32
	heap    MinHeap
}

// NewEngineState allocates state for a graph with n nodes.
func NewEngineState(n uint32) *EngineState {
	dist := make([]uint32, n)
	prev := make([]uint32, n)
	for i := range dist {
		dist[i] = math.MaxUint32
		prev[i] = noNode
	}
	return &EngineState{dist: dist, prev: prev, touched: make([]uint32, 0, 1024)}
}

func (s *EngineState) touch(u, d uint32) {
	if s.dist[u] == math.MaxUint32 {
		s.touched = append(s.touched, u)
	}
	s.dist[u] = d
}

// Reset clears only the touched entries, for fast reuse across queries.
func (s *EngineState) Reset() {
	for _, u := range s.touched {
		s.dist[u] = math.MaxUint32
		s.prev[u] = noNode
	}
	s.touched = s.touched[:0]
	s.heap.Reset()
}

func reconstructPath(prev []uint32, src, dst uint32) []uint32 {
	var path []uint32
	for n := dst; ; {
		path = append(path, n)
		if n == src {
			break
		}
		n = prev[n]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Dijkstra runs the lazy-deletion Dijkstra variant from src to dst.
func Dijkstra(g graph.AdjacencyView, s *EngineState, src, dst uint32) (Result, error) {
	s.Reset()
	s.touch(src, 0)
	s.heap.Push(PQItem{Node: src, Priority: 0, Dist: 0})
	popped := 0

	for s.heap.Len() > 0 {
		top := s.heap.Pop()
		popped++
		if top.Dist > s.dist[top.Node] {
			continue // stale
		}
		u := top.Node
		if u == dst {
			return Result{Nodes: reconstructPath(s.prev, src, dst), DistMeters: s.dist[dst], NodesPopped: popped}, nil
		}
		g.ForEachEdge(u, func(v, w uint32) {
			nd := s.dist[u] + w
			if nd < s.dist[v] {
				s.touch(v, nd)
				s.prev[v] = u
				s.heap.Push(PQItem{Node: v, Priority: nd, Dist: nd})
			}
		})
	}
	return Result{}, ErrNoRoute
}

// AStar runs A* with the great-circle distance to dst as an admissible heuristic.
func AStar(g graph.AdjacencyView, s *EngineState, src, dst uint32) (Result, error) {
	s.Reset()
	dstLat, dstLon := g.NodeCoords(dst)
	heuristic := func(u uint32) uint32 {
		lat, lon := g.NodeCoords(u)
		return uint32(geo.Haversine(lat, lon, dstLat, dstLon))
	}

	s.touch(src, 0)
	s.heap.Push(PQItem{Node: src, Priority: heuristic(src), Dist: 0})
	popped := 0

	for s.heap.Len() > 0 {
		top := s.heap.Pop()
		popped++
		if top.Dist > s.dist[top.Node] {
			continue
		}
		u := top.Node
		if u == dst {
			return Result{Nodes: reconstructPath(s.prev, src, dst), DistMeters: s.dist[dst], NodesPopped: popped}, nil
		}
		g.ForEachEdge(u, func(v, w uint32) {
			nd := s.dist[u] + w
			if nd < s.dist[v] {
				s.touch(v, nd)
				s.prev[v] = u
				s.heap.Push(PQItem{Node: v, Priority: nd + heuristic(v), Dist: nd})
			}
		})
	}
	return Result{}, ErrNoRoute
}
