package ch

import "math"

// witnessHeap is a concrete binary min-heap for the witness-search Dijkstra,
// avoiding container/heap interface boxing in the contraction hot loop.
type witnessHeap struct {
	nodes []uint32
	dists []uint32
}

func (h *witnessHeap) len() int { return len(h.nodes) }

func (h *witnessHeap) push(node, dist uint32) {
	h.nodes = append(h.nodes, node)
	h.dists = append(h.dists, dist)
	i := len(h.nodes) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if h.dists[i] >= h.dists[parent] {
			break
		}
		h.nodes[i], h.nodes[parent] = h.nodes[parent], h.nodes[i]
		h.dists[i], h.dists[parent] = h.dists[parent], h.dists[i]
		i = parent
	}
}

func (h *witnessHeap) pop() (uint32, uint32) {
	n := len(h.nodes) - 1
	node, dist := h.nodes[0], h.dists[0]
	h.nodes[0], h.dists[0] = h.nodes[n], h.dists[n]
	h.nodes, h.dists = h.nodes[:n], h.dists[:n]
	i := 0
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.dists[left] < h.dists[smallest] {
			smallest = left
		}
		if right < n && h.dists[right] < h.dists[smallest] {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.nodes[i], h.nodes[smallest] = h.nodes[smallest], h.nodes[i]
		h.dists[i], h.dists[smallest] = h.dists[smallest], h.dists[i]
		i = smallest
	}
	return node, dist
}

// witnessState is reused across contract() calls to avoid per-call allocation.
type witnessState struct {
	dist    []uint32
	touched []uint32
	heap    witnessHeap
}

func newWitnessState(n uint32) *witnessState {
	dist := make([]uint32, n)
	for i := range dist {
		dist[i] = math.MaxUint32
	}
	return &witnessState{dist: dist}
}

func (ws *witnessState) reset() {
	for _, u := range ws.touched {
		ws.dist[u] = math.MaxUint32
	}
	ws.touched = ws.touched[:0]
	ws.heap.nodes = ws.heap.nodes[:0]
	ws.heap.dists = ws.heap.dists[:0]
}

// search runs a standard Dijkstra from source over wg, treating excludeNode
// (the contraction pivot) as absent in addition to already-removed nodes.
// It terminates once every target has been popped or the heap empties, and
// returns the shortest distance found to each target (MaxUint32 if unreached).
func (ws *witnessState) search(wg *workingGraph, source, excludeNode uint32, targets []uint32) map[uint32]uint32 {
	ws.reset()
	remaining := make(map[uint32]bool, len(targets))
	for _, t := range targets {
		remaining[t] = true
	}

	ws.dist[source] = 0
	ws.touched = append(ws.touched, source)
	ws.heap.push(source, 0)

	for ws.heap.len() > 0 && len(remaining) > 0 {
		u, d := ws.heap.pop()
		if d > ws.dist[u] {
			continue
		}
		delete(remaining, u)
		wg.forEachLiveEdge(u, excludeNode, func(v, w uint32) {
			nd := d + w
			if nd < ws.dist[v] {
				if ws.dist[v] == math.MaxUint32 {
					ws.touched = append(ws.touched, v)
				}
				ws.dist[v] = nd
				ws.heap.push(v, nd)
			}
		})
	}

	result := make(map[uint32]uint32, len(targets))
	for _, t := range targets {
		result[t] = ws.dist[t]
	}
	return result
}
