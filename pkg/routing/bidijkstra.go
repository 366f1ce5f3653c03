package routing

import (
	"math"

	"seaways/pkg/graph"
)

// BidiState holds the forward and backward search state for Bidirectional Dijkstra.
type BidiState struct {
	distFwd, distBwd []uint32
	prevFwd, prevBwd []uint32
	touched          []uint32
	fwdHeap, bwdHeap MinHeap
}

// NewBidiState allocates state for a graph with n nodes.
func NewBidiState(n uint32) *BidiState {
	distFwd := make([]uint32, n)
	distBwd := make([]uint32, n)
	prevFwd := make([]uint32, n)
	prevBwd := make([]uint32, n)
	for i := range distFwd {
		distFwd[i] = math.MaxUint32
		distBwd[i] = math.MaxUint32
		prevFwd[i] = noNode
		prevBwd[i] = noNode
	}
	return &BidiState{distFwd: distFwd, distBwd: distBwd, prevFwd: prevFwd, prevBwd: prevBwd}
}

// Reset clears only touched entries, for fast reuse.
func (s *BidiState) Reset() {
	for _, u := range s.touched {
		s.distFwd[u] = math.MaxUint32
		s.distBwd[u] = math.MaxUint32
		s.prevFwd[u] = noNode
		s.prevBwd[u] = noNode
	}
	s.touched = s.touched[:0]
	s.fwdHeap.Reset()
	s.bwdHeap.Reset()
}

func (s *BidiState) touch(u uint32) {
	if s.distFwd[u] == math.MaxUint32 && s.distBwd[u] == math.MaxUint32 {
		s.touched = append(s.touched, u)
	}
}

// BidiDijkstra runs bidirectional Dijkstra with μ-termination: forward from
// src, backward from dst, expanding the side with fewer total touched nodes
// at each step, stopping once the sum of the two heap minima reaches the
// best known src→dst distance.
func BidiDijkstra(g graph.AdjacencyView, s *BidiState, src, dst uint32) (Result, error) {
	s.Reset()
	s.touch(src)
	s.distFwd[src] = 0
	s.fwdHeap.Push(PQItem{Node: src, Priority: 0, Dist: 0})
	s.touch(dst)
	s.distBwd[dst] = 0
	s.bwdHeap.Push(PQItem{Node: dst, Priority: 0, Dist: 0})

	mu := uint32(math.MaxUint32)
	meetNode := noNode
	poppedFwd, poppedBwd := 0, 0

	for s.fwdHeap.Len() > 0 && s.bwdHeap.Len() > 0 {
		if s.fwdHeap.PeekPriority() != math.MaxUint32 && s.bwdHeap.PeekPriority() != math.MaxUint32 {
			if s.fwdHeap.PeekPriority()+s.bwdHeap.PeekPriority() >= mu {
				break
			}
		}

		expandFwd := s.fwdHeap.Len()+poppedFwd <= s.bwdHeap.Len()+poppedBwd
		if expandFwd {
			top := s.fwdHeap.Pop()
			poppedFwd++
			if top.Dist > s.distFwd[top.Node] {
				continue
			}
			u := top.Node
			g.ForEachEdge(u, func(v, w uint32) {
				nd := s.distFwd[u] + w
				if nd < s.distFwd[v] {
					s.touch(v)
					s.distFwd[v] = nd
					s.prevFwd[v] = u
					s.fwdHeap.Push(PQItem{Node: v, Priority: nd, Dist: nd})
					if s.distBwd[v] != math.MaxUint32 {
						if cand := nd + s.distBwd[v]; cand < mu {
							mu = cand
							meetNode = v
						}
					}
				}
			})
		} else {
			top := s.bwdHeap.Pop()
			poppedBwd++
			if top.Dist > s.distBwd[top.Node] {
				continue
			}
			u := top.Node
			g.ForEachEdge(u, func(v, w uint32) {
				nd := s.distBwd[u] + w
				if nd < s.distBwd[v] {
					s.touch(v)
					s.distBwd[v] = nd
					s.prevBwd[v] = u
					s.bwdHeap.Push(PQItem{Node: v, Priority: nd, Dist: nd})
					if s.distFwd[v] != math.MaxUint32 {
						if cand := nd + s.distFwd[v]; cand < mu {
							mu = cand
							meetNode = v
						}
					}
				}
			})
		}
	}

	if meetNode == noNode {
		return Result{}, ErrNoRoute
	}

	fwdPath := reconstructPath(s.prevFwd, src, meetNode)
	bwdPath := reconstructPath(s.prevBwd, dst, meetNode)
	path := make([]uint32, 0, len(fwdPath)+len(bwdPath)-1)
	path = append(path, fwdPath...)
	for i := len(bwdPath) - 2; i >= 0; i-- {
		path = append(path, bwdPath[i])
	}

	return Result{Nodes: path, DistMeters: mu, NodesPopped: poppedFwd + poppedBwd}, nil
}
