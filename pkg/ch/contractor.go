package ch

import (
	"math/rand/v2"

	"seaways/pkg/graph"
)

const (
	numBuckets             = 15
	maxIndependentSetTries = 16 // bounded resample budget; see pickIndependentSet and Build
	targetRemovedFraction  = 0.90
)

// Build contracts g via random-independent-set batch contraction and
// returns the CH metadata (augmented graph plus shortcuts_by_source).
//
// Witness search excludes the pivot node outright rather than special-casing
// "skip if route passes through the pivot": a returned distance can then
// never pass through the pivot, so the shortcut-necessity check collapses
// into one comparison (witness distance <= pivot distance), matching the
// standard contraction-hierarchy formulation.
func Build(g *graph.Graph, rng *rand.Rand) *Metadata {
	n := g.NumNodes
	removed := make([]bool, n)
	outDegree := make([]uint32, n)
	for u := uint32(0); u < n; u++ {
		start, end := g.EdgesFrom(u)
		outDegree[u] = end - start
	}

	shortcuts := make(map[uint32][]Shortcut)
	wg := newWorkingGraph(g, removed)
	ws := newWitnessState(n)

	targetRemoved := uint32(float64(n) * targetRemovedFraction)
	var removedCount uint32
	independentSetSize := max(1, int(n)/100)
	stalledRounds := 0

	for removedCount < targetRemoved {
		set, ok := pickIndependentSet(wg, rng, independentSetSize, maxIndependentSetTries)
		if !ok {
			break // graceful early exit: sampling can no longer make progress
		}

		buckets := bucketByRank(set, outDegree)
		coreBucket := largestBucket(buckets)

		for b := range numBuckets {
			if b == coreBucket {
				continue
			}
			for _, v := range buckets[b] {
				contract(wg, ws, v, shortcuts)
			}
		}
		removedBefore := removedCount
		for b := range numBuckets {
			if b == coreBucket {
				continue
			}
			for _, v := range buckets[b] {
				if !removed[v] {
					removed[v] = true
					removedCount++
				}
			}
		}
		if removedCount == removedBefore {
			// Every sampled node fell in the core bucket, so nothing was contracted.
			stalledRounds++
			if stalledRounds >= maxIndependentSetTries {
				break // graceful early exit: rounds can no longer make progress
			}
		} else {
			stalledRounds = 0
		}
	}

	return &Metadata{Graph: mergeShortcuts(g, shortcuts), ShortcutsBySource: shortcuts}
}

// pickIndependentSet repeatedly samples 2*size random node ids, accepting a
// candidate iff it is not removed, not already in the set, and none of its
// live neighbors is already in the set. It stops once size nodes have been
// accepted or the retry budget is exhausted.
func pickIndependentSet(wg *workingGraph, rng *rand.Rand, size, maxTries int) ([]uint32, bool) {
	n := int(wg.g.NumNodes)
	if n == 0 {
		return nil, false
	}
	inSet := make([]bool, n)
	var set []uint32

	for try := 0; try < maxTries && len(set) < size; try++ {
		need := 2 * size
		for i := 0; i < need && len(set) < size; i++ {
			v := uint32(rng.IntN(n))
			if wg.removed[v] || inSet[v] {
				continue
			}
			conflict := false
			wg.forEachLiveEdge(v, noExclusion, func(u, _ uint32) {
				if inSet[u] {
					conflict = true
				}
			})
			if conflict {
				continue
			}
			inSet[v] = true
			set = append(set, v)
		}
	}
	return set, len(set) > 0
}

// bucketByRank assigns each node in set to one of 15 fixed buckets by its
// original out-degree, clamping degrees at or above 14 into the last bucket.
func bucketByRank(set []uint32, outDegree []uint32) [numBuckets][]uint32 {
	var buckets [numBuckets][]uint32
	for _, v := range set {
		b := outDegree[v]
		if b >= numBuckets {
			b = numBuckets - 1
		}
		buckets[b] = append(buckets[b], v)
	}
	return buckets
}

// largestBucket returns the index of the bucket with the most nodes — the
// "core bucket" exempted from contraction this round.
func largestBucket(buckets [numBuckets][]uint32) int {
	best, bestSize := 0, -1
	for i, b := range buckets {
		if len(b) > bestSize {
			best, bestSize = i, len(b)
		}
	}
	return best
}

// contract removes v's shortest-path role by adding shortcuts between any
// pair of its live neighbors whose only remaining shortest connection would
// go through v.
func contract(wg *workingGraph, ws *witnessState, v uint32, shortcuts map[uint32][]Shortcut) {
	neighbors := wg.neighbors(v)
	if len(neighbors) <= 1 {
		return
	}

	targets := make([]uint32, len(neighbors))
	for i, nb := range neighbors {
		targets[i] = nb.node
	}

	for j, uj := range neighbors {
		witnessDist := ws.search(wg, uj.node, v, targets)
		for l, ul := range neighbors {
			if l == j {
				continue
			}
			dPivot := uj.weight + ul.weight
			dStar := witnessDist[ul.node]
			if dStar <= dPivot {
				continue // a witness avoiding v is already at least as good
			}
			addShortcut(shortcuts, uj.node, Shortcut{
				ReplacedEdges: []uint32{uj.node, v, ul.node},
				Target:        ul.node,
				Dist:          dPivot,
			})
		}
	}
}
