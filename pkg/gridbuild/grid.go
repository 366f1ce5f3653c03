// Package gridbuild places nodes in a quasi-uniform, equal-area pattern
// across the surface of a sphere, rejecting candidates that fall on land,
// and wires them into a graph by connecting each node to its neighbors in
// the same latitude band and the band above it.
package gridbuild

import (
	"math"
	"runtime"
	"sync"

	"seaways/pkg/geo"
	"seaways/pkg/graph"
	"seaways/pkg/polygon"
)

type nodeOrientation int

const (
	orientMid nodeOrientation = iota
	orientLeft
	orientRight
)

type edgeRef struct {
	target uint32
	dist   uint32
}

// Build generates a graph of at most maxNodes nodes over the sphere's
// surface, skipping any candidate position land reports as occupied.
// Node placement follows the Deserno equal-area banding algorithm: bands
// are swept pole to pole, each sized so every node claims roughly the same
// surface area, and newly placed nodes are wired to their same-band
// neighbor and the nearest one to three nodes in the band above.
func Build(land *polygon.Index, maxNodes int) *graph.Graph {
	if maxNodes <= 0 {
		return &graph.Graph{FirstOut: []uint32{0}}
	}

	virtualToIndex := make([]int32, maxNodes)
	for i := range virtualToIndex {
		virtualToIndex[i] = -1
	}
	nodeLat := make([]float64, 0, maxNodes)
	nodeLon := make([]float64, 0, maxNodes)
	edges := make([][]edgeRef, 0, maxNodes)

	const pi = math.Pi
	a := 4 * pi / float64(maxNodes)
	d := math.Sqrt(a)
	mTheta := int(math.Round(pi / d))
	if mTheta < 1 {
		mTheta = 1
	}
	dTheta := pi / float64(mTheta)
	dPhi := a / dTheta

	numVirtualNodes := 0
	numGraphNodes := 0
	numAzimuthStepsLastRound := 0
	numVirtualNodesBeforeLastRound := 0

	for m := mTheta - 1; m >= 0; m-- {
		polar := pi * (float64(m) + 0.5) / float64(mTheta)
		mPhi := int(math.Round(2 * pi * math.Sin(polar) / dPhi))
		if mPhi < 1 {
			mPhi = 1
		}
		numAzimuthStepsThisRound := mPhi
		numVirtualNodesAtStartOfThisRound := numVirtualNodes
		lat := polar*(180/pi) - 90

		candidateLon, candidateOK := testBandCandidates(land, lat, mPhi)

		lastOrientation := orientMid
		for n := 0; n < mPhi; n++ {
			if candidateOK[n] && numVirtualNodes < maxNodes {
				lon := candidateLon[n]
				graphIdx := uint32(numGraphNodes)
				nodeLat = append(nodeLat, lat)
				nodeLon = append(nodeLon, lon)
				edges = append(edges, nil)
				virtualToIndex[numVirtualNodes] = int32(graphIdx)

				if numAzimuthStepsLastRound > 3 {
					wireToPreviousBand(wireParams{
						edges:                          edges,
						lat:                            nodeLat,
						lon:                            nodeLon,
						virtualToIndex:                 virtualToIndex,
						graphIdx:                       graphIdx,
						n:                              n,
						mPhi:                           mPhi,
						numAzimuthStepsLastRound:       numAzimuthStepsLastRound,
						numAzimuthStepsThisRound:       numAzimuthStepsThisRound,
						numVirtualNodes:                numVirtualNodes,
						numVirtualNodesBeforeLastRound: numVirtualNodesBeforeLastRound,
						numVirtualNodesAtStartOfRound:  numVirtualNodesAtStartOfThisRound,
						lastOrientation:                &lastOrientation,
					})

					westVirtual := calcIndexModulo(numVirtualNodesAtStartOfThisRound, mPhi, numVirtualNodes+mPhi-1)
					if wv := virtualIndexAt(virtualToIndex, westVirtual); wv >= 0 {
						addEdge(edges, nodeLat, nodeLon, graphIdx, uint32(wv))
					}
					if n == mPhi-1 && numVirtualNodesAtStartOfThisRound > 1 {
						if fv := virtualIndexAt(virtualToIndex, numVirtualNodesAtStartOfThisRound); fv >= 0 {
							addEdge(edges, nodeLat, nodeLon, graphIdx, uint32(fv))
						}
					}
				}

				numGraphNodes++
			}
			numVirtualNodes++
		}

		numAzimuthStepsLastRound = numAzimuthStepsThisRound
		numVirtualNodesBeforeLastRound = numVirtualNodesAtStartOfThisRound
	}

	return toCSR(nodeLat, nodeLon, edges)
}

// testBandCandidates evaluates land containment for every azimuthal slot in
// a band concurrently, since each test is independent and read-only against
// the shared polygon index.
func testBandCandidates(land *polygon.Index, lat float64, mPhi int) (lons []float64, ok []bool) {
	const pi = math.Pi
	lons = make([]float64, mPhi)
	ok = make([]bool, mPhi)

	numWorkers := min(mPhi, max(1, runtime.GOMAXPROCS(0)))
	chunk := (mPhi + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, mPhi)
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for n := lo; n < hi; n++ {
				azimuthal := 2 * pi * float64(n) / float64(mPhi)
				lon := azimuthal*(180/pi) - 180
				lons[n] = lon
				ok[n] = !land.Contains(lon, lat)
			}
		}(lo, hi)
	}
	wg.Wait()
	return lons, ok
}

type wireParams struct {
	edges                                                     [][]edgeRef
	lat, lon                                                  []float64
	virtualToIndex                                            []int32
	graphIdx                                                  uint32
	n, mPhi                                                   int
	numAzimuthStepsLastRound, numAzimuthStepsThisRound        int
	numVirtualNodes, numVirtualNodesBeforeLastRound           int
	numVirtualNodesAtStartOfRound                             int
	lastOrientation                                           *nodeOrientation
}

// wireToPreviousBand connects a newly placed node to its nearest one to
// three neighbors in the previous (northward) band, bridging any land-hole
// gap with an extra crossing edge so no routing gap is introduced.
func wireToPreviousBand(p wireParams) {
	nFloat := float64(p.n)
	offsetFloat := nFloat + float64(p.numAzimuthStepsLastRound)*
		((float64(p.numAzimuthStepsThisRound)-nFloat)/float64(p.numAzimuthStepsThisRound))
	topRight := p.numVirtualNodes - int(math.Floor(offsetFloat))
	topLeft := p.numVirtualNodes - int(math.Ceil(offsetFloat))

	add := func(virtualIdx int) (ok bool, dist float64) {
		idx := calcIndexModulo(p.numVirtualNodesBeforeLastRound, p.numAzimuthStepsLastRound, virtualIdx)
		target := virtualIndexAt(p.virtualToIndex, idx)
		if target < 0 {
			return false, 0
		}
		dist = addEdge(p.edges, p.lat, p.lon, p.graphIdx, uint32(target))
		return true, dist
	}
	addExtra := func(from uint32, virtualIdx int) {
		idx := calcIndexModulo(p.numVirtualNodesBeforeLastRound, p.numAzimuthStepsLastRound, virtualIdx)
		target := virtualIndexAt(p.virtualToIndex, idx)
		if target < 0 {
			return
		}
		addExtraEdge(p.edges, p.lat, p.lon, from, uint32(target))
	}
	bridgeGap := func() {
		addExtra(p.graphIdx, topLeft-1)
		leftNeighborVirtual := calcIndexModulo(p.numVirtualNodesAtStartOfRound, p.mPhi, p.numVirtualNodes+p.mPhi-1)
		if ln := virtualIndexAt(p.virtualToIndex, leftNeighborVirtual); ln >= 0 {
			addExtra(uint32(ln), topRight)
		}
	}

	switch {
	case topLeft == topRight:
		add(topRight - 1)
		add(topRight)
		add(topRight + 1)
	default:
		rightOK, distRight := add(topRight)
		leftOK, distLeft := add(topLeft)
		switch {
		case !rightOK && leftOK:
			add(topLeft - 1)
		case rightOK && !leftOK:
			add(topRight + 1)
		case rightOK && leftOK:
			switch {
			case distLeft > distRight:
				add(topRight + 1)
				if *p.lastOrientation == orientLeft {
					bridgeGap()
				}
				*p.lastOrientation = orientRight
			case distLeft < distRight:
				add(topLeft - 1)
				*p.lastOrientation = orientLeft
			default:
				if *p.lastOrientation == orientLeft {
					bridgeGap()
				}
			}
		}
	}
}

func addEdge(edges [][]edgeRef, lat, lon []float64, u, v uint32) float64 {
	dist := geo.Haversine(lat[u], lon[u], lat[v], lon[v])
	w := uint32(math.Round(dist))
	edges[u] = append(edges[u], edgeRef{target: v, dist: w})
	edges[v] = append(edges[v], edgeRef{target: u, dist: w})
	return dist
}

func addExtraEdge(edges [][]edgeRef, lat, lon []float64, u, v uint32) {
	dist := geo.Haversine(lat[u], lon[u], lat[v], lon[v])
	w := uint32(math.Round(dist))
	if !hasEdge(edges[u], v) {
		edges[u] = append(edges[u], edgeRef{target: v, dist: w})
	}
	if !hasEdge(edges[v], u) {
		edges[v] = append(edges[v], edgeRef{target: u, dist: w})
	}
}

func hasEdge(list []edgeRef, target uint32) bool {
	for _, e := range list {
		if e.target == target {
			return true
		}
	}
	return false
}

func virtualIndexAt(virtualToIndex []int32, idx int) int32 {
	if idx < 0 || idx >= len(virtualToIndex) {
		return -1
	}
	return virtualToIndex[idx]
}

// calcIndexModulo projects an absolute virtual-node index into the current
// round, wrapping around the round's node count.
func calcIndexModulo(roundStartIndex, nodesInRound, index int) int {
	if nodesInRound <= 0 {
		return roundStartIndex
	}
	idx := index - roundStartIndex + nodesInRound
	idx = ((idx % nodesInRound) + nodesInRound) % nodesInRound
	return idx + roundStartIndex
}

func toCSR(lat, lon []float64, edges [][]edgeRef) *graph.Graph {
	n := uint32(len(lat))
	firstOut := make([]uint32, n+1)
	for i, es := range edges {
		firstOut[i+1] = firstOut[i] + uint32(len(es))
	}
	numEdges := firstOut[n]
	head := make([]uint32, numEdges)
	weight := make([]uint32, numEdges)
	pos := uint32(0)
	for _, es := range edges {
		for _, e := range es {
			head[pos] = e.target
			weight[pos] = e.dist
			pos++
		}
	}
	return &graph.Graph{
		NumNodes: n, NumEdges: numEdges,
		FirstOut: firstOut, Head: head, Weight: weight,
		NodeLat: lat, NodeLon: lon,
	}
}
