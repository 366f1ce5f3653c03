// Package nearest answers nearest-graph-node queries against a fixed set of
// coordinates using a 100x100 bucket grid over the whole sphere, expanding a
// search ring outward from the query's home cell until the candidate found
// so far is provably closer than anything a wider ring could still contain.
package nearest

import (
	"errors"
	"math"

	"seaways/pkg/geo"
)

const (
	xSize = 100
	ySize = 100
)

// ErrNotFound is returned when no node exists anywhere in the index.
var ErrNotFound = errors.New("nearest: index is empty")

type candidate struct {
	id       uint32
	lon, lat float64
}

// Index buckets a fixed set of (lon,lat) coordinates for nearest-neighbor
// lookup.
type Index struct {
	grid [xSize * ySize][]candidate
}

// Build constructs an Index over nodeLat/nodeLon, indexed by position (the
// returned node id for lookups is the index into these slices).
func Build(nodeLat, nodeLon []float64) *Index {
	idx := &Index{}
	for i := range nodeLat {
		cell := cellFor(nodeLon[i], nodeLat[i])
		idx.grid[cell] = append(idx.grid[cell], candidate{id: uint32(i), lon: nodeLon[i], lat: nodeLat[i]})
	}
	return idx
}

// Find returns the id of the node nearest to (lon, lat), expanding the
// search ring until the best candidate found is guaranteed closer than any
// node a wider ring could still contain.
func (idx *Index) Find(lon, lat float64) (uint32, error) {
	centerCell := cellFor(lon, lat)
	bestID, bestDist, found := idx.nearestInCell(centerCell, lon, lat)

	maxRadius := xSize
	if ySize > maxRadius {
		maxRadius = ySize
	}
	for r := 1; r < maxRadius; r++ {
		id, dist, ok, radius := idx.nearestForRadius(r, centerCell, lon, lat)
		if ok && (!found || dist < bestDist) {
			bestID, bestDist, found = id, dist, true
		}
		if found && bestDist <= radius {
			return bestID, nil
		}
	}
	if found {
		return bestID, nil
	}
	return 0, ErrNotFound
}

// nearestForRadius scans the ring of cells at Chebyshev distance
// distanceToCenter from centerCell, returning the closest candidate found on
// that ring and the smallest great-circle distance from (lon,lat) to the
// midpoint of any cell on that ring (the lower bound used for early
// termination).
func (idx *Index) nearestForRadius(distanceToCenter, centerCell int, lon, lat float64) (id uint32, dist float64, ok bool, radius float64) {
	radius = math.MaxFloat64
	cx, cy := xyForIndex(centerCell)

	scan := func(x, y int) {
		if y < 0 || y >= ySize {
			return
		}
		xMod := ((x % xSize) + xSize) % xSize
		cellIdx := indexForXY(xMod, y)
		if cid, cdist, cok := idx.nearestInCell(cellIdx, lon, lat); cok && (!ok || cdist < dist) {
			id, dist, ok = cid, cdist, true
		}
		midLon, midLat := cellMidpoint(xMod, y)
		if d := geo.Haversine(lat, lon, midLat, midLon); d < radius {
			radius = d
		}
	}

	for _, y := range []int{cy - distanceToCenter, cy + distanceToCenter} {
		for x := cx - distanceToCenter; x <= cx+distanceToCenter; x++ {
			scan(x, y)
		}
	}
	for _, x := range []int{cx - distanceToCenter, cx + distanceToCenter} {
		for y := cy - distanceToCenter + 1; y < cy+distanceToCenter; y++ {
			scan(x, y)
		}
	}
	if radius == math.MaxFloat64 {
		radius = 0
	}
	return id, dist, ok, radius
}

func (idx *Index) nearestInCell(cellIdx int, lon, lat float64) (id uint32, dist float64, ok bool) {
	if cellIdx < 0 || cellIdx >= len(idx.grid) {
		return 0, 0, false
	}
	best := math.MaxFloat64
	for _, c := range idx.grid[cellIdx] {
		d := geo.Haversine(lat, lon, c.lat, c.lon)
		if d < best {
			best, id, ok = d, c.id, true
		}
	}
	return id, best, ok
}

func cellMidpoint(x, y int) (lon, lat float64) {
	lon0, lat0 := coordsOfXY(x, y)
	return lon0 + 0.5*360/xSize, lat0 + 0.5*180/ySize
}

func coordsOfXY(x, y int) (lon, lat float64) {
	return float64(x)/xSize*360 - 180, float64(y)/ySize*180 - 90
}

func indexForXY(x, y int) int { return x + y*xSize }

func xyForIndex(index int) (x, y int) {
	y = index / xSize
	x = index - y*xSize
	return x, y
}

func cellFor(lon, lat float64) int {
	if lon >= 180 {
		lon = -180
	}
	x := int((lon + 180) / 360 * xSize)
	y := int((lat + 90) / 180 * ySize)
	x = clamp(x, 0, xSize-1)
	y = clamp(y, 0, ySize-1)
	return indexForXY(x, y)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
