// Package polygon implements land containment testing for the routing
// graph: a three-level spatial index (a labeled 1x1 degree grid, an R-tree
// of ring bounding boxes, then a spherical ray cast) over land polygon
// rings.
package polygon

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

type point struct{ lon, lat float64 }

type label uint8

const (
	labelInitial label = iota
	labelPolygon
	labelOutside
	labelBorder
)

const (
	gridLonCells = 360
	gridLatCells = 180
)

// Index answers point-in-polygon containment queries against a fixed set
// of land rings.
type Index struct {
	rings [][]point
	grid  [gridLonCells][gridLatCells]label
	tree  *rtreego.Rtree
}

// ringSpatial adapts a ring's bounding box to rtreego.Spatial.
type ringSpatial struct {
	id    int
	bound rtreego.Rect
}

func (r *ringSpatial) Bounds() rtreego.Rect { return r.bound }

// Build constructs the three-level index from a set of closed land rings.
func Build(rings []orb.Ring) *Index {
	idx := &Index{
		rings: make([][]point, len(rings)),
		tree:  rtreego.NewTree(2, 25, 50),
	}
	for i, r := range rings {
		pts := make([]point, len(r))
		for j, v := range r {
			pts[j] = point{lon: v[0], lat: v[1]}
		}
		idx.rings[i] = pts

		minLon, minLat := math.Inf(1), math.Inf(1)
		maxLon, maxLat := math.Inf(-1), math.Inf(-1)
		for _, p := range pts {
			minLon, maxLon = math.Min(minLon, p.lon), math.Max(maxLon, p.lon)
			minLat, maxLat = math.Min(minLat, p.lat), math.Max(maxLat, p.lat)
		}
		if len(pts) == 0 {
			continue
		}
		lengths := []float64{maxLon - minLon, maxLat - minLat}
		if lengths[0] <= 0 {
			lengths[0] = 1e-9
		}
		if lengths[1] <= 0 {
			lengths[1] = 1e-9
		}
		rect, err := rtreego.NewRect(rtreego.Point{minLon, minLat}, lengths)
		if err == nil {
			idx.tree.Insert(&ringSpatial{id: i, bound: rect})
		}

		idx.markBorderCells(pts, minLon, minLat, maxLon, maxLat)
	}

	idx.floodFill()
	return idx
}

// markBorderCells marks every integer grid cell overlapping ring's bounding
// box as a border candidate, and fills intermediate cells along any long
// edge (e.g. the Antarctic seam) so the label never skips a crossing cell.
func (idx *Index) markBorderCells(pts []point, minLon, minLat, maxLon, maxLat float64) {
	loLon, hiLon := cellIndexLon(minLon), cellIndexLon(maxLon)
	loLat, hiLat := cellIndexLat(minLat), cellIndexLat(maxLat)
	for lonC := loLon; lonC <= hiLon; lonC++ {
		for latC := loLat; latC <= hiLat; latC++ {
			idx.grid[lonC][latC] = labelBorder
		}
	}
	for i := 0; i < len(pts); i++ {
		p1 := pts[i]
		p2 := pts[(i+1)%len(pts)]
		steps := int(math.Max(math.Abs(p2.lon-p1.lon), math.Abs(p2.lat-p1.lat))) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			lon := p1.lon + t*(p2.lon-p1.lon)
			lat := p1.lat + t*(p2.lat-p1.lat)
			idx.grid[cellIndexLon(lon)][cellIndexLat(lat)] = labelBorder
		}
	}
}

func cellIndexLon(lon float64) int {
	i := int(math.Floor(lon)) + 180
	return clampInt(i, 0, gridLonCells-1)
}

func cellIndexLat(lat float64) int {
	i := int(math.Floor(lat)) + 90
	return clampInt(i, 0, gridLatCells-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floodFill labels every non-border cell Polygon or Outside by flood-filling
// connected regions of unlabeled cells and sampling one interior point per
// region with the full ray-cast test.
func (idx *Index) floodFill() {
	var visited [gridLonCells][gridLatCells]bool
	for lonC := 0; lonC < gridLonCells; lonC++ {
		for latC := 0; latC < gridLatCells; latC++ {
			if visited[lonC][latC] || idx.grid[lonC][latC] == labelBorder {
				continue
			}
			region := idx.collectRegion(lonC, latC, &visited)
			sampleLon := float64(lonC-180) + 0.5
			sampleLat := float64(latC-90) + 0.5
			lbl := labelOutside
			if idx.rayCast(sampleLon, sampleLat) {
				lbl = labelPolygon
			}
			for _, c := range region {
				idx.grid[c[0]][c[1]] = lbl
			}
		}
	}
}

func (idx *Index) collectRegion(startLon, startLat int, visited *[gridLonCells][gridLatCells]bool) [][2]int {
	stack := [][2]int{{startLon, startLat}}
	var region [][2]int
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		lonC, latC := c[0], c[1]
		if lonC < 0 || lonC >= gridLonCells || latC < 0 || latC >= gridLatCells {
			continue
		}
		if visited[lonC][latC] || idx.grid[lonC][latC] == labelBorder {
			continue
		}
		visited[lonC][latC] = true
		region = append(region, c)
		stack = append(stack,
			[2]int{lonC + 1, latC}, [2]int{lonC - 1, latC},
			[2]int{lonC, latC + 1}, [2]int{lonC, latC - 1},
		)
	}
	return region
}

// Contains reports whether (lon, lat) lies on land.
func (idx *Index) Contains(lon, lat float64) bool {
	if lat <= -85.05 {
		return true // Antarctic extension
	}
	if lat <= -77.75 && math.Abs(lon) == 180 {
		return true // polygon seam artifact, tied to a specific dataset
	}

	lbl := idx.grid[cellIndexLon(lon)][cellIndexLat(lat)]
	switch lbl {
	case labelPolygon:
		return true
	case labelOutside:
		return false
	}
	return idx.rayCast(lon, lat)
}

// rayCast runs the candidate-filtered ray cast: R-tree bbox query narrows
// candidate rings, an exact bbox check filters further, then each surviving
// ring is tested with the spherical crossing formula.
func (idx *Index) rayCast(lon, lat float64) bool {
	queryRect, err := rtreego.NewRect(rtreego.Point{lon - 0.0001, lat - 0.0001}, []float64{0.0002, 0.0002})
	if err != nil {
		return false
	}
	for _, result := range idx.tree.SearchIntersect(queryRect) {
		ring := idx.rings[result.(*ringSpatial).id]
		if !bboxContains(ring, lon, lat) {
			continue
		}
		if containsInRing(ring, lon, lat) {
			return true
		}
	}
	return false
}

func bboxContains(ring []point, lon, lat float64) bool {
	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)
	for _, p := range ring {
		minLon, maxLon = math.Min(minLon, p.lon), math.Max(maxLon, p.lon)
		minLat, maxLat = math.Min(minLat, p.lat), math.Max(maxLat, p.lat)
	}
	return lon >= minLon && lon <= maxLon && lat >= minLat && lat <= maxLat
}
