package polygon

import "math"

const deg2rad = math.Pi / 180

// containsInRing tests point (lon,lat) against a single ring by casting a
// meridian ray to the north pole and counting edge crossings with the JPL
// tangent-based spherical formula. An odd crossing count means the point is
// inside the ring.
func containsInRing(ring []point, lon, lat float64) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	crossings := 0
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		if crossesEdge(p1, p2, lon, lat) {
			crossings++
		}
	}
	return crossings%2 == 1
}

func crossesEdge(p1, p2 point, lonP, latP float64) bool {
	lon1, lat1 := p1.lon, p1.lat
	lon2, lat2 := p2.lon, p2.lat

	if lon1 == lon2 {
		return false // pure north-south edge never crosses a meridian ray
	}

	if lat1 == lat2 {
		lo, hi := math.Min(lon1, lon2), math.Max(lon1, lon2)
		return lonP >= lo && lonP <= hi && latP <= lat1
	}

	lo, hi := math.Min(lon1, lon2), math.Max(lon1, lon2)
	if lonP < lo || lonP > hi {
		return false
	}

	if lonP == lon1 || lonP == lon2 {
		var lonHit, lonOther float64
		if lonP == lon1 {
			lonHit, lonOther = lon1, lon2
		} else {
			lonHit, lonOther = lon2, lon1
		}
		if math.Sin((lonHit-lonOther)*deg2rad) <= 0 {
			return false
		}
	}

	sinDenom := math.Sin((lon1 - lon2) * deg2rad)
	if sinDenom == 0 {
		return false
	}
	tanLat1 := math.Tan(lat1 * deg2rad)
	tanLat2 := math.Tan(lat2 * deg2rad)
	term1 := tanLat1 * math.Sin((lonP-lon2)*deg2rad) / sinDenom
	term2 := tanLat2 * math.Sin((lonP-lon1)*deg2rad) / sinDenom
	tanLatIntersect := term1 - term2

	loT, hiT := math.Min(tanLat1, tanLat2), math.Max(tanLat1, tanLat2)
	tanLatP := math.Tan(latP * deg2rad)
	return tanLatIntersect >= loT && tanLatIntersect <= hiT && tanLatIntersect >= tanLatP
}
