package track

import (
	"github.com/golang/geo/s2"

	"github.com/planbiir/gpxedit/internal/gpx"
)

// EarthRadiusKm is the spherical-Earth radius used for every distance.
const EarthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two points in km.
func HaversineKm(a, b gpx.Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Enrich derives cumulative distance, speed and slope for every point.
// The first point has no predecessor and keeps all three at zero.
func Enrich(points []gpx.Point) []EnrichedPoint {
	enriched := make([]EnrichedPoint, len(points))

	var cumulative float64
	for i, p := range points {
		enriched[i].Point = p
		if i == 0 {
			continue
		}

		prev := points[i-1]
		d := HaversineKm(prev, p)
		cumulative += d

		enriched[i].DistanceKm = cumulative
		enriched[i].SpeedKmh = speedKmh(prev, p, d)
		enriched[i].SlopePct = slopePct(prev, p, d)
	}

	return enriched
}

// speedKmh is 0 when either timestamp is missing or no time elapsed.
func speedKmh(prev, curr gpx.Point, distanceKm float64) float64 {
	if prev.Time == nil || curr.Time == nil {
		return 0
	}
	hours := curr.Time.Sub(*prev.Time).Hours()
	if hours <= 0 {
		return 0
	}
	return distanceKm / hours
}

// slopePct treats a missing elevation as 0 m.
func slopePct(prev, curr gpx.Point, distanceKm float64) float64 {
	meters := distanceKm * 1000
	if meters <= 0 {
		return 0
	}
	return (elevationOrZero(curr) - elevationOrZero(prev)) / meters * 100
}

func elevationOrZero(p gpx.Point) float64 {
	if p.Elevation == nil {
		return 0
	}
	return *p.Elevation
}
