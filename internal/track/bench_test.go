package track

import (
	"fmt"
	"testing"
	"time"

	"github.com/planbiir/gpxedit/internal/gpx"
)

// syntheticTrack builds a track with one point every 3 seconds and full sensor readings.
func syntheticTrack(size int) []gpx.Point {
	points := make([]gpx.Point, size)
	for i := range points {
		ele := 1000 + float64(i)*0.5
		hr := 120 + i%40
		points[i] = gpx.Point{
			Lat:       46.0 + float64(i)*0.0001,
			Lon:       7.0 + float64(i)*0.0001,
			Elevation: &ele,
			Time:      at(time.Duration(i) * 3 * time.Second),
			HeartRate: &hr,
		}
	}
	return points
}

func BenchmarkEnrich(b *testing.B) {
	for _, size := range []int{1000, 10000, 50000} {
		b.Run(fmt.Sprintf("%d-points", size), func(b *testing.B) {
			points := syntheticTrack(size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if got := Enrich(points); len(got) != size {
					b.Fatalf("expected %d points, got %d", size, len(got))
				}
			}
		})
	}
}

func BenchmarkResample(b *testing.B) {
	for _, size := range []int{1000, 10000} {
		b.Run(fmt.Sprintf("%d-points", size), func(b *testing.B) {
			points := syntheticTrack(size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Resample(points); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkWarpSpeed(b *testing.B) {
	points := syntheticTrack(20000)
	r := Range{Start: 5000, End: 15000}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := WarpSpeed(points, r, 1.5); err != nil {
			b.Fatal(err)
		}
	}
}
