package track

import (
	"fmt"
	"math"
	"time"

	"github.com/planbiir/gpxedit/internal/gpx"
)

// Resample regenerates the track on a one-second grid running from the first
// to the last original timestamp. Grid instants that coincide with an
// original point reuse it; the others are interpolated linearly between the
// surrounding originals. An empty track, or one whose first point has no
// timestamp, is returned unchanged. The grid is capped at
// DefaultMaxResamplePoints.
func Resample(points []gpx.Point) ([]gpx.Point, error) {
	return ResampleWithLimit(points, DefaultMaxResamplePoints)
}

// DefaultMaxResamplePoints bounds the grid when no limit is given: a little
// over twelve days at one point per second.
const DefaultMaxResamplePoints = 1 << 20

// ResampleWithLimit is Resample with an explicit cap on the number of grid
// points. A grid larger than maxPoints fails with ErrSpanTooLong before
// anything is allocated. A non-positive maxPoints selects
// DefaultMaxResamplePoints.
func ResampleWithLimit(points []gpx.Point, maxPoints int) ([]gpx.Point, error) {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxResamplePoints
	}
	if len(points) == 0 || points[0].Time == nil {
		return gpx.ClonePoints(points), nil
	}
	for i, p := range points {
		if p.Time == nil {
			return nil, fmt.Errorf("resample: point %d: %w", i, ErrMissingTimestamp)
		}
	}

	first := *points[0].Time
	last := *points[len(points)-1].Time
	span := last.Sub(first)
	if span < 0 {
		return nil, fmt.Errorf("resample: last point at %s precedes first at %s: %w",
			last.Format(time.RFC3339Nano), first.Format(time.RFC3339Nano), ErrUnorderedTimestamps)
	}

	steps := int64(span / time.Second)
	if steps >= int64(maxPoints) {
		return nil, fmt.Errorf("resample: %d points over %s, limit %d: %w",
			steps+1, span, maxPoints, ErrSpanTooLong)
	}

	n := int(steps) + 1
	resampled := make([]gpx.Point, 0, n)

	// cursor is the last original point at or before the grid instant
	cursor := 0
	for k := 0; k < n; k++ {
		at := first.Add(time.Duration(k) * time.Second)
		for cursor+1 < len(points) && !points[cursor+1].Time.After(at) {
			cursor++
		}

		curr := points[cursor]
		switch {
		case curr.Time.Equal(at):
			resampled = append(resampled, curr.Clone())
		case cursor == len(points)-1 || !points[cursor+1].Time.After(*curr.Time):
			held := curr.Clone()
			held.Time = &at
			resampled = append(resampled, held)
		default:
			resampled = append(resampled, interpolate(curr, points[cursor+1], at))
		}
	}

	return resampled, nil
}

// interpolate places a point at instant at between a and b. A reading
// missing on one side takes the other side's value.
func interpolate(a, b gpx.Point, at time.Time) gpx.Point {
	f := float64(at.Sub(*a.Time)) / float64(b.Time.Sub(*a.Time))

	return gpx.Point{
		Lat:         lerp(a.Lat, b.Lat, f),
		Lon:         lerp(a.Lon, b.Lon, f),
		Elevation:   lerpOptional(a.Elevation, b.Elevation, f),
		Time:        &at,
		Temperature: lerpOptional(a.Temperature, b.Temperature, f),
		HeartRate:   lerpOptionalInt(a.HeartRate, b.HeartRate, f),
		Cadence:     lerpOptionalInt(a.Cadence, b.Cadence, f),
	}
}

func lerp(start, end, ratio float64) float64 {
	return start + ratio*(end-start)
}

func lerpOptional(a, b *float64, f float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	}
	v := lerp(*a, *b, f)
	return &v
}

// lerpOptionalInt rounds to the nearest whole reading.
func lerpOptionalInt(a, b *int, f float64) *int {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	}
	v := int(math.Round(lerp(float64(*a), float64(*b), f)))
	return &v
}
