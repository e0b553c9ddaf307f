package track

import (
	"errors"
	"fmt"

	"github.com/planbiir/gpxedit/internal/gpx"
)

var (
	// ErrMissingTimestamp is returned by time-dependent transforms when a
	// point has no timestamp.
	ErrMissingTimestamp = errors.New("track point has no timestamp")
	// ErrEmptySelection signals a range-scoped operation with nothing selected.
	ErrEmptySelection = errors.New("no active selection")
	// ErrRangeOutOfBounds is returned for a range that does not fit the sequence.
	ErrRangeOutOfBounds = errors.New("selection out of bounds")
	// ErrInvalidFactor is returned for a non-positive or non-finite pace factor.
	ErrInvalidFactor = errors.New("pace factor must be a positive number")
	// ErrUnorderedTimestamps is returned when the last timestamp precedes the first.
	ErrUnorderedTimestamps = errors.New("track timestamps are not increasing")
	// ErrSpanTooLong is returned when a one-second grid over the track would
	// exceed the resample point limit.
	ErrSpanTooLong = errors.New("track span exceeds the resample point limit")
)

// EnrichedPoint is a raw point plus the metrics derived from its predecessor.
type EnrichedPoint struct {
	gpx.Point

	DistanceKm float64 `json:"distance_km"` // cumulative from the first point
	SpeedKmh   float64 `json:"speed_kmh"`
	SlopePct   float64 `json:"slope_pct"`
}

// Stats summarises a contiguous run of enriched points.
type Stats struct {
	DurationSeconds float64 `json:"duration_s"`
	DistanceKm      float64 `json:"distance_km"`
	AvgHeartRate    float64 `json:"avg_hr_bpm"`
	AvgSpeedKmh     float64 `json:"avg_speed_kmh"`
}

// Range is an inclusive index window [Start, End] over a point sequence.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FullRange covers a whole sequence of n points; ok is false when n is 0.
func FullRange(n int) (Range, bool) {
	if n <= 0 {
		return Range{}, false
	}
	return Range{Start: 0, End: n - 1}, true
}

// Len is the number of points in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Contains reports whether index i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// Clamp fits the range into a sequence of n points. ok is false when n is 0.
func (r Range) Clamp(n int) (Range, bool) {
	if n <= 0 {
		return Range{}, false
	}
	r.Start = min(max(r.Start, 0), n-1)
	r.End = min(max(r.End, 0), n-1)
	if r.Start > r.End {
		r.Start = r.End
	}
	return r, true
}

// Validate checks the range against a sequence of n points.
func (r Range) Validate(n int) error {
	if n <= 0 {
		return ErrEmptySelection
	}
	if r.Start < 0 || r.End >= n || r.Start > r.End {
		return fmt.Errorf("%w: [%d, %d] over %d points", ErrRangeOutOfBounds, r.Start, r.End, n)
	}
	return nil
}
