package track

import (
	"fmt"
	"math"
	"time"

	"github.com/planbiir/gpxedit/internal/gpx"
)

// WarpSpeed rescales elapsed time inside r by 1/alpha: alpha > 1 makes the
// selection faster, alpha < 1 slower. The point at r.Start keeps its
// timestamp, every interval inside the range is divided by alpha, and
// every point after r.End moves by the resulting change in duration so no
// gap or overlap appears. Points before r.Start and all non-time fields are
// untouched. Timestamps are assumed to be strictly increasing.
func WarpSpeed(points []gpx.Point, r Range, alpha float64) ([]gpx.Point, error) {
	if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("warp: %w: %v", ErrInvalidFactor, alpha)
	}
	if err := r.Validate(len(points)); err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	for i, p := range points {
		if p.Time == nil {
			return nil, fmt.Errorf("warp: point %d: %w", i, ErrMissingTimestamp)
		}
	}

	t0 := *points[r.Start].Time
	t1 := *points[r.End].Time
	origDuration := t1.Sub(t0)
	diff := scaleDuration(origDuration, alpha) - origDuration

	warped := gpx.ClonePoints(points)

	// Elapsed time from the anchor equals the running sum of the intervals
	// before it, so scaling it scales each interval by the same factor.
	for i := r.Start + 1; i <= r.End; i++ {
		at := t0.Add(scaleDuration(points[i].Time.Sub(t0), alpha))
		warped[i].Time = &at
	}
	for i := r.End + 1; i < len(points); i++ {
		at := points[i].Time.Add(diff)
		warped[i].Time = &at
	}

	return warped, nil
}

func scaleDuration(d time.Duration, alpha float64) time.Duration {
	return time.Duration(math.Round(float64(d) / alpha))
}
