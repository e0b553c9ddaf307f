package track

import (
	"fmt"

	"github.com/planbiir/gpxedit/internal/gpx"
)

// AdjustHeartRate adds delta to the heart rate of every point in r. A point
// without a reading starts from 0; results below 0 are clamped to 0.
func AdjustHeartRate(points []gpx.Point, r Range, delta int) ([]gpx.Point, error) {
	if err := r.Validate(len(points)); err != nil {
		return nil, fmt.Errorf("heart rate: %w", err)
	}

	adjusted := gpx.ClonePoints(points)
	for i := r.Start; i <= r.End; i++ {
		hr := delta
		if adjusted[i].HeartRate != nil {
			hr += *adjusted[i].HeartRate
		}
		hr = max(hr, 0)
		adjusted[i].HeartRate = &hr
	}

	return adjusted, nil
}
