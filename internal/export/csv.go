// Package export writes enriched points in tabular form for charting and
// numeric analysis.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/planbiir/gpxedit/internal/track"
)

var header = []string{
	"index", "ts_utc_iso", "lat", "lon", "ele_m", "temperature_c", "hr_bpm", "cadence_rpm",
	"distance_km", "speed_kmh", "slope_pct",
}

// WriteCSV writes one row per point. Missing readings are empty cells.
func WriteCSV(w io.Writer, points []track.EnrichedPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, p := range points {
		row := []string{
			strconv.Itoa(i),
			formatTime(p.Time),
			formatFloat(p.Lat),
			formatFloat(p.Lon),
			formatFloatPtr(p.Elevation),
			formatFloatPtr(p.Temperature),
			formatIntPtr(p.HeartRate),
			formatIntPtr(p.Cadence),
			formatFloat(p.DistanceKm),
			formatFloat(p.SpeedKmh),
			formatFloat(p.SlopePct),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
