package track

import (
	"testing"
	"time"
)

func TestComputeStatsDegenerate(t *testing.T) {
	enriched := Enrich(straightTrack(3))

	if got := ComputeStats(nil); got != (Stats{}) {
		t.Errorf("expected zero stats for no points, got %+v", got)
	}
	if got := ComputeStats(enriched[1:2]); got != (Stats{}) {
		t.Errorf("expected zero stats for a single point, got %+v", got)
	}
}

func TestComputeStats(t *testing.T) {
	points := straightTrack(4)
	points[0].HeartRate = intPtr(100)
	points[1].HeartRate = intPtr(120)
	points[2].HeartRate = intPtr(140)
	// points[3] has no heart rate and counts as 0

	stats := ComputeStats(Enrich(points))

	if stats.DurationSeconds != 30 {
		t.Errorf("expected 30s duration, got %f", stats.DurationSeconds)
	}
	if !approxEqual(stats.DistanceKm, 0.3, 1e-9) {
		t.Errorf("expected 0.3km, got %f", stats.DistanceKm)
	}
	if stats.AvgHeartRate != 90 {
		t.Errorf("expected avg HR 90, got %f", stats.AvgHeartRate)
	}
	// speeds are 0, 36, 36, 36
	if !approxEqual(stats.AvgSpeedKmh, 27, 1e-6) {
		t.Errorf("expected avg speed 27 km/h, got %f", stats.AvgSpeedKmh)
	}
}

func TestComputeStatsSubRange(t *testing.T) {
	enriched := Enrich(straightTrack(5))

	stats := StatsFor(enriched, Range{Start: 2, End: 4})
	if stats.DurationSeconds != 20 {
		t.Errorf("expected 20s duration, got %f", stats.DurationSeconds)
	}
	if !approxEqual(stats.DistanceKm, 0.2, 1e-9) {
		t.Errorf("expected 0.2km, got %f", stats.DistanceKm)
	}
	if !approxEqual(stats.AvgSpeedKmh, 36, 1e-6) {
		t.Errorf("expected 36 km/h inside the selection, got %f", stats.AvgSpeedKmh)
	}

	if got := StatsFor(enriched, Range{Start: 3, End: 100}); got.DurationSeconds != 10 {
		t.Errorf("expected clamped range to cover the last two points, got %+v", got)
	}
	if got := StatsFor(nil, Range{}); got != (Stats{}) {
		t.Errorf("expected zero stats without points, got %+v", got)
	}
}

func TestComputeStatsMissingTimestamps(t *testing.T) {
	points := straightTrack(3)
	points[2].Time = nil

	stats := ComputeStats(Enrich(points))
	if stats.DurationSeconds != 0 {
		t.Errorf("expected zero duration without an end timestamp, got %f", stats.DurationSeconds)
	}
	if stats.DistanceKm <= 0 {
		t.Errorf("distance should still be reported, got %f", stats.DistanceKm)
	}
}

func TestComputeStatsSubSecond(t *testing.T) {
	points := straightTrack(2)
	points[1].Time = at(1500 * time.Millisecond)

	if got := ComputeStats(Enrich(points)).DurationSeconds; got != 1.5 {
		t.Errorf("expected 1.5s, got %f", got)
	}
}
