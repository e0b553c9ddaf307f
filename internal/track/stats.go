package track

// ComputeStats reduces a contiguous run of enriched points. Fewer than two
// points give zero Stats. A missing heart rate counts as 0 in the mean.
func ComputeStats(points []EnrichedPoint) Stats {
	if len(points) < 2 {
		return Stats{}
	}

	first := points[0]
	last := points[len(points)-1]

	var stats Stats
	if first.Time != nil && last.Time != nil {
		stats.DurationSeconds = last.Time.Sub(*first.Time).Seconds()
	}
	stats.DistanceKm = last.DistanceKm - first.DistanceKm

	var hrSum, speedSum float64
	for i := range points {
		if points[i].HeartRate != nil {
			hrSum += float64(*points[i].HeartRate)
		}
		speedSum += points[i].SpeedKmh
	}
	n := float64(len(points))
	stats.AvgHeartRate = hrSum / n
	stats.AvgSpeedKmh = speedSum / n

	return stats
}

// StatsFor computes Stats over r without copying; r is clamped to the sequence.
func StatsFor(points []EnrichedPoint, r Range) Stats {
	r, ok := r.Clamp(len(points))
	if !ok {
		return Stats{}
	}
	return ComputeStats(points[r.Start : r.End+1])
}
