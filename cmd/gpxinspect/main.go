package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/planbiir/gpxedit/internal/gpx"
	"github.com/planbiir/gpxedit/internal/track"
)

func main() {
	gapFlag := flag.Duration("gap", 10*time.Second, "Minimum interval between consecutive points to report as a gap (e.g. 30s)")
	fromFlag := flag.Int("from", -1, "First point of the selection to summarise")
	toFlag := flag.Int("to", -1, "Last point of the selection to summarise")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		log.Fatalf("usage: %s [flags] <track.gpx>", os.Args[0])
	}
	path := args[0]

	doc, err := gpx.Parse(path)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	enriched := track.Enrich(doc.Points)

	fmt.Printf("Track: %s\n", path)
	if doc.TrackName != "" {
		fmt.Printf("  name: %s\n", doc.TrackName)
	}
	if doc.Creator != "" {
		fmt.Printf("  creator: %s\n", doc.Creator)
	}
	printTrackStats(enriched)
	printCoverage(doc.Points)

	if *fromFlag >= 0 || *toFlag >= 0 {
		r := track.Range{Start: max(*fromFlag, 0), End: *toFlag}
		if r.End < 0 {
			r.End = len(enriched) - 1
		}
		if err := r.Validate(len(enriched)); err != nil {
			log.Fatalf("selection: %v", err)
		}
		fmt.Printf("\nSelection %d-%d:\n", r.Start, r.End)
		printTrackStats(enriched[r.Start : r.End+1])
	}

	gaps := analyzeGaps(doc.Points, *gapFlag)
	fmt.Printf("\nGap analysis (threshold %v):\n", *gapFlag)
	if len(gaps) == 0 {
		fmt.Println("  no gaps exceeding threshold")
	}
	for idx, gap := range gaps {
		fmt.Printf("  Gap #%d: points %d-%d, %s – %s (duration %v)\n",
			idx+1, gap.before, gap.after, gap.startTime.Format(time.RFC3339), gap.endTime.Format(time.RFC3339), gap.duration)
		fmt.Printf("    resampling inserts %d points\n", gap.inserted())
	}

	if backwards := countBackwards(doc.Points); backwards > 0 {
		fmt.Printf("\n  %d timestamps go backwards; warp and resample results are unspecified\n", backwards)
	}
}

type gapInfo struct {
	before    int
	after     int
	startTime time.Time
	endTime   time.Time
	duration  time.Duration
}

// inserted is the number of one-second grid points strictly inside the gap.
func (g gapInfo) inserted() int {
	n := int(g.duration / time.Second)
	if g.duration%time.Second == 0 {
		n--
	}
	return max(n, 0)
}

func analyzeGaps(points []gpx.Point, threshold time.Duration) []gapInfo {
	result := []gapInfo{}
	for i := 0; i+1 < len(points); i++ {
		a := points[i]
		b := points[i+1]
		if a.Time == nil || b.Time == nil {
			continue
		}
		gap := b.Time.Sub(*a.Time)
		if gap <= threshold {
			continue
		}
		result = append(result, gapInfo{
			before:    i,
			after:     i + 1,
			startTime: *a.Time,
			endTime:   *b.Time,
			duration:  gap,
		})
	}
	return result
}

func countBackwards(points []gpx.Point) int {
	count := 0
	var prev *time.Time
	for _, p := range points {
		if p.Time == nil {
			continue
		}
		if prev != nil && p.Time.Before(*prev) {
			count++
		}
		prev = p.Time
	}
	return count
}

func printTrackStats(points []track.EnrichedPoint) {
	if len(points) == 0 {
		fmt.Printf("  points: 0\n")
		return
	}
	stats := track.ComputeStats(points)
	start, end := timeBounds(points)
	fmt.Printf("  points: %d\n", len(points))
	if start != nil && end != nil {
		fmt.Printf("  time span: %s – %s (duration %v)\n",
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano), end.Sub(*start))
	}
	fmt.Printf("  distance: %.3f km\n", stats.DistanceKm)
	fmt.Printf("  avg speed: %.2f km/h, avg hr: %.1f bpm\n", stats.AvgSpeedKmh, stats.AvgHeartRate)
}

func printCoverage(points []gpx.Point) {
	var withTime, withEle, withHR, withCad, withTemp int
	for _, p := range points {
		if p.Time != nil {
			withTime++
		}
		if p.Elevation != nil {
			withEle++
		}
		if p.HeartRate != nil {
			withHR++
		}
		if p.Cadence != nil {
			withCad++
		}
		if p.Temperature != nil {
			withTemp++
		}
	}
	fmt.Printf("  readings: time=%d ele=%d hr=%d cad=%d atemp=%d\n", withTime, withEle, withHR, withCad, withTemp)
}

func timeBounds(points []track.EnrichedPoint) (*time.Time, *time.Time) {
	var start, end *time.Time
	for _, pt := range points {
		if pt.Time == nil {
			continue
		}
		if start == nil || pt.Time.Before(*start) {
			start = pt.Time
		}
		if end == nil || pt.Time.After(*end) {
			end = pt.Time
		}
	}
	return start, end
}
