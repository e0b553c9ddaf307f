package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/planbiir/gpxedit/internal/editor"
	"github.com/planbiir/gpxedit/internal/export"
	"github.com/planbiir/gpxedit/internal/gpx"
	"github.com/planbiir/gpxedit/internal/track"
)

var (
	errUsage    = errors.New("missing input file")
	errNoPoints = errors.New("no GPS points found in file")
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			os.Exit(0)
		case errors.Is(err, errUsage):
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and applies the requested operations in order: resample,
// then warp, then heart rate. Progress goes to out.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gpxedit", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		inputFile   = fs.String("i", "", "Input GPX file")
		outputFile  = fs.String("o", "", "Output GPX file (default: <input>_updated.gpx)")
		from        = fs.Int("from", -1, "First point of the selection (default: first point)")
		to          = fs.Int("to", -1, "Last point of the selection (default: last point)")
		resample    = fs.Bool("resample", false, "Resample the whole track to one point per second")
		warp        = fs.Float64("warp", 0, "Pace factor for the selection (>1 faster, <1 slower)")
		hrDelta     = fs.Int("hr", 0, "Heart rate offset in bpm applied to the selection")
		csvFile     = fs.String("csv", "", "Write enriched points as CSV")
		parquetFile = fs.String("parquet", "", "Write enriched points as Parquet")
		dryRun      = fs.Bool("dry-run", false, "Show statistics without writing the output GPX")
		showStats   = fs.Bool("stats", false, "Show selection statistics")
		statsJSON   = fs.Bool("stats-json", false, "Output selection statistics as JSON")
		version     = fs.Bool("version", false, "Show version information")
	)

	fs.Usage = func() {
		fmt.Fprintf(out, "gpxedit - Edit pace, heart rate and sampling of GPX tracks\n\n")
		fmt.Fprintf(out, "usage: gpxedit -i /path/to/file.gpx [operations]\n\n")
		fmt.Fprintf(out, "examples:\n")
		fmt.Fprintf(out, "  gpxedit -i track.gpx -resample\n")
		fmt.Fprintf(out, "  gpxedit -i track.gpx -from 120 -to 480 -warp 1.1\n")
		fmt.Fprintf(out, "  gpxedit -i \"My Activity.gpx\" -hr -5 -stats\n\n")
		fmt.Fprintf(out, "operations run in order: resample, warp, hr\n\n")
		fmt.Fprintf(out, "options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintln(out, "gpxedit v1.0.0 - GPX track editor")
		return nil
	}

	if *inputFile == "" {
		fs.Usage()
		return errUsage
	}

	if *outputFile == "" {
		*outputFile = defaultOutput(*inputFile)
	}

	fmt.Fprintf(out, "📖 Reading GPX file: %s\n", *inputFile)
	doc, err := gpx.Parse(*inputFile)
	if err != nil {
		return fmt.Errorf("reading GPX file: %w", err)
	}
	if len(doc.Points) == 0 {
		return errNoPoints
	}

	ed := editor.New(editor.DefaultConfig())
	ed.LoadDocument(doc)
	fmt.Fprintf(out, "📊 Original track: %d points\n", len(doc.Points))

	if *resample {
		state, err := ed.Resample()
		if err != nil {
			return fmt.Errorf("resampling track: %w", err)
		}
		fmt.Fprintf(out, "⏱️  Resampled to 1s grid: %d → %d points\n", len(doc.Points), len(state.Points))
	}

	if *from >= 0 || *to >= 0 {
		r := selection(*from, *to, len(ed.Points()))
		if err := ed.Select(r); err != nil {
			return fmt.Errorf("selecting points: %w", err)
		}
	}
	r, _ := ed.Selection()
	fmt.Fprintf(out, "🎯 Selection: points %d-%d\n", r.Start, r.End)

	if *warp != 0 {
		before, err := ed.Stats()
		if err != nil {
			return fmt.Errorf("computing stats before warp: %w", err)
		}
		if _, err := ed.WarpSpeed(*warp); err != nil {
			return fmt.Errorf("warping selection: %w", err)
		}
		after, err := ed.Stats()
		if err != nil {
			return fmt.Errorf("computing stats after warp: %w", err)
		}
		fmt.Fprintf(out, "🏃 Pace x%.2f: %.0fs → %.0fs\n", *warp, before.DurationSeconds, after.DurationSeconds)
	}

	if *hrDelta != 0 {
		if _, err := ed.AdjustHeartRate(*hrDelta); err != nil {
			return fmt.Errorf("adjusting heart rate: %w", err)
		}
		fmt.Fprintf(out, "❤️  Heart rate %+d bpm\n", *hrDelta)
	}

	if *showStats || *statsJSON || *dryRun {
		stats, err := ed.Stats()
		if err != nil {
			return fmt.Errorf("computing stats: %w", err)
		}
		if *statsJSON {
			jsonData, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling stats: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
		} else {
			printStats(out, stats)
		}
	}

	if *csvFile != "" {
		if err := writeCSV(*csvFile, ed.Points()); err != nil {
			return fmt.Errorf("writing CSV file: %w", err)
		}
		fmt.Fprintf(out, "📄 Points written to %s\n", *csvFile)
	}

	if *parquetFile != "" {
		if err := export.WriteParquetFile(*parquetFile, ed.Points()); err != nil {
			return fmt.Errorf("writing Parquet file: %w", err)
		}
		fmt.Fprintf(out, "📄 Points written to %s\n", *parquetFile)
	}

	if *dryRun {
		fmt.Fprintf(out, "🔍 Dry run completed - no GPX written\n")
		return nil
	}

	updated, err := ed.Document()
	if err != nil {
		return fmt.Errorf("preparing GPX: %w", err)
	}

	fmt.Fprintf(out, "💾 Writing updated track: %s\n", *outputFile)
	if err := updated.Write(*outputFile); err != nil {
		return fmt.Errorf("writing GPX file: %w", err)
	}

	fmt.Fprintf(out, "✅ Track updated successfully! (%d points)\n", len(updated.Points))
	return nil
}

// defaultOutput names the result after the input: track.gpx becomes
// track_updated.gpx next to it.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_updated" + ext
}

// selection fills an open end of the -from/-to pair from the track bounds.
func selection(from, to, n int) track.Range {
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = n - 1
	}
	return track.Range{Start: from, End: to}
}

func writeCSV(path string, points []track.EnrichedPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteCSV(f, points); err != nil {
		return err
	}
	return f.Close()
}

func printStats(w io.Writer, stats track.Stats) {
	fmt.Fprintf(w, "\n📊 Selection Statistics:\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "⏱️  Duration: %.1f s\n", stats.DurationSeconds)
	fmt.Fprintf(w, "📏 Distance: %.3f km\n", stats.DistanceKm)
	fmt.Fprintf(w, "❤️  Avg heart rate: %.1f bpm\n", stats.AvgHeartRate)
	fmt.Fprintf(w, "⚡ Avg speed: %.2f km/h\n", stats.AvgSpeedKmh)
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
