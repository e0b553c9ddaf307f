// Package editor holds the document currently being edited together with its
// derived metrics and the active selection.
package editor

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/planbiir/gpxedit/internal/gpx"
	"github.com/planbiir/gpxedit/internal/track"
)

// ErrNoDocument is returned by operations that need a loaded document.
var ErrNoDocument = fmt.Errorf("%w: no document loaded", track.ErrEmptySelection)

// Config controls how documents are stamped when they are re-emitted and how
// far resampling may grow a track.
type Config struct {
	// Creator replaces an empty creator attribute on load.
	// If empty, DefaultConfig().Creator is used.
	Creator string
	// MaxResamplePoints caps the one-second grid built by Resample.
	// If zero, track.DefaultMaxResamplePoints is used.
	MaxResamplePoints int
}

// DefaultConfig returns the configuration used by the CLIs and the server.
func DefaultConfig() Config {
	return Config{Creator: "gpxedit", MaxResamplePoints: track.DefaultMaxResamplePoints}
}

// State is a consistent view of the session.
type State struct {
	Points    []track.EnrichedPoint `json:"points"`
	Selection *track.Range          `json:"selection,omitempty"`
}

// Editor is the single current document. Every mutation computes a new point
// sequence from the current one and swaps it in wholesale, so a failed
// operation leaves the previous state untouched.
type Editor struct {
	cfg Config

	mu        sync.RWMutex
	doc       *gpx.Document
	enriched  []track.EnrichedPoint
	selection track.Range
	selected  bool
}

// New creates an editor with no document loaded.
func New(cfg Config) *Editor {
	if cfg.Creator == "" {
		cfg.Creator = DefaultConfig().Creator
	}
	if cfg.MaxResamplePoints <= 0 {
		cfg.MaxResamplePoints = track.DefaultMaxResamplePoints
	}
	return &Editor{cfg: cfg}
}

// Load parses GPX text and makes it the current document with the whole
// track selected.
func (e *Editor) Load(r io.Reader) (State, error) {
	doc, err := gpx.ParseReader(r)
	if err != nil {
		return State{}, err
	}
	return e.LoadDocument(doc), nil
}

// LoadDocument replaces the current document.
func (e *Editor) LoadDocument(doc *gpx.Document) State {
	doc = doc.WithPoints(gpx.ClonePoints(doc.Points))
	if doc.Creator == "" {
		doc.Creator = e.cfg.Creator
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = doc
	e.enriched = track.Enrich(doc.Points)
	e.selection, e.selected = track.FullRange(len(doc.Points))
	return e.stateLocked()
}

// Loaded reports whether a document is present.
func (e *Editor) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc != nil
}

// State returns the enriched points and the selection.
func (e *Editor) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() State {
	s := State{Points: slices.Clone(e.enriched)}
	if e.selected {
		r := e.selection
		s.Selection = &r
	}
	return s
}

// Points returns the enriched points of the whole document.
func (e *Editor) Points() []track.EnrichedPoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.enriched)
}

// Selection returns the active range, if any.
func (e *Editor) Selection() (track.Range, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selection, e.selected
}

// SelectedPoints returns the enriched points inside the selection.
func (e *Editor) SelectedPoints() ([]track.EnrichedPoint, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.requireSelectionLocked(); err != nil {
		return nil, err
	}
	return slices.Clone(e.enriched[e.selection.Start : e.selection.End+1]), nil
}

// Select replaces the selection. The range must fit the current document.
func (e *Editor) Select(r track.Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return ErrNoDocument
	}
	if err := r.Validate(len(e.enriched)); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	e.selection, e.selected = r, true
	return nil
}

// Stats summarises the selection.
func (e *Editor) Stats() (track.Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.requireSelectionLocked(); err != nil {
		return track.Stats{}, err
	}
	return track.StatsFor(e.enriched, e.selection), nil
}

// WarpSpeed rescales the pace of the selection by alpha.
func (e *Editor) WarpSpeed(alpha float64) (State, error) {
	return e.apply(true, func(points []gpx.Point, r track.Range) ([]gpx.Point, error) {
		return track.WarpSpeed(points, r, alpha)
	})
}

// AdjustHeartRate adds delta to every heart rate in the selection.
func (e *Editor) AdjustHeartRate(delta int) (State, error) {
	return e.apply(true, func(points []gpx.Point, r track.Range) ([]gpx.Point, error) {
		return track.AdjustHeartRate(points, r, delta)
	})
}

// Resample regenerates the whole track on a one-second grid and clamps the
// selection to the new length. A grid larger than Config.MaxResamplePoints
// fails with track.ErrSpanTooLong and leaves the document as it was.
func (e *Editor) Resample() (State, error) {
	return e.apply(false, func(points []gpx.Point, _ track.Range) ([]gpx.Point, error) {
		return track.ResampleWithLimit(points, e.cfg.MaxResamplePoints)
	})
}

func (e *Editor) apply(needSelection bool, op func([]gpx.Point, track.Range) ([]gpx.Point, error)) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if needSelection {
		if err := e.requireSelectionLocked(); err != nil {
			return State{}, err
		}
	} else if e.doc == nil {
		return State{}, ErrNoDocument
	}

	points, err := op(e.doc.Points, e.selection)
	if err != nil {
		return State{}, err
	}

	e.doc = e.doc.WithPoints(points)
	e.enriched = track.Enrich(points)
	if e.selected {
		e.selection, e.selected = e.selection.Clamp(len(points))
	}
	return e.stateLocked(), nil
}

func (e *Editor) requireSelectionLocked() error {
	if e.doc == nil {
		return ErrNoDocument
	}
	if !e.selected {
		return track.ErrEmptySelection
	}
	return nil
}

// Document returns a copy of the current document.
func (e *Editor) Document() (*gpx.Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.doc == nil {
		return nil, ErrNoDocument
	}
	return e.doc.WithPoints(gpx.ClonePoints(e.doc.Points)), nil
}

// WriteGPX writes the current document as pretty-printed GPX.
func (e *Editor) WriteGPX(w io.Writer) error {
	doc, err := e.Document()
	if err != nil {
		return err
	}
	return doc.WriteToWriter(w)
}
