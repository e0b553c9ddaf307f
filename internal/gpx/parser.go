package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedInput is returned when the document cannot be read as a track:
// broken XML, a track point without coordinates, or an unreadable value.
var ErrMalformedInput = errors.New("malformed GPX input")

// timeLayouts are tried in order; GPS units disagree on fractional seconds
// and on whether the zone designator is present.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Parse reads and parses a GPX file from disk.
func Parse(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParsePoints extracts the track points of a GPX document in document order.
func ParsePoints(document string) ([]Point, error) {
	doc, err := ParseReader(strings.NewReader(document))
	if err != nil {
		return nil, err
	}
	return doc.Points, nil
}

// ParseBytes parses an in-memory GPX document.
func ParseBytes(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses GPX from an io.Reader. Any malformed track point fails
// the whole parse; no partial result is returned.
func ParseReader(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var raw wireGPX
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	doc := &Document{
		Version:  raw.Version,
		Creator:  raw.Creator,
		Attrs:    flattenAttrs(raw.Attrs),
		Metadata: raw.Metadata,
	}
	if doc.Version == "" {
		doc.Version = "1.1"
	}

	idx := 0
	for trackIdx, track := range raw.Tracks {
		if trackIdx == 0 {
			doc.TrackName = strings.TrimSpace(track.Name)
			doc.TrackDescription = strings.TrimSpace(track.Description)
			doc.TrackType = strings.TrimSpace(track.Type)
		}
		for _, segment := range track.Segments {
			for _, wp := range segment.Points {
				p, err := wp.point()
				if err != nil {
					return nil, fmt.Errorf("%w: trkpt %d: %v", ErrMalformedInput, idx, err)
				}
				doc.Points = append(doc.Points, p)
				idx++
			}
		}
	}

	return doc, nil
}

func (wp wirePoint) point() (Point, error) {
	var p Point
	var err error

	if wp.Lat == nil {
		return p, errors.New("missing lat attribute")
	}
	if wp.Lon == nil {
		return p, errors.New("missing lon attribute")
	}
	if p.Lat, err = parseFloat(*wp.Lat); err != nil {
		return p, fmt.Errorf("lat: %w", err)
	}
	if p.Lon, err = parseFloat(*wp.Lon); err != nil {
		return p, fmt.Errorf("lon: %w", err)
	}

	if p.Elevation, err = optionalFloat(wp.Elevation); err != nil {
		return p, fmt.Errorf("ele: %w", err)
	}
	if wp.Time != nil && strings.TrimSpace(*wp.Time) != "" {
		t, err := parseTime(*wp.Time)
		if err != nil {
			return p, err
		}
		p.Time = &t
	}

	if wp.Extensions == nil || wp.Extensions.TrackPoint == nil {
		return p, nil
	}
	tpx := wp.Extensions.TrackPoint
	if p.Temperature, err = optionalFloat(tpx.Temperature); err != nil {
		return p, fmt.Errorf("atemp: %w", err)
	}
	if p.HeartRate, err = optionalInt(tpx.HeartRate); err != nil {
		return p, fmt.Errorf("hr: %w", err)
	}
	if p.Cadence, err = optionalInt(tpx.Cadence); err != nil {
		return p, fmt.Errorf("cad: %w", err)
	}
	return p, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func optionalFloat(s *string) (*float64, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v, err := parseFloat(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// optionalInt accepts "145" as well as "145.0"; the fraction is truncated.
func optionalInt(s *string) (*int, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	text := strings.TrimSpace(*s)
	if v, err := strconv.Atoi(text); err == nil {
		return &v, nil
	}
	f, err := parseFloat(text)
	if err != nil {
		return nil, err
	}
	v := int(f)
	return &v, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unreadable time %q", s)
}

// flattenAttrs rewrites decoded attribute names back to their qualified
// source form (xmlns:ns3, xsi:schemaLocation) so the writer can emit them
// verbatim.
func flattenAttrs(attrs []xml.Attr) []xml.Attr {
	prefixes := make(map[string]string)
	for _, attr := range attrs {
		if attr.Name.Space == "xmlns" {
			prefixes[attr.Value] = attr.Name.Local
		}
	}

	out := make([]xml.Attr, 0, len(attrs))
	for _, attr := range attrs {
		var name string
		switch {
		case attr.Name.Space == "":
			name = attr.Name.Local
		case attr.Name.Space == "xmlns":
			name = "xmlns:" + attr.Name.Local
		case prefixes[attr.Name.Space] != "":
			name = prefixes[attr.Name.Space] + ":" + attr.Name.Local
		case !strings.Contains(attr.Name.Space, "/"):
			// undeclared prefix, kept as written
			name = attr.Name.Space + ":" + attr.Name.Local
		default:
			continue
		}
		out = append(out, xml.Attr{Name: xml.Name{Local: name}, Value: attr.Value})
	}
	return out
}
