package gpx

import (
	"encoding/xml"
	"strings"
	"time"
)

const (
	// DefaultNamespace is the GPX 1.1 schema namespace.
	DefaultNamespace = "http://www.topografix.com/GPX/1/1"
	// TrackPointExtensionNamespace is Garmin's TrackPointExtension v1 schema.
	TrackPointExtensionNamespace = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"
	// DefaultExtensionPrefix is used when the source document did not declare one.
	DefaultExtensionPrefix = "ns3"
)

// RawXML preserves nested blocks (metadata) without re-parsing them.
// We store the inner XML bytes verbatim so the envelope round-trips.
type RawXML []byte

func (r *RawXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type inner struct {
		Content string `xml:",innerxml"`
	}

	var data inner
	if err := d.DecodeElement(&data, &start); err != nil {
		return err
	}

	if len(strings.TrimSpace(data.Content)) == 0 {
		*r = nil
		return nil
	}

	*r = append((*r)[:0], data.Content...)
	return nil
}

// Point is one recorded fix. Optional readings are nil when the source
// document did not carry them, never zero.
type Point struct {
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	Elevation   *float64   `json:"ele"`
	Time        *time.Time `json:"time"`
	Temperature *float64   `json:"atemp"`
	HeartRate   *int       `json:"hr"`
	Cadence     *int       `json:"cad"`
}

// HasExtensions reports whether the point carries any TrackPointExtension reading.
func (p Point) HasExtensions() bool {
	return p.Temperature != nil || p.HeartRate != nil || p.Cadence != nil
}

// Clone returns a copy that shares no optional values with p.
func (p Point) Clone() Point {
	out := Point{Lat: p.Lat, Lon: p.Lon}
	if p.Elevation != nil {
		v := *p.Elevation
		out.Elevation = &v
	}
	if p.Time != nil {
		v := *p.Time
		out.Time = &v
	}
	if p.Temperature != nil {
		v := *p.Temperature
		out.Temperature = &v
	}
	if p.HeartRate != nil {
		v := *p.HeartRate
		out.HeartRate = &v
	}
	if p.Cadence != nil {
		v := *p.Cadence
		out.Cadence = &v
	}
	return out
}

// ClonePoints deep-copies a point sequence.
func ClonePoints(src []Point) []Point {
	out := make([]Point, len(src))
	for i, p := range src {
		out[i] = p.Clone()
	}
	return out
}

// Document is a parsed GPX file: the envelope needed to write the same
// document shape back, plus the flat point sequence of all its track segments.
type Document struct {
	Version string
	Creator string

	// Attrs holds the remaining <gpx> attributes (namespace declarations,
	// xsi:schemaLocation) with their qualified names in Name.Local.
	Attrs []xml.Attr

	Metadata RawXML

	TrackName        string
	TrackDescription string
	TrackType        string

	Points []Point
}

// WithPoints returns a copy of the document whose single track segment holds points.
func (d *Document) WithPoints(points []Point) *Document {
	out := *d
	out.Attrs = append([]xml.Attr(nil), d.Attrs...)
	out.Points = points
	return &out
}

// ExtensionPrefix returns the namespace prefix the document binds to the
// TrackPointExtension schema, and whether it was declared.
func (d *Document) ExtensionPrefix() (string, bool) {
	for _, attr := range d.Attrs {
		prefix, ok := strings.CutPrefix(attr.Name.Local, "xmlns:")
		if ok && strings.Contains(attr.Value, "TrackPointExtension") {
			return prefix, true
		}
	}
	return DefaultExtensionPrefix, false
}

// wire types mirror the subset of GPX 1.1 the parser reads. Optional values
// stay as text so absence and malformed content can be told apart.
type wireGPX struct {
	XMLName  xml.Name    `xml:"gpx"`
	Version  string      `xml:"version,attr"`
	Creator  string      `xml:"creator,attr"`
	Attrs    []xml.Attr  `xml:",any,attr"`
	Metadata RawXML      `xml:"metadata"`
	Tracks   []wireTrack `xml:"trk"`
}

type wireTrack struct {
	Name        string        `xml:"name"`
	Description string        `xml:"desc"`
	Type        string        `xml:"type"`
	Segments    []wireSegment `xml:"trkseg"`
}

type wireSegment struct {
	Points []wirePoint `xml:"trkpt"`
}

type wirePoint struct {
	Lat        *string         `xml:"lat,attr"`
	Lon        *string         `xml:"lon,attr"`
	Elevation  *string         `xml:"ele"`
	Time       *string         `xml:"time"`
	Extensions *wireExtensions `xml:"extensions"`
}

type wireExtensions struct {
	TrackPoint *wireTrackPointExtension `xml:"TrackPointExtension"`
}

type wireTrackPointExtension struct {
	Temperature *string `xml:"atemp"`
	HeartRate   *string `xml:"hr"`
	Cadence     *string `xml:"cad"`
}
