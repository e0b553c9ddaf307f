package gpx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Write saves the document to a file, pretty-printed.
func (d *Document) Write(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return d.WriteToWriter(file)
}

// WriteToWriter writes the pretty-printed document to w.
func (d *Document) WriteToWriter(w io.Writer) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, Format(string(data))); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Serialize renders points inside the envelope of d without changing d.
func (d *Document) Serialize(points []Point) ([]byte, error) {
	return d.WithPoints(points).Marshal()
}

// Marshal renders the document as compact XML: the original envelope and a
// single trk/trkseg holding every point. Use Format for the indented form.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	tw := &tokenWriter{enc: xml.NewEncoder(&buf)}
	prefix, declared := d.ExtensionPrefix()

	tw.start("gpx", d.rootAttrs(prefix, declared)...)
	if len(d.Metadata) > 0 {
		tw.raw("metadata", d.Metadata)
	}
	tw.start("trk")
	tw.leaf("name", d.TrackName)
	tw.leaf("desc", d.TrackDescription)
	tw.leaf("type", d.TrackType)
	tw.start("trkseg")
	for _, p := range d.Points {
		tw.point(p, prefix)
	}
	tw.end("trkseg")
	tw.end("trk")
	tw.end("gpx")

	if err := tw.flush(); err != nil {
		return nil, fmt.Errorf("failed to encode GPX: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) rootAttrs(prefix string, declared bool) []xml.Attr {
	creator := d.Creator
	if creator == "" {
		creator = "gpxedit"
	}
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "version"}, Value: d.Version},
		{Name: xml.Name{Local: "creator"}, Value: creator},
	}

	hasDefault := false
	for _, attr := range d.Attrs {
		if attr.Name.Local == "xmlns" {
			hasDefault = true
		}
	}
	if !hasDefault {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: DefaultNamespace})
	}
	attrs = append(attrs, d.Attrs...)

	if !declared && d.anyExtensions() {
		attrs = append(attrs, xml.Attr{
			Name:  xml.Name{Local: "xmlns:" + prefix},
			Value: TrackPointExtensionNamespace,
		})
	}
	return attrs
}

func (d *Document) anyExtensions() bool {
	for _, p := range d.Points {
		if p.HasExtensions() {
			return true
		}
	}
	return false
}

// tokenWriter streams tokens and keeps the first error. Names are written
// with their prefix in Name.Local so that the source prefixes survive;
// encoding/xml would otherwise invent its own.
type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (tw *tokenWriter) token(t xml.Token) {
	if tw.err != nil {
		return
	}
	tw.err = tw.enc.EncodeToken(t)
}

func (tw *tokenWriter) start(name string, attrs ...xml.Attr) {
	tw.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (tw *tokenWriter) end(name string) {
	tw.token(xml.EndElement{Name: xml.Name{Local: name}})
}

// leaf writes <name>text</name>; empty text is skipped.
func (tw *tokenWriter) leaf(name, text string) {
	if text == "" {
		return
	}
	tw.start(name)
	tw.token(xml.CharData(text))
	tw.end(name)
}

func (tw *tokenWriter) raw(name string, inner RawXML) {
	if tw.err != nil {
		return
	}
	type rawElement struct {
		XMLName xml.Name
		Content string `xml:",innerxml"`
	}
	tw.err = tw.enc.Encode(rawElement{XMLName: xml.Name{Local: name}, Content: string(inner)})
}

func (tw *tokenWriter) point(p Point, prefix string) {
	tw.start("trkpt",
		xml.Attr{Name: xml.Name{Local: "lat"}, Value: formatFloat(p.Lat)},
		xml.Attr{Name: xml.Name{Local: "lon"}, Value: formatFloat(p.Lon)},
	)
	if p.Elevation != nil {
		tw.leaf("ele", formatFloat(*p.Elevation))
	}
	if p.Time != nil {
		tw.leaf("time", p.Time.UTC().Format(time.RFC3339Nano))
	}
	if p.HasExtensions() {
		tpx := prefix + ":TrackPointExtension"
		tw.start("extensions")
		tw.start(tpx)
		if p.Temperature != nil {
			tw.leaf(prefix+":atemp", formatFloat(*p.Temperature))
		}
		if p.HeartRate != nil {
			tw.leaf(prefix+":hr", strconv.Itoa(*p.HeartRate))
		}
		if p.Cadence != nil {
			tw.leaf(prefix+":cad", strconv.Itoa(*p.Cadence))
		}
		tw.end(tpx)
		tw.end("extensions")
	}
	tw.end("trkpt")
}

func (tw *tokenWriter) flush() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.enc.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
