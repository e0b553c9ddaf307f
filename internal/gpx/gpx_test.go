package gpx

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="Garmin Connect" xmlns="http://www.topografix.com/GPX/1/1" xmlns:ns3="http://www.garmin.com/xmlschemas/TrackPointExtension/v1">
	<metadata>
		<time>2025-01-01T10:00:00.000Z</time>
	</metadata>
	<trk>
		<name>Morning Run</name>
		<type>running</type>
		<trkseg>
			<trkpt lat="46.0" lon="7.0">
				<ele>1000</ele>
				<time>2025-01-01T10:00:00.000Z</time>
				<extensions>
					<ns3:TrackPointExtension>
						<ns3:atemp>21.0</ns3:atemp>
						<ns3:hr>120</ns3:hr>
						<ns3:cad>80</ns3:cad>
					</ns3:TrackPointExtension>
				</extensions>
			</trkpt>
			<trkpt lat="46.001" lon="7.001">
				<ele>1005.5</ele>
				<time>2025-01-01T10:00:01.500Z</time>
			</trkpt>
			<trkpt lat="46.002" lon="7.002"/>
		</trkseg>
	</trk>
</gpx>`

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if len(doc.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(doc.Points))
	}
	if doc.TrackName != "Morning Run" || doc.TrackType != "running" {
		t.Errorf("Track envelope not preserved: name=%q type=%q", doc.TrackName, doc.TrackType)
	}

	first := doc.Points[0]
	if first.Lat != 46.0 || first.Lon != 7.0 {
		t.Errorf("Expected lat=46.0, lon=7.0, got lat=%f, lon=%f", first.Lat, first.Lon)
	}
	if first.Elevation == nil || *first.Elevation != 1000 {
		t.Errorf("Expected elevation=1000, got %v", first.Elevation)
	}
	if first.Temperature == nil || *first.Temperature != 21 {
		t.Errorf("Expected atemp=21, got %v", first.Temperature)
	}
	if first.HeartRate == nil || *first.HeartRate != 120 {
		t.Errorf("Expected hr=120, got %v", first.HeartRate)
	}
	if first.Cadence == nil || *first.Cadence != 80 {
		t.Errorf("Expected cad=80, got %v", first.Cadence)
	}

	second := doc.Points[1]
	want := time.Date(2025, 1, 1, 10, 0, 1, 500_000_000, time.UTC)
	if second.Time == nil || !second.Time.Equal(want) {
		t.Errorf("Expected sub-second time %v, got %v", want, second.Time)
	}
	if second.HeartRate != nil || second.Cadence != nil || second.Temperature != nil {
		t.Errorf("Missing extension fields should be nil, got %+v", second)
	}

	third := doc.Points[2]
	if third.Elevation != nil || third.Time != nil {
		t.Errorf("Missing optional fields should be nil, got ele=%v time=%v", third.Elevation, third.Time)
	}
}

func TestParsePointsAcrossSegments(t *testing.T) {
	const content = `<gpx version="1.1">
		<trk><trkseg><trkpt lat="1" lon="1"/><trkpt lat="2" lon="2"/></trkseg>
		<trkseg><trkpt lat="3" lon="3"/></trkseg></trk>
		<trk><trkseg><trkpt lat="4" lon="4"/></trkseg></trk>
	</gpx>`

	points, err := ParsePoints(content)
	if err != nil {
		t.Fatalf("ParsePoints failed: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(points))
	}
	for i, p := range points {
		if p.Lat != float64(i+1) {
			t.Errorf("Point %d out of document order: lat=%f", i, p.Lat)
		}
	}
}

func TestParseMissingCoordinateFails(t *testing.T) {
	cases := map[string]string{
		"lat":     `<gpx><trk><trkseg><trkpt lat="1" lon="1"/><trkpt lon="2"/></trkseg></trk></gpx>`,
		"lon":     `<gpx><trk><trkseg><trkpt lat="1"/></trkseg></trk></gpx>`,
		"garbage": `<gpx><trk><trkseg><trkpt lat="north" lon="1"/></trkseg></trk></gpx>`,
		"xml":     `<gpx><trk><trkseg><trkpt lat="1" lon="1">`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			points, err := ParsePoints(content)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("Expected ErrMalformedInput, got %v", err)
			}
			if points != nil {
				t.Fatalf("Expected no partial result, got %d points", len(points))
			}
		})
	}
}

func TestParseTimeLayouts(t *testing.T) {
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2025-01-01T10:00:00Z",
		"2025-01-01T10:00:00.000Z",
		"2025-01-01T12:00:00+02:00",
		"2025-01-01T10:00:00",
	} {
		got, err := parseTime(s)
		if err != nil {
			t.Errorf("parseTime(%q) failed: %v", s, err)
			continue
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("parseTime(%q) = %v, want %v UTC", s, got, want)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		`xmlns:ns3="http://www.garmin.com/xmlschemas/TrackPointExtension/v1"`,
		`<ns3:TrackPointExtension><ns3:atemp>21</ns3:atemp><ns3:hr>120</ns3:hr><ns3:cad>80</ns3:cad></ns3:TrackPointExtension>`,
		`<name>Morning Run</name>`,
		`<time>2025-01-01T10:00:01.5Z</time>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshalled GPX missing %s\n%s", want, out)
		}
	}
	if strings.Count(out, "<extensions>") != 1 {
		t.Errorf("Extensions block should only be written for points that carry readings:\n%s", out)
	}

	again, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("Re-parse failed: %v", err)
	}
	if len(again.Points) != len(doc.Points) {
		t.Fatalf("Expected %d points after round trip, got %d", len(doc.Points), len(again.Points))
	}
	for i := range doc.Points {
		a, b := doc.Points[i], again.Points[i]
		if a.Lat != b.Lat || a.Lon != b.Lon {
			t.Errorf("Point %d coordinates changed: %+v -> %+v", i, a, b)
		}
		if (a.Time == nil) != (b.Time == nil) || (a.Time != nil && !a.Time.Equal(*b.Time)) {
			t.Errorf("Point %d time changed: %v -> %v", i, a.Time, b.Time)
		}
		if (a.HeartRate == nil) != (b.HeartRate == nil) {
			t.Errorf("Point %d heart rate presence changed", i)
		}
	}
}

func TestSerializeDoesNotMutateDocument(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	data, err := doc.Serialize(doc.Points[:1])
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Count(string(data), "<trkpt") != 1 {
		t.Errorf("Expected a single trkpt in output")
	}
	if len(doc.Points) != 3 {
		t.Errorf("Serialize must not change the source document")
	}
}

func TestWriteAndParseFile(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "updated.gpx")
	if err := doc.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	again, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(again.Points) != 3 {
		t.Errorf("Expected 3 points, got %d", len(again.Points))
	}
}

func TestClonePointsIsDeep(t *testing.T) {
	hr := 100
	src := []Point{{Lat: 1, Lon: 2, HeartRate: &hr}}
	dst := ClonePoints(src)
	*dst[0].HeartRate = 150

	if *src[0].HeartRate != 100 {
		t.Errorf("ClonePoints shares heart rate with its source")
	}
}
