package export

import (
	"math"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/planbiir/gpxedit/internal/track"
)

type pointRow struct {
	Index        int64   `parquet:"name=index, type=INT64"`
	TSUTCISO     string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Lat          float64 `parquet:"name=lat, type=DOUBLE"`
	Lon          float64 `parquet:"name=lon, type=DOUBLE"`
	EleM         float64 `parquet:"name=ele_m, type=DOUBLE"`
	TemperatureC float64 `parquet:"name=temperature_c, type=DOUBLE"`
	HRBPM        float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	CadenceRPM   float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	DistanceKm   float64 `parquet:"name=distance_km, type=DOUBLE"`
	SpeedKmh     float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	SlopePct     float64 `parquet:"name=slope_pct, type=DOUBLE"`
	ValidTime    bool    `parquet:"name=valid_time, type=BOOLEAN"`
	ValidHR      bool    `parquet:"name=valid_hr, type=BOOLEAN"`
	ValidCadence bool    `parquet:"name=valid_cadence, type=BOOLEAN"`
}

// MarshalParquet encodes the points as a Snappy-compressed Parquet file held
// in memory. Missing readings are NaN.
func MarshalParquet(points []track.EnrichedPoint) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := writeParquet(fw, points); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// WriteParquetFile writes the points to a Parquet file at path.
func WriteParquetFile(path string, points []track.EnrichedPoint) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	if err := writeParquet(fw, points); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func writeParquet(fw source.ParquetFile, points []track.EnrichedPoint) error {
	pw, err := writer.NewParquetWriter(fw, new(pointRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for i, p := range points {
		if err := pw.Write(newPointRow(i, p)); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	return pw.WriteStop()
}

func newPointRow(i int, p track.EnrichedPoint) pointRow {
	return pointRow{
		Index:        int64(i),
		TSUTCISO:     formatTime(p.Time),
		Lat:          p.Lat,
		Lon:          p.Lon,
		EleM:         valueOrNaN(p.Elevation),
		TemperatureC: valueOrNaN(p.Temperature),
		HRBPM:        intOrNaN(p.HeartRate),
		CadenceRPM:   intOrNaN(p.Cadence),
		DistanceKm:   p.DistanceKm,
		SpeedKmh:     p.SpeedKmh,
		SlopePct:     p.SlopePct,
		ValidTime:    p.Time != nil,
		ValidHR:      p.HeartRate != nil,
		ValidCadence: p.Cadence != nil,
	}
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
