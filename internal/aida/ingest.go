package aida

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	// headerMarker is the literal column prefix of an AIDA64 sensor block.
	headerMarker = "Date,Time,UpTime,CPU"

	// leadingColumns are Date, Time and UpTime; sensors start after them.
	leadingColumns = 3

	// unitsRows is the number of rows between the header and the first data row.
	unitsRows = 1

	// minDataCells is the shortest row that can carry a sensor value.
	minDataCells = leadingColumns + 1
)

// SensorReading is the sample series collected for one sensor column.
// Samples are strictly positive and in file order.
type SensorReading struct {
	Name    string
	Samples []float64
}

// SensorSummary is the aggregate of one SensorReading.
type SensorSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Temperature float64 `json:"temperature"`
	MaxTemp     float64 `json:"max_temp"`
	Cores       int     `json:"cores"`
	Usage       int     `json:"usage"`
	Status      Status  `json:"status"`
	Samples     int     `json:"samples"`
}

// Overall aggregates the union of every sensor's samples.
type Overall struct {
	AvgTemp float64 `json:"avg_temp"`
	MaxTemp float64 `json:"max_temp"`
}

// Stats describes how the input was consumed. It does not affect aggregation.
type Stats struct {
	Rows             int `json:"rows"`
	HeaderIndex      int `json:"header_index"`
	DataRows         int `json:"data_rows"`
	SkippedRows      int `json:"skipped_rows"`
	Samples          int `json:"samples"`
	MalformedRecords int `json:"malformed_records"`
}

// IngestResult is produced fresh by every Ingest call.
type IngestResult struct {
	Sensors  []SensorSummary `json:"sensors"`
	Overall  Overall         `json:"overall"`
	Stats    Stats           `json:"stats"`
	Readings []SensorReading `json:"-"`
}

// UsageFunc supplies the utilisation shown for a non-disk sensor.
// The logs carry no load data, so the value is a placeholder.
type UsageFunc func(sensorName string) int

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithUsage sets the placeholder usage source for non-disk sensors.
func WithUsage(fn UsageFunc) Option {
	return func(in *Ingestor) {
		in.usage = fn
	}
}

// Ingestor parses AIDA64 exports. The zero value is ready to use and reports
// zero usage for every sensor.
type Ingestor struct {
	usage UsageFunc
}

// New creates an Ingestor.
func New(opts ...Option) *Ingestor {
	in := &Ingestor{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

var defaultIngestor = New()

// Ingest parses csvText with the default Ingestor.
func Ingest(csvText string) (*IngestResult, error) {
	return defaultIngestor.Ingest(csvText)
}

// IngestReader reads r to EOF and ingests its content.
func (in *Ingestor) IngestReader(r io.Reader) (*IngestResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return in.Ingest(string(data))
}

// Ingest parses an AIDA64 export and aggregates its temperature columns.
func (in *Ingestor) Ingest(csvText string) (*IngestResult, error) {
	rows, malformed, err := ParseRows(csvText)
	if err != nil {
		return nil, fmt.Errorf("parse log: %w", err)
	}

	headerIdx, err := FindHeader(rows)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		Rows:             len(rows),
		HeaderIndex:      headerIdx,
		MalformedRecords: malformed,
	}

	columns := sensorColumns(rows[headerIdx])
	acc := newAccumulator()
	var pool []float64

	for _, row := range rows[min(headerIdx+1+unitsRows, len(rows)):] {
		if len(row) < minDataCells {
			stats.SkippedRows++
			continue
		}
		stats.DataRows++

		for pos, name := range columns {
			idx := leadingColumns + pos
			if idx >= len(row) {
				continue
			}
			v, ok := row[idx].Number()
			if !ok || !(v > 0) || math.IsInf(v, 0) {
				continue
			}
			acc.add(name, v)
			pool = append(pool, v)
		}
	}

	if len(pool) == 0 {
		return nil, noValidSamples(len(rows))
	}
	stats.Samples = len(pool)

	readings := acc.readings()
	sensors := make([]SensorSummary, len(readings))
	for i, r := range readings {
		sensors[i] = in.summarize(r)
	}

	return &IngestResult{
		Sensors: sensors,
		Overall: Overall{
			AvgTemp: RoundTenth(mean(pool)),
			MaxTemp: RoundTenth(maxOf(pool)),
		},
		Stats:    stats,
		Readings: readings,
	}, nil
}

// FindHeader returns the index of the header row. The first cell must be
// text, and either it contains "Date" or the joined row contains the
// AIDA64 column prefix.
func FindHeader(rows []RawRow) (int, error) {
	for i, row := range rows {
		if len(row) == 0 || !row[0].IsText() {
			continue
		}
		if strings.Contains(row[0].Raw, "Date") || strings.Contains(row.Joined(), headerMarker) {
			return i, nil
		}
	}
	return -1, headerNotFound(len(rows))
}

// SensorNames parses csvText only far enough to return its sensor column
// names in header order.
func SensorNames(csvText string) ([]string, error) {
	rows, _, err := ParseRows(csvText)
	if err != nil {
		return nil, fmt.Errorf("parse log: %w", err)
	}
	idx, err := FindHeader(rows)
	if err != nil {
		return nil, err
	}
	return sensorColumns(rows[idx]), nil
}

func sensorColumns(header RawRow) []string {
	if len(header) <= leadingColumns {
		return nil
	}
	names := make([]string, 0, len(header)-leadingColumns)
	for _, c := range header[leadingColumns:] {
		names = append(names, c.Raw)
	}
	return names
}

func (in *Ingestor) summarize(r SensorReading) SensorSummary {
	temp := RoundTenth(mean(r.Samples))

	usage := 0
	if !IsDisk(r.Name) && in.usage != nil {
		usage = in.usage(r.Name)
	}

	return SensorSummary{
		ID:          SensorID(r.Name),
		Name:        r.Name,
		Temperature: temp,
		MaxTemp:     RoundTenth(maxOf(r.Samples)),
		Cores:       CoresFor(r.Name),
		Usage:       usage,
		Status:      Classify(temp),
		Samples:     len(r.Samples),
	}
}

// accumulator collects samples per sensor name in first-seen order.
// Columns that share a name share one series.
type accumulator struct {
	order []string
	byKey map[string][]float64
}

func newAccumulator() *accumulator {
	return &accumulator{byKey: make(map[string][]float64)}
}

func (a *accumulator) add(name string, v float64) {
	if _, ok := a.byKey[name]; !ok {
		a.order = append(a.order, name)
	}
	a.byKey[name] = append(a.byKey[name], v)
}

func (a *accumulator) readings() []SensorReading {
	out := make([]SensorReading, len(a.order))
	for i, name := range a.order {
		out[i] = SensorReading{Name: name, Samples: a.byKey[name]}
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
