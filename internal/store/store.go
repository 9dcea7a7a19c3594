// Package store persists dashboard state between requests and restarts.
//
// The ingest core holds no state; the last ingested (or synthetic) data set,
// the uploaded log text and the auto-refresh flag live here instead. Two
// implementations exist: Memory for single-process use and Postgres backed by
// pgx for durable state.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("store: no snapshot saved")

// Dashboard data sources.
const (
	SourceMock = "Mock Data"
	SourceCSV  = "AIDA64 CSV"
	SourceLive = "AIDA64 CSV (Live)"
)

// FixedCPUCount is the sensor count shown on the dashboard regardless of the
// number of ingested columns.
const FixedCPUCount = 5

// DefaultHottestName is reported when no sensor data is present.
const DefaultHottestName = "CPU-01"

// Metrics are the headline dashboard figures.
type Metrics struct {
	TotalCPUs  int     `json:"total_cpus"`
	AvgTemp    float64 `json:"avg_temp"`
	MaxTemp    float64 `json:"max_temp"`
	DataSource string  `json:"data_source"`
}

// Snapshot is the complete persisted dashboard state.
type Snapshot struct {
	CPUData     []aida.SensorSummary `json:"cpu_data"`
	Metrics     Metrics              `json:"metrics"`
	UploadedCSV string               `json:"uploaded_csv,omitempty"`
	IsConnected bool                 `json:"is_connected"`
	AutoRefresh bool                 `json:"auto_refresh"`
	LastUpdate  *time.Time           `json:"last_update,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.CPUData != nil {
		out.CPUData = make([]aida.SensorSummary, len(s.CPUData))
		copy(out.CPUData, s.CPUData)
	}
	if s.LastUpdate != nil {
		t := *s.LastUpdate
		out.LastUpdate = &t
	}
	return out
}

// MaxCPUTemp returns the highest card temperature, or 0 without data.
func (s Snapshot) MaxCPUTemp() float64 {
	if len(s.CPUData) == 0 {
		return 0
	}
	m := s.CPUData[0].Temperature
	for _, c := range s.CPUData[1:] {
		if c.Temperature > m {
			m = c.Temperature
		}
	}
	return m
}

// CPUCount returns the displayed sensor count.
func (s Snapshot) CPUCount() int {
	return FixedCPUCount
}

// HottestSensorName returns the name of the first card holding the highest
// temperature, or DefaultHottestName without data.
func (s Snapshot) HottestSensorName() string {
	if len(s.CPUData) == 0 {
		return DefaultHottestName
	}
	maxTemp := s.MaxCPUTemp()
	for _, c := range s.CPUData {
		if c.Temperature == maxTemp {
			return c.Name
		}
	}
	return DefaultHottestName
}

// IngestRecord is one entry of the ingest history.
type IngestRecord struct {
	ID        string               `json:"id"`
	FileName  string               `json:"file_name"`
	Source    string               `json:"source"`
	Sensors   []aida.SensorSummary `json:"sensors,omitempty"`
	Overall   aida.Overall         `json:"overall"`
	Error     string               `json:"error,omitempty"`
	ErrorCode string               `json:"error_code,omitempty"`
	ClientIP  string               `json:"client_ip,omitempty"`
	UserAgent string               `json:"user_agent,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Succeeded reports whether the ingest produced real data.
func (r IngestRecord) Succeeded() bool {
	return r.Error == ""
}

// Store persists dashboard state and ingest history.
type Store interface {
	// Load returns the saved snapshot, or ErrEmpty.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the saved snapshot.
	Save(ctx context.Context, snap Snapshot) error

	// AppendIngest records an ingest attempt. Older records beyond the
	// store's history limit are discarded.
	AppendIngest(ctx context.Context, rec IngestRecord) error

	// RecentIngests returns up to limit records, newest first.
	RecentIngests(ctx context.Context, limit int) ([]IngestRecord, error)

	// Close releases resources held by the store.
	Close()
}
