package web

import (
	"log/slog"

	"github.com/JonMunkholm/thermodash/internal/live"
	"github.com/JonMunkholm/thermodash/internal/store"
	"github.com/JonMunkholm/thermodash/internal/synth"
)

// cpuView is the client representation of a dashboard snapshot. The kept
// log text is replaced by HasUpload.
type cpuView struct {
	store.Snapshot
	UploadedCSV   string  `json:"uploaded_csv,omitempty"`
	HasUpload     bool    `json:"has_upload"`
	MaxCPUTemp    float64 `json:"max_cpu_temp"`
	CPUCount      int     `json:"cpu_count"`
	HottestSensor string  `json:"hottest_sensor"`
}

func newCPUView(snap store.Snapshot) *cpuView {
	return &cpuView{
		Snapshot:      snap,
		HasUpload:     snap.UploadedCSV != "",
		MaxCPUTemp:    snap.MaxCPUTemp(),
		CPUCount:      snap.CPUCount(),
		HottestSensor: snap.HottestSensorName(),
	}
}

// PublishCPU broadcasts snap to live clients.
func (s *Server) PublishCPU(snap store.Snapshot) {
	if err := s.hub.Publish(live.TypeCPU, newCPUView(snap)); err != nil {
		slog.Error("publish cpu snapshot", "error", err)
	}
}

// PublishLab broadcasts lab readings to live clients.
func (s *Server) PublishLab(lab synth.LabReadings) {
	if err := s.hub.Publish(live.TypeLab, lab); err != nil {
		slog.Error("publish lab readings", "error", err)
	}
}
