package synth

import (
	"math"
	"time"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

// LabStatus classifies a lab room temperature.
type LabStatus string

const (
	LabNormal  LabStatus = "Normal"
	LabCaution LabStatus = "Caution"
	LabWarning LabStatus = "Warning"
)

// Lab thresholds in °C. The AC engages above ACOnAbove.
const (
	ACOnAbove       = 25.0
	LabWarningAbove = 26.0
)

const (
	ACActionCooling = "AC ON - Cooling"
	ACActionStandby = "AC OFF - Standby"
)

// LabPoint is one hourly SHT20 reading.
type LabPoint struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// LabRow is one 10-minute monitoring table entry.
type LabRow struct {
	ID          int       `json:"id"`
	Time        string    `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	ACAction    string    `json:"ac_action"`
	Status      LabStatus `json:"status"`
}

// LabMetrics are the headline lab figures.
type LabMetrics struct {
	CurrentTemp     float64 `json:"current_temp"`
	CurrentHumidity float64 `json:"current_humidity"`
	Airflow         float64 `json:"airflow"`
	ACStatus        string  `json:"ac_status"`
}

// LabReadings is a complete lab environment snapshot.
type LabReadings struct {
	Series      []LabPoint `json:"series"`
	Table       []LabRow   `json:"table"`
	Metrics     LabMetrics `json:"metrics"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// ClassifyLab maps a rounded room temperature to a LabStatus.
func ClassifyLab(temp float64) LabStatus {
	switch {
	case temp > LabWarningAbove:
		return LabWarning
	case temp > ACOnAbove:
		return LabCaution
	default:
		return LabNormal
	}
}

// ACAction returns the AC action for a rounded room temperature.
func ACAction(temp float64) string {
	if temp > ACOnAbove {
		return ACActionCooling
	}
	return ACActionStandby
}

// LabSeries returns 24 hourly points ending at now, oldest first. The values
// follow a daily sine around 24 °C / 45 % with noise.
func (g *Generator) LabSeries(now time.Time) []LabPoint {
	points := make([]LabPoint, 0, 24)
	for i := 23; i >= 0; i-- {
		t := now.Add(-time.Duration(i) * time.Hour)
		phase := math.Sin(float64(i) / 24 * 2 * math.Pi)
		points = append(points, LabPoint{
			Time:        t.Format("15") + ":00",
			Temperature: aida.RoundTenth(24 + phase*3 + g.float()*2 - 1),
			Humidity:    aida.RoundTenth(45 + phase*10 + g.float()*5 - 2.5),
		})
	}
	return points
}

// LabTable returns 12 rows at 10-minute spacing, newest first.
func (g *Generator) LabTable(now time.Time) []LabRow {
	rows := make([]LabRow, 12)
	for i := 11; i >= 0; i-- {
		t := now.Add(-time.Duration(i) * 10 * time.Minute)
		temp := aida.RoundTenth(23 + g.float()*4)
		rows[i] = LabRow{
			ID:          i,
			Time:        t.Format("15:04"),
			Temperature: temp,
			Humidity:    aida.RoundTenth(45 + g.float()*15),
			ACAction:    ACAction(temp),
			Status:      ClassifyLab(temp),
		}
	}
	return rows
}

// Lab returns a full lab snapshot. Metrics track the latest series point.
func (g *Generator) Lab(now time.Time) LabReadings {
	series := g.LabSeries(now)
	latest := series[len(series)-1]

	status := "Standby"
	if latest.Temperature > ACOnAbove {
		status = "Cooling"
	}

	return LabReadings{
		Series: series,
		Table:  g.LabTable(now),
		Metrics: LabMetrics{
			CurrentTemp:     latest.Temperature,
			CurrentHumidity: latest.Humidity,
			Airflow:         aida.RoundTenth(15 + g.float()*10),
			ACStatus:        status,
		},
		GeneratedAt: now,
	}
}
