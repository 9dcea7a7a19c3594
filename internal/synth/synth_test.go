package synth

import (
	"reflect"
	"testing"
	"time"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

func TestFallbackCPU(t *testing.T) {
	g := New(1, 2)

	for run := 0; run < 50; run++ {
		cards := g.FallbackCPU()
		if len(cards) != len(FallbackSensors) {
			t.Fatalf("got %d cards, want %d", len(cards), len(FallbackSensors))
		}

		for i, c := range cards {
			if c.Name != FallbackSensors[i] {
				t.Errorf("card[%d].Name = %q, want %q", i, c.Name, FallbackSensors[i])
			}

			lo, hi := 57.5, 72.5
			if aida.IsDisk(c.Name) {
				lo, hi = 27.5, 42.5
			}
			if c.Temperature < lo || c.Temperature > hi {
				t.Errorf("%s temperature %v outside [%v, %v]", c.Name, c.Temperature, lo, hi)
			}
			if c.MaxTemp < c.Temperature || c.MaxTemp > c.Temperature+5 {
				t.Errorf("%s maxTemp %v not within 5 of %v", c.Name, c.MaxTemp, c.Temperature)
			}
			if c.Status != aida.Classify(c.Temperature) {
				t.Errorf("%s status %s inconsistent with %v", c.Name, c.Status, c.Temperature)
			}
			if c.Cores != aida.CoresFor(c.Name) {
				t.Errorf("%s cores = %d, want %d", c.Name, c.Cores, aida.CoresFor(c.Name))
			}
			if aida.IsDisk(c.Name) && c.Usage != 0 {
				t.Errorf("%s usage = %d, want 0", c.Name, c.Usage)
			}
			if c.Usage < 0 || c.Usage >= 100 {
				t.Errorf("%s usage %d outside [0, 100)", c.Name, c.Usage)
			}
		}
	}
}

func TestVary(t *testing.T) {
	g := New(3, 4)
	names := []string{"CPU", "HDD1", "GPU"}
	bases := map[string]float64{"CPU": 50, "HDD1": 35, "GPU": 45}

	for run := 0; run < 50; run++ {
		for _, c := range g.Vary(names) {
			base := bases[c.Name]
			if c.Temperature < base-3 || c.Temperature > base+3 {
				t.Errorf("%s temperature %v outside %v±3", c.Name, c.Temperature, base)
			}
			if c.MaxTemp < c.Temperature || c.MaxTemp > c.Temperature+3 {
				t.Errorf("%s maxTemp %v not within 3 of %v", c.Name, c.MaxTemp, c.Temperature)
			}
		}
	}
}

func TestGenerator_Seeded(t *testing.T) {
	a := New(7, 7).FallbackCPU()
	b := New(7, 7).FallbackCPU()
	if !reflect.DeepEqual(a, b) {
		t.Error("identically seeded generators diverged")
	}
}

func TestOverall(t *testing.T) {
	cards := []aida.SensorSummary{
		{Temperature: 60.1},
		{Temperature: 70.2},
		{Temperature: 35.0},
	}
	got := Overall(cards)
	if got.AvgTemp != 55.1 {
		t.Errorf("AvgTemp = %v, want 55.1", got.AvgTemp)
	}
	if got.MaxTemp != 70.2 {
		t.Errorf("MaxTemp = %v, want 70.2", got.MaxTemp)
	}

	if empty := Overall(nil); empty != (aida.Overall{}) {
		t.Errorf("Overall(nil) = %+v, want zero", empty)
	}
}

func TestLab(t *testing.T) {
	now := time.Date(2025, 6, 5, 16, 35, 0, 0, time.UTC)
	lab := New(5, 6).Lab(now)

	if len(lab.Series) != 24 {
		t.Fatalf("series length = %d, want 24", len(lab.Series))
	}
	if lab.Series[23].Time != "16:00" {
		t.Errorf("last series point = %q, want 16:00", lab.Series[23].Time)
	}
	if lab.Series[0].Time != "17:00" {
		t.Errorf("first series point = %q, want 17:00 (previous day)", lab.Series[0].Time)
	}

	if len(lab.Table) != 12 {
		t.Fatalf("table length = %d, want 12", len(lab.Table))
	}
	if lab.Table[0].Time != "16:35" || lab.Table[11].Time != "14:45" {
		t.Errorf("table spans %s..%s, want 16:35..14:45", lab.Table[0].Time, lab.Table[11].Time)
	}
	for _, row := range lab.Table {
		if row.Temperature < 23 || row.Temperature > 27 {
			t.Errorf("row %d temperature %v outside [23, 27]", row.ID, row.Temperature)
		}
		if row.Humidity < 45 || row.Humidity > 60 {
			t.Errorf("row %d humidity %v outside [45, 60]", row.ID, row.Humidity)
		}
		if row.ACAction != ACAction(row.Temperature) || row.Status != ClassifyLab(row.Temperature) {
			t.Errorf("row %d action/status inconsistent: %+v", row.ID, row)
		}
	}

	if lab.Metrics.CurrentTemp != lab.Series[23].Temperature {
		t.Errorf("CurrentTemp = %v, want latest series value %v", lab.Metrics.CurrentTemp, lab.Series[23].Temperature)
	}
	if lab.Metrics.Airflow < 15 || lab.Metrics.Airflow > 25 {
		t.Errorf("Airflow %v outside [15, 25]", lab.Metrics.Airflow)
	}
}

func TestClassifyLab(t *testing.T) {
	tests := []struct {
		temp       float64
		wantStatus LabStatus
		wantAction string
	}{
		{24.9, LabNormal, ACActionStandby},
		{25.0, LabNormal, ACActionStandby},
		{25.1, LabCaution, ACActionCooling},
		{26.0, LabCaution, ACActionCooling},
		{26.1, LabWarning, ACActionCooling},
	}

	for _, tt := range tests {
		if got := ClassifyLab(tt.temp); got != tt.wantStatus {
			t.Errorf("ClassifyLab(%v) = %s, want %s", tt.temp, got, tt.wantStatus)
		}
		if got := ACAction(tt.temp); got != tt.wantAction {
			t.Errorf("ACAction(%v) = %q, want %q", tt.temp, got, tt.wantAction)
		}
	}
}
