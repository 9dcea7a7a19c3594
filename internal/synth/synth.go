// Package synth generates synthetic dashboard readings.
//
// The dashboard shows these when no AIDA64 log has been ingested, when an
// ingest fails, and as the periodic "live" variation of an uploaded log. Lab
// environment readings (SHT20 temperature/humidity and AC state) are always
// synthetic. A Generator is safe for concurrent use; seed it for
// reproducible output.
package synth

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

// FallbackSensors are the sensor columns of the AIDA64 configuration the
// dashboard was built around.
var FallbackSensors = []string{"CPU", "CPU Package", "CPU IA Cores", "CPU GT Cores", "HDD1"}

// Generator produces synthetic readings from a private random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator seeded with the given values.
func New(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewRandom returns a Generator with a random seed.
func NewRandom() *Generator {
	return New(rand.Uint64(), rand.Uint64())
}

// float returns a value in [0, 1).
func (g *Generator) float() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// Usage returns a placeholder utilisation in [0, 100). It satisfies
// aida.UsageFunc.
func (g *Generator) Usage(string) int {
	return int(math.Floor(g.float() * 100))
}

// FallbackCPU returns one synthetic card per FallbackSensors entry: around
// 65 °C for CPU sensors and 35 °C for the disk, ±7.5.
func (g *Generator) FallbackCPU() []aida.SensorSummary {
	out := make([]aida.SensorSummary, len(FallbackSensors))
	for i, name := range FallbackSensors {
		base := 65.0
		if aida.IsDisk(name) {
			base = 35
		}
		temp := aida.RoundTenth(base + g.float()*15 - 7.5)
		out[i] = g.card(name, temp, aida.RoundTenth(temp+g.float()*5))
	}
	return out
}

// Vary returns a fresh synthetic card per sensor name, drifting ±3 °C around
// a per-kind baseline and never below 25 °C.
func (g *Generator) Vary(names []string) []aida.SensorSummary {
	out := make([]aida.SensorSummary, len(names))
	for i, name := range names {
		temp := aida.RoundTenth(math.Max(25, baselineFor(name)+(g.float()-0.5)*6))
		out[i] = g.card(name, temp, aida.RoundTenth(temp+g.float()*3))
	}
	return out
}

func baselineFor(name string) float64 {
	switch {
	case aida.IsDisk(name):
		return 35
	case strings.Contains(name, "CPU"):
		return 50
	default:
		return 45
	}
}

func (g *Generator) card(name string, temp, maxTemp float64) aida.SensorSummary {
	usage := 0
	if !aida.IsDisk(name) {
		usage = g.Usage(name)
	}
	return aida.SensorSummary{
		ID:          aida.SensorID(name),
		Name:        name,
		Temperature: temp,
		MaxTemp:     maxTemp,
		Cores:       aida.CoresFor(name),
		Usage:       usage,
		Status:      aida.Classify(temp),
	}
}

// Overall summarises a set of cards built without raw samples: the rounded
// mean and max of the card temperatures.
func Overall(cards []aida.SensorSummary) aida.Overall {
	if len(cards) == 0 {
		return aida.Overall{}
	}
	var sum float64
	maxTemp := cards[0].Temperature
	for _, c := range cards {
		sum += c.Temperature
		maxTemp = math.Max(maxTemp, c.Temperature)
	}
	return aida.Overall{
		AvgTemp: aida.RoundTenth(sum / float64(len(cards))),
		MaxTemp: aida.RoundTenth(maxTemp),
	}
}
