package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/thermodash/internal/store"
	"github.com/JonMunkholm/thermodash/internal/synth"
)

// Dashboard is the overview combining CPU and lab headline figures.
func Dashboard(snap store.Snapshot, lab synth.LabReadings) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<h1>Overview</h1><h2><a href="/cpu-monitoring">CPU temperatures</a></h2>`)
		metricCards(p, snap)
		p.raw(`<p class="hottest">Hottest sensor: <strong id="hottest">`)
		p.text(snap.HottestSensorName())
		p.raw(`</strong></p><h2><a href="/lab-monitoring">Lab environment</a></h2>`)
		labMetrics(p, lab.Metrics)
		return p.err
	})
	return Layout("Overview", "/", body)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatTemp(v float64) string {
	return formatFloat(v) + " °C"
}

func formatPercent(v float64) string {
	return formatFloat(v) + "%"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
