package templates

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/thermodash/internal/aida"
	"github.com/JonMunkholm/thermodash/internal/store"
)

// metricCards renders the four headline figures.
func metricCards(p *pageWriter, snap store.Snapshot) {
	p.raw(`<section class="metrics">`)
	metric(p, "Total Sensors", "metric-total", itoa(snap.CPUCount()))
	metric(p, "Average Temp", "metric-avg", formatTemp(snap.Metrics.AvgTemp))
	metric(p, "Max Temp", "metric-max", formatTemp(snap.Metrics.MaxTemp))
	metric(p, "Data Source", "metric-source", snap.Metrics.DataSource)
	p.raw(`</section>`)
}

func metric(p *pageWriter, label, id, value string) {
	p.rawf(`<div class="card metric"><span class="label">%s</span><span class="value" id="%s">`,
		templ.EscapeString(label), id)
	p.text(value)
	p.raw(`</span></div>`)
}

// sensorCard renders one sensor.
func sensorCard(p *pageWriter, c aida.SensorSummary) {
	p.rawf(`<article class="card sensor %s" data-sensor="%s">`,
		statusClass(string(c.Status)), templ.EscapeString(c.ID))
	p.raw(`<h3>`)
	p.text(c.Name)
	p.raw(`</h3><dl>`)
	p.raw(`<dt>Temperature</dt><dd class="temp">`)
	p.text(formatTemp(c.Temperature))
	p.raw(`</dd><dt>Max</dt><dd class="max">`)
	p.text(formatTemp(c.MaxTemp))
	p.raw(`</dd><dt>Cores</dt><dd>`)
	p.text(itoa(c.Cores))
	p.raw(`</dd><dt>Usage</dt><dd class="usage">`)
	p.textf("%d%%", c.Usage)
	p.raw(`</dd></dl><span class="badge">`)
	p.text(string(c.Status))
	p.raw(`</span></article>`)
}

// CPUMonitoring is the sensor page with the upload controls.
func CPUMonitoring(snap store.Snapshot) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<section class="toolbar">`)
		p.raw(`<form id="upload-form" action="/api/cpu/upload" method="post" enctype="multipart/form-data">`)
		p.raw(`<input type="file" name="file" accept=".csv,text/csv"><button type="submit">Upload AIDA64 CSV</button></form>`)
		p.raw(`<button id="sample-btn" type="button" data-action="/api/cpu/sample">Load sample</button>`)
		p.rawf(`<label><input id="auto-refresh" type="checkbox"%s> Auto refresh</label>`, checked(snap.AutoRefresh))
		p.raw(`<span class="connection">`)
		if snap.IsConnected {
			p.text("Connected")
		} else {
			p.text("Not connected")
		}
		p.raw(`</span><span class="updated" id="last-update">`)
		p.text(formatUpdate(snap.LastUpdate))
		p.raw(`</span></section><div id="upload-error"></div>`)

		metricCards(p, snap)

		p.raw(`<section class="hottest">Hottest sensor: <strong id="hottest">`)
		p.text(snap.HottestSensorName())
		p.raw(`</strong> at <span id="hottest-temp">`)
		p.text(formatTemp(snap.MaxCPUTemp()))
		p.raw(`</span></section><section id="sensors" class="sensors">`)
		for _, c := range snap.CPUData {
			sensorCard(p, c)
		}
		p.raw(`</section>`)
		return p.err
	})
	return Layout("CPU Monitoring", "/cpu-monitoring", body)
}

func checked(on bool) string {
	if on {
		return " checked"
	}
	return ""
}

func formatUpdate(t *time.Time) string {
	if t == nil {
		return "Never updated"
	}
	return "Updated " + t.Local().Format("15:04:05")
}
