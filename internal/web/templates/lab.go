package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/thermodash/internal/synth"
)

func labMetrics(p *pageWriter, m synth.LabMetrics) {
	p.raw(`<section class="metrics">`)
	metric(p, "Temperature", "lab-temp", formatTemp(m.CurrentTemp))
	metric(p, "Humidity", "lab-humidity", formatPercent(m.CurrentHumidity))
	metric(p, "Airflow", "lab-airflow", formatFloat(m.Airflow)+" CFM")
	metric(p, "AC", "lab-ac", m.ACStatus)
	p.raw(`</section>`)
}

// LabMonitoring is the lab environment page.
func LabMonitoring(lab synth.LabReadings) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		labMetrics(p, lab.Metrics)

		p.raw(`<section class="card"><h2>SHT20 last 24 hours</h2><table id="lab-series"><thead><tr><th>Time</th><th>Temperature</th><th>Humidity</th></tr></thead><tbody>`)
		for _, pt := range lab.Series {
			p.raw(`<tr><td>`)
			p.text(pt.Time)
			p.raw(`</td><td>`)
			p.text(formatTemp(pt.Temperature))
			p.raw(`</td><td>`)
			p.text(formatPercent(pt.Humidity))
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></section>`)

		p.raw(`<section class="card"><h2>Monitoring log</h2><table id="lab-table"><thead><tr><th>Time</th><th>Temperature</th><th>Humidity</th><th>AC Action</th><th>Status</th></tr></thead><tbody>`)
		for _, row := range lab.Table {
			p.rawf(`<tr class="%s"><td>`, statusClass(string(row.Status)))
			p.text(row.Time)
			p.raw(`</td><td>`)
			p.text(formatTemp(row.Temperature))
			p.raw(`</td><td>`)
			p.text(formatPercent(row.Humidity))
			p.raw(`</td><td>`)
			p.text(row.ACAction)
			p.raw(`</td><td>`)
			p.text(string(row.Status))
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></section>`)
		return p.err
	})
	return Layout("Lab Monitoring", "/lab-monitoring", body)
}
