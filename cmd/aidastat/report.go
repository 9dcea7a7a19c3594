package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JonMunkholm/thermodash/internal/aida"
	"github.com/JonMunkholm/thermodash/internal/core"
)

var (
	colorBorder = lipgloss.Color("62")
	colorHeader = lipgloss.Color("147")
	colorDim    = lipgloss.Color("240")
	colorWarn   = lipgloss.Color("220")
	colorCrit   = lipgloss.Color("196")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCrit)
)

func writeText(w io.Writer, reports []fileReport) error {
	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderReport(r))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// renderReport formats one file as a title, a sensor table and the overall
// line, or the mapped error when ingest failed.
func renderReport(r fileReport) string {
	title := titleStyle.Render(r.Path)

	if r.Err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			errStyle.Render(core.FormatUserError(r.Err)),
			dimStyle.Render(r.Err.Error()),
		)
	}

	sensors := r.Result.Sensors
	rows := make([][]string, len(sensors))
	for i, s := range sensors {
		rows[i] = []string{
			s.Name,
			formatTemp(s.Temperature),
			formatTemp(s.MaxTemp),
			strconv.Itoa(s.Cores),
			string(s.Status),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("SENSOR", "AVG", "MAX", "CORES", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if col > 0 && col < 4 {
				style = style.Align(lipgloss.Right)
			}
			if col == 4 && row >= 0 && row < len(sensors) {
				style = style.Foreground(statusColor(sensors[row].Status))
			}
			return style
		})

	st := r.Result.Stats
	overall := fmt.Sprintf("overall avg %s  max %s", formatTemp(r.Result.Overall.AvgTemp), formatTemp(r.Result.Overall.MaxTemp))
	detail := fmt.Sprintf("%d samples from %d rows, %d skipped", st.Samples, st.DataRows, st.SkippedRows)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		t.String(),
		overall,
		dimStyle.Render(detail),
	)
}

func statusColor(s aida.Status) lipgloss.Color {
	switch s {
	case aida.StatusCritical:
		return colorCrit
	case aida.StatusWarning:
		return colorWarn
	default:
		return lipgloss.Color("42")
	}
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "°C"
}
