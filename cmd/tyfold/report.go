package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"tyfold/internal/driver"
	"tyfold/internal/observ"
	"tyfold/internal/types"
)

// maxColumnWidth caps the type columns so one huge term does not push the
// table off screen.
const maxColumnWidth = 60

type table struct {
	header   lipgloss.Style
	dim      lipgloss.Style
	renderer *lipgloss.Renderer
}

func newTable(w io.Writer, useColor bool) *table {
	r := lipgloss.NewRenderer(w)
	if useColor {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &table{
		header:   r.NewStyle().Bold(true),
		dim:      r.NewStyle().Foreground(lipgloss.Color("8")),
		renderer: r,
	}
}

func (t *table) status(status string) lipgloss.Style {
	switch status {
	case "ok":
		return t.renderer.NewStyle().Foreground(lipgloss.Color("2"))
	case "aborted", "mismatch", "error":
		return t.renderer.NewStyle().Foreground(lipgloss.Color("1"))
	case "warning":
		return t.renderer.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return t.renderer.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

// printResults writes one row per case: name, status, input and result.
func printResults(w io.Writer, tcx *types.Interner, res *driver.Result, useColor bool) {
	t := newTable(w, useColor)
	rows := make([][4]string, 0, len(res.Cases))
	counts := make(map[string]int)
	for i := range res.Cases {
		r := &res.Cases[i]
		if r.Case == nil {
			continue
		}
		status := caseStatus(r)
		counts[status]++
		output := r.Repr
		if output == "" {
			output = "-"
		}
		rows = append(rows, [4]string{
			r.Case.Name,
			status,
			truncate(tcx.Repr(r.Case.Ty), maxColumnWidth),
			truncate(output, maxColumnWidth),
		})
	}

	headers := [4]string{"CASE", "STATUS", "INPUT", res.Op.String()}
	var widths [4]int
	for col, h := range headers {
		widths[col] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for col, cell := range row {
			widths[col] = max(widths[col], runewidth.StringWidth(cell))
		}
	}

	cells := make([]string, 4)
	for col, h := range headers {
		cells[col] = t.header.Render(pad(strings.ToUpper(h), widths[col], col == 3))
	}
	fmt.Fprintln(w, strings.Join(cells, "  "))
	for _, row := range rows {
		for col, cell := range row {
			padded := pad(cell, widths[col], col == 3)
			if col == 1 {
				padded = t.status(cell).Render(padded)
			}
			cells[col] = padded
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}

	failed := res.Failed()
	summary := fmt.Sprintf("%d cases: %d ok, %d failed, %d skipped",
		len(rows), counts["ok"]+counts["warning"], failed, counts["skipped"])
	fmt.Fprintln(w, t.dim.Render(summary))
}

// pad fills s to width display columns. The last column is not padded.
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	return runewidth.FillRight(s, width)
}

func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// printTimings writes the phase durations of a run.
func printTimings(out io.Writer, report observ.Report) {
	for _, phase := range report.Phases {
		if phase.Note != "" {
			fmt.Fprintf(out, "%s %.1f ms (%s)\n", phase.Name, phase.DurationMS, phase.Note)
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", phase.Name, phase.DurationMS)
	}
	fmt.Fprintf(out, "total %.1f ms\n", report.TotalMS)
}
