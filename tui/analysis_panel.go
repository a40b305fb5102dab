// ABOUTME: Analysis view: statistical summary, quick-analysis suggestions, and the latest chart.
// ABOUTME: Charts arrive asynchronously as analysis_result events and render as a text plot.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// AnalysisPanelModel shows statistics and the latest analysis result.
type AnalysisPanelModel struct {
	suggestions []string
	stats       *gateway.AnalysisStatistics
	result      *workflow.AnalysisResultEvent
	loading     bool
	errText     string
	width       int
	height      int
}

// NewAnalysisPanelModel creates an empty analysis panel.
func NewAnalysisPanelModel() AnalysisPanelModel {
	return AnalysisPanelModel{}
}

// SetSize updates the panel dimensions.
func (m *AnalysisPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset clears the panel for a fresh analysis phase.
func (m *AnalysisPanelModel) Reset() {
	m.suggestions = nil
	m.stats = nil
	m.result = nil
	m.loading = true
	m.errText = ""
}

// SetSuggestions installs the quick-analysis prompts.
func (m *AnalysisPanelModel) SetSuggestions(suggestions []string, err error) {
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.suggestions = suggestions
}

// SetStats installs the statistical summary.
func (m *AnalysisPanelModel) SetStats(stats *gateway.AnalysisStatistics, err error) {
	m.loading = false
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.stats = stats
	m.errText = ""
}

// SetResult installs an analysis result event for rendering.
func (m *AnalysisPanelModel) SetResult(result *workflow.AnalysisResultEvent) {
	m.result = result
}

// View renders statistics, suggestions, and the chart.
func (m AnalysisPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Analysis"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("Ask the agent for a chart, or try a suggestion below."))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(ThinkingStyle.Render("Loading statistics..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render(m.errText))
	case m.stats != nil:
		b.WriteString(m.renderStats())
	}

	if len(m.suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range m.suggestions {
			b.WriteString(HintStyle.Render("  · " + s))
			b.WriteString("\n")
		}
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.renderResult())
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}

func (m AnalysisPanelModel) renderStats() string {
	cols := make([]string, 0, len(m.stats.Statistics))
	for col := range m.stats.Statistics {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Shape: %d rows, %d columns\n\n", m.stats.DataShape.Rows, m.stats.DataShape.Columns))
	b.WriteString(fmt.Sprintf("%-20s %-12s %8s %10s %10s\n", "column", "type", "miss %", "mean", "std"))
	for _, col := range cols {
		st := m.stats.Statistics[col]
		mean, std := "", ""
		if st.Mean != nil {
			mean = fmt.Sprintf("%.2f", *st.Mean)
		}
		if st.Std != nil {
			std = fmt.Sprintf("%.2f", *st.Std)
		}
		b.WriteString(fmt.Sprintf("%-20s %-12s %7.1f%% %10s %10s\n",
			truncate(col, 20), st.Type, st.MissingPercent, mean, std))
	}
	return b.String()
}

// renderResult draws the latest chart as a unicode scatter over a text grid.
func (m AnalysisPanelModel) renderResult() string {
	r := m.result
	if r.Config == nil || len(r.Data) == 0 {
		return SuccessStyle.Render(fmt.Sprintf("Received %s result with %d rows.", r.AnalysisType, len(r.Data)))
	}
	cfg := r.Config.Config

	var b strings.Builder
	title := cfg.Title
	if title == "" {
		title = r.AnalysisType
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(plotRows(r.Data, cfg.XAxis, cfg.YAxis, min(m.width-8, 60), 10))
	if cfg.Description != "" {
		b.WriteString(HintStyle.Render(cfg.Description))
	}
	return b.String()
}

// plotRows renders x/y pairs onto a character grid.
func plotRows(rows []workflow.Row, xCol, yCol string, width, height int) string {
	type pt struct{ x, y float64 }
	var pts []pt
	for _, row := range rows {
		x, xok := row[xCol].(float64)
		y, yok := row[yCol].(float64)
		if xok && yok {
			pts = append(pts, pt{x, y})
		}
	}
	if len(pts) == 0 || width < 10 || height < 3 {
		return HintStyle.Render("No numeric data to plot.\n")
	}

	minX, maxX := pts[0].x, pts[0].x
	minY, maxY := pts[0].y, pts[0].y
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, p := range pts {
		col := int((p.x - minX) / (maxX - minX) * float64(width-1))
		row := height - 1 - int((p.y-minY)/(maxY-minY)*float64(height-1))
		grid[row][col] = '•'
	}

	var b strings.Builder
	for _, line := range grid {
		b.WriteString("│")
		b.WriteString(string(line))
		b.WriteString("\n")
	}
	b.WriteString("└")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render(fmt.Sprintf("x: %s [%.2f, %.2f]  y: %s [%.2f, %.2f]\n", xCol, minX, maxX, yCol, minY, maxY)))
	return b.String()
}
