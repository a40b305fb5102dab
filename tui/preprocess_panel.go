// ABOUTME: Preprocessing view: data quality stats plus the null handling choice.
// ABOUTME: Stats load on entry; 1/2 pick the action, results update the display state only.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oceanpilot/oceanpilot/gateway"
)

// PreprocessPanelModel shows quality stats and applies null handling.
type PreprocessPanelModel struct {
	stats    *gateway.PreprocessStats
	summary  *gateway.ProcessingSummary
	loading  bool
	applying bool
	errText  string
	width    int
	height   int
}

// NewPreprocessPanelModel creates an empty preprocessing panel.
func NewPreprocessPanelModel() PreprocessPanelModel {
	return PreprocessPanelModel{}
}

// SetSize updates the panel dimensions.
func (m *PreprocessPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset clears the panel for a fresh phase and marks stats as loading.
func (m *PreprocessPanelModel) Reset() {
	m.stats = nil
	m.summary = nil
	m.loading = true
	m.applying = false
	m.errText = ""
}

// SetStats installs the fetched quality summary.
func (m *PreprocessPanelModel) SetStats(stats *gateway.PreprocessStats, err error) {
	m.loading = false
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.stats = stats
	m.errText = ""
}

// SetApplying toggles the null-handling in-flight indicator.
func (m *PreprocessPanelModel) SetApplying(v bool) {
	m.applying = v
	if v {
		m.errText = ""
	}
}

// SetResult installs an imputation outcome: refreshed stats plus the summary.
func (m *PreprocessPanelModel) SetResult(result *gateway.ImputationResult, err error) {
	m.applying = false
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.summary = result.ProcessingSummary
	if result.UpdatedStats != nil {
		m.stats = result.UpdatedStats
	}
	m.errText = ""
}

// View renders the stats table and action hints.
func (m PreprocessPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Preprocessing"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("1 continue without imputation · 2 remove null columns · n analyze"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(ThinkingStyle.Render("Loading data quality stats..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render(m.errText))
	case m.stats != nil:
		b.WriteString(m.renderStats())
	}

	if m.applying {
		b.WriteString("\n")
		b.WriteString(ThinkingStyle.Render("Applying null handling..."))
	}
	if m.summary != nil {
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}

func (m PreprocessPanelModel) renderStats() string {
	cols := make([]string, 0, len(m.stats.Dtypes))
	for col := range m.stats.Dtypes {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-20s %-10s %8s %10s %10s\n", "column", "dtype", "null %", "mean", "std"))
	for _, col := range cols {
		mean, std := "", ""
		if v, ok := m.stats.DescriptiveStats["mean"][col]; ok {
			mean = fmt.Sprintf("%.2f", v)
		}
		if v, ok := m.stats.DescriptiveStats["std"][col]; ok {
			std = fmt.Sprintf("%.2f", v)
		}
		b.WriteString(fmt.Sprintf("%-20s %-10s %7.1f%% %10s %10s\n",
			truncate(col, 20), m.stats.Dtypes[col], m.stats.NullPercentages[col], mean, std))
	}
	return b.String()
}

func (m PreprocessPanelModel) renderSummary() string {
	s := m.summary
	line := fmt.Sprintf("%s: %dx%d → %dx%d",
		s.ActionTaken, s.OriginalShape[0], s.OriginalShape[1], s.FinalShape[0], s.FinalShape[1])
	if len(s.ColumnsDropped) > 0 {
		line += fmt.Sprintf(", dropped %s", strings.Join(s.ColumnsDropped, ", "))
	}
	return SuccessStyle.Render(line)
}
