// ABOUTME: Preview view: a sample-row table for the active phase's dataset.
// ABOUTME: Built on the bubbles table; "m" advances to mapping from here.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// PreviewPanelModel renders a dataset sample as a table.
type PreviewPanelModel struct {
	table   table.Model
	phase   *workflow.Phase
	width   int
	height  int
}

// NewPreviewPanelModel creates an empty preview panel.
func NewPreviewPanelModel() PreviewPanelModel {
	return PreviewPanelModel{table: table.New()}
}

// SetSize updates the panel dimensions.
func (m *PreviewPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width - 2)
	m.table.SetHeight(height - 5)
	m.rebuild()
}

// SetPhase points the preview at a phase's dataset.
func (m *PreviewPanelModel) SetPhase(p *workflow.Phase) {
	m.phase = p
	m.rebuild()
}

// rebuild recomputes the table columns and rows from the phase's sample data.
func (m *PreviewPanelModel) rebuild() {
	if m.phase == nil || m.phase.Data == nil {
		m.table.SetColumns(nil)
		m.table.SetRows(nil)
		return
	}
	ds := m.phase.Data
	cols := ds.Columns()
	if len(cols) == 0 {
		return
	}

	colWidth := (m.width - 4) / len(cols)
	if colWidth < 6 {
		colWidth = 6
	}
	tableCols := make([]table.Column, len(cols))
	for i, c := range cols {
		tableCols[i] = table.Column{Title: c, Width: colWidth}
	}

	sample := ds.SampleData
	if len(sample) == 0 {
		sample = ds.Data
		if len(sample) > 20 {
			sample = sample[:20]
		}
	}
	rows := make([]table.Row, len(sample))
	for i, r := range sample {
		cells := make(table.Row, len(cols))
		for j, c := range cols {
			cells[j] = cellText(r[c])
		}
		rows[i] = cells
	}
	m.table.SetColumns(tableCols)
	m.table.SetRows(rows)
}

// cellText renders one cell for display.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return "∅"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", t), "0"), ".")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Update forwards navigation keys to the table.
func (m PreviewPanelModel) Update(msg tea.Msg) (PreviewPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); ok {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// View renders the preview.
func (m PreviewPanelModel) View() string {
	var b strings.Builder
	name := ""
	total := 0
	if m.phase != nil {
		name = m.phase.Name
		if m.phase.Data != nil {
			total = len(m.phase.Data.Data)
		}
	}
	b.WriteString(TitleStyle.Render("Preview: " + name))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render(fmt.Sprintf("%d rows total, showing a sample. Press m to map columns.", total)))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}
