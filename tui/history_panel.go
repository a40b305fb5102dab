// ABOUTME: Sidebar listing the session's phase history with cursor selection.
// ABOUTME: Selecting an entry re-activates that phase; the view is derived from the phase itself.
package tui

import (
	"fmt"
	"strings"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// HistoryPanelModel renders the phase history sidebar.
type HistoryPanelModel struct {
	history *workflow.History
	cursor  int
	active  string // active phase id, highlighted
	width   int
	height  int
}

// NewHistoryPanelModel creates a sidebar over the given history.
func NewHistoryPanelModel(history *workflow.History) HistoryPanelModel {
	return HistoryPanelModel{history: history}
}

// SetSize updates the panel dimensions.
func (m *HistoryPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetActive marks the given phase id as the active one.
func (m *HistoryPanelModel) SetActive(id string) {
	m.active = id
	phases := m.history.Phases()
	for i, p := range phases {
		if p.ID == id {
			m.cursor = i
			return
		}
	}
}

// Move shifts the cursor by delta, clamped to the list.
func (m *HistoryPanelModel) Move(delta int) {
	n := m.history.Len()
	if n == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// Selected returns the phase id under the cursor, or "".
func (m *HistoryPanelModel) Selected() string {
	phases := m.history.Phases()
	if m.cursor < 0 || m.cursor >= len(phases) {
		return ""
	}
	return phases[m.cursor].ID
}

// glyphFor picks the list glyph for a phase type.
func glyphFor(p *workflow.Phase) string {
	switch p.Type {
	case workflow.PhasePreprocessing:
		return "⚙"
	case workflow.PhaseAnalysis:
		return "📈"
	default:
		if p.Data != nil && p.Data.IsMerged {
			return "⧉"
		}
		return "▤"
	}
}

// View renders the sidebar.
func (m HistoryPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Workflow"))
	b.WriteString("\n")

	phases := m.history.Phases()
	if len(phases) == 0 {
		b.WriteString(HintStyle.Render("No phases yet.\nUpload a dataset\nto begin."))
	}
	for i, p := range phases {
		line := fmt.Sprintf("%s %s", glyphFor(p), truncate(p.Name, m.width-6))
		switch {
		case p.ID == m.active && i == m.cursor:
			line = SelectedPhaseStyle.Render("▶ " + line)
		case i == m.cursor:
			line = SelectedPhaseStyle.Render("  " + line)
		case p.ID == m.active:
			line = PhaseStyle.Render("▶ " + line)
		default:
			line = PhaseStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
