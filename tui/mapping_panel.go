// ABOUTME: Mapping view: assign a semantic role to each column, with agent suggestions overlaid.
// ABOUTME: Left/right cycles roles, "a" asks the agent, enter confirms via the gateway.
package tui

import (
	"fmt"
	"strings"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// MappingPanelModel is the per-column role picker.
type MappingPanelModel struct {
	columns    []string
	selections map[string]string
	cursor     int
	confirming bool
	errText    string
	suggested  bool
	width      int
	height     int
}

// NewMappingPanelModel creates an empty mapping panel.
func NewMappingPanelModel() MappingPanelModel {
	return MappingPanelModel{selections: map[string]string{}}
}

// SetSize updates the panel dimensions.
func (m *MappingPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset points the panel at a phase's columns with everything mapped to Ignore.
func (m *MappingPanelModel) Reset(p *workflow.Phase) {
	m.columns = nil
	if p != nil && p.Data != nil {
		m.columns = p.Data.Columns()
	}
	m.selections = workflow.DefaultMappings(m.columns)
	if p != nil && p.Mappings != nil {
		// Re-opening a confirmed phase shows what was confirmed.
		for col, role := range p.Mappings {
			if _, ok := m.selections[col]; ok {
				m.selections[col] = role
			}
		}
	}
	m.cursor = 0
	m.confirming = false
	m.errText = ""
	m.suggested = false
}

// ApplySuggestions overlays agent suggestions onto the current selections.
func (m *MappingPanelModel) ApplySuggestions(suggestions map[string]workflow.RoleSuggestion) {
	workflow.MergeSuggestions(m.selections, suggestions)
	m.suggested = true
}

// Selections returns the current column-to-role map.
func (m *MappingPanelModel) Selections() map[string]string {
	out := make(map[string]string, len(m.selections))
	for col, role := range m.selections {
		out[col] = role
	}
	return out
}

// Move shifts the column cursor.
func (m *MappingPanelModel) Move(delta int) {
	if len(m.columns) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.columns) {
		m.cursor = len(m.columns) - 1
	}
}

// CycleRole advances the cursor column's role by delta through the role list.
func (m *MappingPanelModel) CycleRole(delta int) {
	if m.cursor < 0 || m.cursor >= len(m.columns) {
		return
	}
	col := m.columns[m.cursor]
	current := m.selections[col]
	idx := 0
	for i, role := range workflow.MappingRoles {
		if role == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(workflow.MappingRoles)) % len(workflow.MappingRoles)
	m.selections[col] = workflow.MappingRoles[idx]
}

// SetConfirming toggles the in-flight indicator.
func (m *MappingPanelModel) SetConfirming(v bool) {
	m.confirming = v
	if v {
		m.errText = ""
	}
}

// SetError shows a confirmation failure inline.
func (m *MappingPanelModel) SetError(err error) {
	m.confirming = false
	if err != nil {
		m.errText = err.Error()
	}
}

// View renders the role picker.
func (m MappingPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Map columns"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("←/→ cycle role · a ask the agent · enter confirm"))
	b.WriteString("\n\n")

	for i, col := range m.columns {
		role := m.selections[col]
		line := fmt.Sprintf("%-24s %s", truncate(col, 24), role)
		if i == m.cursor {
			line = SelectedPhaseStyle.Render("▶ " + line)
		} else {
			line = PhaseStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirming:
		b.WriteString(ThinkingStyle.Render("Confirming mappings..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render("Confirm failed: " + m.errText))
	case m.suggested:
		b.WriteString(SuccessStyle.Render("Agent suggestions applied."))
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}
