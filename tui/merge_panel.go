// ABOUTME: Merge view: pick files, strategy, and join columns; preview then execute.
// ABOUTME: Space toggles files, s cycles strategy, ←/→ cycles each file's join column.
package tui

import (
	"fmt"
	"strings"

	"github.com/oceanpilot/oceanpilot/gateway"
)

// MergePanelModel drives the multi-file merge flow.
type MergePanelModel struct {
	files    []gateway.MergeFile
	selected map[string]bool
	joinCol  map[string]int // index into the file's columns
	cursor   int
	strategy int

	preview   *gateway.MergePreview
	loading   bool
	executing bool
	errText   string
	width     int
	height    int
}

// NewMergePanelModel creates an empty merge panel.
func NewMergePanelModel() MergePanelModel {
	return MergePanelModel{
		selected: map[string]bool{},
		joinCol:  map[string]int{},
	}
}

// SetSize updates the panel dimensions.
func (m *MergePanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Reset clears selections and marks the file list as loading.
func (m *MergePanelModel) Reset() {
	m.files = nil
	m.selected = map[string]bool{}
	m.joinCol = map[string]int{}
	m.cursor = 0
	m.strategy = 0
	m.preview = nil
	m.loading = true
	m.executing = false
	m.errText = ""
}

// SetFiles installs the fetched file list.
func (m *MergePanelModel) SetFiles(files []gateway.MergeFile, err error) {
	m.loading = false
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.files = files
	m.errText = ""
}

// SetPreview installs a dry-run result.
func (m *MergePanelModel) SetPreview(preview *gateway.MergePreview, err error) {
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.preview = preview
	m.errText = ""
}

// SetExecuting toggles the execute in-flight indicator.
func (m *MergePanelModel) SetExecuting(v bool) {
	m.executing = v
	if v {
		m.errText = ""
	}
}

// SetError shows an execution failure inline.
func (m *MergePanelModel) SetError(err error) {
	m.executing = false
	if err != nil {
		m.errText = err.Error()
	}
}

// Move shifts the file cursor.
func (m *MergePanelModel) Move(delta int) {
	if len(m.files) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.files) {
		m.cursor = len(m.files) - 1
	}
}

// Toggle flips the cursor file's selection.
func (m *MergePanelModel) Toggle() {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return
	}
	id := m.files[m.cursor].ID
	m.selected[id] = !m.selected[id]
	m.preview = nil
}

// CycleStrategy advances through the merge strategies.
func (m *MergePanelModel) CycleStrategy() {
	m.strategy = (m.strategy + 1) % len(gateway.MergeStrategies)
	m.preview = nil
}

// CycleJoinColumn advances the cursor file's join column by delta.
func (m *MergePanelModel) CycleJoinColumn(delta int) {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return
	}
	f := m.files[m.cursor]
	if len(f.Columns) == 0 {
		return
	}
	m.joinCol[f.ID] = (m.joinCol[f.ID] + delta + len(f.Columns)) % len(f.Columns)
	m.preview = nil
}

// Strategy returns the current merge strategy name.
func (m *MergePanelModel) Strategy() string {
	return gateway.MergeStrategies[m.strategy]
}

// Request assembles the merge request from the current selections. Returns
// false when fewer than two files are selected.
func (m *MergePanelModel) Request() (gateway.MergeRequest, bool) {
	var ids []string
	joins := map[string]string{}
	for _, f := range m.files {
		if !m.selected[f.ID] {
			continue
		}
		ids = append(ids, f.ID)
		if len(f.Columns) > 0 {
			joins[f.ID] = f.Columns[m.joinCol[f.ID]]
		}
	}
	if len(ids) < 2 {
		return gateway.MergeRequest{}, false
	}
	return gateway.MergeRequest{
		FileIDs:     ids,
		Strategy:    m.Strategy(),
		JoinColumns: joins,
	}, true
}

// View renders the file list, strategy, and preview.
func (m MergePanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Merge datasets"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("space select · s strategy · ←/→ join column · p preview · enter execute"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(ThinkingStyle.Render("Loading files..."))
	case len(m.files) < 2:
		b.WriteString(HintStyle.Render("Merge needs at least two uploaded datasets."))
	default:
		b.WriteString(fmt.Sprintf("Strategy: %s\n\n", SelectedPhaseStyle.Render(m.Strategy())))
		for i, f := range m.files {
			mark := "[ ]"
			if m.selected[f.ID] {
				mark = "[x]"
			}
			join := ""
			if len(f.Columns) > 0 {
				join = " on " + f.Columns[m.joinCol[f.ID]]
			}
			badge := ""
			if f.IsMerged {
				badge = " " + MergedBadgeStyle.Render("(merged)")
			}
			line := fmt.Sprintf("%s %s%s%s", mark, truncate(f.Name, 32), join, badge)
			if i == m.cursor {
				line = SelectedPhaseStyle.Render("▶ " + line)
			} else {
				line = PhaseStyle.Render("  " + line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.preview != nil {
		b.WriteString(fmt.Sprintf("\nPreview: %d rows, %d columns: %s\n",
			m.preview.TotalRows, m.preview.TotalColumns,
			truncate(strings.Join(m.preview.Columns, ", "), m.width-30)))
	}
	switch {
	case m.executing:
		b.WriteString("\n")
		b.WriteString(ThinkingStyle.Render("Merging..."))
	case m.errText != "":
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Merge failed: " + m.errText))
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}
