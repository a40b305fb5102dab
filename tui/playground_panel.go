// ABOUTME: Playground view: paged data grid with search, sort, and export.
// ABOUTME: Stateless against the phase store; every keystroke maps to a fresh gateway query.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanpilot/oceanpilot/gateway"
)

// PlaygroundPanelModel is the exploratory data grid.
type PlaygroundPanelModel struct {
	info   *gateway.DatasetInfo
	page   *gateway.PlaygroundPage
	pageNo int
	search textinput.Model
	table  table.Model

	sortColumn string
	sortOrder  string
	searching  bool
	loading    bool
	errText    string
	notice     string
	width      int
	height     int
}

// NewPlaygroundPanelModel creates an empty playground panel.
func NewPlaygroundPanelModel() PlaygroundPanelModel {
	search := textinput.New()
	search.Placeholder = "search..."
	search.CharLimit = 128
	return PlaygroundPanelModel{
		search: search,
		table:  table.New(),
		pageNo: 1,
	}
}

// SetSize updates the panel dimensions.
func (m *PlaygroundPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = width - 12
	m.table.SetWidth(width - 2)
	m.table.SetHeight(height - 8)
	m.rebuild()
}

// Reset clears the grid for a fresh phase.
func (m *PlaygroundPanelModel) Reset() {
	m.info = nil
	m.page = nil
	m.pageNo = 1
	m.search.SetValue("")
	m.sortColumn = ""
	m.sortOrder = ""
	m.searching = false
	m.loading = true
	m.errText = ""
	m.notice = ""
}

// SetInfo installs the dataset overview.
func (m *PlaygroundPanelModel) SetInfo(info *gateway.DatasetInfo, err error) {
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.info = info
}

// SetPage installs one page of rows.
func (m *PlaygroundPanelModel) SetPage(page *gateway.PlaygroundPage, err error) {
	m.loading = false
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.page = page
	m.errText = ""
	m.rebuild()
}

// SetNotice shows a transient line, used for export confirmation.
func (m *PlaygroundPanelModel) SetNotice(text string) {
	m.notice = text
}

// Query assembles the gateway query for the current page, search, and sort.
func (m *PlaygroundPanelModel) Query(sourcePhaseID string) gateway.PlaygroundQuery {
	return gateway.PlaygroundQuery{
		SourcePhaseID: sourcePhaseID,
		SearchTerm:    strings.TrimSpace(m.search.Value()),
		SortColumn:    m.sortColumn,
		SortOrder:     m.sortOrder,
		Page:          m.pageNo,
		PageSize:      25,
	}
}

// TurnPage shifts the page number by delta, clamped to the known page count.
// Returns true when the page actually changed and a reload is needed.
func (m *PlaygroundPanelModel) TurnPage(delta int) bool {
	next := m.pageNo + delta
	if next < 1 {
		return false
	}
	if m.page != nil && next > m.page.Pagination.TotalPages {
		return false
	}
	m.pageNo = next
	m.loading = true
	return true
}

// CycleSort rotates sort on the first column: none, asc, desc.
func (m *PlaygroundPanelModel) CycleSort() {
	if m.info == nil || len(m.info.ColumnInfo) == 0 {
		return
	}
	col := m.info.ColumnInfo[0].Name
	switch {
	case m.sortColumn == "":
		m.sortColumn, m.sortOrder = col, "asc"
	case m.sortOrder == "asc":
		m.sortOrder = "desc"
	default:
		m.sortColumn, m.sortOrder = "", ""
	}
	m.pageNo = 1
	m.loading = true
}

// StartSearch focuses the search input.
func (m *PlaygroundPanelModel) StartSearch() {
	m.searching = true
	m.search.Focus()
}

// EndSearch blurs the search input. Returns true when a reload is needed.
func (m *PlaygroundPanelModel) EndSearch() bool {
	m.searching = false
	m.search.Blur()
	m.pageNo = 1
	m.loading = true
	return true
}

// Searching reports whether the search input has focus.
func (m PlaygroundPanelModel) Searching() bool { return m.searching }

// Update forwards key events to the search input or the table.
func (m PlaygroundPanelModel) Update(msg tea.Msg) (PlaygroundPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); ok {
		if m.searching {
			m.search, cmd = m.search.Update(msg)
		} else {
			m.table, cmd = m.table.Update(msg)
		}
	}
	return m, cmd
}

// rebuild recomputes the table from the current page.
func (m *PlaygroundPanelModel) rebuild() {
	if m.page == nil || len(m.page.Data) == 0 {
		m.table.SetColumns(nil)
		m.table.SetRows(nil)
		return
	}
	cols := make([]string, 0)
	if m.info != nil {
		for _, ci := range m.info.ColumnInfo {
			cols = append(cols, ci.Name)
		}
	}
	if len(cols) == 0 {
		for col := range m.page.Data[0] {
			cols = append(cols, col)
		}
	}

	colWidth := (m.width - 4) / len(cols)
	if colWidth < 6 {
		colWidth = 6
	}
	tableCols := make([]table.Column, len(cols))
	for i, c := range cols {
		tableCols[i] = table.Column{Title: c, Width: colWidth}
	}
	rows := make([]table.Row, len(m.page.Data))
	for i, r := range m.page.Data {
		cells := make(table.Row, len(cols))
		for j, c := range cols {
			cells[j] = cellText(r[c])
		}
		rows[i] = cells
	}
	m.table.SetColumns(tableCols)
	m.table.SetRows(rows)
}

// View renders the grid with search and paging chrome.
func (m PlaygroundPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Playground"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("/ search · o sort · [/] page · e export csv · j export json"))
	b.WriteString("\n")

	if m.info != nil {
		b.WriteString(HintStyle.Render(fmt.Sprintf("%d rows, %d columns, %s",
			m.info.TotalRows, m.info.TotalColumns, m.info.MemoryUsage)))
		b.WriteString("\n")
	}
	if m.searching || m.search.Value() != "" {
		b.WriteString("search: " + m.search.View())
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString(ThinkingStyle.Render("Loading..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render(m.errText))
	default:
		b.WriteString(m.table.View())
	}

	if m.page != nil {
		b.WriteString("\n")
		b.WriteString(HintStyle.Render(fmt.Sprintf("page %d/%d (%d rows match)",
			m.pageNo, max(m.page.Pagination.TotalPages, 1), m.page.Pagination.TotalRows)))
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render(m.notice))
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}
