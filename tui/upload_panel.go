// ABOUTME: Ingestion view: a path input for uploading a local dataset file.
// ABOUTME: Enter submits; the upload result comes back asynchronously as an UploadResultMsg.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// UploadPanelModel is the ingestion view's file path prompt.
type UploadPanelModel struct {
	input     textinput.Model
	uploading bool
	errText   string
	width     int
	height    int
}

// NewUploadPanelModel creates the upload prompt.
func NewUploadPanelModel() UploadPanelModel {
	input := textinput.New()
	input.Placeholder = "path/to/dataset.csv"
	input.CharLimit = 512
	input.Focus()
	return UploadPanelModel{input: input}
}

// SetSize updates the panel dimensions.
func (m *UploadPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 8
}

// SetUploading toggles the in-flight indicator.
func (m *UploadPanelModel) SetUploading(v bool) {
	m.uploading = v
	if !v {
		return
	}
	m.errText = ""
}

// SetError shows an upload failure inline.
func (m *UploadPanelModel) SetError(err error) {
	m.uploading = false
	if err != nil {
		m.errText = err.Error()
	}
}

// Consume returns the entered path and clears the input. Empty means nothing
// to upload.
func (m *UploadPanelModel) Consume() string {
	path := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	return path
}

// Update forwards key events to the path input.
func (m UploadPanelModel) Update(msg tea.Msg) (UploadPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); ok && !m.uploading {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// View renders the prompt.
func (m UploadPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Upload a dataset"))
	b.WriteString("\n\n")
	b.WriteString("Enter the path to a CSV file and press enter.\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	switch {
	case m.uploading:
		b.WriteString(ThinkingStyle.Render("Uploading..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render("Upload failed: " + m.errText))
	default:
		b.WriteString(HintStyle.Render("The file is parsed server-side; you will land in the preview."))
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}
