// ABOUTME: Agent chat panel: scrollback viewport over the transcript plus a text input.
// ABOUTME: Status messages render dimmed; a spinner line shows while any agent operation is pending.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// ChatPanelModel renders the transcript and owns the chat input.
type ChatPanelModel struct {
	transcript *workflow.Transcript
	thinking   *workflow.Thinking

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	focused bool
	width   int
	height  int
}

// NewChatPanelModel creates the chat panel over the shared transcript.
func NewChatPanelModel(transcript *workflow.Transcript, thinking *workflow.Thinking) ChatPanelModel {
	input := textinput.New()
	input.Placeholder = "Ask the agent..."
	input.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ChatPanelModel{
		transcript: transcript,
		thinking:   thinking,
		viewport:   viewport.New(0, 0),
		input:      input,
		spinner:    sp,
	}
}

// SetSize updates the panel dimensions and re-wraps the transcript.
func (m *ChatPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 2
	m.viewport.Height = height - 4
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.input.Width = width - 6
	m.Refresh()
}

// SetFocused toggles keyboard focus on the input.
func (m *ChatPanelModel) SetFocused(focused bool) {
	m.focused = focused
	if focused {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// Focused reports whether the input has focus.
func (m ChatPanelModel) Focused() bool { return m.focused }

// Consume returns the input's current text and clears it. Empty means no send.
func (m *ChatPanelModel) Consume() string {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	return text
}

// Update forwards key events to the input and spinner ticks to the spinner.
func (m ChatPanelModel) Update(msg tea.Msg) (ChatPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case tea.KeyMsg:
		if m.focused {
			m.input, cmd = m.input.Update(msg)
		}
	case TickMsg:
		tick := msg.(TickMsg)
		m.spinner, cmd = m.spinner.Update(spinner.TickMsg{Time: tick.Time})
	}
	return m, cmd
}

// Refresh re-renders the transcript into the viewport, pinned to the bottom.
func (m *ChatPanelModel) Refresh() {
	var b strings.Builder
	for _, msg := range m.transcript.Messages() {
		b.WriteString(renderMessage(msg, m.viewport.Width))
		b.WriteString("\n")
	}
	if m.thinking.Any() {
		b.WriteString(ThinkingStyle.Render(m.spinner.View() + " thinking..."))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renderMessage formats one transcript entry.
func renderMessage(msg workflow.Message, width int) string {
	if msg.Status {
		return StatusStyle.Render("· " + msg.Text)
	}
	sender := BotStyle.Render("agent")
	if msg.From == workflow.SenderUser {
		sender = UserStyle.Render("you")
	}
	return fmt.Sprintf("%s %s", sender, wrap(msg.Text, width-8))
}

// View renders the chat panel with the input line at the bottom.
func (m ChatPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Agent"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())

	style := BorderStyle
	if m.focused {
		style = FocusedBorderStyle
	}
	return style.Width(m.width).Height(m.height).Render(b.String())
}

// wrap soft-wraps text at the given width, preserving words.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteString("\n  ")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
