// ABOUTME: Bottom status strip: session id, active view, connection state, thinking indicator.
// ABOUTME: One line, always visible, styled as an inverse bar.
package tui

import (
	"fmt"
	"strings"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// StatusBarModel renders the one-line status strip.
type StatusBarModel struct {
	sessionID string
	view      workflow.View
	thinking  bool
	connected bool
	width     int
}

// NewStatusBarModel creates the status bar for a session.
func NewStatusBarModel(sessionID string) StatusBarModel {
	return StatusBarModel{sessionID: sessionID, view: workflow.ViewIngestion, connected: true}
}

// SetWidth updates the bar width.
func (m *StatusBarModel) SetWidth(width int) { m.width = width }

// SetView updates the displayed view name.
func (m *StatusBarModel) SetView(v workflow.View) { m.view = v }

// SetThinking toggles the thinking indicator.
func (m *StatusBarModel) SetThinking(v bool) { m.thinking = v }

// SetConnected records whether the push channel is alive.
func (m *StatusBarModel) SetConnected(v bool) { m.connected = v }

// View renders the bar.
func (m StatusBarModel) View() string {
	short := m.sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	left := fmt.Sprintf("session %s │ %s", short, m.view)
	var right string
	switch {
	case !m.connected:
		right = ErrorStyle.Render("disconnected")
	case m.thinking:
		right = ThinkingStyle.Render("thinking")
	default:
		right = "ready"
	}

	pad := m.width - len(left) - 14
	if pad < 1 {
		pad = 1
	}
	return StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}
