// ABOUTME: Lipgloss style constants shared by the TUI panels.
// ABOUTME: Panel borders, chat sender colors, thinking indicator, and the status bar strip.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("170"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Chat senders
	UserStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	BotStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	// History list
	SelectedPhaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	PhaseStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	MergedBadgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// Outcomes
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Detail labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	ThinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)
