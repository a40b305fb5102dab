// ABOUTME: Bridge connecting the gateway client and the event channel to the Bubble Tea loop.
// ABOUTME: EventBridge injects channel traffic via program.Send; tea.Cmd factories wrap each REST call.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// EventBridge adapts the channel's sink callbacks into Bubble Tea messages.
// Typically constructed with program.Send so events land on the single
// message-loop goroutine regardless of which goroutine received them.
type EventBridge struct {
	send func(msg tea.Msg)
}

// NewEventBridge creates an EventBridge that sends messages via the given function.
func NewEventBridge(send func(msg tea.Msg)) *EventBridge {
	return &EventBridge{send: send}
}

// Event implements channel.Sink.
func (b *EventBridge) Event(ev workflow.ServerEvent) {
	b.send(ServerEventMsg{Event: ev})
}

// Closed implements channel.Sink.
func (b *EventBridge) Closed(err error) {
	b.send(ChannelClosedMsg{Err: err})
}

// Each command runs one gateway call on its own goroutine and resolves to the
// matching result message. The client applies its own per-request deadline, so
// commands pass a background context.

// UploadCmd uploads the file at path as a new dataset.
func UploadCmd(client *gateway.Client, path string) tea.Cmd {
	return func() tea.Msg {
		ds, err := client.Upload(context.Background(), path)
		return UploadResultMsg{Dataset: ds, Err: err}
	}
}

// SendChatCmd posts a chat message with the active phase as context.
func SendChatCmd(client *gateway.Client, message string, phase *workflow.Phase, view workflow.View) tea.Cmd {
	return func() tea.Msg {
		return ChatSentMsg{Err: client.SendChat(context.Background(), message, phase, view)}
	}
}

// ConfirmMappingsCmd confirms column mappings for the given source phase.
func ConfirmMappingsCmd(client *gateway.Client, sourcePhaseID string, mappings map[string]string) tea.Cmd {
	return func() tea.Msg {
		err := client.ConfirmMappings(context.Background(), sourcePhaseID, mappings)
		return ConfirmMappingsResultMsg{Mappings: mappings, Err: err}
	}
}

// PreprocessStatsCmd fetches the data quality summary for a mapped dataset.
func PreprocessStatsCmd(client *gateway.Client, sourcePhaseID, filePath string, mappings map[string]string) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.PreprocessStats(context.Background(), sourcePhaseID, filePath, mappings)
		return PreprocessStatsMsg{Stats: stats, Err: err}
	}
}

// NullImputationCmd applies the chosen null handling action.
func NullImputationCmd(client *gateway.Client, sourcePhaseID, action string, threshold float64) tea.Cmd {
	return func() tea.Msg {
		result, err := client.NullImputation(context.Background(), sourcePhaseID, action, threshold)
		return ImputationResultMsg{Result: result, Err: err}
	}
}

// MergeAvailableCmd lists the session's mergeable files.
func MergeAvailableCmd(client *gateway.Client) tea.Cmd {
	return func() tea.Msg {
		files, err := client.MergeAvailable(context.Background())
		return MergeAvailableMsg{Files: files, Err: err}
	}
}

// MergePreviewCmd dry-runs a merge.
func MergePreviewCmd(client *gateway.Client, req gateway.MergeRequest) tea.Cmd {
	return func() tea.Msg {
		preview, err := client.MergePreviewRequest(context.Background(), req)
		return MergePreviewMsg{Preview: preview, Err: err}
	}
}

// MergeExecuteCmd executes a merge for real.
func MergeExecuteCmd(client *gateway.Client, req gateway.MergeRequest) tea.Cmd {
	return func() tea.Msg {
		ds, err := client.MergeExecute(context.Background(), req)
		return MergeExecuteMsg{Dataset: ds, Err: err}
	}
}

// AnalysisSuggestionsCmd fetches quick-analysis prompts.
func AnalysisSuggestionsCmd(client *gateway.Client, phaseID string) tea.Cmd {
	return func() tea.Msg {
		suggestions, err := client.AnalysisSuggestions(context.Background(), phaseID)
		return AnalysisSuggestionsMsg{Suggestions: suggestions, Err: err}
	}
}

// AnalysisStatisticsCmd fetches the statistical summary.
func AnalysisStatisticsCmd(client *gateway.Client, sourcePhaseID, activePhaseID string) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.AnalysisStatistics(context.Background(), sourcePhaseID, activePhaseID)
		return AnalysisStatisticsMsg{Stats: stats, Err: err}
	}
}

// PlaygroundInfoCmd fetches the playground's dataset overview.
func PlaygroundInfoCmd(client *gateway.Client, phaseID string) tea.Cmd {
	return func() tea.Msg {
		info, err := client.PlaygroundInfo(context.Background(), phaseID)
		return PlaygroundInfoMsg{Info: info, Err: err}
	}
}

// PlaygroundDataCmd fetches one filtered page of rows.
func PlaygroundDataCmd(client *gateway.Client, q gateway.PlaygroundQuery) tea.Cmd {
	return func() tea.Msg {
		page, err := client.PlaygroundData(context.Background(), q)
		return PlaygroundDataMsg{Page: page, Err: err}
	}
}

// PlaygroundExportCmd exports the filtered rows and writes them next to the
// working directory.
func PlaygroundExportCmd(client *gateway.Client, format string, q gateway.PlaygroundQuery) tea.Cmd {
	return func() tea.Msg {
		result, err := client.PlaygroundExport(context.Background(), format, q)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path := filepath.Clean(result.Filename)
		if err := os.WriteFile(path, []byte(result.Data), 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// SoilAreaCmd requests soil samples for the given polygon.
func SoilAreaCmd(client *gateway.Client, polygon gateway.Polygon, samples int) tea.Cmd {
	return func() tea.Msg {
		result, err := client.SoilArea(context.Background(), polygon, samples)
		return SoilResultMsg{Result: result, Err: err}
	}
}

// TickCmd sends a TickMsg after the given interval. Drives spinner animation.
func TickCmd(interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(interval)
		return TickMsg{Time: time.Now()}
	}
}
