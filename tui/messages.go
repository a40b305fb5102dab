// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Each type wraps a gateway call result or channel event for the tea.Msg interface.
package tui

import (
	"time"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// ServerEventMsg wraps one inbound channel event for the message loop.
type ServerEventMsg struct {
	Event workflow.ServerEvent
}

// ChannelClosedMsg signals that the push channel ended. Err is nil on a clean
// local close.
type ChannelClosedMsg struct {
	Err error
}

// UploadResultMsg carries the outcome of a dataset upload.
type UploadResultMsg struct {
	Dataset *workflow.Dataset
	Err     error
}

// ChatSentMsg carries the outcome of the synchronous chat acknowledgement.
// The agent's actual reply arrives later as a ServerEventMsg.
type ChatSentMsg struct {
	Err error
}

// ConfirmMappingsResultMsg carries the outcome of a mapping confirmation.
// Mappings echoes what was sent so the success path can attach them.
type ConfirmMappingsResultMsg struct {
	Mappings map[string]string
	Err      error
}

// PreprocessStatsMsg carries the data quality summary for the active phase.
type PreprocessStatsMsg struct {
	Stats *gateway.PreprocessStats
	Err   error
}

// ImputationResultMsg carries the outcome of a null handling action.
type ImputationResultMsg struct {
	Result *gateway.ImputationResult
	Err    error
}

// MergeAvailableMsg carries the list of mergeable files.
type MergeAvailableMsg struct {
	Files []gateway.MergeFile
	Err   error
}

// MergePreviewMsg carries a merge dry-run result.
type MergePreviewMsg struct {
	Preview *gateway.MergePreview
	Err     error
}

// MergeExecuteMsg carries the executed merge's dataset.
type MergeExecuteMsg struct {
	Dataset *workflow.Dataset
	Err     error
}

// AnalysisSuggestionsMsg carries quick-analysis prompts for the analysis view.
type AnalysisSuggestionsMsg struct {
	Suggestions []string
	Err         error
}

// AnalysisStatisticsMsg carries the statistical summary for the analysis view.
type AnalysisStatisticsMsg struct {
	Stats *gateway.AnalysisStatistics
	Err   error
}

// PlaygroundInfoMsg carries the playground's dataset overview.
type PlaygroundInfoMsg struct {
	Info *gateway.DatasetInfo
	Err  error
}

// PlaygroundDataMsg carries one filtered page of playground rows.
type PlaygroundDataMsg struct {
	Page *gateway.PlaygroundPage
	Err  error
}

// ExportDoneMsg reports where an export was written.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// SoilResultMsg carries sampled soil properties for a drawn area.
type SoilResultMsg struct {
	Result *gateway.SoilResult
	Err    error
}

// TickMsg is sent periodically to advance spinners.
type TickMsg struct {
	Time time.Time
}
