// ABOUTME: Analysis endpoints: suggestion list and statistical summary.
// ABOUTME: Visualizations themselves arrive asynchronously as analysis_result channel events.
package gateway

import (
	"context"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// ColumnStat summarizes one column for the statistics table. Numeric columns
// carry mean/std; categorical columns carry unique count and mode.
type ColumnStat struct {
	Type           string   `json:"type"`
	MissingPercent float64  `json:"missing_percent"`
	Mean           *float64 `json:"mean,omitempty"`
	Std            *float64 `json:"std,omitempty"`
	UniqueCount    int      `json:"unique_count,omitempty"`
	TopValue       string   `json:"top_value,omitempty"`
}

// DataShape is the dataset's row/column counts.
type DataShape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ColumnTypes partitions columns by kind.
type ColumnTypes struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// AnalysisStatistics is the statistical summary response.
type AnalysisStatistics struct {
	Statistics        map[string]ColumnStat         `json:"statistics"`
	CorrelationMatrix map[string]map[string]float64 `json:"correlation_matrix,omitempty"`
	DataShape         DataShape                     `json:"data_shape"`
	ColumnTypes       ColumnTypes                   `json:"column_types"`
}

// AnalysisSuggestions fetches quick-analysis prompts for the given source phase.
func (c *Client) AnalysisSuggestions(ctx context.Context, phaseID string) ([]string, error) {
	const op = "analysis suggestions"
	var reply struct {
		statusReply
		Suggestions []string `json:"suggestions"`
	}
	if err := c.getJSON(ctx, op, "/analysis/suggestions/"+c.sessionID+"/"+phaseID, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	return reply.Suggestions, nil
}

// analysisStatisticsRequest is the wire body for POST /analysis/statistics.
type analysisStatisticsRequest struct {
	SessionID     string        `json:"session_id"`
	SourcePhaseID string        `json:"source_phase_id"`
	ActivePhaseID string        `json:"active_phase_id,omitempty"`
	View          workflow.View `json:"view"`
}

// AnalysisStatistics fetches the statistical summary for an analysis phase.
func (c *Client) AnalysisStatistics(ctx context.Context, sourcePhaseID, activePhaseID string) (*AnalysisStatistics, error) {
	const op = "analysis statistics"
	var reply struct {
		statusReply
		AnalysisStatistics
	}
	if err := c.postJSON(ctx, op, "/analysis/statistics", analysisStatisticsRequest{
		SessionID:     c.sessionID,
		SourcePhaseID: sourcePhaseID,
		ActivePhaseID: activePhaseID,
		View:          workflow.ViewAnalysis,
	}, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	stats := reply.AnalysisStatistics
	return &stats, nil
}
