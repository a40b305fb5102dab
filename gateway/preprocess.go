// ABOUTME: Preprocessing endpoints: data quality stats and null imputation.
// ABOUTME: Results feed the preprocessing view's display state, never the phase store.
package gateway

import "context"

// CategoricalStat summarizes a non-numeric column.
type CategoricalStat struct {
	UniqueValues int `json:"unique_values"`
}

// PreprocessStats is the data quality summary for a phase's dataset.
// DescriptiveStats is keyed statistic -> column -> value ("mean" -> "temp" -> 12.4).
type PreprocessStats struct {
	Dtypes           map[string]string             `json:"dtypes"`
	NullPercentages  map[string]float64            `json:"null_percentages"`
	DescriptiveStats map[string]map[string]float64 `json:"descriptive_stats"`
	CategoricalStats map[string]CategoricalStat    `json:"categorical_stats"`
	Error            string                        `json:"error,omitempty"`
}

// Null handling actions accepted by the backend.
const (
	ActionContinueWithoutImputation = "continue_without_imputation"
	ActionRemoveNullColumns         = "remove_null_columns"
)

// DefaultNullThreshold is the column-drop cutoff used by remove_null_columns.
const DefaultNullThreshold = 0.5

// ProcessingSummary describes what an imputation pass did to the dataset.
type ProcessingSummary struct {
	ActionTaken       string   `json:"action_taken"`
	OriginalShape     [2]int   `json:"original_shape"`
	FinalShape        [2]int   `json:"final_shape"`
	ColumnsDropped    []string `json:"columns_dropped,omitempty"`
	ImputationApplied bool     `json:"imputation_applied"`
	ThresholdUsed     float64  `json:"threshold_used"`
	Message           string   `json:"message,omitempty"`
}

// ImputationResult is the null-handling response: processed sample rows, the
// summary of what happened, and refreshed stats.
type ImputationResult struct {
	SampleData        []map[string]any   `json:"sample_data"`
	ProcessingSummary *ProcessingSummary `json:"processing_summary"`
	UpdatedStats      *PreprocessStats   `json:"updated_stats"`
	Error             string             `json:"error,omitempty"`
}

// preprocessStatsRequest is the wire body for POST /preprocess/stats.
type preprocessStatsRequest struct {
	SessionID     string            `json:"session_id"`
	SourcePhaseID string            `json:"source_phase_id"`
	FilePath      string            `json:"file_path"`
	Mappings      map[string]string `json:"mappings"`
}

// PreprocessStats fetches the data quality summary for the mapped dataset.
func (c *Client) PreprocessStats(ctx context.Context, sourcePhaseID, filePath string, mappings map[string]string) (*PreprocessStats, error) {
	const op = "preprocess stats"
	var stats PreprocessStats
	if err := c.postJSON(ctx, op, "/preprocess/stats", preprocessStatsRequest{
		SessionID:     c.sessionID,
		SourcePhaseID: sourcePhaseID,
		FilePath:      filePath,
		Mappings:      mappings,
	}, &stats); err != nil {
		return nil, err
	}
	if stats.Error != "" {
		return nil, &SemanticError{Op: op, Status: "error", Message: stats.Error}
	}
	return &stats, nil
}

// nullImputationRequest is the wire body for POST /preprocess/null_imputation.
type nullImputationRequest struct {
	SessionID     string  `json:"session_id"`
	SourcePhaseID string  `json:"source_phase_id"`
	Action        string  `json:"action"`
	Threshold     float64 `json:"threshold"`
}

// NullImputation applies the chosen null handling action server-side.
func (c *Client) NullImputation(ctx context.Context, sourcePhaseID, action string, threshold float64) (*ImputationResult, error) {
	const op = "null imputation"
	var result ImputationResult
	if err := c.postJSON(ctx, op, "/preprocess/null_imputation", nullImputationRequest{
		SessionID:     c.sessionID,
		SourcePhaseID: sourcePhaseID,
		Action:        action,
		Threshold:     threshold,
	}, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &SemanticError{Op: op, Status: "error", Message: result.Error}
	}
	return &result, nil
}
