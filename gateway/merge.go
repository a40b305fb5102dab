// ABOUTME: Merge endpoints: list mergeable files, preview a merge, execute it.
// ABOUTME: Preview is non-destructive; only execute yields a dataset that becomes a phase.
package gateway

import (
	"context"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// MergeFile describes one dataset available for merging.
type MergeFile struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Columns          []string       `json:"columns"`
	TotalColumns     int            `json:"total_columns"`
	ColumnInfo       map[string]any `json:"column_info,omitempty"`
	IsMerged         bool           `json:"is_merged"`
	HasProcessedData bool           `json:"has_processed_data"`
}

// MergeRequest configures a merge preview or execution.
type MergeRequest struct {
	FileIDs               []string          `json:"file_ids"`
	Strategy              string            `json:"merge_strategy"`
	JoinColumns           map[string]string `json:"join_columns"`
	PreserveOriginalNames bool              `json:"preserve_original_names,omitempty"`
}

// MergePreview is the non-destructive dry-run result.
type MergePreview struct {
	Columns        []string       `json:"columns"`
	SampleData     []workflow.Row `json:"sample_data"`
	TotalRows      int            `json:"total_rows"`
	TotalColumns   int            `json:"total_columns"`
	ColumnMetadata map[string]any `json:"column_metadata,omitempty"`
}

// Merge strategies accepted by the backend.
var MergeStrategies = []string{"inner", "outer", "left", "concat"}

// MergeAvailable lists the session's datasets that can participate in a merge.
func (c *Client) MergeAvailable(ctx context.Context) ([]MergeFile, error) {
	const op = "merge available"
	var reply struct {
		statusReply
		AvailableFiles []MergeFile `json:"available_files"`
	}
	if err := c.getJSON(ctx, op, "/merge/available/"+c.sessionID, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	return reply.AvailableFiles, nil
}

// mergeRequestBody adds the session id to a MergeRequest on the wire.
type mergeRequestBody struct {
	SessionID string `json:"session_id"`
	MergeRequest
}

// MergePreviewRequest dry-runs a merge without creating anything.
func (c *Client) MergePreviewRequest(ctx context.Context, req MergeRequest) (*MergePreview, error) {
	const op = "merge preview"
	var reply struct {
		statusReply
		Preview *MergePreview `json:"preview"`
	}
	if err := c.postJSON(ctx, op, "/merge/preview", mergeRequestBody{SessionID: c.sessionID, MergeRequest: req}, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	return reply.Preview, nil
}

// MergeExecute performs the merge; the returned dataset becomes a new
// ingestion-typed phase tagged as merged.
func (c *Client) MergeExecute(ctx context.Context, req MergeRequest) (*workflow.Dataset, error) {
	const op = "merge execute"
	var reply struct {
		statusReply
		MergedData *workflow.Dataset `json:"merged_data"`
	}
	if err := c.postJSON(ctx, op, "/merge/execute", mergeRequestBody{SessionID: c.sessionID, MergeRequest: req}, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	return reply.MergedData, nil
}
