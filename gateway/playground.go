// ABOUTME: Playground endpoints: dataset info, filtered/sorted/paged data, and export.
// ABOUTME: The playground is stateless with respect to the phase store.
package gateway

import (
	"context"
	"net/url"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// Filter is one playground row filter.
type Filter struct {
	ID       string `json:"id,omitempty"`
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// PlaygroundQuery configures a data or export request.
type PlaygroundQuery struct {
	SourcePhaseID string   `json:"source_phase_id"`
	Filters       []Filter `json:"filters"`
	SearchTerm    string   `json:"search_term,omitempty"`
	SearchColumns []string `json:"search_columns,omitempty"`
	SortColumn    string   `json:"sort_column,omitempty"`
	SortOrder     string   `json:"sort_order,omitempty"`
	Page          int      `json:"page"`
	PageSize      int      `json:"page_size"`
	Columns       []string `json:"columns,omitempty"`
}

// ColumnInfo describes one column of the explored dataset.
type ColumnInfo struct {
	Name      string `json:"name"`
	Dtype     string `json:"dtype"`
	NullCount int    `json:"null_count"`
}

// DatasetInfo is the playground overview for a phase's dataset.
type DatasetInfo struct {
	TotalRows    int          `json:"total_rows"`
	TotalColumns int          `json:"total_columns"`
	MemoryUsage  string       `json:"memory_usage"`
	ColumnInfo   []ColumnInfo `json:"column_info"`
}

// Pagination reports page math for a data response.
type Pagination struct {
	TotalPages int `json:"total_pages"`
	TotalRows  int `json:"total_rows"`
}

// PlaygroundPage is one page of filtered data.
type PlaygroundPage struct {
	Data       []workflow.Row `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// ExportResult carries exported data ready to be written to disk.
type ExportResult struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// PlaygroundInfo fetches the dataset overview for the given phase.
func (c *Client) PlaygroundInfo(ctx context.Context, phaseID string) (*DatasetInfo, error) {
	const op = "playground info"
	var reply struct {
		statusReply
		DatasetInfo *DatasetInfo `json:"dataset_info"`
	}
	if err := c.getJSON(ctx, op, "/playground/"+c.sessionID+"/"+phaseID+"/info", &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	return reply.DatasetInfo, nil
}

// playgroundQueryBody adds the session id to a PlaygroundQuery on the wire.
type playgroundQueryBody struct {
	SessionID string `json:"session_id"`
	PlaygroundQuery
}

// PlaygroundData fetches one filtered, sorted page of rows.
func (c *Client) PlaygroundData(ctx context.Context, q PlaygroundQuery) (*PlaygroundPage, error) {
	const op = "playground data"
	var reply struct {
		statusReply
		Data       []workflow.Row `json:"data"`
		Pagination Pagination     `json:"pagination"`
	}
	if err := c.postJSON(ctx, op, "/playground/data", playgroundQueryBody{SessionID: c.sessionID, PlaygroundQuery: q}, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	return &PlaygroundPage{Data: reply.Data, Pagination: reply.Pagination}, nil
}

// PlaygroundExport exports the filtered rows in the given format (csv, json).
func (c *Client) PlaygroundExport(ctx context.Context, format string, q PlaygroundQuery) (*ExportResult, error) {
	const op = "playground export"
	var reply struct {
		statusReply
		ExportResult
	}
	path := "/playground/export?export_format=" + url.QueryEscape(format)
	if err := c.postJSON(ctx, op, path, playgroundQueryBody{SessionID: c.sessionID, PlaygroundQuery: q}, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus(op, reply.Status, reply.Message); err != nil {
		return nil, err
	}
	result := reply.ExportResult
	return &result, nil
}
