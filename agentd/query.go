// ABOUTME: Playground query engine: filter, search, sort, page, and export rows.
// ABOUTME: Serves the /playground endpoints over the session's stored datasets.
package agentd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// playgroundBody is the wire body for /playground/data and /playground/export.
type playgroundBody struct {
	SessionID     string           `json:"session_id"`
	SourcePhaseID string           `json:"source_phase_id"`
	Filters       []gateway.Filter `json:"filters"`
	SearchTerm    string           `json:"search_term"`
	SearchColumns []string         `json:"search_columns"`
	SortColumn    string           `json:"sort_column"`
	SortOrder     string           `json:"sort_order"`
	Page          int              `json:"page"`
	PageSize      int              `json:"page_size"`
	Columns       []string         `json:"columns"`
}

func (s *Server) handlePlaygroundInfo(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	phaseID := chi.URLParam(r, "phaseID")
	f, ok := s.store.File(sessionID, phaseID)
	if !ok {
		writeError(w, "unknown file "+phaseID)
		return
	}

	info := gateway.DatasetInfo{
		TotalRows:    len(f.Rows),
		TotalColumns: len(f.Columns),
		MemoryUsage:  fmt.Sprintf("%.1f KB", float64(len(f.Rows)*len(f.Columns)*16)/1024),
	}
	for _, col := range f.Columns {
		nulls := 0
		for _, row := range f.Rows {
			if row[col] == nil {
				nulls++
			}
		}
		info.ColumnInfo = append(info.ColumnInfo, gateway.ColumnInfo{
			Name:      col,
			Dtype:     dtypeOf(f.Rows, col),
			NullCount: nulls,
		})
	}
	writeJSON(w, struct {
		Status      string               `json:"status"`
		DatasetInfo *gateway.DatasetInfo `json:"dataset_info"`
	}{Status: "success", DatasetInfo: &info})
}

func (s *Server) handlePlaygroundData(w http.ResponseWriter, r *http.Request) {
	var req playgroundBody
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	f, ok := s.store.File(req.SessionID, req.SourcePhaseID)
	if !ok {
		writeError(w, "unknown file "+req.SourcePhaseID)
		return
	}

	rows := applyQuery(f.Rows, &req)
	page, pagination := paginate(rows, req.Page, req.PageSize)
	writeJSON(w, struct {
		Status     string             `json:"status"`
		Data       []workflow.Row     `json:"data"`
		Pagination gateway.Pagination `json:"pagination"`
	}{Status: "success", Data: page, Pagination: pagination})
}

func (s *Server) handlePlaygroundExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("export_format")
	if format == "" {
		format = "csv"
	}

	var req playgroundBody
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	f, ok := s.store.File(req.SessionID, req.SourcePhaseID)
	if !ok {
		writeError(w, "unknown file "+req.SourcePhaseID)
		return
	}

	rows := applyQuery(f.Rows, &req)
	cols := req.Columns
	if len(cols) == 0 {
		cols = columnsOf(rows)
	}

	var data, contentType, ext string
	switch format {
	case "json":
		encoded, err := json.MarshalIndent(projectRows(rows, cols), "", "  ")
		if err != nil {
			writeError(w, "encode export: "+err.Error())
			return
		}
		data, contentType, ext = string(encoded), "application/json", "json"
	case "csv":
		encoded, err := encodeCSV(rows, cols)
		if err != nil {
			writeError(w, "encode export: "+err.Error())
			return
		}
		data, contentType, ext = encoded, "text/csv", "csv"
	default:
		writeError(w, "unknown export format "+format)
		return
	}

	writeJSON(w, struct {
		Status      string `json:"status"`
		Data        string `json:"data"`
		ContentType string `json:"content_type"`
		Filename    string `json:"filename"`
	}{
		Status:      "success",
		Data:        data,
		ContentType: contentType,
		Filename:    strings.TrimSuffix(f.Name, ".csv") + "_export." + ext,
	})
}

// applyQuery runs filters, search, and sort over the rows.
func applyQuery(rows []workflow.Row, q *playgroundBody) []workflow.Row {
	out := rows
	for _, filter := range q.Filters {
		out = applyFilter(out, filter)
	}
	if q.SearchTerm != "" {
		out = applySearch(out, q.SearchTerm, q.SearchColumns)
	}
	if q.SortColumn != "" {
		out = sortRows(out, q.SortColumn, q.SortOrder)
	}
	return out
}

// applyFilter keeps rows matching one filter.
func applyFilter(rows []workflow.Row, f gateway.Filter) []workflow.Row {
	var out []workflow.Row
	for _, row := range rows {
		if matchFilter(row[f.Column], f.Operator, f.Value) {
			out = append(out, row)
		}
	}
	return out
}

// matchFilter evaluates one cell against an operator and operand. Numeric
// comparisons coerce both sides to float64; string operators compare
// case-insensitively.
func matchFilter(cell any, operator string, operand any) bool {
	switch operator {
	case "is_null":
		return cell == nil
	case "is_not_null":
		return cell != nil
	}
	if cell == nil {
		return false
	}
	switch operator {
	case "equals":
		return cellString(cell) == cellString(operand)
	case "not_equals":
		return cellString(cell) != cellString(operand)
	case "contains":
		return strings.Contains(strings.ToLower(cellString(cell)), strings.ToLower(cellString(operand)))
	case "greater_than", "less_than", "greater_equal", "less_equal":
		a, aok := cellFloat(cell)
		b, bok := cellFloat(operand)
		if !aok || !bok {
			return false
		}
		switch operator {
		case "greater_than":
			return a > b
		case "less_than":
			return a < b
		case "greater_equal":
			return a >= b
		default:
			return a <= b
		}
	default:
		return false
	}
}

// applySearch keeps rows where any searched column contains the term.
func applySearch(rows []workflow.Row, term string, columns []string) []workflow.Row {
	lower := strings.ToLower(term)
	var out []workflow.Row
	for _, row := range rows {
		cols := columns
		if len(cols) == 0 {
			cols = columnsOf([]workflow.Row{row})
		}
		for _, col := range cols {
			if v := row[col]; v != nil && strings.Contains(strings.ToLower(cellString(v)), lower) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// sortRows stable-sorts by one column; "desc" reverses. Nil cells sort last.
func sortRows(rows []workflow.Row, column, order string) []workflow.Row {
	out := make([]workflow.Row, len(rows))
	copy(out, rows)
	desc := order == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i][column], out[j][column]
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if desc {
			return lessCell(b, a)
		}
		return lessCell(a, b)
	})
	return out
}

// lessCell orders two non-nil cells, numerically when both coerce.
func lessCell(a, b any) bool {
	af, aok := cellFloat(a)
	bf, bok := cellFloat(b)
	if aok && bok {
		return af < bf
	}
	return cellString(a) < cellString(b)
}

// paginate slices one page out of the rows. Pages are 1-based; a zero or
// negative page size defaults to 50.
func paginate(rows []workflow.Row, page, pageSize int) ([]workflow.Row, gateway.Pagination) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(len(rows)) / float64(pageSize)))
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil, gateway.Pagination{TotalPages: totalPages, TotalRows: len(rows)}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], gateway.Pagination{TotalPages: totalPages, TotalRows: len(rows)}
}

// projectRows restricts rows to the given columns.
func projectRows(rows []workflow.Row, cols []string) []workflow.Row {
	out := make([]workflow.Row, len(rows))
	for i, row := range rows {
		p := make(workflow.Row, len(cols))
		for _, col := range cols {
			p[col] = row[col]
		}
		out[i] = p
	}
	return out
}

// encodeCSV serializes rows as CSV with a header line.
func encodeCSV(rows []workflow.Row, cols []string) (string, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if err := cw.Write(cols); err != nil {
		return "", err
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			if row[col] == nil {
				record[i] = ""
			} else {
				record[i] = cellString(row[col])
			}
		}
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	cw.Flush()
	return sb.String(), cw.Error()
}

// cellString renders a cell for comparison or export.
func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cellFloat coerces a cell to float64 when possible.
func cellFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
