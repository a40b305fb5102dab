// ABOUTME: Tests for the playground query engine: filters, search, sort, paging, export.
package agentd

import (
	"strings"
	"testing"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

func queryRows() []workflow.Row {
	return []workflow.Row{
		{"station": "A1", "temp": 10.0},
		{"station": "A2", "temp": 20.0},
		{"station": "B1", "temp": nil},
		{"station": "B2", "temp": 5.0},
	}
}

func TestFilterOperators(t *testing.T) {
	rows := queryRows()

	got := applyFilter(rows, gateway.Filter{Column: "temp", Operator: "greater_than", Value: 8})
	if len(got) != 2 {
		t.Errorf("greater_than: got %d rows, want 2", len(got))
	}

	got = applyFilter(rows, gateway.Filter{Column: "temp", Operator: "is_null"})
	if len(got) != 1 || got[0]["station"] != "B1" {
		t.Errorf("is_null: got %v", got)
	}

	got = applyFilter(rows, gateway.Filter{Column: "temp", Operator: "is_not_null"})
	if len(got) != 3 {
		t.Errorf("is_not_null: got %d rows, want 3", len(got))
	}

	got = applyFilter(rows, gateway.Filter{Column: "station", Operator: "equals", Value: "A1"})
	if len(got) != 1 {
		t.Errorf("equals: got %d rows, want 1", len(got))
	}

	got = applyFilter(rows, gateway.Filter{Column: "station", Operator: "contains", Value: "b"})
	if len(got) != 2 {
		t.Errorf("contains should be case-insensitive: got %d rows, want 2", len(got))
	}

	got = applyFilter(rows, gateway.Filter{Column: "temp", Operator: "less_equal", Value: "10"})
	if len(got) != 2 {
		t.Errorf("less_equal with string operand: got %d rows, want 2", len(got))
	}
}

func TestSearchAcrossColumns(t *testing.T) {
	rows := queryRows()
	got := applySearch(rows, "a2", nil)
	if len(got) != 1 || got[0]["station"] != "A2" {
		t.Errorf("search all columns: got %v", got)
	}
	got = applySearch(rows, "A", []string{"station"})
	if len(got) != 2 {
		t.Errorf("search one column: got %d rows, want 2", len(got))
	}
}

func TestSortRowsNilLast(t *testing.T) {
	asc := sortRows(queryRows(), "temp", "asc")
	if asc[0]["temp"] != 5.0 || asc[len(asc)-1]["temp"] != nil {
		t.Errorf("asc: got %v", asc)
	}

	desc := sortRows(queryRows(), "temp", "desc")
	if desc[0]["temp"] != 20.0 {
		t.Errorf("desc first: got %v", desc[0]["temp"])
	}
	if desc[len(desc)-1]["temp"] != nil {
		t.Errorf("nil must sort last in both directions, got %v", desc[len(desc)-1])
	}
}

func TestPaginate(t *testing.T) {
	rows := queryRows()
	page, p := paginate(rows, 1, 3)
	if len(page) != 3 || p.TotalPages != 2 || p.TotalRows != 4 {
		t.Errorf("page 1: got %d rows, %+v", len(page), p)
	}
	page, _ = paginate(rows, 2, 3)
	if len(page) != 1 {
		t.Errorf("page 2: got %d rows, want 1", len(page))
	}
	page, _ = paginate(rows, 9, 3)
	if page != nil {
		t.Errorf("out-of-range page should be empty, got %v", page)
	}
	page, p = paginate(rows, 0, 0)
	if len(page) != 4 || p.TotalPages != 1 {
		t.Errorf("defaults: got %d rows, %+v", len(page), p)
	}
}

func TestEncodeCSVRendersNilsEmpty(t *testing.T) {
	out, err := encodeCSV(queryRows(), []string{"station", "temp"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header plus 4 rows", len(lines))
	}
	if lines[0] != "station,temp" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[3] != "B1," {
		t.Errorf("nil cell should be empty, got %q", lines[3])
	}
	if lines[1] != "A1,10" {
		t.Errorf("float formatting: got %q", lines[1])
	}
}

func TestCellString(t *testing.T) {
	if got := cellString(12.5); got != "12.5" {
		t.Errorf("got %q", got)
	}
	if got := cellString(12.0); got != "12" {
		t.Errorf("whole floats should drop the decimal, got %q", got)
	}
	if got := cellString("A1"); got != "A1" {
		t.Errorf("got %q", got)
	}
}
