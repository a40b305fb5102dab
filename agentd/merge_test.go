// ABOUTME: Tests for the stub backend's dataset merge: joins, concat, collision renames.
package agentd

import (
	"testing"

	"github.com/oceanpilot/oceanpilot/workflow"
)

func mergeFixtures() (*File, *File) {
	leftRows := []workflow.Row{
		{"station": "A1", "temp": 10.0},
		{"station": "A2", "temp": 20.0},
		{"station": "A3", "temp": 30.0},
	}
	rightRows := []workflow.Row{
		{"station": "A1", "sal": 30.0},
		{"station": "A2", "sal": 35.0},
		{"station": "A9", "sal": 99.0},
	}
	left := &File{ID: "L", Name: "left.csv", Rows: leftRows, Columns: columnsOf(leftRows)}
	right := &File{ID: "R", Name: "right.csv", Rows: rightRows, Columns: columnsOf(rightRows)}
	return left, right
}

func joinCols() map[string]string {
	return map[string]string{"L": "station", "R": "station"}
}

func TestInnerJoinKeepsMatchesOnly(t *testing.T) {
	left, right := mergeFixtures()
	rows, err := mergeFiles([]*File{left, right}, "inner", joinCols(), false)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row["temp"] == nil || row["sal"] == nil {
			t.Errorf("inner join row has a missing side: %v", row)
		}
	}
}

func TestLeftJoinNilFillsMisses(t *testing.T) {
	left, right := mergeFixtures()
	rows, err := mergeFiles([]*File{left, right}, "left", joinCols(), false)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	var a3 workflow.Row
	for _, row := range rows {
		if row["station"] == "A3" {
			a3 = row
		}
	}
	if a3 == nil {
		t.Fatal("A3 missing from left join")
	}
	if a3["sal"] != nil {
		t.Errorf("unmatched right column should be nil, got %v", a3["sal"])
	}
}

func TestOuterJoinIncludesBothSides(t *testing.T) {
	left, right := mergeFixtures()
	rows, err := mergeFiles([]*File{left, right}, "outer", joinCols(), false)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4 (A1 A2 A3 A9)", len(rows))
	}
	var a9 workflow.Row
	for _, row := range rows {
		if row["station"] == "A9" {
			a9 = row
		}
	}
	if a9 == nil {
		t.Fatal("right-only key A9 missing from outer join")
	}
	if a9["temp"] != nil {
		t.Errorf("left columns of a right-only row should be nil, got %v", a9["temp"])
	}
	if a9["sal"] != 99.0 {
		t.Errorf("sal: got %v, want 99", a9["sal"])
	}
}

func TestJoinRenamesCollidingColumns(t *testing.T) {
	leftRows := []workflow.Row{{"station": "A1", "temp": 10.0}}
	rightRows := []workflow.Row{{"station": "A1", "temp": 11.0}}
	left := &File{ID: "L", Name: "left.csv", Rows: leftRows, Columns: columnsOf(leftRows)}
	right := &File{ID: "R", Name: "right.csv", Rows: rightRows, Columns: columnsOf(rightRows)}

	rows, err := mergeFiles([]*File{left, right}, "inner", joinCols(), false)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if rows[0]["temp"] != 10.0 {
		t.Errorf("left temp: got %v", rows[0]["temp"])
	}
	if rows[0]["temp_right.csv"] != 11.0 {
		t.Errorf("right temp should be suffixed, row: %v", rows[0])
	}

	// preserve_original_names keeps the collision; the right value wins.
	rows, err = mergeFiles([]*File{left, right}, "inner", joinCols(), true)
	if err != nil {
		t.Fatalf("merge preserved: %v", err)
	}
	if _, ok := rows[0]["temp_right.csv"]; ok {
		t.Error("preserved names must not be suffixed")
	}
}

func TestConcatUnionsColumns(t *testing.T) {
	left, right := mergeFixtures()
	rows, err := mergeFiles([]*File{left, right}, "concat", nil, false)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}
	if _, ok := rows[0]["sal"]; !ok {
		t.Error("concat rows should carry the full column union")
	}
	if rows[0]["sal"] != nil {
		t.Errorf("left row's sal should be nil, got %v", rows[0]["sal"])
	}
}

func TestMergeValidation(t *testing.T) {
	left, right := mergeFixtures()
	if _, err := mergeFiles([]*File{left}, "inner", joinCols(), false); err == nil {
		t.Error("single file should fail")
	}
	if _, err := mergeFiles([]*File{left, right}, "inner", map[string]string{"L": "station"}, false); err == nil {
		t.Error("missing join column should fail")
	}
	if _, err := mergeFiles([]*File{left, right}, "inner", map[string]string{"L": "station", "R": "depth"}, false); err == nil {
		t.Error("unknown join column should fail")
	}
	if _, err := mergeFiles([]*File{left, right}, "cross", joinCols(), false); err == nil {
		t.Error("unknown strategy should fail")
	}
}
