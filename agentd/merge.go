// ABOUTME: Dataset merge for the stub backend: inner/outer/left joins on a key column, plus concat.
// ABOUTME: Hash join over in-memory rows; column collisions get a filename suffix unless preserved.
package agentd

import (
	"fmt"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// mergeFiles combines two or more files with the given strategy. Join
// strategies need a join column per file; concat stacks rows and unions
// columns.
func mergeFiles(files []*File, strategy string, joinColumns map[string]string, preserveNames bool) ([]workflow.Row, error) {
	if len(files) < 2 {
		return nil, fmt.Errorf("merge needs at least two files, got %d", len(files))
	}

	if strategy == "concat" {
		return concatRows(files), nil
	}

	for _, f := range files {
		key, ok := joinColumns[f.ID]
		if !ok || key == "" {
			return nil, fmt.Errorf("no join column for file %q", f.Name)
		}
		if !hasColumn(f, key) {
			return nil, fmt.Errorf("file %q has no column %q", f.Name, key)
		}
	}

	merged := files[0].Rows
	mergedKey := joinColumns[files[0].ID]
	for _, right := range files[1:] {
		var err error
		merged, err = joinRows(merged, mergedKey, right, joinColumns[right.ID], strategy, preserveNames)
		if err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// concatRows stacks all rows; absent columns become nil so every row carries
// the full column union.
func concatRows(files []*File) []workflow.Row {
	var cols []string
	seen := make(map[string]struct{})
	for _, f := range files {
		for _, c := range f.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}

	var out []workflow.Row
	for _, f := range files {
		for _, row := range f.Rows {
			full := make(workflow.Row, len(cols))
			for _, c := range cols {
				full[c] = row[c] // nil when absent
			}
			out = append(out, full)
		}
	}
	return out
}

// joinRows hash-joins left rows against the right file's rows on the given
// key columns.
func joinRows(left []workflow.Row, leftKey string, right *File, rightKey, strategy string, preserveNames bool) ([]workflow.Row, error) {
	switch strategy {
	case "inner", "outer", "left":
	default:
		return nil, fmt.Errorf("unknown merge strategy %q", strategy)
	}

	index := make(map[string][]workflow.Row)
	for _, row := range right.Rows {
		k := keyString(row[rightKey])
		index[k] = append(index[k], row)
	}

	rename := func(col string) string {
		if preserveNames || col == rightKey {
			return col
		}
		if leftHasColumn(left, col) {
			return col + "_" + right.Name
		}
		return col
	}

	var out []workflow.Row
	matchedRight := make(map[string]bool)
	for _, lrow := range left {
		k := keyString(lrow[leftKey])
		matches := index[k]
		if len(matches) == 0 {
			if strategy == "inner" {
				continue
			}
			out = append(out, joinedRow(lrow, nil, right.Columns, rightKey, rename))
			continue
		}
		matchedRight[k] = true
		for _, rrow := range matches {
			out = append(out, joinedRow(lrow, rrow, right.Columns, rightKey, rename))
		}
	}

	if strategy == "outer" {
		for _, rrow := range right.Rows {
			k := keyString(rrow[rightKey])
			if matchedRight[k] {
				continue
			}
			row := make(workflow.Row)
			if len(left) > 0 {
				for col := range left[0] {
					row[col] = nil
				}
			}
			row[leftKey] = rrow[rightKey]
			for _, col := range right.Columns {
				if col == rightKey {
					continue
				}
				row[rename(col)] = rrow[col]
			}
			out = append(out, row)
		}
	}
	return out, nil
}

// joinedRow combines one left row with one right row (nil for no match).
func joinedRow(lrow, rrow workflow.Row, rightCols []string, rightKey string, rename func(string) string) workflow.Row {
	row := make(workflow.Row, len(lrow)+len(rightCols))
	for col, v := range lrow {
		row[col] = v
	}
	for _, col := range rightCols {
		if col == rightKey {
			continue
		}
		if rrow == nil {
			row[rename(col)] = nil
		} else {
			row[rename(col)] = rrow[col]
		}
	}
	return row
}

// keyString normalizes a join key cell for hashing.
func keyString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func hasColumn(f *File, col string) bool {
	for _, c := range f.Columns {
		if c == col {
			return true
		}
	}
	return false
}

func leftHasColumn(rows []workflow.Row, col string) bool {
	if len(rows) == 0 {
		return false
	}
	_, ok := rows[0][col]
	return ok
}
