// ABOUTME: CSV ingestion for the stub backend: header row plus typed records.
// ABOUTME: Pads/truncates ragged rows and coerces numeric-looking cells so stats work downstream.
package agentd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// parseCSV parses CSV bytes into rows keyed by header. Numeric-looking cells
// become float64, empty cells become nil, everything else stays a string.
func parseCSV(data []byte) ([]workflow.Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []workflow.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Skip unparseable rows rather than failing the whole upload.
			continue
		}
		row := make(workflow.Row, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				row[h] = nil
				continue
			}
			row[h] = coerce(strings.TrimSpace(record[i]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return rows, nil
}

// coerce converts a CSV cell into nil, float64, or string.
func coerce(cell string) any {
	if cell == "" || strings.EqualFold(cell, "null") || strings.EqualFold(cell, "nan") {
		return nil
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	return cell
}

// sampleRows returns up to n rows for preview payloads.
func sampleRows(rows []workflow.Row, n int) []workflow.Row {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}
