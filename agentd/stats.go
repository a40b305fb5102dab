// ABOUTME: Column statistics for the stub backend: dtypes, null percentages, means, correlations.
// ABOUTME: Just enough numerical honesty to exercise the client's preprocessing and analysis views.
package agentd

import (
	"math"
	"sort"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// columnValues collects the non-nil values of one column.
func columnValues(rows []workflow.Row, col string) []any {
	var vals []any
	for _, row := range rows {
		if v, ok := row[col]; ok && v != nil {
			vals = append(vals, v)
		}
	}
	return vals
}

// numericValues collects the float64 values of one column.
func numericValues(rows []workflow.Row, col string) []float64 {
	var vals []float64
	for _, row := range rows {
		if f, ok := row[col].(float64); ok {
			vals = append(vals, f)
		}
	}
	return vals
}

// isNumeric reports whether a column is majority-numeric among non-nil values.
func isNumeric(rows []workflow.Row, col string) bool {
	vals := columnValues(rows, col)
	if len(vals) == 0 {
		return false
	}
	numeric := 0
	for _, v := range vals {
		if _, ok := v.(float64); ok {
			numeric++
		}
	}
	return numeric*2 > len(vals)
}

// dtypeOf names a column's dtype the way the real backend (pandas) would.
func dtypeOf(rows []workflow.Row, col string) string {
	if isNumeric(rows, col) {
		return "float64"
	}
	return "object"
}

// nullPercent computes the share of nil cells in a column, as a percentage
// rounded to one decimal.
func nullPercent(rows []workflow.Row, col string) float64 {
	if len(rows) == 0 {
		return 0
	}
	nulls := 0
	for _, row := range rows {
		if v, ok := row[col]; !ok || v == nil {
			nulls++
		}
	}
	return math.Round(float64(nulls)/float64(len(rows))*1000) / 10
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

// pearson computes the correlation coefficient of two equal-length series.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// preprocessStats builds the data quality summary for a file.
func preprocessStats(f *File) *gateway.PreprocessStats {
	stats := &gateway.PreprocessStats{
		Dtypes:           make(map[string]string),
		NullPercentages:  make(map[string]float64),
		DescriptiveStats: map[string]map[string]float64{"mean": {}, "std": {}},
		CategoricalStats: make(map[string]gateway.CategoricalStat),
	}
	for _, col := range f.Columns {
		stats.Dtypes[col] = dtypeOf(f.Rows, col)
		stats.NullPercentages[col] = nullPercent(f.Rows, col)
		if isNumeric(f.Rows, col) {
			vals := numericValues(f.Rows, col)
			stats.DescriptiveStats["mean"][col] = mean(vals)
			stats.DescriptiveStats["std"][col] = stddev(vals)
		} else {
			uniq := make(map[string]struct{})
			for _, v := range columnValues(f.Rows, col) {
				if s, ok := v.(string); ok {
					uniq[s] = struct{}{}
				}
			}
			stats.CategoricalStats[col] = gateway.CategoricalStat{UniqueValues: len(uniq)}
		}
	}
	return stats
}

// imputeNulls applies the null handling action in place on a copy of the
// file's rows and returns the processed rows plus the summary.
func imputeNulls(f *File, action string, threshold float64) ([]workflow.Row, *gateway.ProcessingSummary) {
	summary := &gateway.ProcessingSummary{
		ActionTaken:   action,
		OriginalShape: [2]int{len(f.Rows), len(f.Columns)},
		ThresholdUsed: threshold,
	}

	if action != gateway.ActionRemoveNullColumns {
		summary.FinalShape = summary.OriginalShape
		summary.Message = "dataset left as-is"
		return f.Rows, summary
	}

	// Drop columns whose null share exceeds the threshold.
	keep := make([]string, 0, len(f.Columns))
	for _, col := range f.Columns {
		if nullPercent(f.Rows, col)/100 > threshold {
			summary.ColumnsDropped = append(summary.ColumnsDropped, col)
		} else {
			keep = append(keep, col)
		}
	}

	// Impute remaining numeric nulls with the column mean.
	means := make(map[string]float64)
	for _, col := range keep {
		if isNumeric(f.Rows, col) {
			means[col] = mean(numericValues(f.Rows, col))
		}
	}
	processed := make([]workflow.Row, len(f.Rows))
	for i, row := range f.Rows {
		out := make(workflow.Row, len(keep))
		for _, col := range keep {
			v := row[col]
			if v == nil {
				if m, ok := means[col]; ok {
					v = m
					summary.ImputationApplied = true
				}
			}
			out[col] = v
		}
		processed[i] = out
	}

	summary.FinalShape = [2]int{len(processed), len(keep)}
	return processed, summary
}

// analysisStatistics builds the per-column summary plus a correlation matrix
// over the numeric columns.
func analysisStatistics(f *File) *gateway.AnalysisStatistics {
	out := &gateway.AnalysisStatistics{
		Statistics: make(map[string]gateway.ColumnStat),
		DataShape:  gateway.DataShape{Rows: len(f.Rows), Columns: len(f.Columns)},
	}

	var numericCols []string
	for _, col := range f.Columns {
		missing := nullPercent(f.Rows, col)
		if isNumeric(f.Rows, col) {
			vals := numericValues(f.Rows, col)
			m, sd := mean(vals), stddev(vals)
			out.Statistics[col] = gateway.ColumnStat{
				Type:           "numeric",
				MissingPercent: missing,
				Mean:           &m,
				Std:            &sd,
			}
			numericCols = append(numericCols, col)
			out.ColumnTypes.Numeric = append(out.ColumnTypes.Numeric, col)
		} else {
			counts := make(map[string]int)
			for _, v := range columnValues(f.Rows, col) {
				if s, ok := v.(string); ok {
					counts[s]++
				}
			}
			top, topN := "", 0
			for s, n := range counts {
				if n > topN || (n == topN && s < top) {
					top, topN = s, n
				}
			}
			out.Statistics[col] = gateway.ColumnStat{
				Type:           "categorical",
				MissingPercent: missing,
				UniqueCount:    len(counts),
				TopValue:       top,
			}
			out.ColumnTypes.Categorical = append(out.ColumnTypes.Categorical, col)
		}
	}

	if len(numericCols) > 1 {
		sort.Strings(numericCols)
		out.CorrelationMatrix = make(map[string]map[string]float64, len(numericCols))
		series := make(map[string][]float64, len(numericCols))
		for _, col := range numericCols {
			series[col] = pairedValues(f.Rows, col, numericCols)
		}
		for _, a := range numericCols {
			out.CorrelationMatrix[a] = make(map[string]float64, len(numericCols))
			for _, b := range numericCols {
				out.CorrelationMatrix[a][b] = math.Round(pearson(series[a], series[b])*1000) / 1000
			}
		}
	}
	return out
}

// pairedValues extracts a column's values over the rows where every listed
// column is numeric, so correlation series line up.
func pairedValues(rows []workflow.Row, col string, cols []string) []float64 {
	var vals []float64
	for _, row := range rows {
		complete := true
		for _, c := range cols {
			if _, ok := row[c].(float64); !ok {
				complete = false
				break
			}
		}
		if complete {
			vals = append(vals, row[col].(float64))
		}
	}
	return vals
}
