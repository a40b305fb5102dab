// ABOUTME: Tests for column statistics, null imputation, and the correlation matrix.
package agentd

import (
	"math"
	"testing"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

func statsFile() *File {
	rows := []workflow.Row{
		{"temp": 10.0, "sal": 30.0, "station": "A1", "sparse": nil},
		{"temp": 20.0, "sal": 35.0, "station": "A2", "sparse": nil},
		{"temp": 30.0, "sal": 40.0, "station": "A1", "sparse": 1.0},
		{"temp": nil, "sal": 45.0, "station": "A3", "sparse": nil},
	}
	return &File{ID: "f1", Name: "a.csv", Rows: rows, Columns: columnsOf(rows)}
}

func TestNullPercent(t *testing.T) {
	f := statsFile()
	if got := nullPercent(f.Rows, "temp"); got != 25.0 {
		t.Errorf("temp null%%: got %v, want 25.0", got)
	}
	if got := nullPercent(f.Rows, "sparse"); got != 75.0 {
		t.Errorf("sparse null%%: got %v, want 75.0", got)
	}
	if got := nullPercent(f.Rows, "sal"); got != 0.0 {
		t.Errorf("sal null%%: got %v, want 0", got)
	}
}

func TestPreprocessStatsSplitsByDtype(t *testing.T) {
	stats := preprocessStats(statsFile())
	if stats.Dtypes["temp"] != "float64" {
		t.Errorf("temp dtype: got %q", stats.Dtypes["temp"])
	}
	if stats.Dtypes["station"] != "object" {
		t.Errorf("station dtype: got %q", stats.Dtypes["station"])
	}
	if got := stats.DescriptiveStats["mean"]["temp"]; got != 20.0 {
		t.Errorf("temp mean: got %v, want 20", got)
	}
	if got := stats.CategoricalStats["station"].UniqueValues; got != 3 {
		t.Errorf("station uniques: got %d, want 3", got)
	}
	if _, ok := stats.DescriptiveStats["mean"]["station"]; ok {
		t.Error("categorical column must not get numeric stats")
	}
}

func TestImputeNullsContinueLeavesDataAlone(t *testing.T) {
	f := statsFile()
	rows, summary := imputeNulls(f, gateway.ActionContinueWithoutImputation, gateway.DefaultNullThreshold)
	if len(rows) != 4 {
		t.Errorf("rows: got %d, want 4", len(rows))
	}
	if summary.ImputationApplied {
		t.Error("continue must not impute")
	}
	if summary.FinalShape != summary.OriginalShape {
		t.Errorf("shape changed: %v -> %v", summary.OriginalShape, summary.FinalShape)
	}
}

func TestImputeNullsDropsAndImputes(t *testing.T) {
	f := statsFile()
	rows, summary := imputeNulls(f, gateway.ActionRemoveNullColumns, 0.5)

	// sparse is 75% null, above the threshold; temp is 25% null, kept and imputed.
	if len(summary.ColumnsDropped) != 1 || summary.ColumnsDropped[0] != "sparse" {
		t.Errorf("dropped: got %v, want [sparse]", summary.ColumnsDropped)
	}
	if !summary.ImputationApplied {
		t.Error("temp null should have been mean-imputed")
	}
	if summary.FinalShape != [2]int{4, 3} {
		t.Errorf("final shape: got %v, want [4 3]", summary.FinalShape)
	}
	if _, ok := rows[0]["sparse"]; ok {
		t.Error("dropped column still present in processed rows")
	}
	if got, ok := rows[3]["temp"].(float64); !ok || got != 20.0 {
		t.Errorf("imputed temp: got %v, want mean 20", rows[3]["temp"])
	}
}

func TestStddevSample(t *testing.T) {
	got := stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := 2.138089935
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("stddev: got %v, want %v", got, want)
	}
	if stddev([]float64{5}) != 0 {
		t.Error("single value has no spread")
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{2, 4, 6, 8}
	if got := pearson(xs, ys); math.Abs(got-1) > 1e-9 {
		t.Errorf("got %v, want 1", got)
	}
	neg := []float64{8, 6, 4, 2}
	if got := pearson(xs, neg); math.Abs(got+1) > 1e-9 {
		t.Errorf("got %v, want -1", got)
	}
	flat := []float64{3, 3, 3, 3}
	if got := pearson(xs, flat); got != 0 {
		t.Errorf("constant series: got %v, want 0", got)
	}
}

func TestAnalysisStatisticsCorrelationAligned(t *testing.T) {
	// The temp=nil row must be excluded from both series, not just one.
	rows := []workflow.Row{
		{"temp": 10.0, "sal": 30.0, "station": "A1"},
		{"temp": 20.0, "sal": 35.0, "station": "A2"},
		{"temp": 30.0, "sal": 40.0, "station": "A1"},
		{"temp": nil, "sal": 45.0, "station": "A3"},
	}
	out := analysisStatistics(&File{ID: "f1", Name: "a.csv", Rows: rows, Columns: columnsOf(rows)})
	if out.DataShape.Rows != 4 {
		t.Errorf("rows: got %d", out.DataShape.Rows)
	}
	if out.Statistics["station"].Type != "categorical" {
		t.Errorf("station: got %+v", out.Statistics["station"])
	}
	if out.CorrelationMatrix == nil {
		t.Fatal("expected a correlation matrix")
	}
	if got := out.CorrelationMatrix["temp"]["temp"]; got != 1.0 {
		t.Errorf("self correlation: got %v, want 1", got)
	}
	// Over the three complete temp/sal rows both series rise together.
	if got := out.CorrelationMatrix["temp"]["sal"]; math.Abs(got-1) > 1e-3 {
		t.Errorf("temp/sal correlation: got %v, want 1", got)
	}
}
