// ABOUTME: Tests for the append-only phase history: ordering, uniqueness, source links.
// ABOUTME: Covers the one-time mappings attachment and lookup failures.
package workflow_test

import (
	"errors"
	"testing"

	"github.com/oceanpilot/oceanpilot/workflow"
)

func makeDataset(id, filename string) *workflow.Dataset {
	return &workflow.Dataset{
		ID:       id,
		Filename: filename,
		Data: []workflow.Row{
			{"temp": 12.5, "sal": 35.1, "station": "A1"},
			{"temp": 13.0, "sal": 34.9, "station": "A2"},
		},
	}
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	h := workflow.NewHistory()
	first := workflow.NewIngestionPhase(makeDataset("f1", "a.csv"))
	second := workflow.NewIngestionPhase(makeDataset("f2", "b.csv"))

	if err := h.Append(first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := h.Append(second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	phases := h.Phases()
	if len(phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(phases))
	}
	if phases[0].ID != "f1" || phases[1].ID != "f2" {
		t.Errorf("order: got [%s, %s], want [f1, f2]", phases[0].ID, phases[1].ID)
	}
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	h := workflow.NewHistory()
	p := workflow.NewIngestionPhase(makeDataset("f1", "a.csv"))
	if err := h.Append(p); err != nil {
		t.Fatalf("append: %v", err)
	}

	dup := workflow.NewIngestionPhase(makeDataset("f1", "other.csv"))
	err := h.Append(dup)
	if !errors.Is(err, workflow.ErrDuplicatePhase) {
		t.Errorf("got %v, want ErrDuplicatePhase", err)
	}
	if h.Len() != 1 {
		t.Errorf("history grew on rejected append: len %d", h.Len())
	}
}

func TestAppendRejectsUnknownSource(t *testing.T) {
	h := workflow.NewHistory()
	orphan := &workflow.Phase{
		ID:            "p1",
		Type:          workflow.PhasePreprocessing,
		Name:          "Preprocess: a.csv",
		SourcePhaseID: "never-created",
	}
	err := h.Append(orphan)
	if !errors.Is(err, workflow.ErrUnknownSource) {
		t.Errorf("got %v, want ErrUnknownSource", err)
	}
}

func TestFindUnknownPhase(t *testing.T) {
	h := workflow.NewHistory()
	if _, err := h.Find("nope"); !errors.Is(err, workflow.ErrPhaseNotFound) {
		t.Errorf("got %v, want ErrPhaseNotFound", err)
	}
}

func TestAttachMappings(t *testing.T) {
	h := workflow.NewHistory()
	p := workflow.NewIngestionPhase(makeDataset("f1", "a.csv"))
	if err := h.Append(p); err != nil {
		t.Fatalf("append: %v", err)
	}

	mappings := map[string]string{"temp": "Temperature", "sal": "Salinity"}
	updated, err := h.AttachMappings("f1", mappings)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if updated.Mappings["temp"] != "Temperature" {
		t.Errorf("mappings not attached: %v", updated.Mappings)
	}

	if _, err := h.AttachMappings("missing", mappings); !errors.Is(err, workflow.ErrPhaseNotFound) {
		t.Errorf("got %v, want ErrPhaseNotFound", err)
	}
}

func TestDerivedPhaseNaming(t *testing.T) {
	source := workflow.NewIngestionPhase(makeDataset("f1", "a.csv"))
	pre := workflow.NewPreprocessingPhase(source)
	if pre.Name != "Preprocess: a.csv" {
		t.Errorf("preprocessing name: got %q", pre.Name)
	}
	if pre.SourcePhaseID != "f1" {
		t.Errorf("preprocessing source: got %q, want f1", pre.SourcePhaseID)
	}
	if pre.ID == "" || pre.ID == source.ID {
		t.Errorf("preprocessing id should be a fresh client id, got %q", pre.ID)
	}

	an := workflow.NewAnalysisPhase(source)
	if an.Name != "Analysis: a.csv" {
		t.Errorf("analysis name: got %q", an.Name)
	}
}

func TestDatasetColumnsSorted(t *testing.T) {
	ds := makeDataset("f1", "a.csv")
	cols := ds.Columns()
	want := []string{"sal", "station", "temp"}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, c := range want {
		if cols[i] != c {
			t.Errorf("column %d: got %q, want %q", i, cols[i], c)
		}
	}
}
