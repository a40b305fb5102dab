// ABOUTME: Tests for column role validation, defaults, and suggestion merging.
// ABOUTME: Invalid suggested roles and unknown columns must never leak into selections.
package workflow_test

import (
	"testing"

	"github.com/oceanpilot/oceanpilot/workflow"
)

func TestValidRole(t *testing.T) {
	for _, role := range workflow.MappingRoles {
		if !workflow.ValidRole(role) {
			t.Errorf("%q should be valid", role)
		}
	}
	if workflow.ValidRole("Turbidity") {
		t.Error("unknown role should be invalid")
	}
	if workflow.ValidRole("") {
		t.Error("empty role should be invalid")
	}
}

func TestDefaultMappingsStartAtIgnore(t *testing.T) {
	m := workflow.DefaultMappings([]string{"temp", "sal"})
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	for col, role := range m {
		if role != "Ignore" {
			t.Errorf("%s: got %q, want Ignore", col, role)
		}
	}
}

func TestMergeSuggestions(t *testing.T) {
	current := workflow.DefaultMappings([]string{"temp", "sal", "notes"})
	current["notes"] = "Categorical"

	workflow.MergeSuggestions(current, map[string]workflow.RoleSuggestion{
		"temp":    {Role: "Temperature"},
		"sal":     {Role: "Brininess"}, // not a real role
		"missing": {Role: "Depth"},     // column the dataset does not have
	})

	if current["temp"] != "Temperature" {
		t.Errorf("temp: got %q, want Temperature", current["temp"])
	}
	if current["sal"] != "Ignore" {
		t.Errorf("invalid suggested role must be ignored, got %q", current["sal"])
	}
	if current["notes"] != "Categorical" {
		t.Errorf("unsuggested column must be untouched, got %q", current["notes"])
	}
	if _, ok := current["missing"]; ok {
		t.Error("suggestions must not introduce new columns")
	}
}

func TestViewForPhase(t *testing.T) {
	ingestion := workflow.NewIngestionPhase(makeDataset("f1", "a.csv"))
	if v := workflow.ViewForPhase(ingestion); v != workflow.ViewPreview {
		t.Errorf("unmapped ingestion: got %s, want preview", v)
	}

	ingestion.Mappings = map[string]string{"temp": "Temperature"}
	if v := workflow.ViewForPhase(ingestion); v != workflow.ViewMapping {
		t.Errorf("mapped ingestion: got %s, want mapping", v)
	}

	pre := workflow.NewPreprocessingPhase(ingestion)
	if v := workflow.ViewForPhase(pre); v != workflow.ViewPreprocessing {
		t.Errorf("preprocessing: got %s, want preprocessing", v)
	}

	an := workflow.NewAnalysisPhase(ingestion)
	if v := workflow.ViewForPhase(an); v != workflow.ViewAnalysis {
		t.Errorf("analysis: got %s, want analysis", v)
	}
}

func TestThinkingOperationsAreIndependent(t *testing.T) {
	th := workflow.NewThinking()
	th.Begin(workflow.OpChat)
	th.Begin(workflow.OpMerge)

	th.End(workflow.OpChat)
	if th.Is(workflow.OpChat) {
		t.Error("chat should be cleared")
	}
	if !th.Is(workflow.OpMerge) {
		t.Error("merge must survive ending chat")
	}

	th.Clear()
	if th.Any() {
		t.Error("clear should empty the set")
	}
}
