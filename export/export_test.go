// ABOUTME: Tests for the YAML session export and the HTML transcript export.
package export_test

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/oceanpilot/oceanpilot/export"
	"github.com/oceanpilot/oceanpilot/workflow"
)

func exportState(t *testing.T) *workflow.State {
	t.Helper()
	state := workflow.NewState(workflow.NewSession())
	ds := &workflow.Dataset{
		ID:       "f1",
		Filename: "a.csv",
		Data:     []workflow.Row{{"temp": 12.5}, {"temp": 13.0}},
	}
	if err := state.ApplyUpload(ds); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := state.ConfirmMappings(map[string]string{"temp": "Temperature"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	state.Transcript.AppendUser("summarize my data")
	state.Transcript.AppendBot("**a.csv** has 2 rows.")
	return state
}

func TestSessionYAMLRoundTrips(t *testing.T) {
	state := exportState(t)
	out, err := export.SessionYAML(state)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc export.YamlSession
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("parse exported yaml: %v", err)
	}
	if doc.SessionID != state.Session.ID() {
		t.Errorf("session id: got %q", doc.SessionID)
	}
	if len(doc.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(doc.Phases))
	}
	if doc.Phases[0].ID != "f1" || doc.Phases[0].Rows != 2 {
		t.Errorf("first phase: got %+v", doc.Phases[0])
	}
	if doc.Phases[0].Mappings["temp"] != "Temperature" {
		t.Errorf("mappings: got %v", doc.Phases[0].Mappings)
	}
	if doc.Phases[1].SourcePhaseID != "f1" {
		t.Errorf("derived phase source: got %q", doc.Phases[1].SourcePhaseID)
	}
	if len(doc.Transcript) != state.Transcript.Len() {
		t.Errorf("transcript: got %d messages, want %d", len(doc.Transcript), state.Transcript.Len())
	}
}

func TestTranscriptHTMLRendersMarkdown(t *testing.T) {
	state := exportState(t)
	out, err := export.TranscriptHTML(state)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "<strong>a.csv</strong>") {
		t.Error("bot markdown should render as HTML")
	}
	if !strings.Contains(out, state.Session.ID()) {
		t.Error("page should name the session")
	}
	if !strings.Contains(out, `class="msg user"`) {
		t.Error("user messages should carry the user class")
	}
}

func TestTranscriptHTMLEscapesUserText(t *testing.T) {
	state := workflow.NewState(workflow.NewSession())
	state.Transcript.AppendUser("<script>alert(1)</script>")
	out, err := export.TranscriptHTML(state)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("raw user HTML must not pass through")
	}
}
