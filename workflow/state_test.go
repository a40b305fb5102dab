// ABOUTME: Tests for the workflow state machine: transitions, view derivation, pending flags.
// ABOUTME: Exercises the upload, mapping, preprocessing, analysis, and merge flows end to end.
package workflow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/oceanpilot/oceanpilot/workflow"
)

func newState() *workflow.State {
	return workflow.NewState(workflow.NewSession())
}

func TestNewStateStartsAtIngestion(t *testing.T) {
	s := newState()
	if s.ActiveView != workflow.ViewIngestion {
		t.Errorf("view: got %s, want ingestion", s.ActiveView)
	}
	if s.History.Len() != 0 {
		t.Errorf("history should start empty, len %d", s.History.Len())
	}
	if s.Transcript.Len() != 1 {
		t.Errorf("transcript should hold only the greeting, len %d", s.Transcript.Len())
	}
	if s.Session.ID() == "" {
		t.Error("session id should be set")
	}
}

func TestApplyUploadMovesToPreview(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("apply upload: %v", err)
	}
	if s.ActivePhaseID != "f1" {
		t.Errorf("active phase: got %q, want f1", s.ActivePhaseID)
	}
	if s.ActiveView != workflow.ViewPreview {
		t.Errorf("view: got %s, want preview", s.ActiveView)
	}
	if s.ActivePhase().Type != workflow.PhaseIngestion {
		t.Errorf("phase type: got %s", s.ActivePhase().Type)
	}
}

func TestStartMappingRequiresActivePhase(t *testing.T) {
	s := newState()
	if err := s.StartMapping(); !errors.Is(err, workflow.ErrNoActivePhase) {
		t.Errorf("got %v, want ErrNoActivePhase", err)
	}
}

func TestConfirmMappingsCreatesPreprocessingPhase(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("apply upload: %v", err)
	}
	if err := s.StartMapping(); err != nil {
		t.Fatalf("start mapping: %v", err)
	}

	mappings := map[string]string{"temp": "Temperature"}
	next, err := s.ConfirmMappings(mappings)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	source, _ := s.History.Find("f1")
	if source.Mappings["temp"] != "Temperature" {
		t.Errorf("mappings not attached to source: %v", source.Mappings)
	}
	if next.Type != workflow.PhasePreprocessing {
		t.Errorf("next phase type: got %s", next.Type)
	}
	if next.SourcePhaseID != "f1" {
		t.Errorf("next source: got %q, want f1", next.SourcePhaseID)
	}
	if s.ActivePhaseID != next.ID {
		t.Errorf("active phase should be the preprocessing phase")
	}
	if s.ActiveView != workflow.ViewPreprocessing {
		t.Errorf("view: got %s, want preprocessing", s.ActiveView)
	}
	if s.History.Len() != 2 {
		t.Errorf("history: got %d phases, want 2", s.History.Len())
	}
}

func TestStartAnalysisPointsAtDataSource(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("apply upload: %v", err)
	}
	if _, err := s.ConfirmMappings(map[string]string{"temp": "Temperature"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Active is now the preprocessing phase; analysis must derive from its
	// source dataset, not from the preprocessing step.
	phase, err := s.StartAnalysis()
	if err != nil {
		t.Fatalf("start analysis: %v", err)
	}
	if phase.SourcePhaseID != "f1" {
		t.Errorf("analysis source: got %q, want f1", phase.SourcePhaseID)
	}
	if s.ActiveView != workflow.ViewAnalysis {
		t.Errorf("view: got %s, want analysis", s.ActiveView)
	}
}

func TestStartAnalysisFromIngestionUsesActivePhase(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("apply upload: %v", err)
	}
	phase, err := s.StartAnalysis()
	if err != nil {
		t.Fatalf("start analysis: %v", err)
	}
	if phase.SourcePhaseID != "f1" {
		t.Errorf("analysis source: got %q, want f1", phase.SourcePhaseID)
	}
}

func TestMergeFlow(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("upload a: %v", err)
	}
	if err := s.ApplyUpload(makeDataset("f2", "b.csv")); err != nil {
		t.Fatalf("upload b: %v", err)
	}

	s.StartMerge()
	if s.ActivePhaseID != "" {
		t.Errorf("merge view should clear the active phase, got %q", s.ActivePhaseID)
	}
	if s.ActiveView != workflow.ViewMerge {
		t.Errorf("view: got %s, want merge", s.ActiveView)
	}

	merged := makeDataset("f3", "merged.csv")
	if err := s.ApplyMerge(merged); err != nil {
		t.Fatalf("apply merge: %v", err)
	}
	if !merged.IsMerged {
		t.Error("merged dataset should be tagged as merged")
	}
	if s.ActivePhaseID != "f3" {
		t.Errorf("active phase: got %q, want f3", s.ActivePhaseID)
	}
	if s.ActiveView != workflow.ViewPreview {
		t.Errorf("view: got %s, want preview", s.ActiveView)
	}

	messages := s.Transcript.Messages()
	last := messages[len(messages)-1]
	if !strings.Contains(last.Text, "merged") {
		t.Errorf("merge should be announced in the transcript, got %q", last.Text)
	}
}

func TestSelectPhaseDerivesView(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	pre, err := s.ConfirmMappings(map[string]string{"temp": "Temperature"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Back to the ingestion phase: mappings are attached, so mapping view.
	if err := s.SelectPhase("f1"); err != nil {
		t.Fatalf("select f1: %v", err)
	}
	if s.ActiveView != workflow.ViewMapping {
		t.Errorf("view after selecting mapped ingestion: got %s, want mapping", s.ActiveView)
	}

	// Forward to the preprocessing phase again.
	if err := s.SelectPhase(pre.ID); err != nil {
		t.Fatalf("select pre: %v", err)
	}
	if s.ActiveView != workflow.ViewPreprocessing {
		t.Errorf("view: got %s, want preprocessing", s.ActiveView)
	}

	if err := s.SelectPhase("ghost"); err == nil {
		t.Error("selecting an unknown phase should fail")
	}
}

func TestSelectUnmappedIngestionShowsPreview(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	s.StartMerge()
	if err := s.SelectPhase("f1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.ActiveView != workflow.ViewPreview {
		t.Errorf("view: got %s, want preview", s.ActiveView)
	}
}

func TestNormalizeFallsBackToIngestion(t *testing.T) {
	s := newState()
	s.ActiveView = workflow.ViewPreview
	s.Normalize()
	if s.ActiveView != workflow.ViewIngestion {
		t.Errorf("view: got %s, want ingestion", s.ActiveView)
	}

	// Views that do not require a phase are untouched.
	s.ActiveView = workflow.ViewMerge
	s.Normalize()
	if s.ActiveView != workflow.ViewMerge {
		t.Errorf("merge view should survive normalize, got %s", s.ActiveView)
	}
}

func TestStatusUpdateBeginsThinking(t *testing.T) {
	s := newState()
	s.ApplyServerEvent(workflow.StatusUpdateEvent{Message: "Analyzing your datasets..."})

	if !s.Thinking.Is(workflow.OpAgent) {
		t.Error("status update should mark the agent busy")
	}
	messages := s.Transcript.Messages()
	last := messages[len(messages)-1]
	if !last.Status {
		t.Error("status update should append a status message")
	}
	if last.Text != "Analyzing your datasets..." {
		t.Errorf("status text: got %q", last.Text)
	}
}

func TestAgentResponseEndsChatThinking(t *testing.T) {
	s := newState()
	s.Thinking.Begin(workflow.OpChat)
	s.Thinking.Begin(workflow.OpAnalysis)

	s.ApplyServerEvent(workflow.AgentResponseEvent{From: workflow.SenderBot, Text: "Here you go."})

	if s.Thinking.Is(workflow.OpChat) {
		t.Error("agent response should end the chat operation")
	}
	if !s.Thinking.Is(workflow.OpAnalysis) {
		t.Error("agent response must not end an unrelated analysis operation")
	}
	messages := s.Transcript.Messages()
	if messages[len(messages)-1].Text != "Here you go." {
		t.Errorf("reply should be appended verbatim, got %q", messages[len(messages)-1].Text)
	}
}

func TestMappingSuggestionCachesAndAnnounces(t *testing.T) {
	s := newState()
	s.Thinking.Begin(workflow.OpMapping)

	s.ApplyServerEvent(workflow.MappingSuggestionEvent{
		Suggestions: map[string]workflow.RoleSuggestion{"temp": {Role: "Temperature"}},
	})

	if s.Thinking.Is(workflow.OpMapping) {
		t.Error("suggestion should end the mapping operation")
	}
	if s.SuggestedMappings["temp"].Role != "Temperature" {
		t.Errorf("suggestions not cached: %v", s.SuggestedMappings)
	}
	messages := s.Transcript.Messages()
	if !strings.Contains(messages[len(messages)-1].Text, "mapping suggestions") {
		t.Errorf("suggestion should be announced, got %q", messages[len(messages)-1].Text)
	}
}

func TestAnalysisResultStoredForView(t *testing.T) {
	s := newState()
	s.Thinking.Begin(workflow.OpAnalysis)

	s.ApplyServerEvent(workflow.AnalysisResultEvent{
		AnalysisType: "line",
		Data:         []workflow.Row{{"x": 1.0, "y": 2.0}},
	})

	if s.Thinking.Is(workflow.OpAnalysis) {
		t.Error("result should end the analysis operation")
	}
	if s.AnalysisResult == nil || s.AnalysisResult.AnalysisType != "line" {
		t.Errorf("result not stored: %+v", s.AnalysisResult)
	}
}

func TestChannelClosedClearsAllThinking(t *testing.T) {
	s := newState()
	s.Thinking.Begin(workflow.OpChat)
	s.Thinking.Begin(workflow.OpMapping)
	s.Thinking.Begin(workflow.OpAgent)

	s.ChannelClosed(errors.New("connection reset"))

	if s.Thinking.Any() {
		t.Error("channel close must clear every pending operation")
	}
	messages := s.Transcript.Messages()
	if !messages[len(messages)-1].Status {
		t.Error("channel loss should be reported as a status line")
	}
}

func TestCleanChannelCloseIsSilent(t *testing.T) {
	s := newState()
	before := s.Transcript.Len()
	s.ChannelClosed(nil)
	if s.Transcript.Len() != before {
		t.Error("clean close should not add transcript noise")
	}
}

func TestStartMappingClearsStaleSuggestions(t *testing.T) {
	s := newState()
	if err := s.ApplyUpload(makeDataset("f1", "a.csv")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	s.SuggestedMappings = map[string]workflow.RoleSuggestion{"old": {Role: "Depth"}}
	if err := s.StartMapping(); err != nil {
		t.Fatalf("start mapping: %v", err)
	}
	if s.SuggestedMappings != nil {
		t.Error("stale suggestions should be cleared when mapping starts")
	}
}
