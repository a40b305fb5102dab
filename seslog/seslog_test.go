// ABOUTME: Tests for the SQLite session log against a temp database file.
// ABOUTME: Verifies upserts, snapshot recording, and ordered list queries.
package seslog_test

import (
	"path/filepath"
	"testing"

	"github.com/oceanpilot/oceanpilot/seslog"
	"github.com/oceanpilot/oceanpilot/workflow"
)

func openLog(t *testing.T) *seslog.Log {
	t.Helper()
	l, err := seslog.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestStartSessionIsIdempotent(t *testing.T) {
	l := openLog(t)
	if err := l.StartSession("sess-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.StartSession("sess-1"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	ids, err := l.ListSessions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "sess-1" {
		t.Errorf("sessions: got %v, want [sess-1]", ids)
	}
}

func TestRecordPhaseUpsertsMappings(t *testing.T) {
	l := openLog(t)
	if err := l.StartSession("sess-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	p := &workflow.Phase{ID: "f1", Type: workflow.PhaseIngestion, Name: "a.csv"}
	if err := l.RecordPhase("sess-1", p); err != nil {
		t.Fatalf("record: %v", err)
	}

	p.Mappings = map[string]string{"temp": "Temperature"}
	if err := l.RecordPhase("sess-1", p); err != nil {
		t.Fatalf("record again: %v", err)
	}

	phases, err := l.ListPhases("sess-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(phases) != 1 {
		t.Fatalf("got %d phases, want 1 (upsert)", len(phases))
	}
	if phases[0].Mappings["temp"] != "Temperature" {
		t.Errorf("mappings: got %v", phases[0].Mappings)
	}
}

func TestRecordStateSnapshot(t *testing.T) {
	l := openLog(t)

	state := workflow.NewState(workflow.NewSession())
	ds := &workflow.Dataset{
		ID:       "f1",
		Filename: "a.csv",
		Data:     []workflow.Row{{"temp": 12.5}},
	}
	if err := state.ApplyUpload(ds); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := state.ConfirmMappings(map[string]string{"temp": "Temperature"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	state.Transcript.AppendUser("hello")

	if err := l.RecordState(state); err != nil {
		t.Fatalf("record state: %v", err)
	}
	// A second snapshot must not duplicate anything.
	if err := l.RecordState(state); err != nil {
		t.Fatalf("record state again: %v", err)
	}

	phases, err := l.ListPhases(state.Session.ID())
	if err != nil {
		t.Fatalf("list phases: %v", err)
	}
	if len(phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(phases))
	}
	if phases[0].PhaseID != "f1" || phases[1].SourcePhaseID != "f1" {
		t.Errorf("phase order: got %+v", phases)
	}

	messages, err := l.ListMessages(state.Session.ID())
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	// Greeting plus the user message.
	if len(messages) != state.Transcript.Len() {
		t.Errorf("got %d messages, want %d", len(messages), state.Transcript.Len())
	}
	last := messages[len(messages)-1]
	if last.Sender != "user" || last.Text != "hello" {
		t.Errorf("last message: got %+v", last)
	}
}

func TestListUnknownSessionIsEmpty(t *testing.T) {
	l := openLog(t)
	phases, err := l.ListPhases("nope")
	if err != nil {
		t.Fatalf("list phases: %v", err)
	}
	if len(phases) != 0 {
		t.Errorf("got %d phases, want 0", len(phases))
	}
}
