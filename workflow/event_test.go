// ABOUTME: Tests for the server event wire codec: envelope shape and variant round-trips.
// ABOUTME: Unknown event types must surface ErrUnknownEventType so readers can skip them.
package workflow_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/oceanpilot/oceanpilot/workflow"
)

func roundTrip(t *testing.T, ev workflow.ServerEvent) workflow.ServerEvent {
	t.Helper()
	data, err := workflow.MarshalServerEvent(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := workflow.UnmarshalServerEvent(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return decoded
}

func TestStatusUpdateRoundTrip(t *testing.T) {
	decoded := roundTrip(t, workflow.StatusUpdateEvent{Message: "Working on it..."})
	ev, ok := decoded.(workflow.StatusUpdateEvent)
	if !ok {
		t.Fatalf("got %T, want StatusUpdateEvent", decoded)
	}
	if ev.Message != "Working on it..." {
		t.Errorf("message: got %q", ev.Message)
	}
}

func TestAgentResponseRoundTrip(t *testing.T) {
	decoded := roundTrip(t, workflow.AgentResponseEvent{From: workflow.SenderBot, Text: "**Done**"})
	ev, ok := decoded.(workflow.AgentResponseEvent)
	if !ok {
		t.Fatalf("got %T, want AgentResponseEvent", decoded)
	}
	if ev.From != workflow.SenderBot || ev.Text != "**Done**" {
		t.Errorf("got %+v", ev)
	}
}

func TestMappingSuggestionPayloadIsBareMap(t *testing.T) {
	ev := workflow.MappingSuggestionEvent{
		Suggestions: map[string]workflow.RoleSuggestion{
			"water_temp": {Role: "Temperature"},
		},
	}
	data, err := workflow.MarshalServerEvent(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// The payload must be the column map directly, not nested under a field.
	var env struct {
		Type    string                                    `json:"type"`
		Payload map[string]map[string]string              `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != workflow.EventTypeMappingSuggestion {
		t.Errorf("type: got %q", env.Type)
	}
	if env.Payload["water_temp"]["role"] != "Temperature" {
		t.Errorf("payload shape: got %v", env.Payload)
	}

	decoded, err := workflow.UnmarshalServerEvent(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := decoded.(workflow.MappingSuggestionEvent)
	if got.Suggestions["water_temp"].Role != "Temperature" {
		t.Errorf("round trip: got %v", got.Suggestions)
	}
}

func TestAnalysisResultRoundTrip(t *testing.T) {
	ev := workflow.AnalysisResultEvent{
		AnalysisType: "scatter",
		Data:         []workflow.Row{{"x": 1.0, "y": 2.5}},
		Config: &workflow.VizSpec{
			Type:   "scatter",
			Config: workflow.VizAxes{XAxis: "x", YAxis: "y", Title: "x vs y"},
		},
	}
	decoded := roundTrip(t, ev)
	got, ok := decoded.(workflow.AnalysisResultEvent)
	if !ok {
		t.Fatalf("got %T, want AnalysisResultEvent", decoded)
	}
	if got.AnalysisType != "scatter" || len(got.Data) != 1 {
		t.Errorf("got %+v", got)
	}
	if got.Config == nil || got.Config.Config.XAxis != "x" {
		t.Errorf("config: got %+v", got.Config)
	}
}

func TestVizAxesUsesCamelCaseKeys(t *testing.T) {
	data, err := json.Marshal(workflow.VizAxes{XAxis: "depth", YAxis: "temp"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["xAxis"] != "depth" || raw["yAxis"] != "temp" {
		t.Errorf("wire keys: got %v", raw)
	}
}

func TestUnknownEventTypeIsSkippable(t *testing.T) {
	_, err := workflow.UnmarshalServerEvent([]byte(`{"type":"telemetry_v2","payload":{}}`))
	if !errors.Is(err, workflow.ErrUnknownEventType) {
		t.Errorf("got %v, want ErrUnknownEventType", err)
	}
}

func TestMarshalNilEventFails(t *testing.T) {
	if _, err := workflow.MarshalServerEvent(nil); err == nil {
		t.Error("marshaling nil should fail")
	}
}
