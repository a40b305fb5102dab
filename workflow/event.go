// ABOUTME: ServerEvent is the tagged union of push events arriving on the agent channel.
// ABOUTME: Wire shape is {type, payload} with four variants; unknown types are skipped, not fatal.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEventType is returned for event types this client does not know.
// Callers log and skip these; a newer backend may emit kinds we ignore.
var ErrUnknownEventType = errors.New("unknown server event type")

// Event type discriminators on the wire.
const (
	EventTypeStatusUpdate      = "status_update"
	EventTypeAgentResponse     = "agent_response"
	EventTypeMappingSuggestion = "mapping_suggestion"
	EventTypeAnalysisResult    = "analysis_result"
)

// ServerEvent is a sealed union with 4 variants, one per push event kind.
type ServerEvent interface {
	EventType() string
	serverEventSeal()
}

// StatusUpdateEvent reports agent progress; it marks the agent as busy and is
// rendered as a transient status line in the transcript.
type StatusUpdateEvent struct {
	Message string `json:"message"`
}

func (StatusUpdateEvent) EventType() string { return EventTypeStatusUpdate }
func (StatusUpdateEvent) serverEventSeal()  {}

// AgentResponseEvent carries the agent's chat reply verbatim.
type AgentResponseEvent struct {
	From Sender `json:"from"`
	Text string `json:"text"`
}

func (AgentResponseEvent) EventType() string { return EventTypeAgentResponse }
func (AgentResponseEvent) serverEventSeal()  {}

// RoleSuggestion is the agent's proposed semantic role for one column.
type RoleSuggestion struct {
	Role string `json:"role"`
}

// MappingSuggestionEvent carries per-column role suggestions for the mapping
// view to merge into its selections. The wire payload is the bare
// column-to-suggestion map.
type MappingSuggestionEvent struct {
	Suggestions map[string]RoleSuggestion
}

func (MappingSuggestionEvent) EventType() string { return EventTypeMappingSuggestion }
func (MappingSuggestionEvent) serverEventSeal()  {}

// MarshalJSON serializes the suggestion set as the bare map.
func (e MappingSuggestionEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Suggestions)
}

// UnmarshalJSON deserializes the bare column-to-suggestion map.
func (e *MappingSuggestionEvent) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &e.Suggestions)
}

// VizAxes configures how an analysis result should be plotted.
type VizAxes struct {
	XAxis       string `json:"xAxis,omitempty"`
	YAxis       string `json:"yAxis,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// VizSpec pairs a chart type (line, scatter, bar, area) with its axis config.
type VizSpec struct {
	Type   string  `json:"type"`
	Config VizAxes `json:"config"`
}

// AnalysisResultEvent carries computed analysis data plus its visualization
// config for the analysis view to render.
type AnalysisResultEvent struct {
	AnalysisType string   `json:"analysis_type"`
	Data         []Row    `json:"data"`
	Config       *VizSpec `json:"config,omitempty"`
}

func (AnalysisResultEvent) EventType() string { return EventTypeAnalysisResult }
func (AnalysisResultEvent) serverEventSeal()  {}

// eventEnvelope is the wire format: a type discriminator plus raw payload.
type eventEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalServerEvent serializes a ServerEvent into its {type, payload} envelope.
func MarshalServerEvent(ev ServerEvent) ([]byte, error) {
	if ev == nil {
		return nil, fmt.Errorf("cannot marshal nil server event")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ev.EventType(), err)
	}
	return json.Marshal(eventEnvelope{Type: ev.EventType(), Payload: payload})
}

// UnmarshalServerEvent deserializes a {type, payload} envelope into the
// matching variant. Unknown types return ErrUnknownEventType.
func UnmarshalServerEvent(data []byte) (ServerEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal server event envelope: %w", err)
	}

	switch env.Type {
	case EventTypeStatusUpdate:
		var ev StatusUpdateEvent
		return ev, json.Unmarshal(env.Payload, &ev)
	case EventTypeAgentResponse:
		var ev AgentResponseEvent
		return ev, json.Unmarshal(env.Payload, &ev)
	case EventTypeMappingSuggestion:
		var ev MappingSuggestionEvent
		return ev, json.Unmarshal(env.Payload, &ev)
	case EventTypeAnalysisResult:
		var ev AnalysisResultEvent
		return ev, json.Unmarshal(env.Payload, &ev)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
}
