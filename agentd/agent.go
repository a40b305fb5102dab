// ABOUTME: The fake agent: turns chat messages into pushed channel events.
// ABOUTME: Header heuristics guess column roles; chart intent picks a visualization over numeric columns.
package agentd

import (
	"fmt"
	"strings"
	"time"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// roleHints maps header substrings to semantic roles, checked in order so
// "longitude" wins over the bare "lon" prefix match inside other words.
var roleHints = []struct {
	hint string
	role string
}{
	{"latitude", "Latitude"},
	{"longitude", "Longitude"},
	{"lat", "Latitude"},
	{"lon", "Longitude"},
	{"lng", "Longitude"},
	{"date", "Date"},
	{"time", "Time"},
	{"depth", "Depth"},
	{"temp", "Temperature"},
	{"sal", "Salinity"},
	{"oxy", "Oxygen"},
	{"phos", "Phosphate"},
	{"sili", "Silicate"},
	{"nitr", "Nitrate"},
}

// guessRole maps one column header to a semantic role.
func guessRole(col string, numeric bool) string {
	lower := strings.ToLower(col)
	for _, h := range roleHints {
		if strings.Contains(lower, h.hint) {
			return h.role
		}
	}
	if numeric {
		return "Numerical"
	}
	return "Categorical"
}

// suggestMappings builds per-column role suggestions for a file.
func suggestMappings(f *File) map[string]workflow.RoleSuggestion {
	out := make(map[string]workflow.RoleSuggestion, len(f.Columns))
	for _, col := range f.Columns {
		out[col] = workflow.RoleSuggestion{Role: guessRole(col, isNumeric(f.Rows, col))}
	}
	return out
}

// agent reacts to chat messages by pushing events to the session's channel.
type agent struct {
	store *Store
	// delay between status update and the real event, so the client's
	// thinking indicator is observable. Zero in tests.
	delay time.Duration
}

// handleChat inspects the message and active view, then pushes a status
// update followed by the matching response event. Runs on its own goroutine.
func (a *agent) handleChat(sessionID, message string, phase *workflow.Phase, view workflow.View) {
	a.store.Push(sessionID, workflow.StatusUpdateEvent{Message: "Analyzing your request..."})
	if a.delay > 0 {
		time.Sleep(a.delay)
	}

	lower := strings.ToLower(message)
	file := a.contextFile(sessionID, phase)

	switch {
	case file != nil && (view == workflow.ViewMapping || strings.Contains(lower, "map") || strings.Contains(lower, "column") || strings.Contains(lower, "role")):
		a.store.Push(sessionID, workflow.MappingSuggestionEvent{Suggestions: suggestMappings(file)})
	case file != nil && (strings.Contains(lower, "plot") || strings.Contains(lower, "chart") || strings.Contains(lower, "visuali") || strings.Contains(lower, "graph")):
		a.store.Push(sessionID, a.analysisEvent(file, lower))
	case file == nil && view != workflow.ViewIngestion:
		a.store.Push(sessionID, workflow.AgentResponseEvent{
			From: workflow.SenderBot,
			Text: "I could not find the dataset you are working on. Try uploading it again.",
		})
	default:
		a.store.Push(sessionID, workflow.AgentResponseEvent{
			From: workflow.SenderBot,
			Text: a.reply(lower, file),
		})
	}
}

// contextFile resolves the chat context phase to a stored file, walking the
// source link for derived phases.
func (a *agent) contextFile(sessionID string, phase *workflow.Phase) *File {
	if phase == nil {
		return nil
	}
	if f, ok := a.store.File(sessionID, phase.ID); ok {
		return f
	}
	if phase.SourcePhaseID != "" {
		if f, ok := a.store.File(sessionID, phase.SourcePhaseID); ok {
			return f
		}
	}
	return nil
}

// analysisEvent builds an analysis_result over the file's first two numeric
// columns. Scatter when the message asks for one, line otherwise.
func (a *agent) analysisEvent(f *File, lower string) workflow.AnalysisResultEvent {
	var numeric []string
	for _, col := range f.Columns {
		if isNumeric(f.Rows, col) {
			numeric = append(numeric, col)
		}
	}

	chart := "line"
	if strings.Contains(lower, "scatter") {
		chart = "scatter"
	} else if strings.Contains(lower, "bar") {
		chart = "bar"
	}

	ev := workflow.AnalysisResultEvent{
		AnalysisType: chart,
		Data:         sampleRows(f.Rows, 100),
	}
	if len(numeric) >= 2 {
		ev.Config = &workflow.VizSpec{
			Type: chart,
			Config: workflow.VizAxes{
				XAxis:       numeric[0],
				YAxis:       numeric[1],
				Title:       fmt.Sprintf("%s vs %s", numeric[1], numeric[0]),
				Description: fmt.Sprintf("%s chart of %s over %s from %s", chart, numeric[1], numeric[0], f.Name),
			},
		}
	}
	return ev
}

// reply is the plain-chat fallback.
func (a *agent) reply(lower string, f *File) string {
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hello! Ask me about your dataset, or ask for mapping suggestions or a chart."
	case f != nil && strings.Contains(lower, "summar"):
		return fmt.Sprintf("%s has %d rows and %d columns: %s.", f.Name, len(f.Rows), len(f.Columns), strings.Join(f.Columns, ", "))
	case f != nil:
		return fmt.Sprintf("I'm looking at %s (%d rows). Ask for mapping suggestions, a summary, or a chart.", f.Name, len(f.Rows))
	default:
		return "Upload a dataset and I can help you map, preprocess, and analyze it."
	}
}
