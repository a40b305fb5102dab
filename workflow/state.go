// ABOUTME: State is the client's workflow state machine: phase history, active selection, transcript.
// ABOUTME: Transition methods apply spec'd state changes; async call results are applied only on success.
package workflow

import (
	"fmt"
)

// ErrNoActivePhase is returned by transitions that require an active phase.
var ErrNoActivePhase = fmt.Errorf("no active phase")

// State holds everything the view layer renders: the session identity, phase
// history, active selection, chat transcript, pending-operation flags, and
// the caches fed by inbound channel events. All mutation happens on the
// single event-loop goroutine; State does no locking of its own.
type State struct {
	Session    Session
	History    *History
	Transcript *Transcript
	Thinking   *Thinking

	ActivePhaseID string
	ActiveView    View

	// SuggestedMappings holds the latest mapping_suggestion payload until the
	// mapping view consumes it. Cleared when a new mapping starts.
	SuggestedMappings map[string]RoleSuggestion

	// AnalysisResult holds the latest analysis_result payload for the
	// analysis view to render.
	AnalysisResult *AnalysisResultEvent
}

// NewState creates the startup state: empty history, greeting transcript,
// ingestion view.
func NewState(session Session) *State {
	return &State{
		Session:    session,
		History:    NewHistory(),
		Transcript: NewTranscript(),
		Thinking:   NewThinking(),
		ActiveView: ViewIngestion,
	}
}

// ActivePhase returns the phase referenced by the active selection, or nil.
func (s *State) ActivePhase() *Phase {
	if s.ActivePhaseID == "" {
		return nil
	}
	p, err := s.History.Find(s.ActivePhaseID)
	if err != nil {
		return nil
	}
	return p
}

// SourceOf returns the phase the given phase derives from, or nil.
func (s *State) SourceOf(p *Phase) *Phase {
	if p == nil || p.SourcePhaseID == "" {
		return nil
	}
	src, err := s.History.Find(p.SourcePhaseID)
	if err != nil {
		return nil
	}
	return src
}

// ApplyUpload records a successful upload: a new ingestion phase is appended,
// made active, and the view moves to preview.
func (s *State) ApplyUpload(ds *Dataset) error {
	phase := NewIngestionPhase(ds)
	if err := s.History.Append(phase); err != nil {
		return err
	}
	s.ActivePhaseID = phase.ID
	s.ActiveView = ViewPreview
	return nil
}

// StartMapping moves from preview to the mapping view, clearing any stale
// suggestion cache.
func (s *State) StartMapping() error {
	if s.ActivePhase() == nil {
		return ErrNoActivePhase
	}
	s.SuggestedMappings = nil
	s.ActiveView = ViewMapping
	return nil
}

// ConfirmMappings applies a mapping confirmation that the backend has already
// accepted: mappings attach to the active phase, a preprocessing phase
// sourced from it is created and made active, and the view moves to
// preprocessing. Callers must not invoke this on REST failure; the no-phase
// guarantee for failed confirms is that this method is simply never reached.
func (s *State) ConfirmMappings(mappings map[string]string) (*Phase, error) {
	source := s.ActivePhase()
	if source == nil {
		return nil, ErrNoActivePhase
	}
	if _, err := s.History.AttachMappings(source.ID, mappings); err != nil {
		return nil, err
	}
	next := NewPreprocessingPhase(source)
	if err := s.History.Append(next); err != nil {
		return nil, err
	}
	s.ActivePhaseID = next.ID
	s.ActiveView = ViewPreprocessing
	return next, nil
}

// StartAnalysis creates an analysis phase sourced from the active phase's own
// source (so analysis points at the dataset, not the preprocessing step that
// led here), makes it active, and moves to the analysis view.
func (s *State) StartAnalysis() (*Phase, error) {
	active := s.ActivePhase()
	if active == nil {
		return nil, ErrNoActivePhase
	}
	source := s.SourceOf(active)
	if source == nil {
		source = active
	}
	next := NewAnalysisPhase(source)
	if err := s.History.Append(next); err != nil {
		return nil, err
	}
	s.ActivePhaseID = next.ID
	s.ActiveView = ViewAnalysis
	return next, nil
}

// StartMerge opens the merge view; merge works across files, so the active
// phase is cleared.
func (s *State) StartMerge() {
	s.ActivePhaseID = ""
	s.ActiveView = ViewMerge
}

// ApplyMerge records a successful merge execution: the merged dataset becomes
// a new ingestion-typed phase, made active, viewed in preview, and announced
// in the transcript.
func (s *State) ApplyMerge(ds *Dataset) error {
	ds.IsMerged = true
	phase := NewIngestionPhase(ds)
	if err := s.History.Append(phase); err != nil {
		return err
	}
	s.ActivePhaseID = phase.ID
	s.ActiveView = ViewPreview
	s.Transcript.AppendBot(fmt.Sprintf(
		"Successfully merged datasets into %q. You can now preview, map, or analyze the merged data.",
		phase.Name))
	return nil
}

// SelectPhase activates a historical phase and recomputes the view from the
// phase itself.
func (s *State) SelectPhase(id string) error {
	p, err := s.History.Find(id)
	if err != nil {
		return err
	}
	s.ActivePhaseID = id
	s.ActiveView = ViewForPhase(p)
	return nil
}

// NewIngestion returns to the upload view without touching the history.
func (s *State) NewIngestion() {
	s.ActiveView = ViewIngestion
}

// OpenPlayground switches to the exploratory grid view. The active phase is
// kept; playground is stateless with respect to the history.
func (s *State) OpenPlayground() {
	s.ActiveView = ViewPlayground
}

// OpenSoil switches to the soil sampling view.
func (s *State) OpenSoil() {
	s.ActiveView = ViewSoil
}

// Normalize enforces the fallback invariant: a view that requires an active
// phase falls back to ingestion when none is set.
func (s *State) Normalize() {
	if s.ActiveView.RequiresPhase() && s.ActivePhase() == nil {
		s.ActiveView = ViewIngestion
	}
}

// ApplyServerEvent folds one inbound channel event into the state. Each kind
// maps to exactly one transition; events are applied in arrival order on the
// event-loop goroutine.
func (s *State) ApplyServerEvent(ev ServerEvent) {
	switch v := ev.(type) {
	case StatusUpdateEvent:
		s.Thinking.Begin(OpAgent)
		s.Transcript.AppendStatus(v.Message)
	case AgentResponseEvent:
		s.Thinking.End(OpAgent, OpChat, OpMerge)
		s.Transcript.append(Message{From: v.From, Text: v.Text})
	case MappingSuggestionEvent:
		s.Thinking.End(OpAgent, OpMapping)
		s.SuggestedMappings = v.Suggestions
		s.Transcript.AppendBot("I have some mapping suggestions for you. Please review them in the main panel.")
	case AnalysisResultEvent:
		s.Thinking.End(OpAgent, OpAnalysis)
		result := v
		s.AnalysisResult = &result
		s.Transcript.AppendBot(fmt.Sprintf("Generated %s visualization for your data.", v.AnalysisType))
	}
}

// ChannelClosed records that the push channel is gone: all pending flags
// clear (no reply is coming) and the user is told.
func (s *State) ChannelClosed(err error) {
	s.Thinking.Clear()
	if err != nil {
		s.Transcript.AppendStatus("Connection to the agent was lost. Restart to reconnect.")
	}
}
