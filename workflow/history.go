// ABOUTME: History is the append-only phase store: ordered phases plus an id index.
// ABOUTME: Phases are never deleted; the only mutation is a one-time mappings attachment.
package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrPhaseNotFound is returned when a phase id is absent from the history.
	ErrPhaseNotFound = errors.New("phase not found")
	// ErrDuplicatePhase is returned when appending a phase whose id already exists.
	ErrDuplicatePhase = errors.New("duplicate phase id")
	// ErrUnknownSource is returned when a phase references a source phase that
	// was never created.
	ErrUnknownSource = errors.New("unknown source phase")
)

// History is the session's append-only workflow history. Insertion order is
// chronological creation order and is the sole source of truth for which
// views the user can return to.
type History struct {
	phases []*Phase
	index  map[string]*Phase
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{index: make(map[string]*Phase)}
}

// Append adds a phase to the tail of the history. It enforces id uniqueness
// and, when SourcePhaseID is set, that the source already exists (the history
// forms a DAG rooted at ingestion phases).
func (h *History) Append(p *Phase) error {
	if _, exists := h.index[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePhase, p.ID)
	}
	if p.SourcePhaseID != "" {
		if _, ok := h.index[p.SourcePhaseID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSource, p.SourcePhaseID)
		}
	}
	h.phases = append(h.phases, p)
	h.index[p.ID] = p
	return nil
}

// Find looks up a phase by id.
func (h *History) Find(id string) (*Phase, error) {
	p, ok := h.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPhaseNotFound, id)
	}
	return p, nil
}

// AttachMappings sets the confirmed mappings on an existing phase and returns
// the updated phase. The history is unchanged when the id is absent.
func (h *History) AttachMappings(id string, mappings map[string]string) (*Phase, error) {
	p, err := h.Find(id)
	if err != nil {
		return nil, err
	}
	p.Mappings = mappings
	return p, nil
}

// Len returns the number of phases in the history.
func (h *History) Len() int {
	return len(h.phases)
}

// Phases returns the phases in chronological order. The returned slice is
// shared; callers must not mutate it.
func (h *History) Phases() []*Phase {
	return h.phases
}
