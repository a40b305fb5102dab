// ABOUTME: Phase is the core workflow unit: one ingestion, preprocessing, or analysis step.
// ABOUTME: Phases are immutable after creation except for a one-time mappings attachment.
package workflow

import (
	"sort"
)

// PhaseType categorizes a phase in the workflow history.
type PhaseType string

const (
	PhaseIngestion     PhaseType = "ingestion"
	PhaseMapping       PhaseType = "mapping"
	PhasePreprocessing PhaseType = "preprocessing"
	PhaseAnalysis      PhaseType = "analysis"
)

// Row is one record of a dataset as returned by the backend.
type Row = map[string]any

// Dataset holds the backend's upload or merge response payload for a phase.
type Dataset struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"content_type"`
	SizeKB      int64  `json:"size_kb"`
	Data        []Row  `json:"data"`
	SampleData  []Row  `json:"sample_data"`
	IsMerged    bool   `json:"is_merged,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Columns returns the dataset's column names in a stable (sorted) order,
// derived from the first data row.
func (d *Dataset) Columns() []string {
	if d == nil || len(d.Data) == 0 {
		return nil
	}
	cols := make([]string, 0, len(d.Data[0]))
	for col := range d.Data[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Phase is one node in the user's workflow history.
// ID is server-issued when the backend created the resource (upload, merge)
// and a client ULID for purely local phases (preprocessing, analysis).
// SourcePhaseID, when set, references an earlier phase in the same history.
type Phase struct {
	ID            string            `json:"id"`
	Type          PhaseType         `json:"type"`
	Name          string            `json:"name"`
	Data          *Dataset          `json:"data,omitempty"`
	Mappings      map[string]string `json:"mappings,omitempty"`
	SourcePhaseID string            `json:"source_phase_id,omitempty"`
}

// NewIngestionPhase creates an ingestion phase from an upload or merge response.
// The phase id is the server-issued dataset id.
func NewIngestionPhase(ds *Dataset) *Phase {
	name := ds.Filename
	if name == "" {
		name = ds.Name
	}
	return &Phase{
		ID:   ds.ID,
		Type: PhaseIngestion,
		Name: name,
		Data: ds,
	}
}

// NewPreprocessingPhase creates a preprocessing phase derived from the given
// source phase, with a fresh client-generated id.
func NewPreprocessingPhase(source *Phase) *Phase {
	return &Phase{
		ID:            NewULID().String(),
		Type:          PhasePreprocessing,
		Name:          "Preprocess: " + source.Name,
		SourcePhaseID: source.ID,
	}
}

// NewAnalysisPhase creates an analysis phase derived from the given source
// phase, with a fresh client-generated id.
func NewAnalysisPhase(source *Phase) *Phase {
	return &Phase{
		ID:            NewULID().String(),
		Type:          PhaseAnalysis,
		Name:          "Analysis: " + source.Name,
		SourcePhaseID: source.ID,
	}
}
