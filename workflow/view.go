// ABOUTME: View is the discrete tag naming which main panel is rendered.
// ABOUTME: ViewForPhase is the pure derivation used when a historical phase is re-selected.
package workflow

// View identifies the single main panel currently rendered.
type View string

const (
	ViewIngestion     View = "ingestion"
	ViewPreview       View = "preview"
	ViewMapping       View = "mapping"
	ViewPreprocessing View = "preprocessing"
	ViewMerge         View = "merge"
	ViewPlayground    View = "playground"
	ViewAnalysis      View = "analysis"
	ViewSoil          View = "soil"
)

// ViewForPhase derives the view to show when the given phase is selected from
// the history list. A pure function of the phase's type and fields: the same
// ingestion phase resolves to mapping once mappings are confirmed, preview
// before that.
func ViewForPhase(p *Phase) View {
	switch {
	case p.Type == PhasePreprocessing:
		return ViewPreprocessing
	case p.Type == PhaseAnalysis:
		return ViewAnalysis
	case p.Mappings != nil:
		return ViewMapping
	default:
		return ViewPreview
	}
}

// RequiresPhase reports whether the view cannot render without an active
// phase. Such views fall back to ingestion when none is set.
func (v View) RequiresPhase() bool {
	switch v {
	case ViewPreview, ViewMapping, ViewPreprocessing, ViewAnalysis:
		return true
	default:
		return false
	}
}
