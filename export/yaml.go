// ABOUTME: Exports a workflow session as a structured YAML document.
// ABOUTME: Uses gopkg.in/yaml.v3 with the history's append order preserved.
package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// YamlPhase is a serializable representation of one workflow phase.
type YamlPhase struct {
	ID            string            `yaml:"id"`
	Type          string            `yaml:"type"`
	Name          string            `yaml:"name"`
	SourcePhaseID string            `yaml:"source_phase_id,omitempty"`
	Mappings      map[string]string `yaml:"mappings,omitempty"`
	Rows          int               `yaml:"rows,omitempty"`
	Merged        bool              `yaml:"merged,omitempty"`
}

// YamlMessage is a serializable representation of one transcript entry.
type YamlMessage struct {
	From   string `yaml:"from"`
	Text   string `yaml:"text"`
	Status bool   `yaml:"status,omitempty"`
}

// YamlSession is the top-level serializable session document.
type YamlSession struct {
	SessionID  string        `yaml:"session_id"`
	ActiveView string        `yaml:"active_view"`
	Phases     []YamlPhase   `yaml:"phases"`
	Transcript []YamlMessage `yaml:"transcript"`
}

// SessionYAML exports the session state as YAML. Phases appear in append
// order, messages in arrival order.
func SessionYAML(state *workflow.State) (string, error) {
	doc := YamlSession{
		SessionID:  state.Session.ID(),
		ActiveView: string(state.ActiveView),
		Phases:     []YamlPhase{},
		Transcript: []YamlMessage{},
	}

	for _, p := range state.History.Phases() {
		yp := YamlPhase{
			ID:            p.ID,
			Type:          string(p.Type),
			Name:          p.Name,
			SourcePhaseID: p.SourcePhaseID,
			Mappings:      p.Mappings,
		}
		if p.Data != nil {
			yp.Rows = len(p.Data.Data)
			yp.Merged = p.Data.IsMerged
		}
		doc.Phases = append(doc.Phases, yp)
	}
	for _, m := range state.Transcript.Messages() {
		doc.Transcript = append(doc.Transcript, YamlMessage{
			From:   string(m.From),
			Text:   m.Text,
			Status: m.Status,
		})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}
