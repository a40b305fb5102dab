// ABOUTME: Soil view: enter a lat/lng bounding box, request soil property samples for the area.
// ABOUTME: The box becomes a GeoJSON polygon; results render as a property table.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanpilot/oceanpilot/gateway"
)

// soilFieldCount is the number of bounding box inputs.
const soilFieldCount = 4

// SoilPanelModel is the soil sampling form and result table.
type SoilPanelModel struct {
	inputs  [soilFieldCount]textinput.Model // min lat, min lng, max lat, max lng
	field   int
	result  *gateway.SoilResult
	loading bool
	errText string
	width   int
	height  int
}

// NewSoilPanelModel creates the soil form with a small default box.
func NewSoilPanelModel() SoilPanelModel {
	labels := [soilFieldCount]string{"54.0", "10.0", "54.5", "10.5"}
	m := SoilPanelModel{}
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 12
		in.Width = 10
		in.SetValue(labels[i])
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

// SetSize updates the panel dimensions.
func (m *SoilPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// NextField moves focus to the next bounding box input.
func (m *SoilPanelModel) NextField() {
	m.inputs[m.field].Blur()
	m.field = (m.field + 1) % soilFieldCount
	m.inputs[m.field].Focus()
}

// Polygon builds the request polygon from the box inputs.
func (m *SoilPanelModel) Polygon() (gateway.Polygon, error) {
	var vals [soilFieldCount]float64
	for i, in := range m.inputs {
		v, err := strconv.ParseFloat(strings.TrimSpace(in.Value()), 64)
		if err != nil {
			return gateway.Polygon{}, fmt.Errorf("bad coordinate %q", in.Value())
		}
		vals[i] = v
	}
	minLat, minLng, maxLat, maxLng := vals[0], vals[1], vals[2], vals[3]
	return gateway.NewPolygon([][2]float64{
		{minLng, minLat},
		{maxLng, minLat},
		{maxLng, maxLat},
		{minLng, maxLat},
	}), nil
}

// SetLoading toggles the in-flight indicator.
func (m *SoilPanelModel) SetLoading(v bool) {
	m.loading = v
	if v {
		m.errText = ""
	}
}

// SetResult installs the sampling response.
func (m *SoilPanelModel) SetResult(result *gateway.SoilResult, err error) {
	m.loading = false
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.result = result
	m.errText = ""
}

// SetError shows a request failure inline.
func (m *SoilPanelModel) SetError(err error) {
	m.loading = false
	if err != nil {
		m.errText = err.Error()
	}
}

// Update forwards key events to the focused coordinate input.
func (m SoilPanelModel) Update(msg tea.Msg) (SoilPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); ok {
		m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	}
	return m, cmd
}

// View renders the form and the sample table.
func (m SoilPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Soil sampling"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("tab next field · enter sample the area"))
	b.WriteString("\n\n")

	labels := []string{"min lat", "min lng", "max lat", "max lng"}
	for i, in := range m.inputs {
		b.WriteString(LabelStyle.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString("\n")
		b.WriteString(ThinkingStyle.Render("Sampling..."))
	case m.errText != "":
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.errText))
	case m.result != nil:
		b.WriteString("\n")
		b.WriteString(m.renderResult())
	}
	return BorderStyle.Width(m.width).Height(m.height).Render(b.String())
}

func (m SoilPanelModel) renderResult() string {
	var b strings.Builder
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("%d samples", m.result.Samples)))
	b.WriteString("\n")
	if len(m.result.Results) == 0 {
		return b.String()
	}

	props := make([]string, 0, len(m.result.Results[0].Properties))
	for p := range m.result.Results[0].Properties {
		props = append(props, p)
	}
	sort.Strings(props)

	b.WriteString(fmt.Sprintf("%9s %9s", "lat", "lon"))
	for _, p := range props {
		b.WriteString(fmt.Sprintf(" %14s", truncate(p, 14)))
	}
	b.WriteString("\n")
	shown := m.result.Results
	if len(shown) > 12 {
		shown = shown[:12]
	}
	for _, s := range shown {
		b.WriteString(fmt.Sprintf("%9.4f %9.4f", s.Lat, s.Lon))
		for _, p := range props {
			b.WriteString(fmt.Sprintf(" %14.2f", s.Properties[p]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
