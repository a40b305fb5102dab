// ABOUTME: Soil sampling endpoint: POST a GeoJSON polygon, receive sampled soil properties.
// ABOUTME: The polygon comes from the map view; sampling itself is entirely backend-side.
package gateway

import "context"

// Geometry is the GeoJSON geometry of a drawn polygon. Coordinates are
// [ring][point][lng, lat] with a closed outer ring.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Polygon is a GeoJSON feature wrapping the drawn area.
type Polygon struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// NewPolygon builds a closed GeoJSON polygon feature from lng/lat points.
func NewPolygon(points [][2]float64) Polygon {
	ring := points
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(append([][2]float64{}, ring...), ring[0])
	}
	return Polygon{
		Type:       "Feature",
		Properties: map[string]any{},
		Geometry:   Geometry{Type: "Polygon", Coordinates: [][][2]float64{ring}},
	}
}

// SoilSample is one sampled point with its soil properties.
type SoilSample struct {
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	Properties map[string]float64 `json:"properties"`
}

// SoilResult is the sampled soil property response for an area.
type SoilResult struct {
	Status  string       `json:"status"`
	Samples int          `json:"samples"`
	Results []SoilSample `json:"results"`
}

// soilAreaRequest is the wire body for POST /soil/area.
type soilAreaRequest struct {
	Polygon Polygon `json:"polygon"`
	Samples int     `json:"samples"`
}

// SoilArea requests soil property samples for the given polygon.
func (c *Client) SoilArea(ctx context.Context, polygon Polygon, samples int) (*SoilResult, error) {
	const op = "soil area"
	var result SoilResult
	if err := c.postJSON(ctx, op, "/soil/area", soilAreaRequest{Polygon: polygon, Samples: samples}, &result); err != nil {
		return nil, err
	}
	if err := checkStatus(op, result.Status, ""); err != nil {
		return nil, err
	}
	return &result, nil
}
