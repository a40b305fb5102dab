// ABOUTME: Soil sampling endpoint: deterministic pseudo-samples over a polygon's bounding box.
// ABOUTME: Point-in-polygon by ray casting; property values are smooth functions of position.
package agentd

import (
	"math"
	"net/http"

	"github.com/oceanpilot/oceanpilot/gateway"
)

// soilProperties are the per-sample measurements the stub fabricates.
var soilProperties = []string{"ph", "organic_carbon", "nitrogen", "sand_percent", "clay_percent"}

func (s *Server) handleSoilArea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Polygon gateway.Polygon `json:"polygon"`
		Samples int             `json:"samples"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, "bad request body: "+err.Error())
		return
	}
	rings := req.Polygon.Geometry.Coordinates
	if len(rings) == 0 || len(rings[0]) < 4 {
		writeError(w, "polygon needs a closed ring of at least 3 points")
		return
	}
	ring := rings[0]
	samples := req.Samples
	if samples <= 0 || samples > 500 {
		samples = 20
	}

	minLng, minLat := ring[0][0], ring[0][1]
	maxLng, maxLat := minLng, minLat
	for _, p := range ring {
		minLng, maxLng = math.Min(minLng, p[0]), math.Max(maxLng, p[0])
		minLat, maxLat = math.Min(minLat, p[1]), math.Max(maxLat, p[1])
	}

	// Walk a grid over the bounding box, keeping interior points. The grid is
	// oversized so clipping still leaves enough samples.
	side := int(math.Ceil(math.Sqrt(float64(samples * 4))))
	var results []gateway.SoilSample
	for i := 0; i < side && len(results) < samples; i++ {
		for j := 0; j < side && len(results) < samples; j++ {
			lng := minLng + (maxLng-minLng)*(float64(i)+0.5)/float64(side)
			lat := minLat + (maxLat-minLat)*(float64(j)+0.5)/float64(side)
			if !pointInRing(lng, lat, ring) {
				continue
			}
			results = append(results, gateway.SoilSample{
				Lat:        lat,
				Lon:        lng,
				Properties: soilPropertiesAt(lat, lng),
			})
		}
	}

	writeJSON(w, gateway.SoilResult{
		Status:  "success",
		Samples: len(results),
		Results: results,
	})
}

// soilPropertiesAt fabricates smooth, position-dependent property values so
// repeated requests over the same area agree.
func soilPropertiesAt(lat, lng float64) map[string]float64 {
	props := make(map[string]float64, len(soilProperties))
	for i, name := range soilProperties {
		phase := float64(i+1) * 1.7
		v := math.Sin(lat*phase) * math.Cos(lng*phase)
		switch name {
		case "ph":
			props[name] = round2(6.5 + v)
		case "organic_carbon":
			props[name] = round2(2.0 + v*1.5)
		case "nitrogen":
			props[name] = round2(0.3 + v*0.2)
		case "sand_percent":
			props[name] = round2(45 + v*25)
		case "clay_percent":
			props[name] = round2(25 + v*15)
		}
	}
	return props
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pointInRing is the even-odd ray casting test.
func pointInRing(lng, lat float64, ring [][2]float64) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > lat) != (yj > lat) && lng < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
