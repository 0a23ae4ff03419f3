// Package markers builds what the map and list views need to render the
// catalog: one pin per property and the default viewport.
package markers

import (
	"real-estate-investor/internal/config"
	"real-estate-investor/internal/metrics"
	"real-estate-investor/internal/models"
)

// Marker is a map pin. Label is the formatted price shown on it.
type Marker struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Label     string  `json:"label"`
	InCompare bool    `json:"in_compare"`
}

// Viewport is the initial map camera. Center is [lng, lat].
type Viewport struct {
	Center [2]float64 `json:"center"`
	Zoom   float64    `json:"zoom"`
}

// Build returns one marker per property in input order. inCompare may be nil.
func Build(props []models.Property, inCompare func(id string) bool) []Marker {
	out := make([]Marker, 0, len(props))
	for _, p := range props {
		out = append(out, Marker{
			ID:        p.ID,
			Lat:       p.Lat,
			Lng:       p.Lng,
			Label:     metrics.FormatPrice(p.Price),
			InCompare: inCompare != nil && inCompare(p.ID),
		})
	}
	return out
}

// DefaultViewport converts the configured map settings.
func DefaultViewport(cfg config.MapConfig) Viewport {
	return Viewport{
		Center: [2]float64{cfg.CenterLng, cfg.CenterLat},
		Zoom:   cfg.Zoom,
	}
}
