package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one complete, immutable rendering of both overlays.
type Snapshot struct {
	ID            string
	GeneratedAt   time.Time
	Scheme        Scheme
	Markers       []Marker
	Plates        PlateLayer
	Legend        []LegendEntry
	SkippedQuakes int
	SkippedPlates int
}

// NewSnapshot stamps a fresh snapshot with a random ID and the current time.
func NewSnapshot(scheme Scheme) Snapshot {
	return Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: clock.Now().UTC(),
		Scheme:      scheme,
	}
}

// StyledFeature is a GeoJSON feature whose properties carry Leaflet styling.
type StyledFeature struct {
	Type       string `json:"type"`
	ID         string `json:"id,omitempty"`
	Geometry   any    `json:"geometry"`
	Properties any    `json:"properties"`
}

// MarkerProperties are the GeoJSON properties of a styled earthquake.
type MarkerProperties struct {
	Magnitude float64     `json:"mag"`
	Place     string      `json:"place"`
	Time      time.Time   `json:"time"`
	URL       string      `json:"url,omitempty"`
	Style     MarkerStyle `json:"style"`
}

// PlateFeatureProperties are the GeoJSON properties of a styled boundary.
type PlateFeatureProperties struct {
	Name   string     `json:"name"`
	PlateA string     `json:"plate_a,omitempty"`
	PlateB string     `json:"plate_b,omitempty"`
	Type   string     `json:"type,omitempty"`
	Style  PlateStyle `json:"style"`
}

// EarthquakeGeoJSON renders the markers as a styled FeatureCollection.
func (s *Snapshot) EarthquakeGeoJSON() FeatureCollection[StyledFeature] {
	features := make([]StyledFeature, len(s.Markers))
	for i, m := range s.Markers {
		features[i] = StyledFeature{
			Type: "Feature",
			ID:   m.ID,
			Geometry: PointGeometry{
				Type:        "Point",
				Coordinates: []float64{m.Lon, m.Lat, m.DepthKm},
			},
			Properties: MarkerProperties{
				Magnitude: m.Magnitude,
				Place:     m.Popup.Place,
				Time:      m.Popup.Time,
				URL:       m.Popup.URL,
				Style:     m.Style,
			},
		}
	}
	return FeatureCollection[StyledFeature]{Type: "FeatureCollection", Features: features}
}

// PlateGeoJSON renders the plate layer as a styled FeatureCollection.
func (s *Snapshot) PlateGeoJSON() FeatureCollection[StyledFeature] {
	features := make([]StyledFeature, len(s.Plates.Boundaries))
	for i, b := range s.Plates.Boundaries {
		features[i] = StyledFeature{
			Type:     "Feature",
			Geometry: b.Geometry,
			Properties: PlateFeatureProperties{
				Name:   b.Name,
				PlateA: b.PlateA,
				PlateB: b.PlateB,
				Type:   b.Type,
				Style:  s.Plates.Style,
			},
		}
	}
	return FeatureCollection[StyledFeature]{Type: "FeatureCollection", Features: features}
}
