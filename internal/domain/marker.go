package domain

import (
	"context"
	"log/slog"
	"time"
)

// MarkerStyle mirrors the Leaflet CircleMarker path options.
type MarkerStyle struct {
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
	Color       string  `json:"color"`
}

// Popup carries the fields shown when a marker is clicked.
type Popup struct {
	Place     string    `json:"place"`
	Magnitude float64   `json:"magnitude"`
	Time      time.Time `json:"time"`
	URL       string    `json:"url,omitempty"`
}

// Marker is an earthquake projected onto the map.
type Marker struct {
	ID        string      `json:"id"`
	Lat       float64     `json:"lat"`
	Lon       float64     `json:"lon"`
	DepthKm   float64     `json:"depth_km"`
	Magnitude float64     `json:"magnitude"`
	Style     MarkerStyle `json:"style"`
	Popup     Popup       `json:"popup"`
}

// MarkerOptions controls how magnitudes translate into marker geometry.
type MarkerOptions struct {
	RadiusPerMagnitude float64
	MinRadius          float64
	FillOpacity        float64
	Weight             float64
	StrokeColor        string
}

// DefaultMarkerOptions returns radius = 3 per magnitude unit, floored at 1,
// with a thin black outline.
func DefaultMarkerOptions() MarkerOptions {
	return MarkerOptions{
		RadiusPerMagnitude: 3,
		MinRadius:          1,
		FillOpacity:        0.8,
		Weight:             1,
		StrokeColor:        "black",
	}
}

// BuildMarker styles an earthquake with the color scale.
func BuildMarker(q Earthquake, scale ColorScale, opts MarkerOptions) Marker {
	radius := q.Magnitude * opts.RadiusPerMagnitude
	if radius < opts.MinRadius {
		radius = opts.MinRadius
	}
	return Marker{
		ID:        q.ID,
		Lat:       q.Lat,
		Lon:       q.Lon,
		DepthKm:   q.DepthKm,
		Magnitude: q.Magnitude,
		Style: MarkerStyle{
			Radius:      radius,
			FillColor:   scale.Color(q.Magnitude),
			FillOpacity: opts.FillOpacity,
			Weight:      opts.Weight,
			Color:       opts.StrokeColor,
		},
		Popup: Popup{
			Place:     q.Place,
			Magnitude: q.Magnitude,
			Time:      q.Time,
			URL:       q.URL,
		},
	}
}

// PlaceResolver looks up a human-readable label for a coordinate.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, lat, lon float64) (string, error)
}

// EnrichPlace fills an empty Place using the resolver. A nil resolver or a
// failed lookup leaves the earthquake unchanged.
func EnrichPlace(ctx context.Context, q Earthquake, resolver PlaceResolver, logger *slog.Logger) Earthquake {
	if resolver == nil || q.Place != "" {
		return q
	}
	place, err := resolver.ResolvePlace(ctx, q.Lat, q.Lon)
	if err != nil {
		logger.Warn("place lookup failed",
			"quake_id", q.ID,
			"lat", q.Lat,
			"lon", q.Lon,
			"error", err,
		)
		return q
	}
	q.Place = place
	return q
}
