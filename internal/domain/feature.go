package domain

import "encoding/json"

// FeatureCollection is a GeoJSON FeatureCollection with typed features.
type FeatureCollection[F any] struct {
	Type     string          `json:"type"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Features []F             `json:"features"`
}

// QuakeCollection is the decoded USGS summary feed.
type QuakeCollection = FeatureCollection[QuakeFeature]

// PlateCollection is the decoded PB2002 plate boundary dataset.
type PlateCollection = FeatureCollection[PlateFeature]

// QuakeFeature is one entry of the USGS summary feed.
type QuakeFeature struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Properties QuakeProperties `json:"properties"`
	Geometry   *PointGeometry  `json:"geometry"`
}

// QuakeProperties holds the subset of USGS feed properties the overlay uses.
// Mag is nullable in the feed.
type QuakeProperties struct {
	Mag     *float64 `json:"mag"`
	Place   string   `json:"place"`
	Time    int64    `json:"time"`    // epoch milliseconds
	Updated int64    `json:"updated"` // epoch milliseconds
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	MagType string   `json:"magType"`
	Type    string   `json:"type"`
	Status  string   `json:"status"`
	Tsunami int      `json:"tsunami"`
	Sig     int      `json:"sig"`
}

// PointGeometry is a GeoJSON Point. USGS coordinates are [lon, lat, depth].
type PointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// PlateFeature is one boundary segment of the PB2002 dataset.
type PlateFeature struct {
	Type       string          `json:"type"`
	Properties PlateProperties `json:"properties"`
	Geometry   *LineGeometry   `json:"geometry"`
}

// PlateProperties are the PB2002 attribute columns.
type PlateProperties struct {
	Layer  string `json:"LAYER"`
	Name   string `json:"Name"`
	Source string `json:"Source"`
	PlateA string `json:"PlateA"`
	PlateB string `json:"PlateB"`
	Type   string `json:"Type"`
}

// LineGeometry keeps coordinates undecoded; the overlay passes them through.
type LineGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}
