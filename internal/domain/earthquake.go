package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidFeature marks a feed entry that cannot be placed on the map.
var ErrInvalidFeature = errors.New("invalid feature")

// Earthquake is a parsed, position-validated USGS event.
type Earthquake struct {
	ID           string
	Magnitude    float64
	HasMagnitude bool
	MagType      string
	Place        string
	Title        string
	URL          string
	Time         time.Time
	Updated      time.Time
	Lat          float64
	Lon          float64
	DepthKm      float64
	Tsunami      bool
}

// ParseEarthquake validates a feed entry and converts it into an Earthquake.
// A null magnitude is kept as 0 with HasMagnitude false.
func ParseEarthquake(f QuakeFeature) (Earthquake, error) {
	if f.Geometry == nil || f.Geometry.Type != "Point" {
		return Earthquake{}, fmt.Errorf("%w: %s: geometry is not a Point", ErrInvalidFeature, f.ID)
	}
	coords := f.Geometry.Coordinates
	if len(coords) < 2 {
		return Earthquake{}, fmt.Errorf("%w: %s: point has %d coordinates", ErrInvalidFeature, f.ID, len(coords))
	}
	lon, lat := coords[0], coords[1]
	if !validLatLon(lat, lon) {
		return Earthquake{}, fmt.Errorf("%w: %s: coordinates out of range (%v, %v)", ErrInvalidFeature, f.ID, lat, lon)
	}

	q := Earthquake{
		ID:      f.ID,
		MagType: f.Properties.MagType,
		Place:   f.Properties.Place,
		Title:   f.Properties.Title,
		URL:     f.Properties.URL,
		Time:    epochMillis(f.Properties.Time),
		Updated: epochMillis(f.Properties.Updated),
		Lat:     lat,
		Lon:     lon,
		Tsunami: f.Properties.Tsunami != 0,
	}
	if len(coords) > 2 {
		q.DepthKm = coords[2]
	}
	if m := f.Properties.Mag; m != nil && !math.IsNaN(*m) {
		q.Magnitude = *m
		q.HasMagnitude = true
	}
	return q, nil
}

func validLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func epochMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
