package domain

import "fmt"

// DefaultPlateColor is the line color of the plate boundary overlay.
const DefaultPlateColor = "salmon"

// PlateStyle is the Leaflet path style applied to every boundary line.
type PlateStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
}

// PlateBoundary is one validated boundary segment.
type PlateBoundary struct {
	Name     string
	PlateA   string
	PlateB   string
	Type     string
	Geometry LineGeometry
}

// PlateLayer is the styled plate boundary overlay.
type PlateLayer struct {
	Style      PlateStyle
	Boundaries []PlateBoundary
}

// ParsePlateBoundary accepts LineString and MultiLineString features.
func ParsePlateBoundary(f PlateFeature) (PlateBoundary, error) {
	if f.Geometry == nil {
		return PlateBoundary{}, fmt.Errorf("%w: plate %q has no geometry", ErrInvalidFeature, f.Properties.Name)
	}
	switch f.Geometry.Type {
	case "LineString", "MultiLineString":
	default:
		return PlateBoundary{}, fmt.Errorf("%w: plate %q has geometry %q", ErrInvalidFeature, f.Properties.Name, f.Geometry.Type)
	}
	if len(f.Geometry.Coordinates) == 0 {
		return PlateBoundary{}, fmt.Errorf("%w: plate %q has empty coordinates", ErrInvalidFeature, f.Properties.Name)
	}
	return PlateBoundary{
		Name:     f.Properties.Name,
		PlateA:   f.Properties.PlateA,
		PlateB:   f.Properties.PlateB,
		Type:     f.Properties.Type,
		Geometry: *f.Geometry,
	}, nil
}

// BuildPlateLayer parses every feature, keeping the valid ones. The returned
// errors describe the skipped features.
func BuildPlateLayer(features []PlateFeature) (PlateLayer, []error) {
	layer := PlateLayer{
		Style:      PlateStyle{Color: DefaultPlateColor, Weight: 2},
		Boundaries: make([]PlateBoundary, 0, len(features)),
	}
	var errs []error
	for _, f := range features {
		b, err := ParsePlateBoundary(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		layer.Boundaries = append(layer.Boundaries, b)
	}
	return layer, errs
}
