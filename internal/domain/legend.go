package domain

import "strconv"

// LegendEntry is one row of the magnitude legend.
type LegendEntry struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Color string  `json:"color"`
}

// BuildLegend produces one entry per category, colored by the scale at the
// category's lower bound. The last label gets a "+" suffix since it is open
// ended.
func BuildLegend(categories []float64, scale ColorScale) []LegendEntry {
	entries := make([]LegendEntry, len(categories))
	for i, c := range categories {
		label := strconv.FormatFloat(c, 'f', -1, 64)
		if i == len(categories)-1 {
			label += "+"
		}
		entries[i] = LegendEntry{Label: label, Lower: c, Color: scale.Color(c)}
	}
	return entries
}

// LegendCategories returns the scale's own thresholds for discrete scales and
// fallback for everything else.
func LegendCategories(scale ColorScale, fallback []float64) []float64 {
	if d, ok := scale.(*DiscreteScale); ok {
		return d.Thresholds()
	}
	return append([]float64(nil), fallback...)
}
