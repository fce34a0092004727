package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidScale is returned when a ScaleConfig cannot produce a ColorScale.
var ErrInvalidScale = errors.New("invalid color scale")

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Scheme selects the color policy of a ScaleConfig.
type Scheme string

const (
	SchemeDiscrete       Scheme = "discrete"
	SchemeDiscreteStrict Scheme = "discrete-strict"
	SchemeLinear         Scheme = "linear"
	SchemeGradient       Scheme = "gradient"
)

// Bound decides whether a magnitude sitting exactly on a threshold meets it.
type Bound int

const (
	// Inclusive: magnitude >= threshold.
	Inclusive Bound = iota
	// Exclusive: magnitude > threshold.
	Exclusive
)

// DefaultCategories are the magnitude bucket edges shown in the legend.
var DefaultCategories = []float64{0, 1, 2, 3, 4, 5, 6, 7}

// DefaultPalette holds one color per entry of DefaultCategories, from the
// weakest bucket to the strongest.
var DefaultPalette = []string{
	"#006400",
	"#008000",
	"#ADFF2F",
	"#FFFFCC",
	"#FFFF66",
	"#FFDAB9",
	"#CD5C5C",
	"#8B0000",
}

// DefaultLinearMax is the magnitude that maps to pure red on the linear scale.
const DefaultLinearMax = 8.0

// ColorScale maps a magnitude to an uppercase "#RRGGBB" string.
// Implementations are immutable and safe for concurrent use.
type ColorScale interface {
	Color(magnitude float64) string
	Scheme() Scheme
}

// ScaleConfig describes a color scale. Thresholds and Colors are used by the
// discrete and gradient schemes, Max by the linear scheme.
type ScaleConfig struct {
	Scheme     Scheme
	Thresholds []float64
	Colors     []string
	Bound      Bound
	Max        float64
}

// NewColorScale validates cfg and builds the matching scale.
func NewColorScale(cfg ScaleConfig) (ColorScale, error) {
	switch cfg.Scheme {
	case SchemeDiscrete, "":
		return NewDiscreteScale(cfg.Thresholds, cfg.Colors, cfg.Bound)
	case SchemeDiscreteStrict:
		return NewDiscreteScale(cfg.Thresholds, cfg.Colors, Exclusive)
	case SchemeLinear:
		return NewLinearScale(cfg.Max)
	case SchemeGradient:
		return NewGradientScale(cfg.Thresholds, cfg.Colors)
	default:
		return nil, fmt.Errorf("%w: unknown scheme %q", ErrInvalidScale, cfg.Scheme)
	}
}

// PresetConfig returns the built-in configuration for a scheme name. Unset
// thresholds and colors fall back to DefaultCategories and DefaultPalette;
// max <= 0 falls back to DefaultLinearMax.
func PresetConfig(scheme Scheme, maxMagnitude float64) ScaleConfig {
	if maxMagnitude <= 0 {
		maxMagnitude = DefaultLinearMax
	}
	cfg := ScaleConfig{
		Scheme:     scheme,
		Thresholds: append([]float64(nil), DefaultCategories...),
		Colors:     append([]string(nil), DefaultPalette...),
		Max:        maxMagnitude,
	}
	if scheme == SchemeDiscreteStrict {
		cfg.Bound = Exclusive
	}
	return cfg
}

// DiscreteScale returns the color of the highest threshold a magnitude meets.
// Magnitudes meeting no threshold get the first color and magnitudes above the
// last threshold get the last color.
type DiscreteScale struct {
	thresholds []float64
	colors     []string
	bound      Bound
}

// NewDiscreteScale builds a DiscreteScale with exactly one color per threshold.
func NewDiscreteScale(thresholds []float64, colors []string, bound Bound) (*DiscreteScale, error) {
	if err := validateStops(thresholds, colors); err != nil {
		return nil, err
	}
	if bound != Inclusive && bound != Exclusive {
		return nil, fmt.Errorf("%w: unknown bound %d", ErrInvalidScale, bound)
	}
	normalized, err := normalizeColors(colors)
	if err != nil {
		return nil, err
	}
	return &DiscreteScale{
		thresholds: append([]float64(nil), thresholds...),
		colors:     normalized,
		bound:      bound,
	}, nil
}

func (s *DiscreteScale) Color(magnitude float64) string {
	return s.colors[s.bucket(magnitude)]
}

func (s *DiscreteScale) Scheme() Scheme {
	if s.bound == Exclusive {
		return SchemeDiscreteStrict
	}
	return SchemeDiscrete
}

// Thresholds returns a copy of the bucket edges.
func (s *DiscreteScale) Thresholds() []float64 {
	return append([]float64(nil), s.thresholds...)
}

// bucket returns the index of the highest threshold met, or 0.
// NaN meets nothing and lands in bucket 0.
func (s *DiscreteScale) bucket(magnitude float64) int {
	for i := len(s.thresholds) - 1; i > 0; i-- {
		if s.meets(magnitude, s.thresholds[i]) {
			return i
		}
	}
	return 0
}

func (s *DiscreteScale) meets(magnitude, threshold float64) bool {
	if s.bound == Exclusive {
		return magnitude > threshold
	}
	return magnitude >= threshold
}

// LinearScale fades from green at magnitude 0 through yellow at max/2 to red
// at max. Blue is always 0.
type LinearScale struct {
	max    float64
	factor float64
}

// NewLinearScale builds a LinearScale. maxMagnitude must be finite and positive.
func NewLinearScale(maxMagnitude float64) (*LinearScale, error) {
	if math.IsNaN(maxMagnitude) || math.IsInf(maxMagnitude, 0) || maxMagnitude <= 0 {
		return nil, fmt.Errorf("%w: linear max must be a positive finite number, got %v", ErrInvalidScale, maxMagnitude)
	}
	return &LinearScale{max: maxMagnitude, factor: 255 / maxMagnitude}, nil
}

func (s *LinearScale) Color(magnitude float64) string {
	if math.IsNaN(magnitude) {
		magnitude = 0
	}
	red := clampChannel(2 * s.factor * magnitude)
	green := clampChannel(2 * s.factor * (s.max - magnitude))
	return formatHex(red, green, 0)
}

func (s *LinearScale) Scheme() Scheme { return SchemeLinear }

// Max returns the magnitude that maps to full red.
func (s *LinearScale) Max() float64 { return s.max }

// GradientScale blends in HCL space between the two stops around a magnitude.
type GradientScale struct {
	positions []float64
	stops     []colorful.Color
}

// NewGradientScale builds a GradientScale from ascending positions and one
// color per position.
func NewGradientScale(positions []float64, colors []string) (*GradientScale, error) {
	if err := validateStops(positions, colors); err != nil {
		return nil, err
	}
	stops := make([]colorful.Color, len(colors))
	for i, c := range colors {
		parsed, err := parseHex(c)
		if err != nil {
			return nil, err
		}
		stops[i] = parsed
	}
	return &GradientScale{
		positions: append([]float64(nil), positions...),
		stops:     stops,
	}, nil
}

func (s *GradientScale) Color(magnitude float64) string {
	last := len(s.positions) - 1
	if math.IsNaN(magnitude) || magnitude <= s.positions[0] {
		return colorHex(s.stops[0])
	}
	if magnitude >= s.positions[last] {
		return colorHex(s.stops[last])
	}
	for i := 0; i < last; i++ {
		lo, hi := s.positions[i], s.positions[i+1]
		if magnitude >= lo && magnitude <= hi {
			t := (magnitude - lo) / (hi - lo)
			return colorHex(s.stops[i].BlendHcl(s.stops[i+1], t).Clamped())
		}
	}
	return colorHex(s.stops[last])
}

func (s *GradientScale) Scheme() Scheme { return SchemeGradient }

func validateStops(thresholds []float64, colors []string) error {
	if len(thresholds) == 0 {
		return fmt.Errorf("%w: at least one threshold is required", ErrInvalidScale)
	}
	if len(thresholds) != len(colors) {
		return fmt.Errorf("%w: %d thresholds but %d colors", ErrInvalidScale, len(thresholds), len(colors))
	}
	for i, t := range thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: threshold %d is not finite", ErrInvalidScale, i)
		}
		if i > 0 && t <= thresholds[i-1] {
			return fmt.Errorf("%w: thresholds must be strictly ascending (%v after %v)", ErrInvalidScale, t, thresholds[i-1])
		}
	}
	return nil
}

func normalizeColors(colors []string) ([]string, error) {
	out := make([]string, len(colors))
	for i, c := range colors {
		parsed, err := parseHex(c)
		if err != nil {
			return nil, err
		}
		out[i] = colorHex(parsed)
	}
	return out, nil
}

func parseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !hexColorRe.MatchString(s) {
		return colorful.Color{}, fmt.Errorf("%w: color %q is not #RRGGBB", ErrInvalidScale, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidScale, s, err)
	}
	return c, nil
}

// clampChannel rounds v and clamps it into [0, 255] before the uint8
// conversion, so negative values saturate at 0 instead of wrapping.
func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func colorHex(c colorful.Color) string {
	r, g, b := c.RGB255()
	return formatHex(r, g, b)
}

func formatHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
