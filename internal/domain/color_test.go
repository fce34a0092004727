package domain

import (
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colorFormatRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// probeMagnitudes spans micro-events through values far beyond any recorded quake.
var probeMagnitudes = []float64{
	-1000, -5, -2, -1, -0.5, 0, 0.1, 0.99, 1, 1.5, 2, 2.5, 3, 3.999, 4, 4.5,
	5, 6, 6.5, 7, 7.01, 8, 9.5, 10, 100, 1e9,
}

func defaultDiscrete(t *testing.T) *DiscreteScale {
	t.Helper()
	s, err := NewDiscreteScale(DefaultCategories, DefaultPalette, Inclusive)
	require.NoError(t, err)
	return s
}

func channels(t *testing.T, hex string) (r, g, b int64) {
	t.Helper()
	require.Regexp(t, colorFormatRe, hex)
	r, err := strconv.ParseInt(hex[1:3], 16, 0)
	require.NoError(t, err)
	g, err = strconv.ParseInt(hex[3:5], 16, 0)
	require.NoError(t, err)
	b, err = strconv.ParseInt(hex[5:7], 16, 0)
	require.NoError(t, err)
	return r, g, b
}

func TestDiscreteScale_DefaultTable(t *testing.T) {
	s := defaultDiscrete(t)

	tests := []struct {
		magnitude float64
		expected  string
	}{
		{-1, "#006400"},
		{0, "#006400"},
		{0.5, "#006400"},
		{1, "#008000"},
		{2, "#ADFF2F"},
		{3, "#FFFFCC"},
		{4, "#FFFF66"},
		{4.9, "#FFFF66"},
		{5, "#FFDAB9"},
		{6, "#CD5C5C"},
		{7, "#8B0000"},
		{9.1, "#8B0000"},
	}

	for _, tt := range tests {
		t.Run(strconv.FormatFloat(tt.magnitude, 'f', -1, 64), func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Color(tt.magnitude))
		})
	}
}

func TestDiscreteScale_Saturates(t *testing.T) {
	s := defaultDiscrete(t)

	assert.Equal(t, s.Color(7), s.Color(100))
	assert.Equal(t, s.Color(-5), s.Color(0))
	assert.Equal(t, s.Color(0), s.Color(math.Inf(-1)))
	assert.Equal(t, s.Color(7), s.Color(math.Inf(1)))
}

func TestDiscreteScale_ExclusiveBound(t *testing.T) {
	s, err := NewDiscreteScale(DefaultCategories, DefaultPalette, Exclusive)
	require.NoError(t, err)

	// Exact thresholds fall into the bucket below.
	assert.Equal(t, "#006400", s.Color(1))
	assert.Equal(t, "#008000", s.Color(1.01))
	assert.Equal(t, "#CD5C5C", s.Color(7))
	assert.Equal(t, "#8B0000", s.Color(7.01))
	assert.Equal(t, SchemeDiscreteStrict, s.Scheme())
}

func TestDiscreteScale_NormalizesColorCase(t *testing.T) {
	s, err := NewDiscreteScale([]float64{0, 5}, []string{"#8b0000", " #cd5c5c "}, Inclusive)
	require.NoError(t, err)

	assert.Equal(t, "#8B0000", s.Color(1))
	assert.Equal(t, "#CD5C5C", s.Color(5))
}

func TestDiscreteScale_CopiesInput(t *testing.T) {
	thresholds := []float64{0, 1}
	colors := []string{"#000000", "#FFFFFF"}
	s, err := NewDiscreteScale(thresholds, colors, Inclusive)
	require.NoError(t, err)

	thresholds[1] = 50
	colors[1] = "#123456"

	assert.Equal(t, "#FFFFFF", s.Color(1))
}

func TestDiscreteScale_MonotonicSeverity(t *testing.T) {
	for _, bound := range []Bound{Inclusive, Exclusive} {
		s, err := NewDiscreteScale(DefaultCategories, DefaultPalette, bound)
		require.NoError(t, err)

		prev := -1
		for m := -3.0; m <= 12; m += 0.125 {
			b := s.bucket(m)
			assert.GreaterOrEqual(t, b, prev, "bucket decreased at magnitude %v", m)
			prev = b
		}
	}
}

func TestLinearScale_Endpoints(t *testing.T) {
	s, err := NewLinearScale(8)
	require.NoError(t, err)

	assert.Equal(t, "#00FF00", s.Color(0))
	assert.Equal(t, "#FF0000", s.Color(8))
	assert.Equal(t, "#FFFF00", s.Color(4))

	r, g, b := channels(t, s.Color(4))
	assert.Equal(t, r, g, "magnitude max/2 should balance red and green")
	assert.Zero(t, b)
}

func TestLinearScale_NegativeDoesNotWrap(t *testing.T) {
	s, err := NewLinearScale(8)
	require.NoError(t, err)

	got := s.Color(-1)
	assert.Equal(t, "#00", got[:3], "red channel must clamp to 00")
	assert.Equal(t, "#00FF00", got)
	assert.Equal(t, "#00FF00", s.Color(-1000))
}

func TestLinearScale_Rounding(t *testing.T) {
	s, err := NewLinearScale(8)
	require.NoError(t, err)

	// 2 * 31.875 * 1 = 63.75 -> 64 (0x40); 2 * 31.875 * 7 = 446.25 -> 255.
	assert.Equal(t, "#40FF00", s.Color(1))
	// 2 * 31.875 * 7 = 446.25 -> 255; 2 * 31.875 * 1 = 63.75 -> 64.
	assert.Equal(t, "#FF4000", s.Color(7))
}

func TestLinearScale_MonotonicSeverity(t *testing.T) {
	s, err := NewLinearScale(8)
	require.NoError(t, err)

	prevR, prevG := int64(-1), int64(256)
	for m := -3.0; m <= 12; m += 0.1 {
		r, g, _ := channels(t, s.Color(m))
		assert.GreaterOrEqual(t, r, prevR, "red decreased at magnitude %v", m)
		assert.LessOrEqual(t, g, prevG, "green increased at magnitude %v", m)
		prevR, prevG = r, g
	}
}

func TestGradientScale_Blends(t *testing.T) {
	s, err := NewGradientScale([]float64{0, 10}, []string{"#00FF00", "#FF0000"})
	require.NoError(t, err)

	assert.Equal(t, "#00FF00", s.Color(-1))
	assert.Equal(t, "#00FF00", s.Color(0))
	assert.Equal(t, "#FF0000", s.Color(10))
	assert.Equal(t, "#FF0000", s.Color(50))

	mid := s.Color(5)
	assert.NotEqual(t, "#00FF00", mid)
	assert.NotEqual(t, "#FF0000", mid)
}

func TestColorScales_AlwaysWellFormed(t *testing.T) {
	for _, scheme := range []Scheme{SchemeDiscrete, SchemeDiscreteStrict, SchemeLinear, SchemeGradient} {
		t.Run(string(scheme), func(t *testing.T) {
			s, err := NewColorScale(PresetConfig(scheme, 0))
			require.NoError(t, err)
			assert.Equal(t, scheme, s.Scheme())

			inputs := append([]float64{math.NaN(), math.Inf(1), math.Inf(-1), math.MaxFloat64, -math.MaxFloat64}, probeMagnitudes...)
			for _, m := range inputs {
				assert.Regexp(t, colorFormatRe, s.Color(m), "magnitude %v", m)
			}
		})
	}
}

func TestColorScales_Idempotent(t *testing.T) {
	for _, scheme := range []Scheme{SchemeDiscrete, SchemeLinear, SchemeGradient} {
		s, err := NewColorScale(PresetConfig(scheme, 0))
		require.NoError(t, err)

		for _, m := range probeMagnitudes {
			first := s.Color(m)
			for range 5 {
				assert.Equal(t, first, s.Color(m))
			}
		}
	}
}

func TestNewColorScale_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  ScaleConfig
	}{
		{"unknown scheme", ScaleConfig{Scheme: "rainbow"}},
		{"no thresholds", ScaleConfig{Scheme: SchemeDiscrete}},
		{"length mismatch", ScaleConfig{Scheme: SchemeDiscrete, Thresholds: []float64{0, 1}, Colors: []string{"#000000"}}},
		{"descending thresholds", ScaleConfig{Scheme: SchemeDiscrete, Thresholds: []float64{1, 0}, Colors: []string{"#000000", "#FFFFFF"}}},
		{"duplicate thresholds", ScaleConfig{Scheme: SchemeGradient, Thresholds: []float64{1, 1}, Colors: []string{"#000000", "#FFFFFF"}}},
		{"NaN threshold", ScaleConfig{Scheme: SchemeDiscrete, Thresholds: []float64{math.NaN()}, Colors: []string{"#000000"}}},
		{"short hex", ScaleConfig{Scheme: SchemeDiscrete, Thresholds: []float64{0}, Colors: []string{"#FFF"}}},
		{"named color", ScaleConfig{Scheme: SchemeDiscrete, Thresholds: []float64{0}, Colors: []string{"salmon"}}},
		{"unknown bound", ScaleConfig{Scheme: SchemeDiscrete, Thresholds: []float64{0}, Colors: []string{"#000000"}, Bound: Bound(7)}},
		{"zero max", ScaleConfig{Scheme: SchemeLinear}},
		{"negative max", ScaleConfig{Scheme: SchemeLinear, Max: -8}},
		{"infinite max", ScaleConfig{Scheme: SchemeLinear, Max: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColorScale(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidScale)
		})
	}
}

func TestPresetConfig(t *testing.T) {
	cfg := PresetConfig(SchemeDiscreteStrict, 0)
	assert.Equal(t, Exclusive, cfg.Bound)
	assert.Equal(t, DefaultLinearMax, cfg.Max)
	assert.Equal(t, DefaultCategories, cfg.Thresholds)

	// The preset must not alias the package defaults.
	cfg.Colors[0] = "#FFFFFF"
	assert.Equal(t, "#006400", DefaultPalette[0])

	assert.Equal(t, 10.0, PresetConfig(SchemeLinear, 10).Max)
}
