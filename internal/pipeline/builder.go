package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/couchcryptid/quake-overlay-service/internal/observability"
)

// OverlayBuilder turns raw feed collections into a styled Snapshot using
// domain functions with optional place enrichment.
type OverlayBuilder struct {
	scale      domain.ColorScale
	resolver   domain.PlaceResolver
	opts       domain.MarkerOptions
	categories []float64
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewOverlayBuilder creates an OverlayBuilder. Pass a nil resolver to disable
// place enrichment. categories feeds the legend for non-discrete scales.
func NewOverlayBuilder(scale domain.ColorScale, resolver domain.PlaceResolver, categories []float64, logger *slog.Logger, metrics *observability.Metrics) *OverlayBuilder {
	return &OverlayBuilder{
		scale:      scale,
		resolver:   resolver,
		opts:       domain.DefaultMarkerOptions(),
		categories: categories,
		logger:     logger,
		metrics:    metrics,
	}
}

// Scale returns the color scale markers are styled with.
func (b *OverlayBuilder) Scale() domain.ColorScale {
	return b.scale
}

// Build parses both collections and assembles a snapshot. Invalid features are
// skipped, counted and logged; they never fail the build.
func (b *OverlayBuilder) Build(ctx context.Context, quakes domain.QuakeCollection, plates domain.PlateCollection) *domain.Snapshot {
	snap := domain.NewSnapshot(b.scale.Scheme())

	snap.Markers = make([]domain.Marker, 0, len(quakes.Features))
	for _, f := range quakes.Features {
		q, err := domain.ParseEarthquake(f)
		if err != nil {
			b.logger.Warn("skipping earthquake", "error", err)
			snap.SkippedQuakes++
			continue
		}
		q = domain.EnrichPlace(ctx, q, b.resolver, b.logger)
		snap.Markers = append(snap.Markers, domain.BuildMarker(q, b.scale, b.opts))
	}

	layer, errs := domain.BuildPlateLayer(plates.Features)
	for _, err := range errs {
		b.logger.Warn("skipping plate boundary", "error", err)
	}
	snap.Plates = layer
	snap.SkippedPlates = len(errs)

	snap.Legend = domain.BuildLegend(domain.LegendCategories(b.scale, b.categories), b.scale)

	b.metrics.Features.WithLabelValues("earthquakes", "parsed").Add(float64(len(snap.Markers)))
	b.metrics.Features.WithLabelValues("earthquakes", "skipped").Add(float64(snap.SkippedQuakes))
	b.metrics.Features.WithLabelValues("plates", "parsed").Add(float64(len(layer.Boundaries)))
	b.metrics.Features.WithLabelValues("plates", "skipped").Add(float64(snap.SkippedPlates))

	return &snap
}
