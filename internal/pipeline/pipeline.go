package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/couchcryptid/quake-overlay-service/internal/observability"
)

// Source fetches the two overlay datasets.
type Source interface {
	FetchEarthquakes(ctx context.Context) (domain.QuakeCollection, error)
	FetchPlates(ctx context.Context) (domain.PlateCollection, error)
}

// Publisher forwards the markers of a fresh snapshot downstream.
type Publisher interface {
	Publish(ctx context.Context, snap *domain.Snapshot) error
}

const initialBackoff = 200 * time.Millisecond

// Refresher orchestrates the fetch-build-publish loop and owns the current
// snapshot.
type Refresher struct {
	source    Source
	builder   *OverlayBuilder
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	interval  time.Duration
	latest    atomic.Pointer[domain.Snapshot]
}

// New creates a Refresher. Pass a nil publisher to skip publication.
func New(source Source, builder *OverlayBuilder, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Refresher {
	return &Refresher{
		source:    source,
		builder:   builder,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// Latest returns the current snapshot, or nil before the first successful
// refresh. Callers must not modify it.
func (r *Refresher) Latest() *domain.Snapshot {
	return r.latest.Load()
}

// CheckReadiness returns nil once a snapshot is being served.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if r.latest.Load() == nil {
		return errors.New("no overlay snapshot has been built yet")
	}
	return nil
}

// RefreshOnce fetches both datasets, builds a snapshot and stores it.
// Publication failures are logged and counted but do not fail the refresh.
func (r *Refresher) RefreshOnce(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()

	quakes, err := r.source.FetchEarthquakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh earthquakes: %w", err)
	}
	plates, err := r.source.FetchPlates(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh plates: %w", err)
	}

	snap := r.builder.Build(ctx, quakes, plates)
	r.latest.Store(snap)

	r.metrics.SnapshotTimestamp.Set(float64(snap.GeneratedAt.Unix()))
	r.metrics.SnapshotMarkers.Set(float64(len(snap.Markers)))
	r.logger.Info("snapshot built",
		"snapshot_id", snap.ID,
		"markers", len(snap.Markers),
		"plates", len(snap.Plates.Boundaries),
		"skipped_quakes", snap.SkippedQuakes,
		"skipped_plates", snap.SkippedPlates,
	)

	r.publish(ctx, snap)
	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	return snap, nil
}

func (r *Refresher) publish(ctx context.Context, snap *domain.Snapshot) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, snap); err != nil {
		r.logger.Error("publish markers failed", "error", err, "snapshot_id", snap.ID)
		r.metrics.PublishErrors.Inc()
		return
	}
	r.metrics.MarkersPublished.Add(float64(len(snap.Markers)))
}

// Run refreshes immediately, then every interval, until the context is
// cancelled. Failed refreshes are retried with exponential backoff starting at
// 200ms and capped at the refresh interval.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefreshRunning.Set(1)
	defer r.metrics.RefreshRunning.Set(0)

	backoff := initialBackoff
	for {
		wait := r.interval
		if _, err := r.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("refresher stopping", "reason", ctx.Err())
				return nil
			}
			r.logger.Error("refresh failed", "error", err, "retry_in", backoff)
			r.metrics.RefreshErrors.Inc()
			wait = backoff
			backoff = nextBackoff(backoff, r.interval)
		} else {
			backoff = initialBackoff
		}

		if !sleepWithContext(ctx, wait) {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
