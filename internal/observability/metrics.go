package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_overlay"

// Metrics holds the Prometheus counters, histograms, and gauges for the overlay service.
type Metrics struct {
	// Feed fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: dataset={earthquakes,plates}, outcome={success,not_modified,error}
	FetchDuration *prometheus.HistogramVec // labels: dataset
	Features      *prometheus.CounterVec   // labels: dataset, result={parsed,skipped}

	// Refresh loop metrics.
	RefreshRunning    prometheus.Gauge
	RefreshErrors     prometheus.Counter
	RefreshDuration   prometheus.Histogram
	SnapshotTimestamp prometheus.Gauge
	SnapshotMarkers   prometheus.Gauge

	// Publication metrics.
	MarkersPublished prometheus.Counter
	PublishErrors    prometheus.Counter

	// Place lookup metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.Features,
		m.RefreshRunning,
		m.RefreshErrors,
		m.RefreshDuration,
		m.SnapshotTimestamp,
		m.SnapshotMarkers,
		m.MarkersPublished,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Dataset fetches by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Dataset fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		Features: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_total",
			Help:      "Features seen per dataset, parsed or skipped.",
		}, []string{"dataset", "result"}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_errors_total",
			Help:      "Refresh cycles that failed to produce a snapshot.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-build-publish cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SnapshotTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_generated_timestamp_seconds",
			Help:      "Unix time the current snapshot was generated.",
		}),
		SnapshotMarkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_markers",
			Help:      "Number of earthquake markers in the current snapshot.",
		}),
		MarkersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_published_total",
			Help:      "Markers written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed marker batch publications.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Place cache lookups by result.",
		}, []string{"result"}),
	}
}
