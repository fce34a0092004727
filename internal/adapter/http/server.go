package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/map.html
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html"))

// SnapshotSource exposes the snapshot currently being served.
type SnapshotSource interface {
	Latest() *domain.Snapshot
}

// Options configures the map and API routes.
type Options struct {
	Addr  string
	Scale domain.ColorScale
	View  domain.MapView
}

// Server exposes the map page, the overlay API, and health, readiness and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotSource
	scale      domain.ColorScale
	view       domain.MapView
	logger     *slog.Logger
}

// NewServer wires every route onto a chi router.
func NewServer(opts Options, snapshots SnapshotSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		scale:     opts.Scale,
		view:      opts.View,
		logger:    logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/", s.handleMap)
	r.Route("/api", func(r chi.Router) {
		r.Get("/earthquakes", s.handleEarthquakes)
		r.Get("/plates", s.handlePlates)
		r.Get("/legend", s.handleLegend)
		r.Get("/view", s.handleView)
		r.Get("/color", s.handleColor)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type mapPage struct {
	Title string
	View  domain.MapView
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := mapTemplate.Execute(w, mapPage{Title: "Earthquakes and tectonic plates", View: s.view}); err != nil {
		s.logger.Error("render map page", "error", err)
	}
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.latest(w)
	if !ok {
		return
	}
	w.Header().Set("X-Snapshot-Id", snap.ID)
	writeJSON(w, http.StatusOK, snap.EarthquakeGeoJSON())
}

func (s *Server) handlePlates(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.latest(w)
	if !ok {
		return
	}
	w.Header().Set("X-Snapshot-Id", snap.ID)
	writeJSON(w, http.StatusOK, snap.PlateGeoJSON())
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.latest(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Legend)
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view)
}

type colorResponse struct {
	Magnitude float64       `json:"magnitude"`
	Color     string        `json:"color"`
	Scheme    domain.Scheme `json:"scheme"`
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("magnitude")
	m, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(m) || math.IsInf(m, 0) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "magnitude must be a finite number, got " + strconv.Quote(raw),
		})
		return
	}
	writeJSON(w, http.StatusOK, colorResponse{Magnitude: m, Color: s.scale.Color(m), Scheme: s.scale.Scheme()})
}

// latest writes a 503 when no snapshot has been built yet.
func (s *Server) latest(w http.ResponseWriter) (*domain.Snapshot, bool) {
	snap := s.snapshots.Latest()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "overlay data not loaded yet"})
		return nil, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort API response
}
