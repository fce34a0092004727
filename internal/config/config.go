package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

const (
	DefaultEarthquakeFeedURL  = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultPlateBoundariesURL = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"

	maxRefreshInterval = 24 * time.Hour
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	EarthquakeFeedURL  string
	PlateBoundariesURL string
	FetchTimeout       time.Duration
	RefreshInterval    time.Duration

	// Color scale and legend.
	Scale            domain.ScaleConfig
	LegendCategories []float64

	// Mapbox base tiles and reverse geocoding.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Optional marker publication.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// variables already in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	if refreshInterval > maxRefreshInterval {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: must be at most %s", maxRefreshInterval)
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	scale, err := parseScale()
	if err != nil {
		return nil, err
	}

	legend := append([]float64(nil), domain.DefaultCategories...)
	if v := os.Getenv("LEGEND_CATEGORIES"); v != "" {
		legend, err = parseFloats("LEGEND_CATEGORIES", v)
		if err != nil {
			return nil, err
		}
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EarthquakeFeedURL:  sharedcfg.EnvOrDefault("EARTHQUAKE_FEED_URL", DefaultEarthquakeFeedURL),
		PlateBoundariesURL: sharedcfg.EnvOrDefault("PLATE_BOUNDARIES_URL", DefaultPlateBoundariesURL),
		FetchTimeout:       fetchTimeout,
		RefreshInterval:    refreshInterval,

		Scale:            scale,
		LegendCategories: legend,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-markers"),
	}

	if cfg.EarthquakeFeedURL == "" {
		return nil, errors.New("EARTHQUAKE_FEED_URL is required")
	}
	if cfg.PlateBoundariesURL == "" {
		return nil, errors.New("PLATE_BOUNDARIES_URL is required")
	}
	if len(cfg.LegendCategories) == 0 {
		return nil, errors.New("LEGEND_CATEGORIES must not be empty")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// parseScale assembles the color scale configuration and validates it by
// building the scale once, so a bad table fails at startup.
func parseScale() (domain.ScaleConfig, error) {
	scheme := domain.Scheme(strings.ToLower(sharedcfg.EnvOrDefault("COLOR_SCHEME", string(domain.SchemeDiscrete))))

	linearMax := domain.DefaultLinearMax
	if v := os.Getenv("COLOR_LINEAR_MAX"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return domain.ScaleConfig{}, errors.New("invalid COLOR_LINEAR_MAX: must be a positive number")
		}
		linearMax = f
	}

	cfg := domain.PresetConfig(scheme, linearMax)
	if v := os.Getenv("COLOR_THRESHOLDS"); v != "" {
		thresholds, err := parseFloats("COLOR_THRESHOLDS", v)
		if err != nil {
			return domain.ScaleConfig{}, err
		}
		cfg.Thresholds = thresholds
	}
	if v := os.Getenv("COLOR_PALETTE"); v != "" {
		cfg.Colors = splitList(v)
	}

	if _, err := domain.NewColorScale(cfg); err != nil {
		return domain.ScaleConfig{}, fmt.Errorf("invalid COLOR_SCHEME/COLOR_THRESHOLDS/COLOR_PALETTE: %w", err)
	}
	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseFloats(key, value string) ([]float64, error) {
	parts := splitList(value)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q is not a number", key, p)
		}
		out = append(out, f)
	}
	return out, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
