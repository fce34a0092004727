package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/couchcryptid/quake-overlay-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-overlay-service/internal/config"
	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/couchcryptid/quake-overlay-service/internal/observability"
	"github.com/couchcryptid/quake-overlay-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var (
		outFile string
		layer   string
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch both feeds once and write a styled GeoJSON layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if layer != domain.OverlayEarthquakes && layer != domain.OverlayPlates {
				return fmt.Errorf("unknown layer %q", layer)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var s *spinner.Spinner
			if !quiet {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
				s.Suffix = " Fetching earthquake and plate boundary feeds..."
				s.Start()
			}

			snap, err := buildSnapshot(cmd.Context(), cfg)
			if s != nil {
				s.Stop()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := writeLayer(out, snap, layer); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stderr, "%d markers, %d plate boundaries (%d quakes skipped)\n",
				len(snap.Markers), len(snap.Plates.Boundaries), snap.SkippedQuakes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&layer, "layer", domain.OverlayEarthquakes, "Layer to write: Earthquakes or Plates")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Disable progress spinner")
	return cmd
}

// buildSnapshot runs a single refresh without publication or place lookup.
func buildSnapshot(ctx context.Context, cfg *config.Config) (*domain.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	scale, err := domain.NewColorScale(cfg.Scale)
	if err != nil {
		return nil, err
	}
	source := feed.NewClient(cfg.EarthquakeFeedURL, cfg.PlateBoundariesURL, cfg.FetchTimeout, metrics, logger)
	builder := pipeline.NewOverlayBuilder(scale, nil, cfg.LegendCategories, logger, metrics)
	refresher := pipeline.New(source, builder, nil, logger, metrics, cfg.RefreshInterval)
	return refresher.RefreshOnce(ctx)
}

func writeLayer(w io.Writer, snap *domain.Snapshot, layer string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if layer == domain.OverlayPlates {
		return enc.Encode(snap.PlateGeoJSON())
	}
	return enc.Encode(snap.EarthquakeGeoJSON())
}
