package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/couchcryptid/quake-overlay-service/internal/observability"
)

const (
	DatasetEarthquakes = "earthquakes"
	DatasetPlates      = "plates"

	maxBodyBytes = 64 << 20
)

// Client fetches the earthquake and plate boundary GeoJSON datasets.
// It implements pipeline.Source.
//
// Responses are remembered per URL so that later fetches can send
// If-None-Match / If-Modified-Since and reuse the body on 304.
type Client struct {
	httpClient *http.Client
	quakeURL   string
	plateURL   string
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu        sync.Mutex
	validated map[string]cachedResponse
}

type cachedResponse struct {
	etag         string
	lastModified string
	body         []byte
}

// NewClient creates a feed client with the given per-request timeout.
func NewClient(quakeURL, plateURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		quakeURL:   quakeURL,
		plateURL:   plateURL,
		metrics:    metrics,
		logger:     logger,
		validated:  make(map[string]cachedResponse),
	}
}

// FetchEarthquakes downloads and decodes the USGS summary feed.
func (c *Client) FetchEarthquakes(ctx context.Context) (domain.QuakeCollection, error) {
	return fetchCollection[domain.QuakeFeature](ctx, c, DatasetEarthquakes, c.quakeURL)
}

// FetchPlates downloads and decodes the plate boundary dataset.
func (c *Client) FetchPlates(ctx context.Context) (domain.PlateCollection, error) {
	return fetchCollection[domain.PlateFeature](ctx, c, DatasetPlates, c.plateURL)
}

func fetchCollection[F any](ctx context.Context, c *Client, dataset, url string) (domain.FeatureCollection[F], error) {
	body, err := c.get(ctx, dataset, url)
	if err != nil {
		return domain.FeatureCollection[F]{}, err
	}

	var coll domain.FeatureCollection[F]
	if err := json.Unmarshal(body, &coll); err != nil {
		return domain.FeatureCollection[F]{}, fmt.Errorf("decode %s feed: %w", dataset, err)
	}
	if coll.Type != "FeatureCollection" {
		return domain.FeatureCollection[F]{}, fmt.Errorf("decode %s feed: unexpected GeoJSON type %q", dataset, coll.Type)
	}
	return coll, nil
}

func (c *Client) get(ctx context.Context, dataset, url string) ([]byte, error) {
	start := time.Now()
	defer func() {
		c.metrics.FetchDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", dataset, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	c.mu.Lock()
	prev, havePrev := c.validated[url]
	c.mu.Unlock()
	if havePrev {
		if prev.etag != "" {
			req.Header.Set("If-None-Match", prev.etag)
		}
		if prev.lastModified != "" {
			req.Header.Set("If-Modified-Since", prev.lastModified)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(dataset, "error").Inc()
		return nil, fmt.Errorf("%s feed request: %w", dataset, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && havePrev:
		c.metrics.FetchRequests.WithLabelValues(dataset, "not_modified").Inc()
		c.logger.Debug("feed not modified", "dataset", dataset)
		return prev.body, nil
	case resp.StatusCode != http.StatusOK:
		c.metrics.FetchRequests.WithLabelValues(dataset, "error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s feed: status %d: %s", dataset, resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(dataset, "error").Inc()
		return nil, fmt.Errorf("read %s feed: %w", dataset, err)
	}
	c.metrics.FetchRequests.WithLabelValues(dataset, "success").Inc()

	etag, lastModified := resp.Header.Get("ETag"), resp.Header.Get("Last-Modified")
	if etag != "" || lastModified != "" {
		c.mu.Lock()
		c.validated[url] = cachedResponse{etag: etag, lastModified: lastModified, body: body}
		c.mu.Unlock()
	}
	return body, nil
}
