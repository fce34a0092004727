package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/couchcryptid/quake-overlay-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	c := NewClient(testToken, 5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = baseURL
	return c
}

func TestClient_ResolvePlace_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "-149.900000,61.200000")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{PlaceName: "Anchorage, Alaska, United States", Text: "Anchorage", Relevance: 1},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	place, err := c.ResolvePlace(context.Background(), 61.2, -149.9)
	require.NoError(t, err)

	assert.Equal(t, "Anchorage, Alaska, United States", place)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("success")), 0)
}

func TestClient_ResolvePlace_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	place, err := c.ResolvePlace(context.Background(), -6.5, 132.3)
	require.NoError(t, err)
	assert.Empty(t, place)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("empty")), 0)
}

func TestClient_ResolvePlace_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ResolvePlace(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_ResolvePlace_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.ResolvePlace(context.Background(), 0, 0)
	require.Error(t, err)
}

func TestBaseLayers(t *testing.T) {
	layers := BaseLayers("pk.a b", DefaultStyles)

	require.Len(t, layers, 3)
	assert.Equal(t, "Satellite", layers[0].Name)
	assert.Equal(t, "https://api.mapbox.com/styles/v1/mapbox/satellite-streets-v11/tiles/{z}/{x}/{y}?access_token=pk.a+b", layers[0].TileURL)
	assert.Equal(t, "Grayscale", layers[1].Name)
	assert.Contains(t, layers[1].TileURL, "mapbox/light-v10")
	assert.Contains(t, layers[2].TileURL, "mapbox/outdoors-v11")
	assert.Equal(t, 18, layers[2].MaxZoom)
	assert.Contains(t, layers[0].Attribution, "OpenStreetMap")
}

func TestViewLayers(t *testing.T) {
	assert.Equal(t, []domain.BaseLayer{OpenStreetMapLayer}, ViewLayers(""))

	layers := ViewLayers("pk.token")
	require.Len(t, layers, 3)
	assert.Contains(t, layers[0].TileURL, "access_token=pk.token")
}
