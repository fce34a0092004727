package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/quake-overlay-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingResolver struct {
	calls int
	place string
	err   error
}

func (m *countingResolver) ResolvePlace(_ context.Context, _, _ float64) (string, error) {
	m.calls++
	return m.place, m.err
}

// --- CachedResolver tests ---

func TestCachedResolver_CacheHit(t *testing.T) {
	inner := &countingResolver{place: "Ridgecrest, California"}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedResolver(inner, 10, metrics)

	p1, err := cached.ResolvePlace(context.Background(), 35.7701, -117.5993)
	require.NoError(t, err)
	// Within the same 0.01° cell.
	p2, err := cached.ResolvePlace(context.Background(), 35.7712, -117.6011)
	require.NoError(t, err)

	assert.Equal(t, "Ridgecrest, California", p1)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")), 0)
}

func TestCachedResolver_DifferentCellsMiss(t *testing.T) {
	inner := &countingResolver{place: "Place"}
	cached := NewCachedResolver(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ResolvePlace(context.Background(), 35.77, -117.60)
	_, _ = cached.ResolvePlace(context.Background(), 36.77, -117.60)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingResolver{}
	cached := NewCachedResolver(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ResolvePlace(context.Background(), 0, 0)
	_, _ = cached.ResolvePlace(context.Background(), 0, 0)
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("boom")
	_, err := cached.ResolvePlace(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, 0, cached.cache.size())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "35.77,-117.60", cacheKey(35.7701, -117.5993))
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string](3)

	c.put("a", "A")
	c.put("b", "B")

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")

	// Access "a" to promote it
	c.get("a")

	// Insert "c", which should evict "b" (LRU) and keep "a"
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A1")
	c.put("a", "A2")

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result)
	assert.Equal(t, 1, c.size())
}

func TestLRUCache_MinimumCapacity(t *testing.T) {
	c := newLRUCache[int](0)

	c.put("a", 1)
	c.put("b", 2)

	_, ok := c.get("a")
	assert.False(t, ok)
	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
