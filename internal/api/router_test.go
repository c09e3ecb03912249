package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcost/tripcost/internal/resilience"
	"github.com/tripcost/tripcost/internal/trip"
)

type stubDirections struct {
	summary trip.Summary
}

func (s *stubDirections) FetchRoute(_ context.Context, _ trip.Mode, _, _ string) (trip.Summary, error) {
	return s.summary, nil
}

func (s *stubDirections) FetchRaw(_ context.Context, _ trip.Mode, _, _ string) ([]byte, error) {
	return []byte(`{"status":"1"}`), nil
}

func (s *stubDirections) Name() string { return "stub" }

func newTestRouter() http.Handler {
	stub := &stubDirections{
		summary: trip.Summary{DistanceMeters: 10000, DurationSeconds: 1200},
	}
	trips := trip.NewService(trip.ServiceConfig{
		Directions: stub,
		CostModel:  trip.NewCostModel(trip.DefaultCostModelConfig()),
		Cache:      trip.NewCache(trip.CacheConfig{TTL: time.Minute}),
		Pricing:    trip.NewPricingStore(trip.PricingConfig{SessionTTL: time.Minute}),
	})

	return NewRouter(RouterConfig{
		Version:   "test",
		BuildTime: "now",
		Logger:    zerolog.Nop(),
		Trips:     trips,
		Raw:       stub,
		Registry:  resilience.NewRegistry(),
	})
}

func TestRouter_Status(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "tripcost-api", payload["service"])
	assert.Equal(t, "test", payload["version"])
	assert.Equal(t, "stub", payload["provider"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_RouteEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/route?origin=116.48,39.99&destination=116.43,39.92&mode=walking", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"1"`)
	assert.Contains(t, rec.Body.String(), `"type":"walking"`)
}

func TestRouter_CacheLifecycle(t *testing.T) {
	router := newTestRouter()

	// Seed the cache through the route endpoint.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/route?origin=116.48,39.99&destination=116.43,39.92&mode=driving", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats trip.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalEntries)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalEntries)
}

func TestRouter_UnknownPathIs404(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
