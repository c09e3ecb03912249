package amap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcost/tripcost/internal/trip"
)

const drivingPayload = `{
	"status": "1",
	"info": "OK",
	"infocode": "10000",
	"route": {
		"taxi_cost": "32.5",
		"paths": [
			{
				"distance": "10000",
				"cost": {"duration": "1200", "tolls": "15"},
				"steps": [{}, {}, {}]
			}
		]
	}
}`

const transitPayload = `{
	"status": "1",
	"info": "OK",
	"infocode": "10000",
	"route": {
		"distance": "9000",
		"transits": [
			{
				"distance": "8000",
				"walking_distance": "1200",
				"cost": {"duration": "1800", "transit_fee": "4.5"},
				"segments": [{}, {}]
			}
		]
	}
}`

const walkingPayload = `{
	"status": "1",
	"info": "OK",
	"infocode": "10000",
	"route": {
		"paths": [
			{
				"distance": "2500",
				"cost": {"duration": "1800"},
				"steps": [{}]
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		Key:        "test-key",
		BaseURL:    server.URL,
		CityCode:   "010",
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
	})
}

func TestClient_FetchRoute_Driving(t *testing.T) {
	var gotURL atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.String())
		w.Write([]byte(drivingPayload))
	})

	summary, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)

	assert.Equal(t, 10000.0, summary.DistanceMeters)
	assert.Equal(t, 1200.0, summary.DurationSeconds)
	assert.Equal(t, 32.5, summary.Fare)
	assert.Equal(t, 15.0, summary.Tolls)
	assert.Equal(t, 3, summary.SegmentCount)

	u := gotURL.Load().(string)
	assert.Contains(t, u, "/v5/direction/driving")
	assert.Contains(t, u, "origin=116.48%2C39.99")
	assert.Contains(t, u, "destination=116.43%2C39.92")
	assert.Contains(t, u, "key=test-key")
	assert.Contains(t, u, "show_fields=cost")
}

func TestClient_FetchRoute_Transit(t *testing.T) {
	var gotURL atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.String())
		w.Write([]byte(transitPayload))
	})

	summary, err := client.FetchRoute(context.Background(), trip.ModeTransit, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)

	assert.Equal(t, 8000.0, summary.DistanceMeters)
	assert.Equal(t, 1800.0, summary.DurationSeconds)
	assert.Equal(t, 4.5, summary.Fare)
	assert.Equal(t, 1200.0, summary.WalkingMeters)
	assert.Equal(t, 2, summary.SegmentCount)

	u := gotURL.Load().(string)
	assert.Contains(t, u, "/v5/direction/transit/integrated")
	assert.Contains(t, u, "city1=010")
	assert.Contains(t, u, "city2=010", "destination city falls back to the origin city")
}

func TestClient_FetchRoute_Walking(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(walkingPayload))
	})

	summary, err := client.FetchRoute(context.Background(), trip.ModeWalking, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)

	assert.Equal(t, 2500.0, summary.DistanceMeters)
	assert.Equal(t, 1800.0, summary.DurationSeconds)
}

func TestClient_FetchRoute_DurationFallsBackToPathLevel(t *testing.T) {
	// Some upstream variants place duration on the path instead of cost.
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"1","route":{"paths":[{"distance":"4000","duration":"960"}]}}`))
	})

	summary, err := client.FetchRoute(context.Background(), trip.ModeBicycling, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)
	assert.Equal(t, 960.0, summary.DurationSeconds)
}

func TestClient_FetchRoute_NoPathsIsEmptySummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"1","info":"OK","route":{"paths":[]}}`))
	})

	summary, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)
	assert.Zero(t, summary)
}

func TestClient_FetchRoute_UpstreamRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"0","info":"INVALID_USER_KEY","infocode":"10001"}`))
	})

	_, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.Error(t, err)
	assert.True(t, errors.Is(err, trip.ErrUpstreamRejected))

	var tripErr *trip.Error
	require.True(t, errors.As(err, &tripErr))
	assert.Equal(t, "10001", tripErr.Code)
	assert.Equal(t, "INVALID_USER_KEY", tripErr.Message)
}

func TestClient_FetchRoute_MalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.Error(t, err)
	assert.True(t, errors.Is(err, trip.ErrUpstreamUnavailable))

	var tripErr *trip.Error
	require.True(t, errors.As(err, &tripErr))
	assert.Equal(t, "MALFORMED_PAYLOAD", tripErr.Code)
}

func TestClient_FetchRoute_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(drivingPayload))
	})

	summary, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, 10000.0, summary.DistanceMeters)
}

func TestClient_FetchRoute_ExhaustedRetriesSurfaceStatus(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.Error(t, err)
	assert.True(t, errors.Is(err, trip.ErrUpstreamUnavailable))

	var tripErr *trip.Error
	require.True(t, errors.As(err, &tripErr))
	assert.Equal(t, "HTTP_500", tripErr.Code)

	// MaxRetries 2: first attempt plus two retries.
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_FetchRaw(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(drivingPayload))
	})

	body, err := client.FetchRaw(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.NoError(t, err)
	assert.JSONEq(t, drivingPayload, string(body))
}

func TestClient_UnreachableHost(t *testing.T) {
	client := NewClient(ClientConfig{
		Key:        "test-key",
		BaseURL:    "http://127.0.0.1:1",
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    100 * time.Millisecond,
	})

	_, err := client.FetchRoute(context.Background(), trip.ModeDriving, "116.48,39.99", "116.43,39.92")
	require.Error(t, err)
	assert.True(t, errors.Is(err, trip.ErrUpstreamUnavailable))

	var tripErr *trip.Error
	require.True(t, errors.As(err, &tripErr))
	assert.Equal(t, "REQUEST_FAILED", tripErr.Code)
}
