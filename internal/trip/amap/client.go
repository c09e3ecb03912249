// Package amap provides a client for the AMap v5 directions API.
package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcost/tripcost/internal/resilience"
	"github.com/tripcost/tripcost/internal/trip"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "amap"

	// DefaultBaseURL is the AMap REST API base URL.
	DefaultBaseURL = "https://restapi.amap.com"

	// DefaultTimeout is the default per-attempt request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the AMap client.
type ClientConfig struct {
	// Key is the AMap API key (required).
	Key string

	// BaseURL is the API base URL (optional, defaults to the AMap API).
	BaseURL string

	// CityCode and DestCityCode scope transit queries (city1/city2 params).
	CityCode     string
	DestCityCode string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a resilient client with bounded retries is created.
	HTTPClient HTTPDoer

	// Timeout is the per-attempt request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// MaxRetries and RetryDelay tune the default resilient client.
	MaxRetries uint64
	RetryDelay time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an AMap directions API client.
type Client struct {
	key          string
	baseURL      string
	cityCode     string
	destCityCode string
	httpClient   HTTPDoer
	logger       zerolog.Logger
}

// NewClient creates a new AMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.MaxRetries != 0 {
			clientCfg.MaxRetries = cfg.MaxRetries
		}
		if cfg.RetryDelay != 0 {
			clientCfg.RetryDelay = cfg.RetryDelay
		}
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		key:          cfg.Key,
		baseURL:      baseURL,
		cityCode:     cfg.CityCode,
		destCityCode: cfg.DestCityCode,
		httpClient:   httpClient,
		logger:       cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchRoute retrieves the route summary for one upstream mode. The mode must
// already be resolved to its upstream form (taxi→driving, ebike→bicycling).
func (c *Client) FetchRoute(ctx context.Context, mode trip.Mode, origin, destination string) (trip.Summary, error) {
	body, err := c.fetch(ctx, mode, origin, destination)
	if err != nil {
		return trip.Summary{}, err
	}

	switch mode {
	case trip.ModeDriving:
		return c.parseDriving(body)
	case trip.ModeTransit:
		return c.parseTransit(body)
	default:
		return c.parsePaths(body)
	}
}

// FetchRaw retrieves the unparsed upstream payload, for the debug
// passthrough endpoint.
func (c *Client) FetchRaw(ctx context.Context, mode trip.Mode, origin, destination string) ([]byte, error) {
	return c.fetch(ctx, mode, origin, destination)
}

func (c *Client) fetch(ctx context.Context, mode trip.Mode, origin, destination string) ([]byte, error) {
	reqURL := c.requestURL(mode, origin, destination)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Str("mode", string(mode)).
		Str("origin", origin).
		Str("destination", destination).
		Msg("requesting directions from AMap")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &trip.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      trip.ErrUpstreamUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &trip.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("directions provider returned status %d", resp.StatusCode),
			Err:      trip.ErrUpstreamUnavailable,
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &trip.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_PAYLOAD",
			Message:  "directions provider returned an unparsable payload",
			Err:      trip.ErrUpstreamUnavailable,
		}
	}
	if env.Status != "1" {
		msg := env.Info
		if msg == "" {
			msg = "directions provider reported a failure"
		}
		return nil, &trip.Error{
			Provider: ProviderName,
			Code:     env.InfoCode,
			Message:  msg,
			Err:      trip.ErrUpstreamRejected,
		}
	}

	return body, nil
}

// requestURL builds the mode-specific v5 direction URL.
func (c *Client) requestURL(mode trip.Mode, origin, destination string) string {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("key", c.key)
	q.Set("show_fields", "cost")

	path := "/v5/direction/" + string(mode)
	if mode == trip.ModeTransit {
		path = "/v5/direction/transit/integrated"
		if c.cityCode != "" {
			q.Set("city1", c.cityCode)
		}
		dest := c.destCityCode
		if dest == "" {
			dest = c.cityCode
		}
		if dest != "" {
			q.Set("city2", dest)
		}
	}

	return c.baseURL + path + "?" + q.Encode()
}

func (c *Client) parseDriving(body []byte) (trip.Summary, error) {
	var resp drivingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return trip.Summary{}, fmt.Errorf("decoding driving response: %w", err)
	}
	if len(resp.Route.Paths) == 0 {
		// No candidate path is a valid "no route" outcome.
		return trip.Summary{}, nil
	}

	p := resp.Route.Paths[0]
	return trip.Summary{
		DistanceMeters:  atof(p.Distance),
		DurationSeconds: firstNonZero(atof(p.Cost.Duration), atof(p.Duration)),
		Fare:            atof(resp.Route.TaxiCost),
		Tolls:           atof(p.Cost.Tolls),
		SegmentCount:    len(p.Steps),
	}, nil
}

func (c *Client) parsePaths(body []byte) (trip.Summary, error) {
	var resp pathsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return trip.Summary{}, fmt.Errorf("decoding paths response: %w", err)
	}
	if len(resp.Route.Paths) == 0 {
		return trip.Summary{}, nil
	}

	p := resp.Route.Paths[0]
	return trip.Summary{
		DistanceMeters:  atof(p.Distance),
		DurationSeconds: firstNonZero(atof(p.Cost.Duration), atof(p.Duration)),
		SegmentCount:    len(p.Steps),
	}, nil
}

func (c *Client) parseTransit(body []byte) (trip.Summary, error) {
	var resp transitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return trip.Summary{}, fmt.Errorf("decoding transit response: %w", err)
	}
	if len(resp.Route.Transits) == 0 {
		return trip.Summary{}, nil
	}

	t := resp.Route.Transits[0]
	return trip.Summary{
		DistanceMeters:  firstNonZero(atof(t.Distance), atof(resp.Route.Distance)),
		DurationSeconds: atof(t.Cost.Duration),
		Fare:            atof(t.Cost.TransitFee),
		WalkingMeters:   atof(t.WalkingDistance),
		SegmentCount:    len(t.Segments),
	}, nil
}
