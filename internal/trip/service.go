package trip

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Directions fetches route summaries from the upstream provider.
type Directions interface {
	// FetchRoute retrieves the summary for one upstream mode. The mode is
	// already resolved to its upstream form.
	FetchRoute(ctx context.Context, mode Mode, origin, destination string) (Summary, error)
	// Name returns the provider identifier for logging.
	Name() string
}

// ServiceConfig holds configuration for the route service.
type ServiceConfig struct {
	// Directions is the upstream provider client.
	Directions Directions

	// CostModel converts summaries into results.
	CostModel *CostModel

	// Cache is the route result cache.
	Cache *Cache

	// Pricing is the session congestion-price store.
	Pricing *PricingStore

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service orchestrates a route request: validate, consult the cache, fetch
// from upstream on a miss, evaluate the cost model, and store the result.
type Service struct {
	directions Directions
	costModel  *CostModel
	cache      *Cache
	pricing    *PricingStore
	logger     zerolog.Logger
	validate   *validator.Validate
	startedAt  time.Time

	totalRequests atomic.Int64
	cacheHits     atomic.Int64
	upstreamCalls atomic.Int64
	failures      atomic.Int64
}

// NewService creates a route service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		directions: cfg.Directions,
		costModel:  cfg.CostModel,
		cache:      cfg.Cache,
		pricing:    cfg.Pricing,
		logger:     cfg.Logger,
		validate:   validator.New(),
		startedAt:  time.Now(),
	}
}

// Route answers one route query. Validation failures and exhausted upstream
// errors are returned as errors; an itinerary the cost model cannot price
// comes back as a normal Result with Available=false.
func (s *Service) Route(ctx context.Context, q Query) (Result, error) {
	s.totalRequests.Add(1)

	if err := s.validateQuery(q); err != nil {
		s.failures.Add(1)
		return Result{}, err
	}

	key := Fingerprint(q)
	if res, ok := s.cache.Get(key); ok {
		s.cacheHits.Add(1)
		s.logger.Debug().
			Str("cache_key", key).
			Msg("route cache hit")
		return res, nil
	}

	s.upstreamCalls.Add(1)
	summary, err := s.directions.FetchRoute(ctx, q.Mode.Upstream(), q.Origin, q.Destination)
	if err != nil {
		s.failures.Add(1)
		s.logger.Error().Err(err).
			Str("mode", string(q.Mode)).
			Str("origin", q.Origin).
			Str("destination", q.Destination).
			Str("provider", s.directions.Name()).
			Msg("failed to fetch route from provider")
		return Result{}, err
	}

	base := s.pricing.GetOrCreate(q.SessionID, q.CongestionRange)
	res := s.costModel.Evaluate(q, summary, base)

	// Unavailable results are cached too: re-asking upstream within the TTL
	// would not make the itinerary any more complete.
	s.cache.Put(key, res)

	s.logger.Debug().
		Str("cache_key", key).
		Bool("available", res.Available).
		Msg("computed and cached route result")

	return res, nil
}

func (s *Service) validateQuery(q Query) error {
	if err := s.validate.Struct(q); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			return &Error{
				Code:    "MISSING_PARAMETER",
				Message: "missing required parameter: " + fe.Field(),
				Err:     ErrMissingParameter,
			}
		}
		return err
	}

	if _, _, err := ParseCoordinate(q.Origin); err != nil {
		return &Error{
			Code:    "INVALID_ORIGIN",
			Message: "invalid origin coordinates",
			Err:     ErrInvalidCoordinates,
		}
	}
	if _, _, err := ParseCoordinate(q.Destination); err != nil {
		return &Error{
			Code:    "INVALID_DESTINATION",
			Message: "invalid destination coordinates",
			Err:     ErrInvalidCoordinates,
		}
	}
	return nil
}

// Stats is a snapshot of service traffic counters.
type Stats struct {
	UptimeSeconds  int64   `json:"uptime_seconds"`
	TotalRequests  int64   `json:"total_requests"`
	CacheHits      int64   `json:"cache_hits"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
	UpstreamCalls  int64   `json:"upstream_calls"`
	Failures       int64   `json:"failures"`
	CacheEntries   int     `json:"cache_entries"`
	SessionRecords int     `json:"session_records"`
}

// Stats returns a traffic snapshot for the ops endpoint.
func (s *Service) Stats() Stats {
	total := s.totalRequests.Load()
	hits := s.cacheHits.Load()

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
		TotalRequests:  total,
		CacheHits:      hits,
		CacheHitRate:   hitRate,
		UpstreamCalls:  s.upstreamCalls.Load(),
		Failures:       s.failures.Load(),
		CacheEntries:   s.cache.Len(),
		SessionRecords: s.pricing.Len(),
	}
}

// ClearCache empties the route cache.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// CacheStats returns a snapshot of the route cache.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// ProviderName returns the upstream provider identifier.
func (s *Service) ProviderName() string {
	return s.directions.Name()
}
