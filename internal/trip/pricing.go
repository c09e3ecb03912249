package trip

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PricingConfig holds configuration for the session pricing store.
type PricingConfig struct {
	// SessionTTL is how long a session baseline stays pinned (default: 30 minutes).
	// Expiry is fixed from creation, not sliding: a long-lived session gets a
	// fresh draw after the TTL even if it kept making requests.
	SessionTTL time.Duration

	// SweepInterval is how often expired records are removed (default: 5 minutes).
	SweepInterval time.Duration

	// Tier upper bounds. The tiers partition (0, HighMax] into non-overlapping
	// intervals: Low (0, LowMax], Mid (LowMax, MidMax], High (MidMax, HighMax].
	// Defaults: 0.5, 1.0, 1.5.
	LowMax  float64
	MidMax  float64
	HighMax float64

	// Rand returns a uniform value in [0, 1). Defaults to math/rand; tests
	// inject a deterministic source.
	Rand func() float64

	// Logger for store operations.
	Logger zerolog.Logger
}

// PricingStore produces congestion-price baselines: stable within a session,
// fresh across sessions.
type PricingStore struct {
	sessionTTL    time.Duration
	sweepInterval time.Duration
	lowMax        float64
	midMax        float64
	highMax       float64
	randFn        func() float64
	logger        zerolog.Logger

	mu      sync.Mutex
	records map[pricingKey]*pricingRecord
}

type pricingKey struct {
	sessionID string
	tier      CongestionRange
}

type pricingRecord struct {
	basePrice float64
	createdAt time.Time
}

// NewPricingStore creates a session pricing store.
func NewPricingStore(cfg PricingConfig) *PricingStore {
	sessionTTL := cfg.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 30 * time.Minute
	}
	sweepInterval := cfg.SweepInterval
	if sweepInterval == 0 {
		sweepInterval = 5 * time.Minute
	}
	lowMax := cfg.LowMax
	if lowMax == 0 {
		lowMax = 0.5
	}
	midMax := cfg.MidMax
	if midMax == 0 {
		midMax = 1.0
	}
	highMax := cfg.HighMax
	if highMax == 0 {
		highMax = 1.5
	}
	randFn := cfg.Rand
	if randFn == nil {
		randFn = rand.Float64
	}

	return &PricingStore{
		sessionTTL:    sessionTTL,
		sweepInterval: sweepInterval,
		lowMax:        lowMax,
		midMax:        midMax,
		highMax:       highMax,
		randFn:        randFn,
		logger:        cfg.Logger,
		records:       make(map[pricingKey]*pricingRecord),
	}
}

// Baseline draws a fresh congestion-price baseline for the tier. The draw is
// uniform over the tier's half-open interval (lo, hi], so higher tiers are
// always costlier than lower ones.
func (s *PricingStore) Baseline(tier CongestionRange) float64 {
	var lo, hi float64
	switch tier {
	case CongestionLow:
		lo, hi = 0, s.lowMax
	case CongestionMid:
		lo, hi = s.lowMax, s.midMax
	case CongestionHigh:
		lo, hi = s.midMax, s.highMax
	default:
		return 0
	}
	// 1-rand() is in (0, 1], keeping the draw inside (lo, hi].
	return lo + (1-s.randFn())*(hi-lo)
}

// GetOrCreate returns the pinned baseline for (sessionID, tier), drawing and
// storing a new one when no unexpired record exists. An empty sessionID never
// persists anything: each anonymous call gets an independent draw.
func (s *PricingStore) GetOrCreate(sessionID string, tier CongestionRange) float64 {
	if tier == "" || tier == CongestionNone {
		return 0
	}
	if sessionID == "" {
		return s.Baseline(tier)
	}

	key := pricingKey{sessionID: sessionID, tier: tier}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key]; ok && time.Since(rec.createdAt) < s.sessionTTL {
		return rec.basePrice
	}

	base := s.Baseline(tier)
	s.records[key] = &pricingRecord{basePrice: base, createdAt: time.Now()}
	return base
}

// Len returns the number of session records, including not-yet-swept ones.
func (s *PricingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Start runs the background sweep until ctx is canceled.
func (s *PricingStore) Start(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *PricingStore) sweep() {
	s.mu.Lock()
	expired := 0
	for key, rec := range s.records {
		if time.Since(rec.createdAt) >= s.sessionTTL {
			delete(s.records, key)
			expired++
		}
	}
	s.mu.Unlock()

	if expired > 0 {
		s.logger.Debug().
			Int("expired_records", expired).
			Msg("swept expired session pricing records")
	}
}
