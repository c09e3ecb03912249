// Package trip provides route cost normalization: it turns raw upstream
// directions data into mode-specific cost, emission and calorie estimates.
package trip

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for trip operations.
var (
	// ErrMissingParameter indicates a required query parameter is absent.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidCoordinates indicates an origin or destination could not be parsed.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrUnknownMode indicates an unrecognized travel mode.
	ErrUnknownMode = errors.New("unknown travel mode")
	// ErrUpstreamUnavailable indicates the directions provider could not be reached
	// after all retries were exhausted.
	ErrUpstreamUnavailable = errors.New("directions provider unavailable")
	// ErrUpstreamRejected indicates the directions provider returned a failure status.
	ErrUpstreamRejected = errors.New("directions provider rejected the request")
)

// Mode is a supported travel mode.
type Mode string

const (
	ModeDriving   Mode = "driving"
	ModeTaxi      Mode = "taxi"
	ModeTransit   Mode = "transit"
	ModeWalking   Mode = "walking"
	ModeBicycling Mode = "bicycling"
	ModeEBike     Mode = "ebike"
)

// ParseMode parses a travel mode from its query-string form.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeDriving:
		return ModeDriving, nil
	case ModeTaxi:
		return ModeTaxi, nil
	case ModeTransit:
		return ModeTransit, nil
	case ModeWalking:
		return ModeWalking, nil
	case ModeBicycling:
		return ModeBicycling, nil
	case ModeEBike:
		return ModeEBike, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Upstream returns the mode whose upstream query path serves this mode.
// Taxi rides reuse the driving route; e-bikes reuse the bicycling route.
func (m Mode) Upstream() Mode {
	switch m {
	case ModeTaxi:
		return ModeDriving
	case ModeEBike:
		return ModeBicycling
	default:
		return m
	}
}

// PowerType is the power train of a private vehicle.
type PowerType string

const (
	PowerFuel     PowerType = "fuel"
	PowerHybrid   PowerType = "hybrid"
	PowerElectric PowerType = "electric"
)

// CongestionMultiplier returns the congestion-price multiplier for the power
// train. Cleaner power trains pay a reduced unit price.
func (p PowerType) CongestionMultiplier() float64 {
	switch p {
	case PowerHybrid:
		return 0.7
	case PowerElectric:
		return 0.5
	default:
		return 1.0
	}
}

// CongestionRange is the congestion-pricing tier requested by the caller.
type CongestionRange string

const (
	CongestionNone CongestionRange = "none"
	CongestionLow  CongestionRange = "low"
	CongestionMid  CongestionRange = "mid"
	CongestionHigh CongestionRange = "high"
)

// Query is a single normalized route request.
type Query struct {
	// Origin and Destination are "lng,lat" coordinate pairs.
	Origin      string `validate:"required"`
	Destination string `validate:"required"`
	Mode        Mode   `validate:"required"`

	// PowerType applies to driving queries; empty means fuel.
	PowerType PowerType

	// CongestionRange selects a congestion-pricing tier; empty means none.
	CongestionRange CongestionRange

	// HasCongestionQuota waives congestion charges entirely.
	HasCongestionQuota bool

	// SessionID pins the randomized congestion baseline for the session.
	// Excluded from the cache fingerprint.
	SessionID string
}

// Summary is the minimal route data extracted from an upstream response.
type Summary struct {
	DistanceMeters  float64
	DurationSeconds float64

	// Fare is the upstream-reported fare: the estimated taxi cost for driving
	// queries, the ticket price for transit. Zero when not reported.
	Fare float64

	// Tolls is the upstream-reported toll total for driving queries.
	Tolls float64

	// WalkingMeters is the walking component of a transit itinerary.
	WalkingMeters float64

	// SegmentCount is the number of steps or transit segments.
	SegmentCount int
}

// Result is the normalized, cacheable outcome of a route query.
type Result struct {
	Mode                  Mode    `json:"mode"`
	DistanceKm            float64 `json:"distance_km"`
	DurationMinutes       int     `json:"duration_minutes"`
	Cost                  float64 `json:"cost"`
	CostWithoutCongestion float64 `json:"cost_without_congestion"`
	CongestionUnitPrice   float64 `json:"congestion_unit_price"`
	CarbonGrams           int     `json:"carbon_grams"`
	Calories              int     `json:"calories"`

	// Available is false when the upstream itinerary lacks the fields this
	// mode needs. That is a reportable "no route" outcome, not an error.
	Available bool `json:"available"`
}

// Error provides detailed error information for a failed trip operation.
type Error struct {
	Provider string // Provider that generated the error, if any
	Code     string // Machine-readable error code
	Message  string // Human-readable error message
	Err      error  // Underlying sentinel error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseCoordinate validates a "lng,lat" pair and returns its components.
func ParseCoordinate(s string) (lng, lat float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not a lng,lat pair", ErrInvalidCoordinates, s)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	if lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidCoordinates, lng)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidCoordinates, lat)
	}
	return lng, lat, nil
}
