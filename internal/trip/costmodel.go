package trip

import (
	"math"

	"github.com/shopspring/decimal"
)

// CostModelConfig holds the tunable constants of the cost model. The original
// deployments disagreed on several of these (e-bike speed factors, taxi fare
// discounts), so every constant is configuration rather than a literal.
type CostModelConfig struct {
	// Driving (private vehicle).
	FuelPricePerLiter       float64
	FuelConsumptionPer100Km float64
	DepreciationPerKm       float64
	HybridCostPerKm         float64 // simplified per-km operation cost
	ElectricCostPerKm       float64
	DrivingCarbonPerKm      float64

	// Taxi.
	TaxiFareAdjustment float64 // fleet contract discount applied to the metered fare

	// Transit.
	TransitDefaultFare   float64 // fallback when upstream reports no fare
	TransitCarbonPerKm   float64
	WalkingCaloriesPerKm float64 // also used for the walking portion of transit

	// Bicycling / e-bike.
	BicyclingCaloriesPerKm float64
	BicyclingBaseCost      float64
	EBikeSpeedFactor       float64 // <1, e-bikes are faster than pedal bikes
	EBikeCostPerKm         float64
	EBikeCaloriesPerKm     float64
	EBikeCarbonPerKm       float64
}

// DefaultCostModelConfig returns the stock deployment constants.
func DefaultCostModelConfig() CostModelConfig {
	return CostModelConfig{
		FuelPricePerLiter:       7.79,
		FuelConsumptionPer100Km: 8.0,
		DepreciationPerKm:       0.5,
		HybridCostPerKm:         0.75,
		ElectricCostPerKm:       0.35,
		DrivingCarbonPerKm:      171,

		TaxiFareAdjustment: 0.7,

		TransitDefaultFare:   3.0,
		TransitCarbonPerKm:   30,
		WalkingCaloriesPerKm: 65,

		BicyclingCaloriesPerKm: 40,
		BicyclingBaseCost:      0,
		EBikeSpeedFactor:       0.6,
		EBikeCostPerKm:         0.25,
		EBikeCaloriesPerKm:     0,
		EBikeCarbonPerKm:       5,
	}
}

// CostModel converts an upstream route summary into a normalized Result.
// It is pure: the randomized congestion baseline is supplied by the caller,
// so identical inputs always produce identical results.
type CostModel struct {
	cfg CostModelConfig
}

// NewCostModel creates a cost model with the given constants.
func NewCostModel(cfg CostModelConfig) *CostModel {
	return &CostModel{cfg: cfg}
}

// Evaluate computes the cost/emission/calorie breakdown for one query.
// congestionBase is the session congestion-price baseline; it is zero when
// the query carries no congestion range.
func (m *CostModel) Evaluate(q Query, s Summary, congestionBase float64) Result {
	switch q.Mode {
	case ModeDriving:
		return m.driving(q, s, congestionBase)
	case ModeTaxi:
		return m.taxi(q, s, congestionBase)
	case ModeTransit:
		return m.transit(s)
	case ModeWalking:
		return m.walking(s)
	case ModeBicycling:
		return m.bicycling(s)
	case ModeEBike:
		return m.ebike(s)
	default:
		return unavailable(q.Mode)
	}
}

func (m *CostModel) driving(q Query, s Summary, congestionBase float64) Result {
	if s.DistanceMeters <= 0 || s.DurationSeconds <= 0 {
		return unavailable(ModeDriving)
	}

	distKm := s.DistanceMeters / 1000

	var operation float64
	switch q.PowerType {
	case PowerHybrid:
		operation = distKm * m.cfg.HybridCostPerKm
	case PowerElectric:
		operation = distKm * m.cfg.ElectricCostPerKm
	default:
		fuel := (distKm * m.cfg.FuelConsumptionPer100Km / 100) * m.cfg.FuelPricePerLiter
		operation = fuel + distKm*m.cfg.DepreciationPerKm
	}
	operation += s.Tolls

	unit := congestionBase * q.PowerType.CongestionMultiplier()
	congestion := 0.0
	if !q.HasCongestionQuota {
		congestion = distKm * unit
	}

	return Result{
		Mode:                  ModeDriving,
		DistanceKm:            round2(distKm),
		DurationMinutes:       int(math.Round(s.DurationSeconds / 60)),
		Cost:                  round2(operation + congestion),
		CostWithoutCongestion: round2(operation),
		CongestionUnitPrice:   round2(unit),
		CarbonGrams:           int(math.Round(distKm * m.cfg.DrivingCarbonPerKm)),
		Calories:              0,
		Available:             true,
	}
}

func (m *CostModel) taxi(q Query, s Summary, congestionBase float64) Result {
	// Ride-hail fare cannot be synthesized from distance alone.
	if s.Fare <= 0 {
		return unavailable(ModeTaxi)
	}
	if s.DistanceMeters <= 0 || s.DurationSeconds <= 0 {
		return unavailable(ModeTaxi)
	}

	distKm := s.DistanceMeters / 1000
	fare := s.Fare * m.cfg.TaxiFareAdjustment

	// Ride-hail fleets are priced as hybrids regardless of the query.
	unit := congestionBase * PowerHybrid.CongestionMultiplier()
	congestion := 0.0
	if !q.HasCongestionQuota {
		congestion = distKm * unit
	}

	return Result{
		Mode:                  ModeTaxi,
		DistanceKm:            round2(distKm),
		DurationMinutes:       int(math.Round(s.DurationSeconds / 60)),
		Cost:                  round2(fare + congestion),
		CostWithoutCongestion: round2(fare),
		CongestionUnitPrice:   round2(unit),
		CarbonGrams:           int(math.Round(distKm * m.cfg.DrivingCarbonPerKm)),
		Calories:              0,
		Available:             true,
	}
}

func (m *CostModel) transit(s Summary) Result {
	distKm := s.DistanceMeters / 1000
	durMin := int(math.Round(s.DurationSeconds / 60))

	cost := s.Fare
	if cost == 0 {
		cost = m.cfg.TransitDefaultFare
	}

	// A zero duration or zero cost signals an incomplete upstream itinerary.
	if durMin == 0 || cost == 0 {
		return unavailable(ModeTransit)
	}

	walkKm := s.WalkingMeters / 1000

	return Result{
		Mode:                  ModeTransit,
		DistanceKm:            round2(distKm),
		DurationMinutes:       durMin,
		Cost:                  round2(cost),
		CostWithoutCongestion: round2(cost),
		CarbonGrams:           int(math.Round(distKm * m.cfg.TransitCarbonPerKm)),
		Calories:              int(math.Round(walkKm * m.cfg.WalkingCaloriesPerKm)),
		Available:             true,
	}
}

func (m *CostModel) walking(s Summary) Result {
	if s.DistanceMeters <= 0 || s.DurationSeconds <= 0 {
		return unavailable(ModeWalking)
	}
	distKm := s.DistanceMeters / 1000
	return Result{
		Mode:            ModeWalking,
		DistanceKm:      round2(distKm),
		DurationMinutes: int(math.Round(s.DurationSeconds / 60)),
		Calories:        int(math.Round(distKm * m.cfg.WalkingCaloriesPerKm)),
		Available:       true,
	}
}

func (m *CostModel) bicycling(s Summary) Result {
	if s.DistanceMeters <= 0 || s.DurationSeconds <= 0 {
		return unavailable(ModeBicycling)
	}
	distKm := s.DistanceMeters / 1000
	return Result{
		Mode:                  ModeBicycling,
		DistanceKm:            round2(distKm),
		DurationMinutes:       int(math.Round(s.DurationSeconds / 60)),
		Cost:                  round2(m.cfg.BicyclingBaseCost),
		CostWithoutCongestion: round2(m.cfg.BicyclingBaseCost),
		Calories:              int(math.Round(distKm * m.cfg.BicyclingCaloriesPerKm)),
		Available:             true,
	}
}

func (m *CostModel) ebike(s Summary) Result {
	if s.DistanceMeters <= 0 || s.DurationSeconds <= 0 {
		return unavailable(ModeEBike)
	}
	distKm := s.DistanceMeters / 1000
	cost := distKm * m.cfg.EBikeCostPerKm

	// The upstream duration is for a pedal bicycle; scale it down.
	durMin := int(math.Ceil(s.DurationSeconds / 60 * m.cfg.EBikeSpeedFactor))

	return Result{
		Mode:                  ModeEBike,
		DistanceKm:            round2(distKm),
		DurationMinutes:       durMin,
		Cost:                  round2(cost),
		CostWithoutCongestion: round2(cost),
		CarbonGrams:           int(math.Round(distKm * m.cfg.EBikeCarbonPerKm)),
		Calories:              int(math.Round(distKm * m.cfg.EBikeCaloriesPerKm)),
		Available:             true,
	}
}

// unavailable is the zeroed "no usable route" result for a mode.
func unavailable(mode Mode) Result {
	return Result{Mode: mode, Available: false}
}

// round2 rounds a monetary or distance value to two decimal places. Rounding
// happens only at the result boundary, never on intermediate sums.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
