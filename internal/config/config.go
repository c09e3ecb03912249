// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every recognized environment option. Cost model constants are
// configuration because historical deployments disagreed on their values.
type Config struct {
	Port string `mapstructure:"APP_PORT"`
	Env  string `mapstructure:"APP_ENV"`

	// Upstream provider.
	AmapKey                string `mapstructure:"AMAP_API_KEY"`
	AmapBaseURL            string `mapstructure:"AMAP_BASE_URL"`
	CityCode               string `mapstructure:"AMAP_CITY_CODE"`
	DestCityCode           string `mapstructure:"AMAP_DEST_CITY_CODE"`
	UpstreamTimeoutSeconds int    `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`
	UpstreamMaxRetries     int    `mapstructure:"UPSTREAM_MAX_RETRIES"`
	UpstreamRetryDelayMS   int    `mapstructure:"UPSTREAM_RETRY_DELAY_MS"`

	// Caching.
	CacheTTLSeconds      int `mapstructure:"CACHE_TTL_SECONDS"`
	SessionTTLSeconds    int `mapstructure:"SESSION_TTL_SECONDS"`
	SweepIntervalSeconds int `mapstructure:"SWEEP_INTERVAL_SECONDS"`

	// Driving cost model.
	FuelPrice         float64 `mapstructure:"FUEL_PRICE"`
	FuelConsumption   float64 `mapstructure:"FUEL_CONSUMPTION_PER_100KM"`
	DepreciationPerKm float64 `mapstructure:"DEPRECIATION_PER_KM"`
	HybridCostPerKm   float64 `mapstructure:"HYBRID_COST_PER_KM"`
	ElectricCostPerKm float64 `mapstructure:"ELECTRIC_COST_PER_KM"`

	// Other mode constants.
	TaxiFareAdjustment float64 `mapstructure:"TAXI_FARE_ADJUSTMENT"`
	TransitDefaultFare float64 `mapstructure:"TRANSIT_DEFAULT_FARE"`
	BicyclingBaseCost  float64 `mapstructure:"BICYCLING_BASE_COST"`
	EBikeSpeedFactor   float64 `mapstructure:"EBIKE_SPEED_FACTOR"`
	EBikeCostPerKm     float64 `mapstructure:"EBIKE_COST_PER_KM"`
	EBikeCaloriesPerKm float64 `mapstructure:"EBIKE_CALORIES_PER_KM"`

	// Congestion pricing tier upper bounds.
	CongestionLowMax  float64 `mapstructure:"CONGESTION_LOW_MAX"`
	CongestionMidMax  float64 `mapstructure:"CONGESTION_MID_MAX"`
	CongestionHighMax float64 `mapstructure:"CONGESTION_HIGH_MAX"`

	// Telemetry.
	OTELEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from the environment and an optional .env file in
// path. Environment variables win over file values; defaults fill the rest.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Registering defaults also makes the keys visible to AutomaticEnv.
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("AMAP_API_KEY", "")
	v.SetDefault("AMAP_BASE_URL", "")
	v.SetDefault("AMAP_CITY_CODE", "")
	v.SetDefault("AMAP_DEST_CITY_CODE", "")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 10)
	v.SetDefault("UPSTREAM_MAX_RETRIES", 3)
	v.SetDefault("UPSTREAM_RETRY_DELAY_MS", 500)
	v.SetDefault("CACHE_TTL_SECONDS", 120)
	v.SetDefault("SESSION_TTL_SECONDS", 1800)
	v.SetDefault("SWEEP_INTERVAL_SECONDS", 60)
	v.SetDefault("FUEL_PRICE", 7.79)
	v.SetDefault("FUEL_CONSUMPTION_PER_100KM", 8.0)
	v.SetDefault("DEPRECIATION_PER_KM", 0.5)
	v.SetDefault("HYBRID_COST_PER_KM", 0.75)
	v.SetDefault("ELECTRIC_COST_PER_KM", 0.35)
	v.SetDefault("TAXI_FARE_ADJUSTMENT", 0.7)
	v.SetDefault("TRANSIT_DEFAULT_FARE", 3.0)
	v.SetDefault("BICYCLING_BASE_COST", 0.0)
	v.SetDefault("EBIKE_SPEED_FACTOR", 0.6)
	v.SetDefault("EBIKE_COST_PER_KM", 0.25)
	v.SetDefault("EBIKE_CALORIES_PER_KM", 0.0)
	v.SetDefault("CONGESTION_LOW_MAX", 0.5)
	v.SetDefault("CONGESTION_MID_MAX", 1.0)
	v.SetDefault("CONGESTION_HIGH_MAX", 1.5)
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	v.AutomaticEnv()

	if path != "" {
		v.AddConfigPath(path)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CacheTTL returns the route cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SessionTTL returns the session pricing TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// SweepInterval returns the background sweep interval as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// UpstreamTimeout returns the per-attempt upstream timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// UpstreamRetryDelay returns the fixed inter-attempt delay as a duration.
func (c *Config) UpstreamRetryDelay() time.Duration {
	return time.Duration(c.UpstreamRetryDelayMS) * time.Millisecond
}
