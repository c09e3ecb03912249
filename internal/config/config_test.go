package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.AmapKey)

	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout())
	assert.Equal(t, 3, cfg.UpstreamMaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.UpstreamRetryDelay())

	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, time.Minute, cfg.SweepInterval())

	assert.Equal(t, 7.79, cfg.FuelPrice)
	assert.Equal(t, 8.0, cfg.FuelConsumption)
	assert.Equal(t, 0.5, cfg.DepreciationPerKm)
	assert.Equal(t, 0.7, cfg.TaxiFareAdjustment)
	assert.Equal(t, 3.0, cfg.TransitDefaultFare)
	assert.Equal(t, 0.6, cfg.EBikeSpeedFactor)

	assert.Equal(t, 0.5, cfg.CongestionLowMax)
	assert.Equal(t, 1.0, cfg.CongestionMidMax)
	assert.Equal(t, 1.5, cfg.CongestionHighMax)

	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AMAP_API_KEY", "secret-key")
	t.Setenv("FUEL_PRICE", "8.5")
	t.Setenv("UPSTREAM_MAX_RETRIES", "5")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "secret-key", cfg.AmapKey)
	assert.Equal(t, 8.5, cfg.FuelPrice)
	assert.Equal(t, 5, cfg.UpstreamMaxRetries)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)
}
