// Package main provides the entrypoint for the tripcost API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcost/tripcost/internal/api"
	"github.com/tripcost/tripcost/internal/api/middleware"
	"github.com/tripcost/tripcost/internal/config"
	"github.com/tripcost/tripcost/internal/resilience"
	"github.com/tripcost/tripcost/internal/telemetry"
	"github.com/tripcost/tripcost/internal/trip"
	"github.com/tripcost/tripcost/internal/trip/amap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripcost-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting tripcost API")

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.AmapKey == "" {
		log.Warn().Msg("AMAP_API_KEY not set - upstream requests will be rejected")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Upstream client with bounded retries and circuit breaker
	registry := resilience.NewRegistry()
	directions := amap.NewClient(amap.ClientConfig{
		Key:          cfg.AmapKey,
		BaseURL:      cfg.AmapBaseURL,
		CityCode:     cfg.CityCode,
		DestCityCode: cfg.DestCityCode,
		Timeout:      cfg.UpstreamTimeout(),
		MaxRetries:   uint64(cfg.UpstreamMaxRetries),
		RetryDelay:   cfg.UpstreamRetryDelay(),
		Registry:     registry,
		Logger:       log,
	})
	log.Info().Str("provider", directions.Name()).Msg("directions client initialized")

	// Caches with background sweeps
	cache := trip.NewCache(trip.CacheConfig{
		TTL:           cfg.CacheTTL(),
		SweepInterval: cfg.SweepInterval(),
		Logger:        log,
	})
	pricing := trip.NewPricingStore(trip.PricingConfig{
		SessionTTL:    cfg.SessionTTL(),
		SweepInterval: cfg.SweepInterval(),
		LowMax:        cfg.CongestionLowMax,
		MidMax:        cfg.CongestionMidMax,
		HighMax:       cfg.CongestionHighMax,
		Logger:        log,
	})

	sweepCtx, stopSweeps := context.WithCancel(ctx)
	defer stopSweeps()
	go cache.Start(sweepCtx)
	go pricing.Start(sweepCtx)
	log.Info().
		Dur("cache_ttl", cfg.CacheTTL()).
		Dur("session_ttl", cfg.SessionTTL()).
		Dur("sweep_interval", cfg.SweepInterval()).
		Msg("caches initialized")

	costModel := trip.NewCostModel(trip.CostModelConfig{
		FuelPricePerLiter:       cfg.FuelPrice,
		FuelConsumptionPer100Km: cfg.FuelConsumption,
		DepreciationPerKm:       cfg.DepreciationPerKm,
		HybridCostPerKm:         cfg.HybridCostPerKm,
		ElectricCostPerKm:       cfg.ElectricCostPerKm,
		DrivingCarbonPerKm:      171,
		TaxiFareAdjustment:      cfg.TaxiFareAdjustment,
		TransitDefaultFare:      cfg.TransitDefaultFare,
		TransitCarbonPerKm:      30,
		WalkingCaloriesPerKm:    65,
		BicyclingCaloriesPerKm:  40,
		BicyclingBaseCost:       cfg.BicyclingBaseCost,
		EBikeSpeedFactor:        cfg.EBikeSpeedFactor,
		EBikeCostPerKm:          cfg.EBikeCostPerKm,
		EBikeCaloriesPerKm:      cfg.EBikeCaloriesPerKm,
		EBikeCarbonPerKm:        5,
	})

	trips := trip.NewService(trip.ServiceConfig{
		Directions: directions,
		CostModel:  costModel,
		Cache:      cache,
		Pricing:    pricing,
		Logger:     log,
	})
	log.Info().Msg("trip service initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Metrics:   metrics,
		Trips:     trips,
		Raw:       directions,
		Registry:  registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
