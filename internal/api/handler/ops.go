package handler

import (
	"net/http"

	"github.com/tripcost/tripcost/internal/api/response"
	"github.com/tripcost/tripcost/internal/resilience"
	"github.com/tripcost/tripcost/internal/trip"
)

// OpsHandler handles the status page and cache administration endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	trips     *trip.Service
	registry  *resilience.Registry
}

// NewOpsHandler creates an OpsHandler.
func NewOpsHandler(version, buildTime string, trips *trip.Service, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		trips:     trips,
		registry:  registry,
	}
}

// statusPayload is the GET / response body.
type statusPayload struct {
	Service   string                      `json:"service"`
	Version   string                      `json:"version"`
	BuildTime string                      `json:"build_time"`
	Provider  string                      `json:"provider"`
	Stats     trip.Stats                  `json:"stats"`
	Upstream  []resilience.ProviderHealth `json:"upstream"`
}

// Status handles GET / - service health plus traffic statistics.
func (h *OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	payload := statusPayload{
		Service:   "tripcost-api",
		Version:   h.version,
		BuildTime: h.buildTime,
		Provider:  h.trips.ProviderName(),
		Stats:     h.trips.Stats(),
		Upstream:  h.registry.Health(),
	}
	response.JSON(w, r, http.StatusOK, payload)
}

// CacheStats handles GET /api/cache/stats.
func (h *OpsHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.trips.CacheStats())
}

// CacheClear handles POST /api/cache/clear.
func (h *OpsHandler) CacheClear(w http.ResponseWriter, r *http.Request) {
	h.trips.ClearCache()
	response.JSON(w, r, http.StatusOK, response.Envelope{
		Status: response.StatusOK,
		Info:   "cache cleared",
	})
}
