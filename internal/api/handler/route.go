// Package handler provides HTTP handlers for the tripcost API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tripcost/tripcost/internal/api/response"
	"github.com/tripcost/tripcost/internal/trip"
)

// RawFetcher retrieves the unparsed upstream payload for debugging.
type RawFetcher interface {
	FetchRaw(ctx context.Context, mode trip.Mode, origin, destination string) ([]byte, error)
}

// RouteHandler handles route queries and the raw passthrough.
type RouteHandler struct {
	trips *trip.Service
	raw   RawFetcher
}

// NewRouteHandler creates a RouteHandler.
func NewRouteHandler(trips *trip.Service, raw RawFetcher) *RouteHandler {
	return &RouteHandler{trips: trips, raw: raw}
}

// Route handles GET /api/route.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	callback := params.Get("callback")

	q := trip.Query{
		Origin:      params.Get("origin"),
		Destination: params.Get("destination"),
		SessionID:   params.Get("sessionId"),
	}

	if modeStr := params.Get("mode"); modeStr != "" {
		mode, err := trip.ParseMode(modeStr)
		if err != nil {
			response.Write(w, r, http.StatusBadRequest, callback,
				response.Fail("unknown travel mode: "+modeStr))
			return
		}
		q.Mode = mode
	}

	switch params.Get("powerType") {
	case "fuel":
		q.PowerType = trip.PowerFuel
	case "hybrid":
		q.PowerType = trip.PowerHybrid
	case "electric":
		q.PowerType = trip.PowerElectric
	}

	switch params.Get("congestionRange") {
	case "low":
		q.CongestionRange = trip.CongestionLow
	case "mid":
		q.CongestionRange = trip.CongestionMid
	case "high":
		q.CongestionRange = trip.CongestionHigh
	case "none":
		q.CongestionRange = trip.CongestionNone
	}

	if v := params.Get("hasCongestionQuota"); v != "" {
		quota, err := strconv.ParseBool(v)
		if err != nil {
			response.Write(w, r, http.StatusBadRequest, callback,
				response.Fail("hasCongestionQuota must be true or false"))
			return
		}
		q.HasCongestionQuota = quota
	}

	result, err := h.trips.Route(r.Context(), q)
	if err != nil {
		status, info := failureStatus(err)
		response.Write(w, r, status, callback, response.Fail(info))
		return
	}

	response.Write(w, r, http.StatusOK, callback, response.OK(string(q.Mode), result))
}

// Raw handles GET /api/raw - the unprocessed upstream payload.
func (h *RouteHandler) Raw(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	origin := params.Get("origin")
	destination := params.Get("destination")
	modeStr := params.Get("mode")
	if origin == "" || destination == "" || modeStr == "" {
		response.JSON(w, r, http.StatusBadRequest,
			response.Fail("origin, destination and mode are required"))
		return
	}

	mode, err := trip.ParseMode(modeStr)
	if err != nil {
		response.JSON(w, r, http.StatusBadRequest,
			response.Fail("unknown travel mode: "+modeStr))
		return
	}

	body, err := h.raw.FetchRaw(r.Context(), mode.Upstream(), origin, destination)
	if err != nil {
		status, info := failureStatus(err)
		response.JSON(w, r, status, response.Fail(info))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// failureStatus maps the trip error taxonomy to an HTTP status and message.
func failureStatus(err error) (int, string) {
	var tripErr *trip.Error
	msg := "request failed"
	if errors.As(err, &tripErr) {
		msg = tripErr.Message
	}

	switch {
	case errors.Is(err, trip.ErrMissingParameter),
		errors.Is(err, trip.ErrInvalidCoordinates),
		errors.Is(err, trip.ErrUnknownMode):
		return http.StatusBadRequest, msg
	case errors.Is(err, trip.ErrUpstreamUnavailable),
		errors.Is(err, trip.ErrUpstreamRejected):
		return http.StatusBadGateway, msg
	default:
		return http.StatusInternalServerError, msg
	}
}
