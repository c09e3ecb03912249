// Package response provides utilities for writing the API response envelope,
// including JSONP wrapping for cross-origin script-tag clients.
package response

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/tripcost/tripcost/internal/api/middleware"
)

// Envelope statuses, matching the upstream provider's convention.
const (
	StatusOK   = "1"
	StatusFail = "0"
)

// Envelope is the JSON body shared by every endpoint.
type Envelope struct {
	Status    string      `json:"status"`
	Info      string      `json:"info"`
	Type      string      `json:"type,omitempty"`
	RouteInfo interface{} `json:"route_info,omitempty"`
}

// OK builds a success envelope carrying a route result.
func OK(modeType string, routeInfo interface{}) Envelope {
	return Envelope{
		Status:    StatusOK,
		Info:      "OK",
		Type:      modeType,
		RouteInfo: routeInfo,
	}
}

// Fail builds a failure envelope with a human-readable message.
func Fail(info string) Envelope {
	return Envelope{
		Status: StatusFail,
		Info:   info,
	}
}

// callbackPattern accepts plausible JavaScript callback identifiers,
// including dotted paths like "ns.cb". Anything else is ignored to keep
// attacker-controlled text out of a script-typed response.
var callbackPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ValidCallback reports whether name is usable as a JSONP callback.
func ValidCallback(name string) bool {
	return name != "" && callbackPattern.MatchString(name)
}

// JSON writes a JSON response with the given status code.
// Includes X-Request-Id header for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONP writes data wrapped in a callback invocation. Script-tag clients
// cannot read non-200 bodies, so the HTTP status is always 200 and failures
// are conveyed inside the envelope.
func JSONP(w http.ResponseWriter, r *http.Request, callback string, data interface{}) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}

	body, err := json.Marshal(data)
	if err != nil {
		JSON(w, r, http.StatusInternalServerError, Fail("failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(callback + "("))
	_, _ = w.Write(body)
	_, _ = w.Write([]byte(");"))
}

// Write sends data either as plain JSON with the given status, or as a JSONP
// wrapping when callback names a valid identifier.
func Write(w http.ResponseWriter, r *http.Request, status int, callback string, data interface{}) {
	if ValidCallback(callback) {
		JSONP(w, r, callback, data)
		return
	}
	JSON(w, r, status, data)
}
