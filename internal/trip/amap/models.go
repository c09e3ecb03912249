package amap

import "strconv"

// AMap v5 direction responses. Numeric fields arrive as JSON strings; every
// field below is optional in practice and must be tolerated when absent.

// envelope is the common response wrapper.
type envelope struct {
	Status   string `json:"status"` // "1" success, "0" failure
	Info     string `json:"info"`
	InfoCode string `json:"infocode"`
}

// pathCost is the cost block attached to a path when show_fields=cost is set.
type pathCost struct {
	Duration string `json:"duration"` // seconds
	Tolls    string `json:"tolls"`
}

type path struct {
	Distance string   `json:"distance"` // meters
	Duration string   `json:"duration"` // seconds (v3-style, kept for tolerance)
	Cost     pathCost `json:"cost"`
	Steps    []struct {
		Instruction string `json:"instruction"`
	} `json:"steps"`
}

// drivingResponse covers driving (and aliased taxi) queries.
type drivingResponse struct {
	envelope
	Route struct {
		TaxiCost string `json:"taxi_cost"` // estimated ride-hail fare
		Paths    []path `json:"paths"`
	} `json:"route"`
}

// pathsResponse covers walking and bicycling queries.
type pathsResponse struct {
	envelope
	Route struct {
		Paths []path `json:"paths"`
	} `json:"route"`
}

// transitResponse covers transit/integrated queries.
type transitResponse struct {
	envelope
	Route struct {
		Distance string `json:"distance"`
		Transits []struct {
			Distance        string `json:"distance"`
			WalkingDistance string `json:"walking_distance"`
			Cost            struct {
				Duration   string `json:"duration"`
				TransitFee string `json:"transit_fee"`
			} `json:"cost"`
			Segments []struct {
				Bus struct {
					Buslines []struct {
						Name string `json:"name"`
					} `json:"buslines"`
				} `json:"bus"`
			} `json:"segments"`
		} `json:"transits"`
	} `json:"route"`
}

// atof parses an AMap string-encoded number, returning 0 for anything
// missing or malformed. A zero value downstream means "not reported".
func atof(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// firstNonZero returns the first nonzero value, for fields that moved
// between API versions.
func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
