package trip

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"driving", ModeDriving},
		{"DRIVING", ModeDriving},
		{"taxi", ModeTaxi},
		{"transit", ModeTransit},
		{"walking", ModeWalking},
		{"bicycling", ModeBicycling},
		{"ebike", ModeEBike},
	}

	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "teleport", "drivingg"} {
		if _, err := ParseMode(bad); !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseMode(%q): expected ErrUnknownMode, got %v", bad, err)
		}
	}
}

func TestMode_Upstream(t *testing.T) {
	cases := map[Mode]Mode{
		ModeDriving:   ModeDriving,
		ModeTaxi:      ModeDriving,
		ModeTransit:   ModeTransit,
		ModeWalking:   ModeWalking,
		ModeBicycling: ModeBicycling,
		ModeEBike:     ModeBicycling,
	}

	for mode, want := range cases {
		if got := mode.Upstream(); got != want {
			t.Errorf("%q.Upstream() = %q, want %q", mode, got, want)
		}
	}
}

func TestPowerType_CongestionMultiplier(t *testing.T) {
	cases := map[PowerType]float64{
		PowerFuel:     1.0,
		PowerHybrid:   0.7,
		PowerElectric: 0.5,
		"":            1.0, // unspecified defaults to fuel
	}

	for p, want := range cases {
		if got := p.CongestionMultiplier(); got != want {
			t.Errorf("%q.CongestionMultiplier() = %v, want %v", p, got, want)
		}
	}
}

func TestParseCoordinate(t *testing.T) {
	lng, lat, err := ParseCoordinate("116.481028,39.989643")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lng != 116.481028 || lat != 39.989643 {
		t.Errorf("got (%v, %v)", lng, lat)
	}

	// Whitespace around components is tolerated.
	if _, _, err := ParseCoordinate(" 116.48 , 39.99 "); err != nil {
		t.Errorf("unexpected error for padded pair: %v", err)
	}

	invalid := []string{
		"",
		"116.48",
		"116.48,39.99,12",
		"east,north",
		"181,39.99",
		"116.48,91",
		"-181,0",
		"0,-91",
	}
	for _, s := range invalid {
		if _, _, err := ParseCoordinate(s); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ParseCoordinate(%q): expected ErrInvalidCoordinates, got %v", s, err)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	err := &Error{
		Provider: "amap",
		Code:     "HTTP_502",
		Message:  "bad gateway",
		Err:      ErrUpstreamUnavailable,
	}

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("expected errors.Is to reach the sentinel")
	}
	if err.Error() != "bad gateway: directions provider unavailable" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
