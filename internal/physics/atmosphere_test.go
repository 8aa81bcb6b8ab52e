package physics

import (
	"errors"
	"math"
	"testing"
)

func TestAirDensitySeaLevel(t *testing.T) {
	rho, err := AirDensity(25, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rho-1.18393) > 1e-4 {
		t.Errorf("expected rho ~1.18393, got %f", rho)
	}
}

func TestAirDensityMonotonic(t *testing.T) {
	prev := math.Inf(1)
	for h := 0.0; h <= MaxAltitude; h += 500 {
		rho, err := AirDensity(15, h)
		if err != nil {
			t.Fatalf("altitude %.0f: %v", h, err)
		}
		if rho >= prev {
			t.Errorf("density should fall with altitude: %.0f m gave %f after %f", h, rho, prev)
		}
		prev = rho
	}

	prev = 0
	for temp := MaxTemperature; temp >= MinTemperature; temp -= 10 {
		rho, err := AirDensity(temp, 1000)
		if err != nil {
			t.Fatalf("temperature %.0f: %v", temp, err)
		}
		if rho <= prev {
			t.Errorf("density should rise as temperature drops: %.0f °C gave %f after %f", temp, rho, prev)
		}
		prev = rho
	}
}

func TestAirDensityOutOfRange(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		altitude    float64
	}{
		{"below sea level", 20, -1},
		{"above troposphere", 20, MaxAltitude + 1},
		{"too cold", -80, 0},
		{"too hot", 75, 0},
		{"nan temperature", math.NaN(), 0},
		{"nan altitude", 20, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AirDensity(tt.temperature, tt.altitude)
			if !errors.Is(err, ErrInvalidEnvironment) {
				t.Errorf("expected ErrInvalidEnvironment, got %v", err)
			}
		})
	}
}
