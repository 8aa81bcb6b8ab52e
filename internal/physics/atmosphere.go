package physics

import (
	"fmt"
	"math"
)

const (
	StandardGravity = 9.80665 // m/s^2

	SeaLevelPressure    = 101325.0 // Pa
	SeaLevelTemperature = 288.15   // K
	GasConstantAir      = 287.05   // J/(kg*K)
	LapseRate           = 0.0065   // K/m
	PressureExponent    = 5.2561

	MinTemperature = -60.0   // °C
	MaxTemperature = 60.0    // °C
	MinAltitude    = 0.0     // m
	MaxAltitude    = 11000.0 // m, top of the troposphere
)

// Environment holds ambient conditions for one evaluation.
type Environment struct {
	Temperature float64 `json:"temperature_c" yaml:"temperature_c"`
	Altitude    float64 `json:"altitude_m" yaml:"altitude_m"`
}

// SeaLevel returns a 25 °C sea-level environment.
func SeaLevel() Environment {
	return Environment{Temperature: 25, Altitude: 0}
}

// Validate rejects conditions outside the fitted range instead of
// extrapolating.
func (e Environment) Validate() error {
	if math.IsNaN(e.Temperature) || e.Temperature < MinTemperature || e.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature %.2f °C not in [%.0f, %.0f]",
			ErrInvalidEnvironment, e.Temperature, MinTemperature, MaxTemperature)
	}
	if math.IsNaN(e.Altitude) || e.Altitude < MinAltitude || e.Altitude > MaxAltitude {
		return fmt.Errorf("%w: altitude %.1f m not in [%.0f, %.0f]",
			ErrInvalidEnvironment, e.Altitude, MinAltitude, MaxAltitude)
	}
	return nil
}

// Density is AirDensity for the receiver.
func (e Environment) Density() (float64, error) {
	return AirDensity(e.Temperature, e.Altitude)
}

// AirDensity returns air density in kg/m^3. Static pressure follows the
// standard-atmosphere lapse profile and density the ideal gas law at the
// given ambient temperature.
func AirDensity(temperature, altitude float64) (float64, error) {
	env := Environment{Temperature: temperature, Altitude: altitude}
	if err := env.Validate(); err != nil {
		return 0, err
	}
	pressure := SeaLevelPressure * math.Pow(1-LapseRate*altitude/SeaLevelTemperature, PressureExponent)
	return pressure / (GasConstantAir * (temperature + 273.15)), nil
}
