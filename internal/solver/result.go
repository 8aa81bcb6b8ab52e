package solver

import (
	"fmt"
	"sort"
)

// PerformanceResult is the equilibrium of one configuration. Currents are
// in A, voltages in V, speed in rpm, flight times in minutes.
type PerformanceResult struct {
	RotorSpeed     float64 `json:"rotor_speed_rpm" yaml:"rotor_speed_rpm"`
	Thrust         float64 `json:"thrust_n" yaml:"thrust_n"`
	TotalThrust    float64 `json:"total_thrust_n" yaml:"total_thrust_n"`
	Torque         float64 `json:"torque_nm" yaml:"torque_nm"`
	MotorCurrent   float64 `json:"motor_current_a" yaml:"motor_current_a"`
	MotorVoltage   float64 `json:"motor_voltage_v" yaml:"motor_voltage_v"`
	ESCCurrent     float64 `json:"esc_current_a" yaml:"esc_current_a"`
	ESCVoltage     float64 `json:"esc_voltage_v" yaml:"esc_voltage_v"`
	BatteryCurrent float64 `json:"battery_current_a" yaml:"battery_current_a"`
	DutyCycle      float64 `json:"duty_cycle" yaml:"duty_cycle"`
	Power          float64 `json:"power_w" yaml:"power_w"`
	Efficiency     float64 `json:"efficiency" yaml:"efficiency"`
	FlightTime     float64 `json:"flight_time_min" yaml:"flight_time_min"`
	Mass           float64 `json:"mass_kg" yaml:"mass_kg"`
	ThrustToWeight float64 `json:"thrust_to_weight" yaml:"thrust_to_weight"`
	AirDensity     float64 `json:"air_density" yaml:"air_density"`
	Iterations     int     `json:"iterations" yaml:"iterations"`
	Converged      bool    `json:"converged" yaml:"converged"`

	Hoverable     bool    `json:"hoverable" yaml:"hoverable"`
	HoverThrottle float64 `json:"hover_throttle,omitempty" yaml:"hover_throttle,omitempty"`
	HoverCurrent  float64 `json:"hover_current_a,omitempty" yaml:"hover_current_a,omitempty"`
	HoverTime     float64 `json:"hover_time_min,omitempty" yaml:"hover_time_min,omitempty"`

	// HoverError says why no hover point was found when Hoverable is false.
	HoverError string `json:"hover_error,omitempty" yaml:"hover_error,omitempty"`
}

var metrics = map[string]func(PerformanceResult) float64{
	"rotor_speed":      func(r PerformanceResult) float64 { return r.RotorSpeed },
	"thrust":           func(r PerformanceResult) float64 { return r.Thrust },
	"total_thrust":     func(r PerformanceResult) float64 { return r.TotalThrust },
	"torque":           func(r PerformanceResult) float64 { return r.Torque },
	"motor_current":    func(r PerformanceResult) float64 { return r.MotorCurrent },
	"motor_voltage":    func(r PerformanceResult) float64 { return r.MotorVoltage },
	"esc_current":      func(r PerformanceResult) float64 { return r.ESCCurrent },
	"battery_current":  func(r PerformanceResult) float64 { return r.BatteryCurrent },
	"duty_cycle":       func(r PerformanceResult) float64 { return r.DutyCycle },
	"power":            func(r PerformanceResult) float64 { return r.Power },
	"efficiency":       func(r PerformanceResult) float64 { return r.Efficiency },
	"flight_time":      func(r PerformanceResult) float64 { return r.FlightTime },
	"mass":             func(r PerformanceResult) float64 { return r.Mass },
	"thrust_to_weight": func(r PerformanceResult) float64 { return r.ThrustToWeight },
	"hover_throttle":   func(r PerformanceResult) float64 { return r.HoverThrottle },
	"hover_current":    func(r PerformanceResult) float64 { return r.HoverCurrent },
	"hover_time":       func(r PerformanceResult) float64 { return r.HoverTime },
}

// Metric looks up a named scalar of the result, e.g. "flight_time".
func (r PerformanceResult) Metric(name string) (float64, error) {
	f, ok := metrics[name]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", name)
	}
	return f(r), nil
}

// IsMetric reports whether name is accepted by Metric.
func IsMetric(name string) bool {
	_, ok := metrics[name]
	return ok
}

// MetricNames lists the accepted metric names in sorted order.
func MetricNames() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
