package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/physics"
)

func paperHardware() Hardware {
	return Hardware{
		Propeller:      catalog.Propeller{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2},
		Motor:          catalog.Motor{Name: "890kv", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101},
		Battery:        catalog.Battery{Name: "3s", Voltage: 12, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.01},
		ESC:            catalog.ESC{Name: "30a", Resistance: 0.008},
		MotorCount:     4,
		BaseMass:       1.5,
		ControlCurrent: 1,
	}
}

func paperConfig(t *testing.T, throttle float64) Configuration {
	t.Helper()
	cfg, err := NewConfiguration(paperHardware(), throttle, physics.SeaLevel())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestSolveEndToEnd(t *testing.T) {
	res, err := Solve(paperConfig(t, 0.8))
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if !res.Converged {
		t.Error("expected convergence")
	}
	if res.ThrustToWeight <= 1 {
		t.Errorf("expected thrust-to-weight > 1, got %f", res.ThrustToWeight)
	}
	if math.Abs(res.RotorSpeed-7156) > 5 {
		t.Errorf("expected ~7156 rpm, got %f", res.RotorSpeed)
	}
	if math.Abs(res.TotalThrust-27.60) > 0.05 {
		t.Errorf("expected ~27.60 N, got %f", res.TotalThrust)
	}
	if math.Abs(res.BatteryCurrent-38.85) > 0.05 {
		t.Errorf("expected ~38.85 A, got %f", res.BatteryCurrent)
	}
	if res.Efficiency <= 0 || res.Efficiency >= 1 {
		t.Errorf("efficiency out of range: %f", res.Efficiency)
	}
	if res.Iterations > 10 {
		t.Errorf("expected fast convergence, took %d iterations", res.Iterations)
	}

	if !res.Hoverable {
		t.Fatal("expected vehicle to hover")
	}
	if math.Abs(res.HoverThrottle-0.553) > 0.001 {
		t.Errorf("expected hover throttle ~0.553, got %f", res.HoverThrottle)
	}
	if math.Abs(res.HoverTime-15.53) > 0.05 {
		t.Errorf("expected hover time ~15.53 min, got %f", res.HoverTime)
	}
}

func TestSolveFiniteNonNegative(t *testing.T) {
	for _, throttle := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		res, err := Solve(paperConfig(t, throttle))
		if err != nil {
			t.Fatalf("throttle %.1f: %v", throttle, err)
		}
		values := []float64{
			res.RotorSpeed, res.Thrust, res.TotalThrust, res.Torque,
			res.MotorCurrent, res.MotorVoltage, res.ESCVoltage, res.BatteryCurrent,
			res.Power, res.Efficiency, res.FlightTime, res.ThrustToWeight,
		}
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				t.Errorf("throttle %.1f: value %d is %f", throttle, i, v)
			}
		}
	}
}

func TestSolveMonotoneInThrottle(t *testing.T) {
	var prev PerformanceResult
	for i := 1; i <= 20; i++ {
		throttle := float64(i) / 20
		res, err := Solve(paperConfig(t, throttle))
		if err != nil {
			t.Fatalf("throttle %.2f: %v", throttle, err)
		}
		if i > 1 {
			if res.TotalThrust < prev.TotalThrust {
				t.Errorf("thrust fell from %f to %f at throttle %.2f", prev.TotalThrust, res.TotalThrust, throttle)
			}
			if res.BatteryCurrent < prev.BatteryCurrent {
				t.Errorf("current fell from %f to %f at throttle %.2f", prev.BatteryCurrent, res.BatteryCurrent, throttle)
			}
		}
		prev = res
	}
}

func TestSolveIdempotent(t *testing.T) {
	cfg := paperConfig(t, 0.65)
	a, errA := Solve(cfg)
	b, errB := Solve(cfg)
	if errA != nil || errB != nil {
		t.Fatalf("solve failed: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestSolvePathologicalBattery(t *testing.T) {
	tests := []struct {
		name           string
		noLoadCurrent  float64
		controlCurrent float64
		resistance     float64
	}{
		{"default idle draw", 0.5, 1, 13},
		{"low idle draw", 0.05, 0, 13},
		{"zero idle draw", 0, 0, 50},
		{"zero idle with avionics", 0, 1, 12.5},
		{"barely above nominal", 0.05, 0, 12.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := paperHardware()
			hw.Motor.NoLoadCurrent = tt.noLoadCurrent
			hw.ControlCurrent = tt.controlCurrent
			hw.Battery.Resistance = tt.resistance
			cfg, err := NewConfiguration(hw, 0.8, physics.SeaLevel())
			if err != nil {
				t.Fatalf("config: %v", err)
			}

			res, err := Solve(cfg)
			if !errors.Is(err, ErrConvergence) {
				t.Fatalf("expected ErrConvergence, got %v (converged=%v, %.1f rpm)", err, res.Converged, res.RotorSpeed)
			}
			var solveErr *SolveError
			if !errors.As(err, &solveErr) {
				t.Errorf("expected *SolveError, got %T", err)
			}
			if res.Converged || res.MotorCurrent != 0 {
				t.Errorf("expected empty result, got %+v", res)
			}
		})
	}
}

func TestSolveIterationBudget(t *testing.T) {
	s := New(Options{MaxIterations: 1})
	_, err := s.Solve(paperConfig(t, 0.8))
	if !errors.Is(err, ErrConvergence) {
		t.Fatalf("expected ErrConvergence, got %v", err)
	}
	var solveErr *SolveError
	if errors.As(err, &solveErr) && solveErr.Iterations != 1 {
		t.Errorf("expected 1 iteration, got %d", solveErr.Iterations)
	}
}

func TestConfigurationValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Configuration)
		expected error
	}{
		{"zero motors", func(c *Configuration) { c.MotorCount = 0 }, ErrInvalidConfiguration},
		{"zero throttle", func(c *Configuration) { c.Throttle = 0 }, ErrInvalidConfiguration},
		{"throttle above one", func(c *Configuration) { c.Throttle = 1.01 }, ErrInvalidConfiguration},
		{"nan throttle", func(c *Configuration) { c.Throttle = math.NaN() }, ErrInvalidConfiguration},
		{"zero capacity", func(c *Configuration) { c.Battery.Capacity = 0 }, ErrInvalidConfiguration},
		{"zero mass", func(c *Configuration) { c.BaseMass = 0 }, ErrInvalidConfiguration},
		{"bad motor", func(c *Configuration) { c.Motor.KV = 0 }, ErrInvalidConfiguration},
		{"high altitude", func(c *Configuration) { c.Environment.Altitude = 20000 }, ErrInvalidEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Configuration{Hardware: paperHardware(), Throttle: 0.5, Environment: physics.SeaLevel()}
			tt.mutate(&cfg)
			_, err := Solve(cfg)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestMassIncludesComponents(t *testing.T) {
	hw := paperHardware()
	hw.Motor.Mass = 0.05
	hw.Propeller.Mass = 0.01
	hw.Battery.Mass = 0.4
	expected := 1.5 + 4*0.06 + 0.4
	if math.Abs(hw.Mass()-expected) > 1e-12 {
		t.Errorf("expected %f kg, got %f", expected, hw.Mass())
	}
}

func TestAltitudeReducesThrust(t *testing.T) {
	low := paperConfig(t, 0.8)
	high := low
	high.Environment = physics.Environment{Temperature: 25, Altitude: 1000}

	a, err := Solve(low)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Solve(high)
	if err != nil {
		t.Fatal(err)
	}
	if b.AirDensity >= a.AirDensity {
		t.Errorf("expected thinner air aloft: %f vs %f", b.AirDensity, a.AirDensity)
	}
	if b.HoverThrottle <= a.HoverThrottle {
		t.Errorf("expected higher hover throttle aloft: %f vs %f", b.HoverThrottle, a.HoverThrottle)
	}
}

func TestMetricLookup(t *testing.T) {
	res := PerformanceResult{FlightTime: 12, ThrustToWeight: 2}
	v, err := res.Metric("flight_time")
	if err != nil || v != 12 {
		t.Errorf("expected 12, got %f (%v)", v, err)
	}
	if _, err := res.Metric("bogus"); err == nil {
		t.Error("expected error for unknown metric")
	}
	if !IsMetric("thrust_to_weight") || IsMetric("bogus") {
		t.Error("IsMetric disagrees with Metric")
	}
	if len(MetricNames()) == 0 {
		t.Error("expected metric names")
	}
}

func TestSolveSeedAboveEquilibrium(t *testing.T) {
	hw := Hardware{
		Propeller:      catalog.Propeller{Name: "12x5.5", Diameter: 12, Pitch: 5.5, Blades: 2},
		Motor:          catalog.Motor{Name: "890kv", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101},
		Battery:        catalog.Battery{Name: "6s", Voltage: 22.2, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.0168},
		MotorCount:     6,
		BaseMass:       2,
		ControlCurrent: 1,
	}
	cfg, err := NewConfiguration(hw, 1, physics.SeaLevel())
	if err != nil {
		t.Fatal(err)
	}

	res, err := Solve(cfg)
	if err != nil {
		t.Fatalf("heavily loaded rotor should still converge: %v", err)
	}
	if math.Abs(res.RotorSpeed-9867) > 5 {
		t.Errorf("expected ~9867 rpm, got %f", res.RotorSpeed)
	}
	if res.RotorSpeed >= hw.Motor.KV*hw.Battery.Voltage {
		t.Errorf("equilibrium %f should sit below the seed", res.RotorSpeed)
	}
	if res.ESCVoltage <= 0 || res.MotorVoltage <= 0 {
		t.Errorf("expected positive voltages, got %f / %f", res.ESCVoltage, res.MotorVoltage)
	}
}
