package solver

import (
	"fmt"
	"math"

	"github.com/guisoares9/tradespace-designer/internal/physics"
)

// DefaultSafeDuty is the throttle ceiling used for payload margins.
const DefaultSafeDuty = 0.8

// Hover returns the equilibrium at the lowest throttle whose total thrust
// carries the take-off weight, to within HoverTolerance. cfg.Throttle is
// ignored.
func (s *Solver) Hover(cfg Configuration) (PerformanceResult, error) {
	weight := cfg.Weight()

	best, err := s.equilibrium(cfg.WithThrottle(1))
	if err != nil {
		return PerformanceResult{}, err
	}
	if best.TotalThrust < weight {
		return PerformanceResult{}, fmt.Errorf("%w: %.2f N available, %.2f N needed",
			ErrNotHoverable, best.TotalThrust, weight)
	}

	// Thrust is monotone in throttle. Throttles too low to turn the rotor
	// fail to converge and count as insufficient.
	lo, hi := 0.0, 1.0
	for hi-lo > s.opts.HoverTolerance {
		mid := (lo + hi) / 2
		res, err := s.equilibrium(cfg.WithThrottle(mid))
		if err != nil || res.TotalThrust < weight {
			lo = mid
			continue
		}
		hi, best = mid, res
	}
	return best, nil
}

// OperatingEnvelope collects the three reference operating points of a
// vehicle.
type OperatingEnvelope struct {
	Hover      PerformanceResult `json:"hover" yaml:"hover"`
	Hoverable  bool              `json:"hoverable" yaml:"hoverable"`
	MaxThrust  PerformanceResult `json:"max_thrust" yaml:"max_thrust"`
	SafeDuty   float64           `json:"safe_duty" yaml:"safe_duty"`
	SafeThrust PerformanceResult `json:"safe_thrust" yaml:"safe_thrust"`

	// MaxPayload is the extra mass in kg the vehicle can lift at SafeDuty.
	MaxPayload float64 `json:"max_payload_kg" yaml:"max_payload_kg"`
	// MaxPitch is the steepest tilt in rad at which SafeDuty still holds
	// altitude.
	MaxPitch float64 `json:"max_pitch_rad" yaml:"max_pitch_rad"`
}

// Envelope evaluates cfg with the default options.
func Envelope(cfg Configuration, safeDuty float64) (OperatingEnvelope, error) {
	return defaultSolver.Envelope(cfg, safeDuty)
}

// Envelope returns the hover, full-throttle and safe-duty points of cfg.
// A vehicle that cannot hover still gets the other two points.
func (s *Solver) Envelope(cfg Configuration, safeDuty float64) (OperatingEnvelope, error) {
	if math.IsNaN(safeDuty) || safeDuty <= 0 || safeDuty > 1 {
		return OperatingEnvelope{}, invalidf("safe duty %g not in (0, 1]", safeDuty)
	}

	env := OperatingEnvelope{SafeDuty: safeDuty}
	var err error

	if env.MaxThrust, err = s.Solve(cfg.WithThrottle(1)); err != nil {
		return OperatingEnvelope{}, fmt.Errorf("max thrust: %w", err)
	}
	if env.SafeThrust, err = s.Solve(cfg.WithThrottle(safeDuty)); err != nil {
		return OperatingEnvelope{}, fmt.Errorf("safe duty: %w", err)
	}
	if hover, err := s.Hover(cfg); err == nil {
		env.Hover, env.Hoverable = hover, true
	}

	weight := cfg.Weight()
	if lift := env.SafeThrust.TotalThrust; lift > weight {
		env.MaxPayload = (lift - weight) / physics.StandardGravity
		env.MaxPitch = math.Acos(weight / lift)
	}
	return env, nil
}
