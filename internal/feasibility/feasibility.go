// Package feasibility applies hard design constraints to solver results.
package feasibility

import (
	"errors"
	"fmt"
	"math"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/solver"
)

// Constraint identifies one hard limit.
type Constraint string

const (
	ConstraintDutyCycle      Constraint = "max_duty_cycle"
	ConstraintThrustToWeight Constraint = "min_thrust_to_weight"
	ConstraintCurrent        Constraint = "max_current"
	ConstraintFlightTime     Constraint = "min_flight_time"
	ConstraintESCRating      Constraint = "esc_rating"
	ConstraintMotorRating    Constraint = "motor_rating"
	ConstraintHover          Constraint = "hover"
)

// Constraints holds the limits of a sweep. Zero disables a limit.
type Constraints struct {
	// MaxDutyCycle caps the throttle needed to hover.
	MaxDutyCycle float64 `json:"max_duty_cycle,omitempty" yaml:"max_duty_cycle,omitempty"`
	// MinThrustToWeight is the required thrust margin at the operating point.
	MinThrustToWeight float64 `json:"min_thrust_to_weight,omitempty" yaml:"min_thrust_to_weight,omitempty"`
	// MaxCurrent is the battery current limit in A.
	MaxCurrent float64 `json:"max_current,omitempty" yaml:"max_current,omitempty"`
	// MinFlightTime is the required hover endurance in minutes.
	MinFlightTime float64 `json:"min_flight_time,omitempty" yaml:"min_flight_time,omitempty"`
	// RequireHover rejects vehicles that cannot hover at full throttle.
	RequireHover bool `json:"require_hover,omitempty" yaml:"require_hover,omitempty"`
}

func (c Constraints) Validate() error {
	limits := []struct {
		name string
		v    float64
	}{
		{"max_duty_cycle", c.MaxDutyCycle},
		{"min_thrust_to_weight", c.MinThrustToWeight},
		{"max_current", c.MaxCurrent},
		{"min_flight_time", c.MinFlightTime},
	}
	for _, l := range limits {
		if math.IsNaN(l.v) || math.IsInf(l.v, 0) || l.v < 0 {
			return fmt.Errorf("constraint %s: %g must be a finite value >= 0", l.name, l.v)
		}
	}
	if c.MaxDutyCycle > 1 {
		return errors.New("constraint max_duty_cycle must be <= 1")
	}
	return nil
}

// Violation is one failed constraint.
type Violation struct {
	Constraint Constraint `json:"constraint" yaml:"constraint"`
	Limit      float64    `json:"limit" yaml:"limit"`
	Actual     float64    `json:"actual" yaml:"actual"`
	Message    string     `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// Verdict lists every violated constraint; Accepted is true when there are
// none.
type Verdict struct {
	Accepted   bool        `json:"accepted" yaml:"accepted"`
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// Reasons returns the violation messages.
func (v Verdict) Reasons() []string {
	out := make([]string, len(v.Violations))
	for i, vi := range v.Violations {
		out[i] = vi.Message
	}
	return out
}

func hoverFailure(res solver.PerformanceResult) string {
	if res.HoverError != "" {
		return res.HoverError
	}
	return "no hover point found"
}

// Evaluate checks res against c. All violated constraints are reported.
func Evaluate(res solver.PerformanceResult, c Constraints) Verdict {
	var out []Violation
	add := func(k Constraint, limit, actual float64, format string, args ...any) {
		out = append(out, Violation{Constraint: k, Limit: limit, Actual: actual, Message: fmt.Sprintf(format, args...)})
	}

	if c.RequireHover && !res.Hoverable {
		add(ConstraintHover, 1, res.ThrustToWeight, "cannot hover: %s", hoverFailure(res))
	}
	if c.MaxDutyCycle > 0 {
		switch {
		case !res.Hoverable:
			add(ConstraintDutyCycle, c.MaxDutyCycle, 1, "no hover duty cycle within limit %.2f: %s", c.MaxDutyCycle, hoverFailure(res))
		case res.HoverThrottle > c.MaxDutyCycle:
			add(ConstraintDutyCycle, c.MaxDutyCycle, res.HoverThrottle,
				"hover duty cycle %.3f exceeds %.3f", res.HoverThrottle, c.MaxDutyCycle)
		}
	}
	if c.MinThrustToWeight > 0 && res.ThrustToWeight < c.MinThrustToWeight {
		add(ConstraintThrustToWeight, c.MinThrustToWeight, res.ThrustToWeight,
			"thrust-to-weight %.3f below %.3f", res.ThrustToWeight, c.MinThrustToWeight)
	}
	if c.MaxCurrent > 0 && res.BatteryCurrent > c.MaxCurrent {
		add(ConstraintCurrent, c.MaxCurrent, res.BatteryCurrent,
			"battery current %.2f A exceeds %.2f A", res.BatteryCurrent, c.MaxCurrent)
	}
	if c.MinFlightTime > 0 {
		endurance := res.HoverTime
		if !res.Hoverable {
			endurance = 0
		}
		if endurance < c.MinFlightTime {
			add(ConstraintFlightTime, c.MinFlightTime, endurance,
				"hover time %.2f min below %.2f min", endurance, c.MinFlightTime)
		}
	}

	return Verdict{Accepted: len(out) == 0, Violations: out}
}

// EvaluateRatings extends Evaluate with the component current ratings.
func EvaluateRatings(res solver.PerformanceResult, c Constraints, motor catalog.Motor, esc catalog.ESC) Verdict {
	v := Evaluate(res, c)
	if esc.Rated() && res.MotorCurrent > esc.MaxCurrent {
		v.Violations = append(v.Violations, Violation{
			Constraint: ConstraintESCRating,
			Limit:      esc.MaxCurrent,
			Actual:     res.MotorCurrent,
			Message:    fmt.Sprintf("motor current %.2f A exceeds ESC %q rating %.2f A", res.MotorCurrent, esc.Name, esc.MaxCurrent),
		})
	}
	if motor.MaxCurrent > 0 && res.MotorCurrent > motor.MaxCurrent {
		v.Violations = append(v.Violations, Violation{
			Constraint: ConstraintMotorRating,
			Limit:      motor.MaxCurrent,
			Actual:     res.MotorCurrent,
			Message:    fmt.Sprintf("motor current %.2f A exceeds motor %q rating %.2f A", res.MotorCurrent, motor.Name, motor.MaxCurrent),
		})
	}
	v.Accepted = len(v.Violations) == 0
	return v
}
