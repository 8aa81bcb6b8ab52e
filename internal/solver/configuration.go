package solver

import (
	"math"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/physics"
)

// Hardware is the throttle-independent part of a configuration.
type Hardware struct {
	Propeller  catalog.Propeller `json:"propeller" yaml:"propeller"`
	Motor      catalog.Motor     `json:"motor" yaml:"motor"`
	Battery    catalog.Battery   `json:"battery" yaml:"battery"`
	ESC        catalog.ESC       `json:"esc" yaml:"esc"`
	MotorCount int               `json:"motor_count" yaml:"motor_count"`

	// BaseMass is frame, payload and avionics in kg; component masses are
	// added on top.
	BaseMass float64 `json:"base_mass_kg" yaml:"base_mass_kg"`

	// ControlCurrent is the avionics draw in A.
	ControlCurrent float64 `json:"control_current_a" yaml:"control_current_a"`
}

// Configuration is one point of the design space. Build it with
// NewConfiguration; Solve re-validates literals.
type Configuration struct {
	Hardware    `yaml:",inline"`
	Throttle    float64             `json:"throttle" yaml:"throttle"`
	Environment physics.Environment `json:"environment" yaml:"environment"`
}

func NewConfiguration(hw Hardware, throttle float64, env physics.Environment) (Configuration, error) {
	cfg := Configuration{Hardware: hw, Throttle: throttle, Environment: env}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Validate returns ErrInvalidEnvironment for bad ambient conditions and
// ErrInvalidConfiguration for everything else.
func (c Configuration) Validate() error {
	if err := c.Environment.Validate(); err != nil {
		return err
	}
	if c.MotorCount < 1 {
		return invalidf("motor count %d, need at least 1", c.MotorCount)
	}
	if math.IsNaN(c.Throttle) || c.Throttle <= 0 || c.Throttle > 1 {
		return invalidf("throttle %g not in (0, 1]", c.Throttle)
	}
	if !(c.Battery.Capacity > 0) {
		return invalidf("battery capacity %g mAh must be > 0", c.Battery.Capacity)
	}
	if err := c.Propeller.Validate(); err != nil {
		return invalidf("propeller %q: %v", c.Propeller.Name, err)
	}
	if err := c.Motor.Validate(); err != nil {
		return invalidf("motor %q: %v", c.Motor.Name, err)
	}
	if err := c.Battery.Validate(); err != nil {
		return invalidf("battery %q: %v", c.Battery.Name, err)
	}
	if err := c.ESC.Validate(); err != nil {
		return invalidf("esc %q: %v", c.ESC.Name, err)
	}
	if math.IsNaN(c.BaseMass) || c.BaseMass < 0 {
		return invalidf("base mass %g kg must be >= 0", c.BaseMass)
	}
	if math.IsNaN(c.ControlCurrent) || c.ControlCurrent < 0 {
		return invalidf("control current %g A must be >= 0", c.ControlCurrent)
	}
	if !(c.Mass() > 0) || math.IsInf(c.Mass(), 0) {
		return invalidf("take-off mass %g kg must be > 0", c.Mass())
	}
	return nil
}

// Mass is the take-off mass in kg.
func (h Hardware) Mass() float64 {
	perArm := h.Motor.Mass + h.Propeller.Mass + h.ESC.Mass
	return h.BaseMass + float64(h.MotorCount)*perArm + h.Battery.Mass
}

// Weight is the take-off weight in N.
func (h Hardware) Weight() float64 {
	return h.Mass() * physics.StandardGravity
}

// WithThrottle returns a copy of c at a different throttle.
func (c Configuration) WithThrottle(throttle float64) Configuration {
	c.Throttle = throttle
	return c
}
