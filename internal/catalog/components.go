package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/guisoares9/tradespace-designer/internal/physics"
)

// Propeller geometry is in inches, as catalogs list it. Ct and Cm are the
// fitted static coefficients; leave both zero to derive them from an
// aerodynamic fit.
type Propeller struct {
	Name     string  `json:"name" yaml:"name"`
	Diameter float64 `json:"diameter_in" yaml:"diameter_in"`
	Pitch    float64 `json:"pitch_in" yaml:"pitch_in"`
	Blades   int     `json:"blades" yaml:"blades"`
	Ct       float64 `json:"ct,omitempty" yaml:"ct,omitempty"`
	Cm       float64 `json:"cm,omitempty" yaml:"cm,omitempty"`
	Mass     float64 `json:"mass_kg,omitempty" yaml:"mass_kg,omitempty"`
}

func (p Propeller) Validate() error {
	if !positive(p.Diameter) {
		return errors.New("diameter must be > 0")
	}
	if !positive(p.Pitch) {
		return errors.New("pitch must be > 0")
	}
	if p.Blades < 1 {
		return errors.New("blade count must be >= 1")
	}
	if !nonNegative(p.Ct) || !nonNegative(p.Cm) {
		return errors.New("coefficients must be >= 0")
	}
	if (p.Ct == 0) != (p.Cm == 0) {
		return errors.New("ct and cm must be given together")
	}
	if !nonNegative(p.Mass) {
		return errors.New("mass must be >= 0")
	}
	return nil
}

// DiameterMeters returns the diameter in SI units.
func (p Propeller) DiameterMeters() float64 {
	return p.Diameter * physics.InchToMeter
}

// Fitted reports whether the record carries its own coefficients.
func (p Propeller) Fitted() bool {
	return p.Ct > 0 && p.Cm > 0
}

// Coefficients returns the catalog Ct and Cm when present and the values
// predicted by fit otherwise.
func (p Propeller) Coefficients(fit physics.AeroFit) (ct, cm float64) {
	if p.Fitted() {
		return p.Ct, p.Cm
	}
	return fit.Coefficients(p.Diameter, p.Pitch, p.Blades)
}

// Motor is a brushless outrunner described by its no-load test point.
// MaxCurrent of zero means unrated.
type Motor struct {
	Name          string  `json:"name" yaml:"name"`
	KV            float64 `json:"kv" yaml:"kv"`
	NoLoadVoltage float64 `json:"no_load_voltage" yaml:"no_load_voltage"`
	NoLoadCurrent float64 `json:"no_load_current" yaml:"no_load_current"`
	Resistance    float64 `json:"resistance" yaml:"resistance"`
	MaxCurrent    float64 `json:"max_current,omitempty" yaml:"max_current,omitempty"`
	Mass          float64 `json:"mass_kg,omitempty" yaml:"mass_kg,omitempty"`
}

func (m Motor) Validate() error {
	if !finite(m.KV, m.NoLoadVoltage, m.NoLoadCurrent, m.Resistance) {
		return errors.New("motor constants must be finite")
	}
	if err := m.Model().Validate(); err != nil {
		return err
	}
	if !nonNegative(m.MaxCurrent) {
		return errors.New("max current must be >= 0")
	}
	if !nonNegative(m.Mass) {
		return errors.New("mass must be >= 0")
	}
	return nil
}

func (m Motor) Model() physics.MotorModel {
	return physics.MotorModel{
		KV:            m.KV,
		NoLoadVoltage: m.NoLoadVoltage,
		NoLoadCurrent: m.NoLoadCurrent,
		Resistance:    m.Resistance,
	}
}

// Battery is a pack at nominal voltage. MinCapacityFraction is the share
// of Capacity that must stay unused.
type Battery struct {
	Name                string  `json:"name" yaml:"name"`
	Voltage             float64 `json:"voltage" yaml:"voltage"`
	Capacity            float64 `json:"capacity_mah" yaml:"capacity_mah"`
	MinCapacityFraction float64 `json:"min_capacity_fraction" yaml:"min_capacity_fraction"`
	Resistance          float64 `json:"resistance" yaml:"resistance"`
	Mass                float64 `json:"mass_kg,omitempty" yaml:"mass_kg,omitempty"`
}

// Validate checks the record itself. Capacity is not checked here: a
// zero-capacity pack is a configuration error the solver reports.
func (b Battery) Validate() error {
	if !positive(b.Voltage) {
		return errors.New("voltage must be > 0")
	}
	if !nonNegative(b.Capacity) {
		return errors.New("capacity must be >= 0")
	}
	if !finite(b.MinCapacityFraction) || b.MinCapacityFraction < 0 || b.MinCapacityFraction >= 1 {
		return errors.New("min capacity fraction must be in [0, 1)")
	}
	if !nonNegative(b.Resistance) {
		return errors.New("resistance must be >= 0")
	}
	if !nonNegative(b.Mass) {
		return errors.New("mass must be >= 0")
	}
	return nil
}

// MinCapacity is the reserve in mAh.
func (b Battery) MinCapacity() float64 {
	return b.Capacity * b.MinCapacityFraction
}

// ESC is an electronic speed controller. The zero value is an ideal,
// unrated controller.
type ESC struct {
	Name       string  `json:"name" yaml:"name"`
	Resistance float64 `json:"resistance" yaml:"resistance"`
	MaxCurrent float64 `json:"max_current,omitempty" yaml:"max_current,omitempty"`
	Mass       float64 `json:"mass_kg,omitempty" yaml:"mass_kg,omitempty"`
}

func IdealESC() ESC {
	return ESC{Name: "ideal"}
}

func (e ESC) Validate() error {
	if !nonNegative(e.Resistance) {
		return errors.New("resistance must be >= 0")
	}
	if !nonNegative(e.MaxCurrent) {
		return errors.New("max current must be >= 0")
	}
	if !nonNegative(e.Mass) {
		return errors.New("mass must be >= 0")
	}
	return nil
}

// Rated reports whether the controller has a current limit.
func (e ESC) Rated() bool {
	return e.MaxCurrent > 0
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func entryError(kind string, index int, name string, err error) error {
	return fmt.Errorf("%w: %s[%d] %q: %v", ErrMalformedEntry, kind, index, name, err)
}
