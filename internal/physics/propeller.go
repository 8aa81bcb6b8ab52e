package physics

import "math"

// InchToMeter converts catalog propeller dimensions.
const InchToMeter = 0.0254

// AeroFit holds the empirical constants of the blade-element propeller fit.
// Ranges in the comments are the ones the fit was calibrated over.
type AeroFit struct {
	A       float64 `json:"aspect_ratio" yaml:"aspect_ratio"`       // 5 ~ 8
	Epsilon float64 `json:"downwash" yaml:"downwash"`               // 0.85 ~ 0.95
	Lambda  float64 `json:"lambda" yaml:"lambda"`                   // 0.75 ~ 0.9
	Zeta    float64 `json:"zeta" yaml:"zeta"`                       // 0.4 ~ 0.7
	E       float64 `json:"oswald" yaml:"oswald"`                   // 0.7 ~ 0.9
	Cfd     float64 `json:"zero_lift_drag" yaml:"zero_lift_drag"`
	Alpha0  float64 `json:"zero_lift_angle" yaml:"zero_lift_angle"` // -pi/36 ~ 0
	K0      float64 `json:"lift_slope" yaml:"lift_slope"`
}

func DefaultAeroFit() AeroFit {
	return AeroFit{
		A:       5,
		Epsilon: 0.85,
		Lambda:  0.75,
		Zeta:    0.5,
		E:       0.83,
		Cfd:     0.015,
		Alpha0:  0,
		K0:      6.11,
	}
}

// attack is the effective blade angle of attack term. Only the
// pitch/diameter ratio matters, so any consistent length unit works.
func (f AeroFit) attack(diameter, pitch float64) float64 {
	return f.Epsilon*math.Atan2(pitch, math.Pi*diameter) - f.Alpha0
}

// ThrustCoefficient returns Ct for a propeller of the given geometry.
func (f AeroFit) ThrustCoefficient(diameter, pitch float64, blades int) float64 {
	return 0.25 * math.Pow(math.Pi, 3) * f.Lambda * f.Zeta * f.Zeta * float64(blades) * f.K0 *
		f.attack(diameter, pitch) / (math.Pi*f.A + f.K0)
}

// TorqueCoefficient returns Cm for a propeller of the given geometry.
func (f AeroFit) TorqueCoefficient(diameter, pitch float64, blades int) float64 {
	alpha := f.attack(diameter, pitch)
	denom := math.Pi*f.A + f.K0
	cd := f.Cfd + (math.Pi*f.A*f.K0*f.K0/f.E)*alpha*alpha/(denom*denom)
	b := float64(blades)
	return 1 / (8 * f.A) * math.Pi * math.Pi * cd * f.Zeta * f.Zeta * f.Lambda * b * b
}

func (f AeroFit) Coefficients(diameter, pitch float64, blades int) (ct, cm float64) {
	return f.ThrustCoefficient(diameter, pitch, blades), f.TorqueCoefficient(diameter, pitch, blades)
}

// PropellerThrust returns thrust in N. diameter is in meters, speed in rpm.
func PropellerThrust(rho, diameter, ct, speed float64) float64 {
	n := speed / 60
	return rho * math.Pow(diameter, 4) * ct * n * n
}

// PropellerTorque returns shaft torque in N*m.
func PropellerTorque(rho, diameter, cm, speed float64) float64 {
	n := speed / 60
	return rho * math.Pow(diameter, 5) * cm * n * n
}

// PropellerSpeed inverts PropellerThrust: the rpm needed for a thrust.
func PropellerSpeed(rho, diameter, ct, thrust float64) float64 {
	if thrust <= 0 {
		return 0
	}
	return 60 * math.Sqrt(thrust/(rho*math.Pow(diameter, 4)*ct))
}

// TorquePerSpeedSquared is dM/d(N^2): torque = k * N^2 with N in rpm.
func TorquePerSpeedSquared(rho, diameter, cm float64) float64 {
	return rho * math.Pow(diameter, 5) * cm / 3600
}
