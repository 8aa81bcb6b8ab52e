package physics

import (
	"math"
	"testing"
)

func TestAeroFitCoefficients(t *testing.T) {
	ct, cm := DefaultAeroFit().Coefficients(10, 4.5, 2)
	if math.Abs(ct-0.098443) > 1e-5 {
		t.Errorf("expected Ct ~0.098443, got %f", ct)
	}
	if math.Abs(cm-0.0067925) > 1e-6 {
		t.Errorf("expected Cm ~0.0067925, got %f", cm)
	}

	// only the pitch/diameter ratio matters
	ctMeters, cmMeters := DefaultAeroFit().Coefficients(10*InchToMeter, 4.5*InchToMeter, 2)
	if math.Abs(ct-ctMeters) > 1e-12 || math.Abs(cm-cmMeters) > 1e-12 {
		t.Errorf("coefficients depend on units: %f/%f vs %f/%f", ct, cm, ctMeters, cmMeters)
	}
}

func TestPropellerSpeedInvertsThrust(t *testing.T) {
	rho := 1.2
	d := 10 * InchToMeter
	ct := 0.1

	thrust := PropellerThrust(rho, d, ct, 6000)
	speed := PropellerSpeed(rho, d, ct, thrust)
	if math.Abs(speed-6000) > 1e-6 {
		t.Errorf("expected 6000 rpm, got %f", speed)
	}

	if PropellerSpeed(rho, d, ct, 0) != 0 {
		t.Error("zero thrust should need zero speed")
	}
}

func TestPropellerTorqueScaling(t *testing.T) {
	rho := 1.2
	d := 0.3
	cm := 0.007

	m1 := PropellerTorque(rho, d, cm, 3000)
	m2 := PropellerTorque(rho, d, cm, 6000)
	if math.Abs(m2/m1-4) > 1e-9 {
		t.Errorf("torque should scale with speed squared, ratio %f", m2/m1)
	}

	k := TorquePerSpeedSquared(rho, d, cm)
	if math.Abs(k*3000*3000-m1) > 1e-12 {
		t.Errorf("TorquePerSpeedSquared inconsistent: %g vs %g", k*3000*3000, m1)
	}
}
