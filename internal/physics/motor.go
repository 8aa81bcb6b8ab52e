package physics

import (
	"errors"
	"math"
)

// RadPerSecToRPM converts angular speed; torque = RadPerSecToRPM * ke * I.
const RadPerSecToRPM = 30 / math.Pi

// MotorModel is the linear DC model of a brushless motor identified from
// a no-load test: speed constant KV at NoLoadVoltage drawing NoLoadCurrent.
type MotorModel struct {
	KV            float64 // rpm/V
	NoLoadVoltage float64 // V
	NoLoadCurrent float64 // A
	Resistance    float64 // Ohm
}

func (m MotorModel) Validate() error {
	if m.KV <= 0 {
		return errors.New("KV must be > 0")
	}
	if m.NoLoadVoltage <= 0 {
		return errors.New("no-load voltage must be > 0")
	}
	if m.NoLoadCurrent < 0 {
		return errors.New("no-load current must be >= 0")
	}
	if m.Resistance < 0 {
		return errors.New("resistance must be >= 0")
	}
	if m.NoLoadVoltage-m.NoLoadCurrent*m.Resistance <= 0 {
		return errors.New("no-load voltage must exceed the no-load resistive drop")
	}
	return nil
}

// BackEMFConstant returns ke in V/rpm.
func (m MotorModel) BackEMFConstant() float64 {
	return (m.NoLoadVoltage - m.NoLoadCurrent*m.Resistance) / (m.KV * m.NoLoadVoltage)
}

// Current returns the armature current needed to deliver torque (N*m).
func (m MotorModel) Current(torque float64) float64 {
	return torque/(RadPerSecToRPM*m.BackEMFConstant()) + m.NoLoadCurrent
}

// Voltage returns the terminal voltage at the given torque and speed (rpm).
func (m MotorModel) Voltage(torque, speed float64) float64 {
	return m.Resistance*m.Current(torque) + m.BackEMFConstant()*speed
}

// DutyCycle returns the ESC modulation needed to present motorVoltage at
// the motor terminals from escVoltage, with esc equivalent resistance re.
func DutyCycle(re, motorVoltage, motorCurrent, escVoltage float64) float64 {
	return (motorVoltage + motorCurrent*re) / escVoltage
}

// ESCCurrent is the input-side ESC current for a duty cycle.
func ESCCurrent(duty, motorCurrent float64) float64 {
	return duty * motorCurrent
}

// ESCInputVoltage is the battery terminal voltage under load.
func ESCInputVoltage(batteryVoltage, batteryCurrent, batteryResistance float64) float64 {
	return batteryVoltage - batteryCurrent*batteryResistance
}

// BatteryCurrent sums the ESC draws and the avionics current.
func BatteryCurrent(motors int, escCurrent, controlCurrent float64) float64 {
	return float64(motors)*escCurrent + controlCurrent
}

// Endurance returns minutes of flight at a constant battery current.
// Capacities are in mAh.
func Endurance(batteryCurrent, capacity, minCapacity float64) float64 {
	if batteryCurrent <= 0 {
		return 0
	}
	return (60.0 / 1000.0) * (capacity - minCapacity) / batteryCurrent
}

// SystemEfficiency is shaft power over battery power.
func SystemEfficiency(motors int, torque, speed, batteryVoltage, batteryCurrent float64) float64 {
	electrical := batteryVoltage * batteryCurrent
	if electrical <= 0 {
		return 0
	}
	mechanical := float64(motors) * torque * speed / RadPerSecToRPM
	return mechanical / electrical
}
