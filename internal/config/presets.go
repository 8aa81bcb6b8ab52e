package config

import (
	"sort"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/physics"
	"github.com/guisoares9/tradespace-designer/internal/solver"
)

// Validation vehicles. Take-off weights are published in newtons.
var presets = map[string]*Vehicle{
	"paper": {
		Name:        "paper",
		Description: "10x4.5 quadrotor, 3S 5000mAh (reference tables 2-5)",
		Hardware: solver.Hardware{
			Propeller:      catalog.Propeller{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2},
			Motor:          catalog.Motor{Name: "890KV", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101},
			Battery:        catalog.Battery{Name: "3S-5000", Voltage: 12, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.01},
			ESC:            catalog.ESC{Name: "esc-0.008", Resistance: 0.008},
			MotorCount:     4,
			BaseMass:       14.7 / physics.StandardGravity,
			ControlCurrent: 1,
		},
		Throttle:    DefaultThrottle,
		Environment: physics.Environment{Temperature: 25, Altitude: 10},
		SafeDuty:    0.8,
	},
	"uav1": {
		Name:        "uav1",
		Description: "10x4.5 quadrotor, 11.1V low-resistance pack",
		Hardware: solver.Hardware{
			Propeller:      catalog.Propeller{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2},
			Motor:          catalog.Motor{Name: "890KV", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101},
			Battery:        catalog.Battery{Name: "3S-5000-lr", Voltage: 11.1, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.0078},
			ESC:            catalog.ESC{Name: "esc-0.008", Resistance: 0.008},
			MotorCount:     4,
			BaseMass:       14.7 / physics.StandardGravity,
			ControlCurrent: 1,
		},
		Throttle:    DefaultThrottle,
		Environment: physics.Environment{Temperature: 25, Altitude: 10},
		SafeDuty:    0.8,
	},
	"uav2": {
		Name:        "uav2",
		Description: "13x4.5 quadrotor, 415KV on 6S",
		Hardware: solver.Hardware{
			Propeller:      catalog.Propeller{Name: "13x4.5", Diameter: 13, Pitch: 4.5, Blades: 2},
			Motor:          catalog.Motor{Name: "415KV", KV: 415, NoLoadVoltage: 10, NoLoadCurrent: 0.3, Resistance: 0.2425},
			Battery:        catalog.Battery{Name: "6S-5500", Voltage: 22.2, Capacity: 5500, MinCapacityFraction: 1000.0 / 5500, Resistance: 0.0114},
			ESC:            catalog.ESC{Name: "esc-0.008", Resistance: 0.008},
			MotorCount:     4,
			BaseMass:       28.763 / physics.StandardGravity,
			ControlCurrent: 1,
		},
		Throttle:    DefaultThrottle,
		Environment: physics.Environment{Temperature: 25, Altitude: 10},
		SafeDuty:    0.8,
	},
	"uav3": {
		Name:        "uav3",
		Description: "12x5.5 quadrotor, 480KV on 6S",
		Hardware: solver.Hardware{
			Propeller:      catalog.Propeller{Name: "12x5.5", Diameter: 12, Pitch: 5.5, Blades: 2},
			Motor:          catalog.Motor{Name: "480KV", KV: 480, NoLoadVoltage: 10, NoLoadCurrent: 0.4, Resistance: 0.178},
			Battery:        catalog.Battery{Name: "6S-5000", Voltage: 22.2, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.0168},
			ESC:            catalog.ESC{Name: "esc-0.006", Resistance: 0.006},
			MotorCount:     4,
			BaseMass:       29.4 / physics.StandardGravity,
			ControlCurrent: 1,
		},
		Throttle:    DefaultThrottle,
		Environment: physics.Environment{Temperature: 25, Altitude: 10},
		SafeDuty:    0.8,
	},
	"inspire": {
		Name:        "inspire",
		Description: "DJI Inspire class, 13x4.5 on 350KV, 6S 5700mAh",
		Hardware: solver.Hardware{
			Propeller:      catalog.Propeller{Name: "13x4.5", Diameter: 13, Pitch: 4.5, Blades: 2},
			Motor:          catalog.Motor{Name: "350KV", KV: 350, NoLoadVoltage: 10, NoLoadCurrent: 0.3, Resistance: 0.21},
			Battery:        catalog.Battery{Name: "TB47", Voltage: 24, Capacity: 5700, MinCapacityFraction: 750.0 / 5700, Resistance: 0.12},
			ESC:            catalog.ESC{Name: "esc-0.02", Resistance: 0.02},
			MotorCount:     4,
			BaseMass:       28.73 / physics.StandardGravity,
			ControlCurrent: 1,
		},
		Throttle:    DefaultThrottle,
		Environment: physics.Environment{Temperature: 25, Altitude: 10},
		SafeDuty:    0.7,
	},
}

// GetPreset returns a copy of the named vehicle, or nil.
func GetPreset(name string) *Vehicle {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	v := *p
	return &v
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetCatalog collects the distinct parts used by the presets, in preset
// name order.
func PresetCatalog() catalog.Catalog {
	var c catalog.Catalog
	seen := map[string]bool{}
	add := func(kind, name string) bool {
		key := kind + "/" + name
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	}
	for _, name := range ListPresets() {
		hw := presets[name].Hardware
		if add("prop", hw.Propeller.Name) {
			c.Propellers = append(c.Propellers, hw.Propeller)
		}
		if add("motor", hw.Motor.Name) {
			c.Motors = append(c.Motors, hw.Motor)
		}
		if add("battery", hw.Battery.Name) {
			c.Batteries = append(c.Batteries, hw.Battery)
		}
		if add("esc", hw.ESC.Name) {
			c.ESCs = append(c.ESCs, hw.ESC)
		}
	}
	return c
}
