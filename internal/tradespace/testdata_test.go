package tradespace

import (
	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/physics"
)

func paperCatalog() catalog.Catalog {
	return catalog.Catalog{
		Propellers: []catalog.Propeller{{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2}},
		Motors:     []catalog.Motor{{Name: "890kv", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101}},
		Batteries:  []catalog.Battery{{Name: "3s-5000", Voltage: 12, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.01}},
		ESCs:       []catalog.ESC{{Name: "30a", Resistance: 0.008}},
	}
}

func wideCatalog() catalog.Catalog {
	return catalog.Catalog{
		Propellers: []catalog.Propeller{
			{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2},
			{Name: "12x5.5", Diameter: 12, Pitch: 5.5, Blades: 2},
		},
		Motors: []catalog.Motor{
			{Name: "890kv", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101},
			{Name: "480kv", KV: 480, NoLoadVoltage: 10, NoLoadCurrent: 0.4, Resistance: 0.178},
		},
		Batteries: []catalog.Battery{
			{Name: "3s-5000", Voltage: 11.1, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.0078},
			{Name: "6s-5000", Voltage: 22.2, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.0168},
		},
	}
}

func wideGrid() Grid {
	return Grid{
		MotorCounts:    []int{4, 6},
		Throttles:      []float64{0.5, 0.8, 1.0},
		Environments:   []physics.Environment{physics.SeaLevel(), {Temperature: 10, Altitude: 2000}},
		BaseMasses:     []float64{1.5},
		ControlCurrent: 1,
	}
}
