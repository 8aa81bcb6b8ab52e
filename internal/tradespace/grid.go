package tradespace

import (
	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/physics"
	"github.com/guisoares9/tradespace-designer/internal/solver"
)

// Grid holds the scalar axes of a sweep. An empty Environments axis means
// sea level at 25 °C and an empty BaseMasses axis means component masses
// only; the other axes yield an empty sweep when empty.
type Grid struct {
	MotorCounts    []int                 `json:"motor_counts" yaml:"motor_counts"`
	Throttles      []float64             `json:"throttles" yaml:"throttles"`
	Environments   []physics.Environment `json:"environments,omitempty" yaml:"environments,omitempty"`
	BaseMasses     []float64             `json:"base_masses_kg,omitempty" yaml:"base_masses_kg,omitempty"`
	ControlCurrent float64               `json:"control_current_a,omitempty" yaml:"control_current_a,omitempty"`
}

func (g Grid) environments() []physics.Environment {
	if len(g.Environments) == 0 {
		return []physics.Environment{physics.SeaLevel()}
	}
	return g.Environments
}

func (g Grid) baseMasses() []float64 {
	if len(g.BaseMasses) == 0 {
		return []float64{0}
	}
	return g.BaseMasses
}

const numAxes = 8

// space maps enumeration indices to configurations.
type space struct {
	cat    catalog.Catalog
	grid   Grid
	escs   []catalog.ESC
	envs   []physics.Environment
	masses []float64
	radix  [numAxes]int
}

func newSpace(cat catalog.Catalog, grid Grid) space {
	s := space{
		cat:    cat,
		grid:   grid,
		escs:   cat.Controllers(),
		envs:   grid.environments(),
		masses: grid.baseMasses(),
	}
	s.radix = [numAxes]int{
		len(cat.Propellers),
		len(cat.Motors),
		len(cat.Batteries),
		len(s.escs),
		len(grid.MotorCounts),
		len(grid.Throttles),
		len(s.envs),
		len(s.masses),
	}
	return s
}

// size returns the number of points, or -1 when it exceeds limit.
func (s space) size(limit int) int {
	n := 1
	for _, r := range s.radix {
		if r == 0 {
			return 0
		}
	}
	for _, r := range s.radix {
		if n > limit/r {
			return -1
		}
		n *= r
	}
	return n
}

func (s space) coords(index int) [numAxes]int {
	var c [numAxes]int
	for axis := numAxes - 1; axis >= 0; axis-- {
		c[axis] = index % s.radix[axis]
		index /= s.radix[axis]
	}
	return c
}

func (s space) index(c [numAxes]int) int {
	idx := 0
	for axis := 0; axis < numAxes; axis++ {
		idx = idx*s.radix[axis] + c[axis]
	}
	return idx
}

// configuration builds the configuration at index without validating it;
// bad grid values surface when the candidate is solved.
func (s space) configuration(index int) solver.Configuration {
	c := s.coords(index)
	return solver.Configuration{
		Hardware: solver.Hardware{
			Propeller:      s.cat.Propellers[c[0]],
			Motor:          s.cat.Motors[c[1]],
			Battery:        s.cat.Batteries[c[2]],
			ESC:            s.escs[c[3]],
			MotorCount:     s.grid.MotorCounts[c[4]],
			BaseMass:       s.masses[c[7]],
			ControlCurrent: s.grid.ControlCurrent,
		},
		Throttle:    s.grid.Throttles[c[5]],
		Environment: s.envs[c[6]],
	}
}
