package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/pareto"
	"github.com/guisoares9/tradespace-designer/internal/physics"
	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

const (
	DefaultMotorCount     = 4
	DefaultThrottle       = 0.8
	DefaultControlCurrent = 1.0
	DefaultBaseMass       = 1.5
)

// SweepFile is the on-disk shape of a sweep definition (YAML).
type SweepFile struct {
	Name string `yaml:"name"`

	// Optional: load part libraries from a separate YAML. Entries listed
	// under catalog are appended after the file's.
	CatalogFile string          `yaml:"catalog_file,omitempty"`
	Catalog     catalog.Catalog `yaml:"catalog"`

	Grid        GridConfig                    `yaml:"grid"`
	Constraints feasibility.Constraints       `yaml:"constraints"`
	Objectives  []pareto.Objective            `yaml:"objectives,omitempty"`
	Utility     []tradespace.UtilityAttribute `yaml:"utility,omitempty"`
	Sampling    tradespace.Sampling           `yaml:"sampling,omitempty"`
	TimeBudget  time.Duration                 `yaml:"time_budget,omitempty"`
	Epsilon     float64                       `yaml:"epsilon,omitempty"`
	RankAll     bool                          `yaml:"rank_all,omitempty"`
	Solver      SolverConfig                  `yaml:"solver,omitempty"`
}

type GridConfig struct {
	MotorCounts    []int                 `yaml:"motor_counts"`
	Throttles      []float64             `yaml:"throttles,omitempty"`
	ThrottleRange  *RangeConfig          `yaml:"throttle_range,omitempty"`
	Environments   []physics.Environment `yaml:"environments,omitempty"`
	BaseMasses     []float64             `yaml:"base_masses_kg,omitempty"`
	ControlCurrent float64               `yaml:"control_current_a,omitempty"`
}

// RangeConfig is an inclusive, evenly spaced range.
type RangeConfig struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

func (r RangeConfig) Values() ([]float64, error) {
	switch {
	case r.Steps < 1:
		return nil, fmt.Errorf("range steps must be >= 1, got %d", r.Steps)
	case r.Steps == 1:
		return []float64{r.Min}, nil
	case r.Max < r.Min:
		return nil, fmt.Errorf("range max %g below min %g", r.Max, r.Min)
	}
	return floats.Span(make([]float64, r.Steps), r.Min, r.Max), nil
}

type SolverConfig struct {
	Tolerance      float64          `yaml:"tolerance,omitempty"`
	MaxIterations  int              `yaml:"max_iterations,omitempty"`
	HoverTolerance float64          `yaml:"hover_tolerance,omitempty"`
	Fit            *physics.AeroFit `yaml:"aero_fit,omitempty"`
}

func (s SolverConfig) Options() solver.Options {
	opts := solver.Options{
		Tolerance:      s.Tolerance,
		MaxIterations:  s.MaxIterations,
		HoverTolerance: s.HoverTolerance,
	}
	if s.Fit != nil {
		opts.Fit = *s.Fit
	}
	return opts
}

func DefaultSweep() *SweepFile {
	return &SweepFile{
		Name:    "default",
		Catalog: PresetCatalog(),
		Grid: GridConfig{
			MotorCounts:    []int{4, 6},
			ThrottleRange:  &RangeConfig{Min: 0.5, Max: 1.0, Steps: 6},
			BaseMasses:     []float64{DefaultBaseMass},
			ControlCurrent: DefaultControlCurrent,
		},
		Constraints: feasibility.Constraints{
			MaxDutyCycle:      solver.DefaultSafeDuty,
			MinThrustToWeight: 1.5,
			RequireHover:      true,
		},
		Objectives: tradespace.DefaultObjectives(),
	}
}

func Load(path string) (*SweepFile, error) {
	s, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadUnchecked loads and merges a sweep file without validating it.
func LoadUnchecked(path string) (*SweepFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s SweepFile
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.CatalogFile != "" {
		catalogPath := s.CatalogFile
		if !filepath.IsAbs(catalogPath) {
			// relative to the sweep file when that exists, else to the cwd
			cand := filepath.Join(filepath.Dir(path), catalogPath)
			if _, err := os.Stat(cand); err == nil {
				catalogPath = cand
			}
		}
		loaded, err := LoadCatalog(catalogPath)
		if err != nil {
			return nil, err
		}
		s.Catalog = loaded.Merge(s.Catalog)
	}
	return &s, nil
}

func Save(path string, s *SweepFile) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type catalogFileWrapper struct {
	Catalog catalog.Catalog `yaml:"catalog"`
}

// LoadCatalog reads a YAML file with a top-level catalog key.
func LoadCatalog(path string) (catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog.Catalog{}, err
	}
	var w catalogFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return catalog.Catalog{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Catalog, nil
}

func (s *SweepFile) Validate() error {
	if s == nil {
		return errors.New("sweep file is nil")
	}
	req, err := s.ToRequest()
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if s.Solver.Tolerance < 0 || s.Solver.MaxIterations < 0 || s.Solver.HoverTolerance < 0 {
		return errors.New("solver settings must be >= 0")
	}
	return nil
}

// ToGrid expands the throttle range and merges it with the explicit list.
func (g GridConfig) ToGrid() (tradespace.Grid, error) {
	throttles := append([]float64(nil), g.Throttles...)
	if g.ThrottleRange != nil {
		values, err := g.ThrottleRange.Values()
		if err != nil {
			return tradespace.Grid{}, fmt.Errorf("throttle_range: %w", err)
		}
		throttles = append(throttles, values...)
	}
	return tradespace.Grid{
		MotorCounts:    g.MotorCounts,
		Throttles:      throttles,
		Environments:   g.Environments,
		BaseMasses:     g.BaseMasses,
		ControlCurrent: g.ControlCurrent,
	}, nil
}

func (s *SweepFile) ToRequest() (tradespace.Request, error) {
	grid, err := s.Grid.ToGrid()
	if err != nil {
		return tradespace.Request{}, err
	}
	return tradespace.Request{
		Catalog:     s.Catalog,
		Grid:        grid,
		Constraints: s.Constraints,
		Objectives:  s.Objectives,
		Utility:     s.Utility,
		Sampling:    s.Sampling,
		TimeBudget:  s.TimeBudget,
		Epsilon:     s.Epsilon,
		RankAll:     s.RankAll,
	}, nil
}
