package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/guisoares9/tradespace-designer/internal/physics"
	"github.com/guisoares9/tradespace-designer/internal/solver"
)

// Vehicle is a single configuration on disk, used by solve and envelope.
type Vehicle struct {
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	solver.Hardware `yaml:",inline"`
	Throttle        float64             `json:"throttle" yaml:"throttle"`
	Environment     physics.Environment `json:"environment" yaml:"environment"`

	// SafeDuty is the throttle ceiling for payload margins; zero uses
	// solver.DefaultSafeDuty.
	SafeDuty float64 `json:"safe_duty,omitempty" yaml:"safe_duty,omitempty"`
}

// Configuration validates v and returns its solver configuration.
func (v Vehicle) Configuration() (solver.Configuration, error) {
	cfg, err := solver.NewConfiguration(v.Hardware, v.Throttle, v.Environment)
	if err != nil {
		return solver.Configuration{}, fmt.Errorf("vehicle %q: %w", v.Name, err)
	}
	return cfg, nil
}

func (v Vehicle) SafeDutyCycle() float64 {
	if v.SafeDuty == 0 {
		return solver.DefaultSafeDuty
	}
	return v.SafeDuty
}

func LoadVehicle(path string) (*Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := &Vehicle{Throttle: DefaultThrottle, Environment: physics.SeaLevel()}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

func SaveVehicle(path string, v *Vehicle) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
