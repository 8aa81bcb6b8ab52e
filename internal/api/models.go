package api

import (
	"github.com/guisoares9/tradespace-designer/internal/config"
	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/storage"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// VehicleRequest names a preset or carries a full vehicle. Throttle, when
// set, overrides the vehicle's.
type VehicleRequest struct {
	Preset      string                  `json:"preset,omitempty"`
	Vehicle     *config.Vehicle         `json:"vehicle,omitempty"`
	Throttle    *float64                `json:"throttle,omitempty"`
	SafeDuty    float64                 `json:"safe_duty,omitempty"`
	Constraints feasibility.Constraints `json:"constraints,omitempty"`
}

type SolveResponse struct {
	Vehicle       string                   `json:"vehicle"`
	Configuration solver.Configuration     `json:"configuration"`
	Result        solver.PerformanceResult `json:"result"`
	Verdict       feasibility.Verdict      `json:"verdict"`
}

type EnvelopeResponse struct {
	Vehicle       string                   `json:"vehicle"`
	Configuration solver.Configuration     `json:"configuration"`
	Envelope      solver.OperatingEnvelope `json:"envelope"`
}

// SweepRequest is a tradespace request plus storage options.
type SweepRequest struct {
	Name   string `json:"name,omitempty"`
	DryRun bool   `json:"dry_run,omitempty"`
	tradespace.Request
}

type SweepResponse struct {
	RunID   string                     `json:"run_id,omitempty"`
	Summary []tradespace.MetricSummary `json:"summary"`
	Result  *tradespace.SweepResult    `json:"result"`
}

type RunResponse struct {
	Run     *storage.RunMetadata       `json:"run"`
	Summary []tradespace.MetricSummary `json:"summary"`
	Result  *tradespace.SweepResult    `json:"result"`
}

type PresetResponse struct {
	Presets []*config.Vehicle `json:"presets"`
}
