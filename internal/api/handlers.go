package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guisoares9/tradespace-designer/internal/config"
	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/storage"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// solveError maps solver failures to a status and code.
func solveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, solver.ErrInvalidEnvironment):
		abortError(c, http.StatusUnprocessableEntity, "INVALID_ENVIRONMENT", err.Error())
	case errors.Is(err, solver.ErrInvalidConfiguration):
		abortError(c, http.StatusUnprocessableEntity, "INVALID_CONFIGURATION", err.Error())
	case errors.Is(err, solver.ErrConvergence):
		var se *solver.SolveError
		if errors.As(err, &se) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: ErrorDetail{
					Code:    "CONVERGENCE",
					Message: err.Error(),
					Details: map[string]interface{}{
						"iterations":  se.Iterations,
						"rotor_speed": se.RotorSpeed,
					},
				},
			})
			return
		}
		abortError(c, http.StatusUnprocessableEntity, "CONVERGENCE", err.Error())
	default:
		abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// Health handles GET /health
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPresets handles GET /api/v1/presets
func (s *Server) ListPresets(c *gin.Context) {
	names := config.ListPresets()
	out := make([]*config.Vehicle, 0, len(names))
	for _, name := range names {
		out = append(out, config.GetPreset(name))
	}
	c.JSON(http.StatusOK, PresetResponse{Presets: out})
}

// GetPreset handles GET /api/v1/presets/:name
func (s *Server) GetPreset(c *gin.Context) {
	v := config.GetPreset(c.Param("name"))
	if v == nil {
		abortError(c, http.StatusNotFound, "PRESET_NOT_FOUND", fmt.Sprintf("unknown preset %q", c.Param("name")))
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListMetrics handles GET /api/v1/metrics
func (s *Server) ListMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": solver.MetricNames()})
}

func (s *Server) bindVehicle(c *gin.Context) (*VehicleRequest, *config.Vehicle, bool) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return nil, nil, false
	}
	var v *config.Vehicle
	switch {
	case req.Vehicle != nil && req.Preset != "":
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", "set either preset or vehicle, not both")
		return nil, nil, false
	case req.Vehicle != nil:
		v = req.Vehicle
	case req.Preset != "":
		if v = config.GetPreset(req.Preset); v == nil {
			abortError(c, http.StatusNotFound, "PRESET_NOT_FOUND", fmt.Sprintf("unknown preset %q", req.Preset))
			return nil, nil, false
		}
	default:
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", "preset or vehicle is required")
		return nil, nil, false
	}
	if req.Throttle != nil {
		v.Throttle = *req.Throttle
	}
	if req.SafeDuty != 0 {
		v.SafeDuty = req.SafeDuty
	}
	return &req, v, true
}

// Solve handles POST /api/v1/solve
func (s *Server) Solve(c *gin.Context) {
	req, v, ok := s.bindVehicle(c)
	if !ok {
		return
	}
	if err := req.Constraints.Validate(); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_CONSTRAINTS", err.Error())
		return
	}
	cfg, err := v.Configuration()
	if err != nil {
		solveError(c, err)
		return
	}
	res, err := s.engine.Solver().Solve(cfg)
	if err != nil {
		solveError(c, err)
		return
	}
	c.JSON(http.StatusOK, SolveResponse{
		Vehicle:       v.Name,
		Configuration: cfg,
		Result:        res,
		Verdict:       feasibility.EvaluateRatings(res, req.Constraints, cfg.Motor, cfg.ESC),
	})
}

// Envelope handles POST /api/v1/envelope
func (s *Server) Envelope(c *gin.Context) {
	_, v, ok := s.bindVehicle(c)
	if !ok {
		return
	}
	cfg, err := v.Configuration()
	if err != nil {
		solveError(c, err)
		return
	}
	env, err := s.engine.Solver().Envelope(cfg, v.SafeDutyCycle())
	if err != nil {
		solveError(c, err)
		return
	}
	c.JSON(http.StatusOK, EnvelopeResponse{Vehicle: v.Name, Configuration: cfg, Envelope: env})
}

// Sweep handles POST /api/v1/sweep. ?view=front drops the non-front
// candidates from the response.
func (s *Server) Sweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := s.engine.Run(c.Request.Context(), req.Request)
	switch {
	case errors.Is(err, tradespace.ErrInvalidRequest):
		abortError(c, http.StatusBadRequest, "INVALID_SWEEP", err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client went away; keep the partial result if we can
		s.log.Warn("sweep canceled", zap.Error(err))
		if result == nil {
			abortError(c, http.StatusServiceUnavailable, "CANCELED", err.Error())
			return
		}
	case err != nil:
		abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	resp := SweepResponse{
		Summary: tradespace.Summarize(result, nil),
		Result:  result,
	}
	if s.store != nil && !req.DryRun {
		runID, err := s.store.Save(req.Name, req.Request, result)
		if err != nil {
			s.log.Error("persist sweep", zap.Error(err))
			_ = c.Error(err)
		} else {
			resp.RunID = runID
		}
	}
	if c.Query("view") == "front" {
		trimmed := *result
		trimmed.Candidates = nil
		resp.Result = &trimmed
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.store == nil {
		abortError(c, http.StatusNotImplemented, "STORAGE_DISABLED", "run storage is not configured")
		return false
	}
	return true
}

func runError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrRunNotFound) {
		abortError(c, http.StatusNotFound, "RUN_NOT_FOUND", err.Error())
		return
	}
	abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

// ListRuns handles GET /api/v1/runs
func (s *Server) ListRuns(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	runs, err := s.store.List()
	if err != nil {
		runError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun handles GET /api/v1/runs/:id
func (s *Server) GetRun(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	id := c.Param("id")
	meta, err := s.store.Load(id)
	if err != nil {
		runError(c, err)
		return
	}
	result, err := s.store.LoadResult(id)
	if err != nil {
		runError(c, err)
		return
	}
	c.JSON(http.StatusOK, RunResponse{
		Run:     meta,
		Summary: tradespace.Summarize(result, nil),
		Result:  result,
	})
}

// GetFront handles GET /api/v1/runs/:id/front
func (s *Server) GetFront(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	result, err := s.store.LoadResult(c.Param("id"))
	if err != nil {
		runError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objectives": result.Objectives, "front": result.Front})
}

// GetCandidatesCSV handles GET /api/v1/runs/:id/candidates.csv
func (s *Server) GetCandidatesCSV(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	path, err := s.store.CandidatesPath(c.Param("id"))
	if err != nil {
		runError(c, err)
		return
	}
	if _, err := s.store.Load(c.Param("id")); err != nil {
		runError(c, err)
		return
	}
	c.FileAttachment(path, "candidates.csv")
}
