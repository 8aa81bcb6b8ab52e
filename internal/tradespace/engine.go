package tradespace

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/pareto"
	"github.com/guisoares9/tradespace-designer/internal/solver"
)

const tracerName = "github.com/guisoares9/tradespace-designer/internal/tradespace"

// DefaultMaxCandidates bounds full enumeration; larger spaces must be
// sampled.
const DefaultMaxCandidates = 1_000_000

// DefaultObjectives is used when a request names none.
func DefaultObjectives() []pareto.Objective {
	return []pareto.Objective{
		{Metric: "hover_time", Direction: pareto.Maximize},
		{Metric: "thrust_to_weight", Direction: pareto.Maximize},
		{Metric: "mass", Direction: pareto.Minimize},
	}
}

// Request describes one sweep.
type Request struct {
	Catalog     catalog.Catalog         `json:"catalog" yaml:"catalog"`
	Grid        Grid                    `json:"grid" yaml:"grid"`
	Constraints feasibility.Constraints `json:"constraints" yaml:"constraints"`
	Objectives  []pareto.Objective      `json:"objectives,omitempty" yaml:"objectives,omitempty"`
	Utility     []UtilityAttribute      `json:"utility,omitempty" yaml:"utility,omitempty"`
	Sampling    Sampling                `json:"sampling,omitempty" yaml:"sampling,omitempty"`

	// TimeBudget bounds the whole sweep; zero means none. It is checked
	// between candidate evaluations.
	TimeBudget time.Duration `json:"time_budget,omitempty" yaml:"time_budget,omitempty"`

	// Epsilon is the dominance tolerance; zero uses pareto.DefaultEpsilon.
	Epsilon float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`

	// RankAll assigns non-domination levels beyond the front.
	RankAll bool `json:"rank_all,omitempty" yaml:"rank_all,omitempty"`
}

func (r Request) objectives() []pareto.Objective {
	if len(r.Objectives) == 0 {
		return DefaultObjectives()
	}
	return r.Objectives
}

// Validate reports structural problems, wrapped in ErrInvalidRequest.
func (r Request) Validate() error {
	if err := r.Catalog.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for _, o := range r.objectives() {
		if !solver.IsMetric(o.Metric) {
			return fmt.Errorf("%w: unknown objective metric %q", ErrInvalidRequest, o.Metric)
		}
		if o.Direction != pareto.Maximize && o.Direction != pareto.Minimize {
			return fmt.Errorf("%w: objective %q has invalid direction", ErrInvalidRequest, o.Metric)
		}
	}
	for _, a := range r.Utility {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if err := r.Sampling.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := r.Constraints.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if r.TimeBudget < 0 || r.Epsilon < 0 {
		return fmt.Errorf("%w: time budget and epsilon must be >= 0", ErrInvalidRequest)
	}
	return nil
}

// Recorder receives sweep telemetry. observability.SweepMetrics
// implements it.
type Recorder interface {
	ObserveCandidate(status string, iterations int, elapsed time.Duration)
	ObserveSweep(evaluated, front int, truncated bool, elapsed time.Duration)
}

type Options struct {
	// Workers defaults to GOMAXPROCS.
	Workers       int
	MaxCandidates int
	Logger        *zap.Logger
	Recorder      Recorder
}

// Engine runs sweeps. It keeps no per-sweep state and may run several
// sweeps concurrently.
type Engine struct {
	solver        *solver.Solver
	workers       int
	maxCandidates int
	log           *zap.Logger
	recorder      Recorder
}

// NewEngine returns an engine that evaluates candidates with s, or with
// default solver options when s is nil.
func NewEngine(s *solver.Solver, opts Options) *Engine {
	if s == nil {
		s = solver.New(solver.DefaultOptions())
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		solver:        s,
		workers:       opts.Workers,
		maxCandidates: opts.MaxCandidates,
		log:           opts.Logger,
		recorder:      opts.Recorder,
	}
}

func (e *Engine) Solver() *solver.Solver { return e.solver }

// Run evaluates the request. Structural problems return ErrInvalidRequest
// before any work starts. On cancellation Run returns the candidates
// finished so far, marked truncated, together with ctx.Err().
func (e *Engine) Run(ctx context.Context, req Request) (*SweepResult, error) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "tradespace.Run")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	sp := newSpace(req.Catalog, req.Grid)
	indices, total, err := e.plan(sp, req.Sampling)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("tradespace.total", total),
		attribute.Int("tradespace.planned", len(indices)),
		attribute.String("tradespace.sampling", string(req.Sampling.Method)),
	)

	objectives := req.objectives()
	result := &SweepResult{
		Candidates: []Candidate{},
		Front:      []Candidate{},
		Objectives: objectives,
		Total:      total,
		Planned:    len(indices),
	}

	e.log.Info("sweep started",
		zap.Int("total", total),
		zap.Int("planned", len(indices)),
		zap.Int("workers", e.workers),
		zap.Duration("time_budget", req.TimeBudget),
	)

	slots, done := e.evaluateAll(ctx, sp, indices, req, start)
	for i, ok := range done {
		if ok {
			result.Candidates = append(result.Candidates, slots[i])
		}
	}
	result.Evaluated = len(result.Candidates)
	result.Truncated = result.Evaluated < len(indices)

	if err := e.finish(result, req); err != nil {
		span.RecordError(err)
		return nil, err
	}
	result.Duration = time.Since(start)

	if e.recorder != nil {
		e.recorder.ObserveSweep(result.Evaluated, len(result.Front), result.Truncated, result.Duration)
	}
	span.SetAttributes(
		attribute.Int("tradespace.evaluated", result.Evaluated),
		attribute.Int("tradespace.feasible", result.Feasible),
		attribute.Int("tradespace.front", len(result.Front)),
		attribute.Bool("tradespace.truncated", result.Truncated),
	)
	e.log.Info("sweep finished",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("feasible", result.Feasible),
		zap.Int("rejected", result.Rejected),
		zap.Int("unevaluable", result.Unevaluable),
		zap.Int("front", len(result.Front)),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("elapsed", result.Duration),
	)

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "canceled")
		return result, err
	}
	return result, nil
}

// plan selects the enumeration indices to evaluate.
func (e *Engine) plan(sp space, s Sampling) ([]int, int, error) {
	limit := e.maxCandidates
	if s.Method == SamplingLHS {
		limit = int(^uint(0) >> 1)
	}
	total := sp.size(limit)
	if total < 0 {
		return nil, 0, fmt.Errorf("%w: design space exceeds %d candidates, use lhs sampling",
			ErrInvalidRequest, e.maxCandidates)
	}
	if total == 0 {
		return nil, 0, nil
	}

	if s.Method == SamplingLHS && s.Samples < total {
		return latinHypercube(sp, s.Samples, s.Seed), total, nil
	}
	if total > e.maxCandidates {
		return nil, 0, fmt.Errorf("%w: design space exceeds %d candidates", ErrInvalidRequest, e.maxCandidates)
	}
	indices := make([]int, total)
	for i := range indices {
		indices[i] = i
	}
	return indices, total, nil
}

// evaluateAll runs the worker pool. Each worker writes only the slots it
// claimed, so no locking is needed.
func (e *Engine) evaluateAll(ctx context.Context, sp space, indices []int, req Request, start time.Time) ([]Candidate, []bool) {
	slots := make([]Candidate, len(indices))
	done := make([]bool, len(indices))

	workers := e.workers
	if workers > len(indices) {
		workers = len(indices)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(indices) {
					return
				}
				if ctx.Err() != nil {
					return
				}
				if req.TimeBudget > 0 && time.Since(start) > req.TimeBudget {
					return
				}
				slots[i] = e.evaluate(sp, indices[i], req.Constraints)
				done[i] = true
			}
		}()
	}
	wg.Wait()

	return slots, done
}

func (e *Engine) evaluate(sp space, index int, c feasibility.Constraints) Candidate {
	began := time.Now()
	cfg := sp.configuration(index)
	cand := Candidate{Index: index, Configuration: cfg, Rank: -1}

	res, err := e.solver.Solve(cfg)
	if err != nil {
		cand.Status = StatusUnevaluable
		cand.Failure = classify(err)
		cand.Error = err.Error()
		e.log.Debug("candidate unevaluable",
			zap.Int("index", index),
			zap.String("failure", string(cand.Failure)),
			zap.Error(err),
		)
	} else {
		cand.Result = res
		cand.Verdict = feasibility.EvaluateRatings(res, c, cfg.Motor, cfg.ESC)
		cand.Status = StatusRejected
		if cand.Verdict.Accepted {
			cand.Status = StatusFeasible
		}
	}

	if e.recorder != nil {
		e.recorder.ObserveCandidate(string(cand.Status), res.Iterations, time.Since(began))
	}
	return cand
}

// finish counts statuses, scores utility and rebuilds the front.
func (e *Engine) finish(r *SweepResult, req Request) error {
	feasible := make([]int, 0, len(r.Candidates))
	for i := range r.Candidates {
		c := &r.Candidates[i]
		switch c.Status {
		case StatusFeasible:
			r.Feasible++
			feasible = append(feasible, i)
			if len(req.Utility) > 0 {
				c.Utility = Utility(c.Result, req.Utility)
			}
		case StatusRejected:
			r.Rejected++
		default:
			r.Unevaluable++
		}
	}
	if len(feasible) == 0 {
		return nil
	}

	dirs := pareto.Directions(r.Objectives)
	points := make([][]float64, len(feasible))
	for k, i := range feasible {
		points[k] = objectiveValues(r.Candidates[i].Result, r.Objectives)
	}

	var ranks []int
	if req.RankAll {
		var err error
		if ranks, err = pareto.Ranks(points, dirs, req.Epsilon); err != nil {
			return err
		}
	} else {
		front, err := pareto.Front(points, dirs, req.Epsilon)
		if err != nil {
			return err
		}
		ranks = make([]int, len(points))
		for k := range ranks {
			ranks[k] = -1
		}
		for _, k := range front {
			ranks[k] = 0
		}
	}

	for k, i := range feasible {
		c := &r.Candidates[i]
		c.Rank = ranks[k]
		c.OnFront = ranks[k] == 0
		if c.OnFront {
			r.Front = append(r.Front, *c)
		}
	}
	return nil
}

func objectiveValues(res solver.PerformanceResult, objectives []pareto.Objective) []float64 {
	values := make([]float64, len(objectives))
	for j, o := range objectives {
		// metrics were validated with the request
		values[j], _ = res.Metric(o.Metric)
	}
	return values
}
