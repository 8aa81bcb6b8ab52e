package tradespace

import (
	"errors"
	"sort"
	"time"

	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/pareto"
	"github.com/guisoares9/tradespace-designer/internal/solver"
)

// Status separates constraint rejections from configurations the solver
// could not evaluate.
type Status string

const (
	StatusFeasible    Status = "feasible"
	StatusRejected    Status = "rejected"
	StatusUnevaluable Status = "unevaluable"
)

// Failure classifies why a candidate is unevaluable.
type Failure string

const (
	FailureInvalidConfiguration Failure = "invalid_configuration"
	FailureInvalidEnvironment   Failure = "invalid_environment"
	FailureConvergence          Failure = "convergence"
)

func classify(err error) Failure {
	switch {
	case errors.Is(err, solver.ErrInvalidEnvironment):
		return FailureInvalidEnvironment
	case errors.Is(err, solver.ErrConvergence):
		return FailureConvergence
	default:
		return FailureInvalidConfiguration
	}
}

// Candidate is one evaluated point of the design space.
type Candidate struct {
	Index         int                      `json:"index" yaml:"index"`
	Configuration solver.Configuration     `json:"configuration" yaml:"configuration"`
	Status        Status                   `json:"status" yaml:"status"`
	Result        solver.PerformanceResult `json:"result" yaml:"result"`
	Verdict       feasibility.Verdict      `json:"verdict" yaml:"verdict"`
	Failure       Failure                  `json:"failure,omitempty" yaml:"failure,omitempty"`
	Error         string                   `json:"error,omitempty" yaml:"error,omitempty"`

	// Rank is the non-domination level among feasible candidates; -1 for
	// the others and for unranked layers beyond the front.
	Rank    int     `json:"rank" yaml:"rank"`
	OnFront bool    `json:"on_front" yaml:"on_front"`
	Utility float64 `json:"utility,omitempty" yaml:"utility,omitempty"`
}

func (c Candidate) Feasible() bool {
	return c.Status == StatusFeasible
}

// SweepResult is the outcome of Engine.Run. Candidates and Front are in
// enumeration order.
type SweepResult struct {
	Candidates []Candidate        `json:"candidates" yaml:"candidates"`
	Front      []Candidate        `json:"front" yaml:"front"`
	Truncated  bool               `json:"truncated" yaml:"truncated"`
	Objectives []pareto.Objective `json:"objectives" yaml:"objectives"`

	// Total is the size of the full product; Planned is how many points
	// sampling selected; Evaluated how many ran before the sweep ended.
	Total       int           `json:"total" yaml:"total"`
	Planned     int           `json:"planned" yaml:"planned"`
	Evaluated   int           `json:"evaluated" yaml:"evaluated"`
	Feasible    int           `json:"feasible" yaml:"feasible"`
	Rejected    int           `json:"rejected" yaml:"rejected"`
	Unevaluable int           `json:"unevaluable" yaml:"unevaluable"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// FeasibleCandidates returns the accepted candidates.
func (r *SweepResult) FeasibleCandidates() []Candidate {
	out := make([]Candidate, 0, r.Feasible)
	for _, c := range r.Candidates {
		if c.Feasible() {
			out = append(out, c)
		}
	}
	return out
}

// RankByUtility returns the feasible candidates by descending utility,
// ties broken by enumeration index.
func (r *SweepResult) RankByUtility() []Candidate {
	out := r.FeasibleCandidates()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Utility != out[j].Utility {
			return out[i].Utility > out[j].Utility
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Lookup finds a candidate by enumeration index.
func (r *SweepResult) Lookup(index int) (Candidate, bool) {
	i := sort.Search(len(r.Candidates), func(i int) bool { return r.Candidates[i].Index >= index })
	if i < len(r.Candidates) && r.Candidates[i].Index == index {
		return r.Candidates[i], true
	}
	return Candidate{}, false
}
