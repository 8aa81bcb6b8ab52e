package tradespace

import (
	"fmt"
	"math"

	"github.com/guisoares9/tradespace-designer/internal/solver"
)

// UtilityAttribute scores one metric linearly between Min (utility 0) and
// Max (utility 1). Setting Min above Max scores a metric that should be
// small.
type UtilityAttribute struct {
	Metric string  `json:"metric" yaml:"metric"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Weight float64 `json:"weight" yaml:"weight"`
}

func (a UtilityAttribute) Validate() error {
	if !solver.IsMetric(a.Metric) {
		return fmt.Errorf("utility: unknown metric %q", a.Metric)
	}
	if math.IsNaN(a.Min) || math.IsNaN(a.Max) || math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0) {
		return fmt.Errorf("utility %s: bounds must be finite", a.Metric)
	}
	if a.Min == a.Max {
		return fmt.Errorf("utility %s: min and max must differ", a.Metric)
	}
	if math.IsNaN(a.Weight) || math.IsInf(a.Weight, 0) || a.Weight < 0 {
		return fmt.Errorf("utility %s: weight must be finite and >= 0", a.Metric)
	}
	return nil
}

// Score is the single-attribute utility of v, clamped to [0, 1].
func (a UtilityAttribute) Score(v float64) float64 {
	u := (v - a.Min) / (a.Max - a.Min)
	return math.Max(0, math.Min(1, u))
}

// Utility is the weighted sum of attribute scores for res.
func Utility(res solver.PerformanceResult, attrs []UtilityAttribute) float64 {
	total := 0.0
	for _, a := range attrs {
		v, err := res.Metric(a.Metric)
		if err != nil {
			continue
		}
		total += a.Weight * a.Score(v)
	}
	return total
}
