package tradespace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricSummary describes one metric over the feasible candidates.
type MetricSummary struct {
	Metric string  `json:"metric" yaml:"metric"`
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Median float64 `json:"median" yaml:"median"`
}

// SummaryMetrics is the default metric set of Summarize.
var SummaryMetrics = []string{
	"thrust_to_weight",
	"hover_time",
	"hover_throttle",
	"efficiency",
	"battery_current",
	"mass",
}

// Summarize computes statistics of the named metrics over the feasible
// candidates. Unknown metrics and empty sets are skipped.
func Summarize(r *SweepResult, metrics []string) []MetricSummary {
	if len(metrics) == 0 {
		metrics = SummaryMetrics
	}
	feasible := r.FeasibleCandidates()
	if len(feasible) == 0 {
		return nil
	}

	out := make([]MetricSummary, 0, len(metrics))
	for _, name := range metrics {
		values := make([]float64, 0, len(feasible))
		for _, c := range feasible {
			v, err := c.Result.Metric(name)
			if err != nil {
				break
			}
			values = append(values, v)
		}
		if len(values) != len(feasible) {
			continue
		}

		sort.Float64s(values)
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		out = append(out, MetricSummary{
			Metric: name,
			Count:  len(values),
			Min:    floats.Min(values),
			Max:    floats.Max(values),
			Mean:   mean,
			StdDev: std,
			Median: stat.Quantile(0.5, stat.Empirical, values, nil),
		})
	}
	return out
}
