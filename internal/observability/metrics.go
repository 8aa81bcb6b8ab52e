// Package observability wires Prometheus metrics and OpenTelemetry tracing
// for sweeps and the HTTP API.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SweepMetrics bundles the sweep collectors. It satisfies
// tradespace.Recorder.
type SweepMetrics struct {
	gatherer prometheus.Gatherer

	Candidates      *prometheus.CounterVec
	SolveIterations prometheus.Histogram
	CandidateTime   prometheus.Histogram
	Sweeps          *prometheus.CounterVec
	SweepDuration   prometheus.Histogram
	FrontSize       prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
}

// NewSweepMetrics registers the collectors against reg, defaulting to the
// global registry when nil.
func NewSweepMetrics(reg prometheus.Registerer) (*SweepMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	candidates, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradespace_candidates_total",
		Help: "Evaluated candidates, labeled by status.",
	}, []string{"status"}), "tradespace_candidates_total")
	if err != nil {
		return nil, err
	}

	iterations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradespace_solve_iterations",
		Help:    "Rotor speed iterations needed per converged candidate.",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 20, 50, 100},
	}), "tradespace_solve_iterations")
	if err != nil {
		return nil, err
	}

	candidateTime, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradespace_candidate_duration_seconds",
		Help:    "Time to solve and filter one candidate.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}), "tradespace_candidate_duration_seconds")
	if err != nil {
		return nil, err
	}

	sweeps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradespace_sweeps_total",
		Help: "Completed sweeps, labeled by whether they were truncated.",
	}, []string{"truncated"}), "tradespace_sweeps_total")
	if err != nil {
		return nil, err
	}

	sweepDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradespace_sweep_duration_seconds",
		Help:    "Wall time of a sweep.",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}), "tradespace_sweep_duration_seconds")
	if err != nil {
		return nil, err
	}

	front, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tradespace_front_size",
		Help: "Pareto front size of the last sweep.",
	}), "tradespace_front_size")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradespace_http_requests_total",
		Help: "Handled API requests, labeled by route and status code.",
	}, []string{"route", "code"}), "tradespace_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &SweepMetrics{
		gatherer:        gatherer,
		Candidates:      candidates,
		SolveIterations: iterations,
		CandidateTime:   candidateTime,
		Sweeps:          sweeps,
		SweepDuration:   sweepDuration,
		FrontSize:       front,
		HTTPRequests:    requests,
	}, nil
}

func (m *SweepMetrics) ObserveCandidate(status string, iterations int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Candidates.WithLabelValues(status).Inc()
	if iterations > 0 {
		m.SolveIterations.Observe(float64(iterations))
	}
	m.CandidateTime.Observe(elapsed.Seconds())
}

func (m *SweepMetrics) ObserveSweep(evaluated, front int, truncated bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Sweeps.WithLabelValues(fmt.Sprint(truncated)).Inc()
	m.SweepDuration.Observe(elapsed.Seconds())
	m.FrontSize.Set(float64(front))
}

// ObserveRequest counts one API request.
func (m *SweepMetrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, fmt.Sprint(code)).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (m *SweepMetrics) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
