package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

func (s Styles) panel(title string, lines []string) string {
	body := s.Title.Render(title) + "\n" + strings.Join(lines, "\n")
	return s.Panel.Render(body)
}

func configurationLines(s Styles, cfg solver.Configuration) []string {
	return []string{
		s.row("propeller", fmt.Sprintf("%s (%g x %g in, %d blades)", cfg.Propeller.Name, cfg.Propeller.Diameter, cfg.Propeller.Pitch, cfg.Propeller.Blades)),
		s.row("motor", fmt.Sprintf("%s x%d (%g KV, %.3f Ω)", cfg.Motor.Name, cfg.MotorCount, cfg.Motor.KV, cfg.Motor.Resistance)),
		s.row("battery", fmt.Sprintf("%s (%.1f V, %.0f mAh)", cfg.Battery.Name, cfg.Battery.Voltage, cfg.Battery.Capacity)),
		s.row("esc", fmt.Sprintf("%s (%.3f Ω)", displayName(cfg.ESC.Name, "ideal"), cfg.ESC.Resistance)),
		s.row("mass", fmt.Sprintf("%.3f kg", cfg.Mass())),
		s.row("throttle", fmt.Sprintf("%.2f", cfg.Throttle)),
		s.row("environment", fmt.Sprintf("%.1f °C, %.0f m", cfg.Environment.Temperature, cfg.Environment.Altitude)),
	}
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// RenderPerformance lays out one solved configuration and its verdict.
func RenderPerformance(s Styles, name string, cfg solver.Configuration, res solver.PerformanceResult, verdict feasibility.Verdict) string {
	perf := []string{
		s.row("rotor speed", fmt.Sprintf("%.0f rpm", res.RotorSpeed)),
		s.row("thrust", fmt.Sprintf("%.3f N/rotor, %.3f N total", res.Thrust, res.TotalThrust)),
		s.row("thrust/weight", fmt.Sprintf("%.3f", res.ThrustToWeight)),
		s.row("torque", fmt.Sprintf("%.4f N·m", res.Torque)),
		s.row("motor", fmt.Sprintf("%.2f A @ %.2f V", res.MotorCurrent, res.MotorVoltage)),
		s.row("esc", fmt.Sprintf("%.2f A @ %.2f V", res.ESCCurrent, res.ESCVoltage)),
		s.row("battery current", fmt.Sprintf("%.2f A", res.BatteryCurrent)),
		s.row("power", fmt.Sprintf("%.1f W", res.Power)),
		s.row("efficiency", fmt.Sprintf("%.1f %%", res.Efficiency*100)),
		s.row("flight time", fmt.Sprintf("%.2f min", res.FlightTime)),
		s.row("air density", fmt.Sprintf("%.4f kg/m³", res.AirDensity)),
		s.Subtle.Render(fmt.Sprintf("converged in %d iterations", res.Iterations)),
	}

	var hover []string
	if res.Hoverable {
		hover = []string{
			s.row("hover throttle", fmt.Sprintf("%.3f ", res.HoverThrottle)+s.ProgressBar(res.HoverThrottle, solver.DefaultSafeDuty, 20)),
			s.row("hover current", fmt.Sprintf("%.2f A", res.HoverCurrent)),
			s.row("hover time", fmt.Sprintf("%.2f min", res.HoverTime)),
		}
	} else {
		reason := res.HoverError
		if reason == "" {
			reason = "no hover point found"
		}
		hover = []string{s.Unevaluable.Render("cannot hover: " + reason)}
	}

	blocks := []string{
		s.Header.Render(name),
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.panel("configuration", configurationLines(s, cfg)),
			s.panel("performance", perf),
		),
		s.panel("hover", hover),
		renderVerdict(s, verdict),
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderVerdict(s Styles, v feasibility.Verdict) string {
	if v.Accepted {
		return s.Feasible.Render("✓ feasible")
	}
	lines := []string{s.Rejected.Render("✗ rejected")}
	for _, reason := range v.Reasons() {
		lines = append(lines, s.Subtle.Render("  - "+reason))
	}
	return strings.Join(lines, "\n")
}

// RenderEnvelope tabulates the hover, safe-duty and full-throttle points.
func RenderEnvelope(s Styles, name string, cfg solver.Configuration, env solver.OperatingEnvelope) string {
	var b strings.Builder
	b.WriteString(s.Label.Render(fmt.Sprintf("%-12s %8s %9s %10s %10s %10s", "point", "throttle", "rpm", "thrust N", "current A", "time min")))
	b.WriteString("\n")
	point := func(label string, throttle float64, r solver.PerformanceResult) {
		fmt.Fprintf(&b, "%-12s %8.3f %9.0f %10.2f %10.2f %10.2f\n",
			label, throttle, r.RotorSpeed, r.TotalThrust, r.BatteryCurrent, r.FlightTime)
	}
	if env.Hoverable {
		point("hover", env.Hover.DutyCycle, env.Hover)
	} else {
		b.WriteString(s.Unevaluable.Render(fmt.Sprintf("%-12s %s", "hover", "not reachable")) + "\n")
	}
	point("safe duty", env.SafeDuty, env.SafeThrust)
	point("full", 1, env.MaxThrust)

	margins := []string{
		s.row("max payload", fmt.Sprintf("%.3f kg", env.MaxPayload)),
		s.row("max pitch", fmt.Sprintf("%.1f°", env.MaxPitch*180/math.Pi)),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Header.Render(name),
		s.panel("configuration", configurationLines(s, cfg)),
		s.panel("envelope", []string{strings.TrimRight(b.String(), "\n")}),
		s.panel("margins", margins),
	)
}

// RenderSweep summarizes a sweep and lists up to limit front members
// (all when limit <= 0).
func RenderSweep(s Styles, r *tradespace.SweepResult, summaries []tradespace.MetricSummary, limit int) string {
	counts := []string{
		s.row("design space", fmt.Sprintf("%d", r.Total)),
		s.row("evaluated", fmt.Sprintf("%d of %d planned", r.Evaluated, r.Planned)),
		s.row("feasible", s.Feasible.Render(fmt.Sprintf("%d", r.Feasible))),
		s.row("rejected", s.Rejected.Render(fmt.Sprintf("%d", r.Rejected))),
		s.row("unevaluable", s.Unevaluable.Render(fmt.Sprintf("%d", r.Unevaluable))),
		s.row("pareto front", fmt.Sprintf("%d", len(r.Front))),
		s.row("elapsed", r.Duration.String()),
	}
	if r.Truncated {
		counts = append(counts, s.Rejected.Render("truncated: time budget or cancellation"))
	}

	blocks := []string{s.panel("sweep", counts)}
	if len(summaries) > 0 {
		blocks = append(blocks, s.panel("feasible metrics", summaryLines(s, summaries)))
	}
	if len(r.Front) > 0 {
		blocks = append(blocks, s.panel("pareto front", FrontTable(s, r, r.Front, limit)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func summaryLines(s Styles, summaries []tradespace.MetricSummary) []string {
	lines := []string{s.Label.Render(fmt.Sprintf("%-18s %10s %10s %10s %10s", "metric", "min", "median", "mean", "max"))}
	for _, m := range summaries {
		lines = append(lines, fmt.Sprintf("%-18s %10.3f %10.3f %10.3f %10.3f", m.Metric, m.Min, m.Median, m.Mean, m.Max))
	}
	return lines
}

// FrontTable lists candidates with their objective values.
func FrontTable(s Styles, r *tradespace.SweepResult, candidates []tradespace.Candidate, limit int) []string {
	header := fmt.Sprintf("%6s  %-8s %-8s %-10s %-10s %2s %5s", "index", "prop", "motor", "battery", "esc", "n", "thr")
	for _, o := range r.Objectives {
		header += fmt.Sprintf(" %16s", fmt.Sprintf("%s(%s)", o.Metric, o.Direction.String()[:3]))
	}
	lines := []string{s.Label.Render(header)}

	shown := candidates
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, c := range shown {
		cfg := c.Configuration
		line := fmt.Sprintf("%6d  %-8s %-8s %-10s %-10s %2d %5.2f",
			c.Index, clip(cfg.Propeller.Name, 8), clip(cfg.Motor.Name, 8), clip(cfg.Battery.Name, 10),
			clip(displayName(cfg.ESC.Name, "ideal"), 10), cfg.MotorCount, cfg.Throttle)
		for _, o := range r.Objectives {
			v, _ := c.Result.Metric(o.Metric)
			line += fmt.Sprintf(" %16.3f", v)
		}
		lines = append(lines, line)
	}
	if len(shown) < len(candidates) {
		lines = append(lines, s.Subtle.Render(fmt.Sprintf("... %d more", len(candidates)-len(shown))))
	}
	return lines
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
