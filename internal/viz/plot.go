package viz

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

// FrontPlot draws yMetric over the front members ordered by xMetric. The
// x range goes in the caption since asciigraph plots against sample index.
func FrontPlot(r *tradespace.SweepResult, xMetric, yMetric string, width, height int) (string, error) {
	if len(r.Front) == 0 {
		return "", fmt.Errorf("no front to plot")
	}
	type point struct{ x, y float64 }
	points := make([]point, 0, len(r.Front))
	for _, c := range r.Front {
		x, err := c.Result.Metric(xMetric)
		if err != nil {
			return "", err
		}
		y, err := c.Result.Metric(yMetric)
		if err != nil {
			return "", err
		}
		points = append(points, point{x, y})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].x < points[j].x })

	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.y
	}
	if len(ys) == 1 {
		ys = append(ys, ys[0])
	}
	caption := fmt.Sprintf("%s vs %s [%.3g .. %.3g], %d front members",
		yMetric, xMetric, points[0].x, points[len(points)-1].x, len(points))
	return asciigraph.Plot(ys,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

// ThrottleCurves solves cfg at steps throttles from 1/steps to 1 and plots
// total thrust and battery current. Unsolvable throttles plot as zero.
func ThrottleCurves(s *solver.Solver, cfg solver.Configuration, steps, width, height int) (string, error) {
	if steps < 2 {
		steps = 2
	}
	thrust := make([]float64, steps)
	current := make([]float64, steps)
	solved := 0
	for i := range steps {
		res, err := s.Solve(cfg.WithThrottle(float64(i+1) / float64(steps)))
		if err != nil {
			continue
		}
		thrust[i], current[i] = res.TotalThrust, res.BatteryCurrent
		solved++
	}
	if solved == 0 {
		return "", fmt.Errorf("no throttle setting converged")
	}
	weight := make([]float64, steps)
	for i := range weight {
		weight[i] = cfg.Weight()
	}

	thrustPlot := asciigraph.PlotMany([][]float64{thrust, weight},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("total thrust N vs throttle %.2f..1 (red: weight)", 1/float64(steps))),
	)
	currentPlot := asciigraph.Plot(current,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("battery current A vs throttle"),
	)
	return thrustPlot + "\n\n" + currentPlot, nil
}
