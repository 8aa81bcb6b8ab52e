package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

type svgPoint struct{ X, Y float64 }

// TradespaceSVG scatters every feasible candidate in the xMetric/yMetric
// plane and draws the front as a connected path on top.
func TradespaceSVG(r *tradespace.SweepResult, xMetric, yMetric string, width, height int) (string, error) {
	var cloud, front []svgPoint
	for _, c := range r.Candidates {
		if !c.Feasible() {
			continue
		}
		x, err := c.Result.Metric(xMetric)
		if err != nil {
			return "", err
		}
		y, err := c.Result.Metric(yMetric)
		if err != nil {
			return "", err
		}
		if c.OnFront {
			front = append(front, svgPoint{x, y})
		} else {
			cloud = append(cloud, svgPoint{x, y})
		}
	}
	if len(front) == 0 && len(cloud) == 0 {
		return "", fmt.Errorf("no feasible candidates to plot")
	}
	sort.Slice(front, func(i, j int) bool { return front[i].X < front[j].X })

	const margin = 40.0
	all := append(append([]svgPoint(nil), cloud...), front...)
	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, p := range all {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	plotW, plotH := float64(width)-2*margin, float64(height)-2*margin
	project := func(p svgPoint) (float64, float64) {
		return margin + (p.X-minX)/rangeX*plotW, margin + plotH - (p.Y-minY)/rangeY*plotH
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="none" stroke="#444466"/>
`, width, height, width, height, margin, margin, plotW, plotH)

	sb.WriteString(`<g fill="#666688">` + "\n")
	for _, p := range cloud {
		x, y := project(p)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2"/>`+"\n", x, y)
	}
	sb.WriteString("</g>\n")

	if len(front) > 1 {
		sb.WriteString(`<path fill="none" stroke="#00ffff" stroke-width="1.5" d="M`)
		for i, p := range front {
			x, y := project(p)
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString(`<g fill="#ff00ff">` + "\n")
	for _, p := range front {
		x, y := project(p)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3.5"/>`+"\n", x, y)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<g fill="#888899" font-family="monospace" font-size="11">
<text x="%.0f" y="%d" text-anchor="middle">%s [%.3g .. %.3g]</text>
<text x="12" y="%.0f" transform="rotate(-90 12 %.0f)" text-anchor="middle">%s [%.3g .. %.3g]</text>
</g>
</svg>
`, margin+plotW/2, height-10, xMetric, minX, maxX, margin+plotH/2, margin+plotH/2, yMetric, minY, maxY)
	return sb.String(), nil
}
