// Package viz renders solver and sweep results for the terminal.
//
//   - [RenderPerformance], [RenderEnvelope]: lipgloss panels for one vehicle
//   - [RenderSweep]: counts, metric statistics and the Pareto front table
//   - [FrontPlot], [ThrottleCurves]: asciigraph line charts
//   - [Browser]: Bubble Tea candidate browser
//
// # Key Bindings
//
//	↑/↓ j/k - Move selection
//	Tab     - Toggle front / all candidates
//	S       - Cycle sort metric
//	T       - Cycle color themes
//	Enter   - Show candidate detail
//	Q       - Quit
package viz
