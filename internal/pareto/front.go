package pareto

import "fmt"

// DefaultEpsilon is the tolerance used when callers pass zero.
const DefaultEpsilon = 1e-9

// Dominates reports whether a dominates b. a, b and dirs must have equal
// length. Values within eps count as equal, so an advantage smaller than
// eps is a tie and cannot protect a point that is worse elsewhere.
func Dominates(a, b []float64, dirs []Direction, eps float64) bool {
	strictly := false
	for i, d := range dirs {
		x, y := a[i], b[i]
		if d == Minimize {
			x, y = -x, -y
		}
		if x < y-eps {
			return false
		}
		if x > y+eps {
			strictly = true
		}
	}
	return strictly
}

// Front returns the indices of the non-dominated points in ascending order.
func Front(points [][]float64, dirs []Direction, eps float64) ([]int, error) {
	if err := check(points, dirs); err != nil {
		return nil, err
	}
	all := make([]int, len(points))
	for i := range all {
		all[i] = i
	}
	return front(points, all, dirs, epsilon(eps)), nil
}

// Ranks assigns each point its non-domination level: 0 for the front,
// 1 for the front of what remains, and so on.
func Ranks(points [][]float64, dirs []Direction, eps float64) ([]int, error) {
	if err := check(points, dirs); err != nil {
		return nil, err
	}
	eps = epsilon(eps)

	ranks := make([]int, len(points))
	remaining := make([]int, len(points))
	for i := range remaining {
		remaining[i] = i
	}

	for level := 0; len(remaining) > 0; level++ {
		layer := front(points, remaining, dirs, eps)
		onLayer := make(map[int]bool, len(layer))
		for _, idx := range layer {
			ranks[idx] = level
			onLayer[idx] = true
		}
		next := make([]int, 0, len(remaining)-len(layer))
		for _, idx := range remaining {
			if !onLayer[idx] {
				next = append(next, idx)
			}
		}
		remaining = next
	}
	return ranks, nil
}

// front filters subset, preserving its order.
func front(points [][]float64, subset []int, dirs []Direction, eps float64) []int {
	out := make([]int, 0, len(subset))
	for _, i := range subset {
		dominated := false
		for _, j := range subset {
			if i != j && Dominates(points[j], points[i], dirs, eps) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, i)
		}
	}
	return out
}

func check(points [][]float64, dirs []Direction) error {
	if len(dirs) == 0 && len(points) > 0 {
		return fmt.Errorf("pareto: no objectives")
	}
	for i, p := range points {
		if len(p) != len(dirs) {
			return fmt.Errorf("pareto: point %d has %d values, want %d", i, len(p), len(dirs))
		}
	}
	return nil
}

func epsilon(eps float64) float64 {
	if eps <= 0 {
		return DefaultEpsilon
	}
	return eps
}
