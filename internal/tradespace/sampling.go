package tradespace

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

type SamplingMethod string

const (
	SamplingFull SamplingMethod = "full"
	SamplingLHS  SamplingMethod = "lhs"
)

// Sampling selects which points of the space are evaluated. The zero value
// enumerates the full product.
type Sampling struct {
	Method  SamplingMethod `json:"method,omitempty" yaml:"method,omitempty"`
	Samples int            `json:"samples,omitempty" yaml:"samples,omitempty"`
	Seed    uint64         `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func (s Sampling) Validate() error {
	switch s.Method {
	case "", SamplingFull:
		return nil
	case SamplingLHS:
		if s.Samples <= 0 {
			return fmt.Errorf("lhs sampling needs samples > 0, got %d", s.Samples)
		}
		return nil
	default:
		return fmt.Errorf("unknown sampling method %q", s.Method)
	}
}

// latinHypercube draws samples points stratified along every axis of sp
// and returns their sorted, distinct enumeration indices. The draw depends
// only on the seed.
func latinHypercube(sp space, samples int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	points := make([][numAxes]int, samples)
	for axis := 0; axis < numAxes; axis++ {
		perm := r.Perm(samples)
		width := float64(sp.radix[axis])
		for k := 0; k < samples; k++ {
			pos := (float64(perm[k]) + r.Float64()) / float64(samples)
			c := int(pos * width)
			if c >= sp.radix[axis] {
				c = sp.radix[axis] - 1
			}
			points[k][axis] = c
		}
	}

	seen := make(map[int]bool, samples)
	out := make([]int, 0, samples)
	for _, p := range points {
		idx := sp.index(p)
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
