package pareto

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// naiveDominates is written independently of Dominates so the suite does not
// check the production rule against itself.
func naiveDominates(a, b []float64, dirs []Direction) bool {
	better := 0
	for i := range a {
		diff := a[i] - b[i]
		if dirs[i] == Minimize {
			diff = -diff
		}
		if diff < 0 {
			return false
		}
		if diff > 0 {
			better++
		}
	}
	return better > 0
}

func randomPoints(r *rand.Rand, n, dims int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
		for j := range points[i] {
			// coarse grid so ties and partial ties occur
			points[i][j] = float64(r.IntN(8))
		}
	}
	return points
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

var _ = Describe("Dominates", func() {
	dirs := []Direction{Maximize, Minimize}

	It("requires a strict improvement", func() {
		Expect(Dominates([]float64{2, 1}, []float64{1, 1}, dirs, 0)).To(BeTrue())
		Expect(Dominates([]float64{1, 1}, []float64{1, 1}, dirs, 0)).To(BeFalse())
	})

	It("respects the minimize orientation", func() {
		Expect(Dominates([]float64{1, 0.5}, []float64{1, 1}, dirs, 0)).To(BeTrue())
		Expect(Dominates([]float64{1, 2}, []float64{1, 1}, dirs, 0)).To(BeFalse())
	})

	It("treats differences within epsilon as ties", func() {
		Expect(Dominates([]float64{1 + 1e-12, 1}, []float64{1, 1}, dirs, 1e-9)).To(BeFalse())
		Expect(Dominates([]float64{1, 1}, []float64{1 + 1e-12, 1}, dirs, 1e-9)).To(BeFalse())
	})

	It("lets a real gain outweigh a sub-epsilon advantage", func() {
		both := []Direction{Maximize, Maximize}
		Expect(Dominates([]float64{1, 5}, []float64{1 + 1e-12, 0}, both, 1e-9)).To(BeTrue())
		Expect(Dominates([]float64{1 + 1e-12, 0}, []float64{1, 5}, both, 1e-9)).To(BeFalse())

		idx, err := Front([][]float64{{1 + 1e-12, 0}, {1, 5}}, both, 1e-9)
		Expect(err).NotTo(HaveOccurred())
		Expect(idx).To(Equal([]int{1}))
	})
})

var _ = Describe("Front", func() {
	dirs := []Direction{Maximize, Minimize, Maximize}

	Context("with hand-built points", func() {
		It("keeps the trade-off points and drops dominated ones", func() {
			points := [][]float64{
				{10, 5, 1}, // front
				{8, 3, 1},  // front
				{7, 4, 1},  // dominated by 1
				{10, 5, 2}, // front, dominates 0
			}
			idx, err := Front(points, dirs, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal([]int{1, 3}))
		})

		It("retains exact duplicates", func() {
			points := [][]float64{{3, 2, 1}, {3, 2, 1}, {1, 2, 1}}
			idx, err := Front(points, dirs, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal([]int{0, 1}))
		})

		It("returns an empty front for no points", func() {
			idx, err := Front(nil, dirs, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(BeEmpty())
		})

		It("rejects ragged input", func() {
			_, err := Front([][]float64{{1, 2}}, dirs, 0)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with random points", func() {
		var points [][]float64

		BeforeEach(func() {
			points = randomPoints(rand.New(rand.NewPCG(7, 11)), 120, len(dirs))
		})

		It("contains no member dominated by any point", func() {
			idx, err := Front(points, dirs, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).NotTo(BeEmpty())

			for _, i := range idx {
				for j := range points {
					Expect(naiveDominates(points[j], points[i], dirs)).To(BeFalse(),
						"front member %d dominated by %d", i, j)
				}
			}
		})

		It("omits only dominated points", func() {
			idx, err := Front(points, dirs, 0)
			Expect(err).NotTo(HaveOccurred())

			for i := range points {
				if contains(idx, i) {
					continue
				}
				dominated := false
				for j := range points {
					if naiveDominates(points[j], points[i], dirs) {
						dominated = true
						break
					}
				}
				Expect(dominated).To(BeTrue(), "point %d left out without being dominated", i)
			}
		})

		It("is unchanged by removing any non-front point", func() {
			idx, err := Front(points, dirs, 0)
			Expect(err).NotTo(HaveOccurred())

			for removed := range points {
				if contains(idx, removed) {
					continue
				}
				reduced := make([][]float64, 0, len(points)-1)
				kept := make([]int, 0, len(points)-1)
				for i, p := range points {
					if i != removed {
						reduced = append(reduced, p)
						kept = append(kept, i)
					}
				}

				again, err := Front(reduced, dirs, 0)
				Expect(err).NotTo(HaveOccurred())
				mapped := make([]int, len(again))
				for k, i := range again {
					mapped[k] = kept[i]
				}
				Expect(mapped).To(Equal(idx))
			}
		})

		It("does not depend on input order", func() {
			idx, err := Front(points, dirs, 0)
			Expect(err).NotTo(HaveOccurred())

			perm := rand.New(rand.NewPCG(1, 2)).Perm(len(points))
			shuffled := make([][]float64, len(points))
			for newPos, oldPos := range perm {
				shuffled[newPos] = points[oldPos]
			}
			again, err := Front(shuffled, dirs, 0)
			Expect(err).NotTo(HaveOccurred())

			back := make([]int, len(again))
			for k, i := range again {
				back[k] = perm[i]
			}
			Expect(back).To(ConsistOf(idx))
		})
	})
})

var _ = Describe("Ranks", func() {
	It("layers points by non-domination level", func() {
		dirs := []Direction{Maximize, Maximize}
		points := [][]float64{{3, 3}, {2, 2}, {1, 1}, {3, 1}, {1, 3}}
		ranks, err := Ranks(points, dirs, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ranks).To(Equal([]int{0, 1, 2, 1, 1}))
	})

	It("gives rank 0 exactly to the front", func() {
		dirs := []Direction{Minimize, Maximize}
		points := randomPoints(rand.New(rand.NewPCG(3, 5)), 60, 2)
		ranks, err := Ranks(points, dirs, 0)
		Expect(err).NotTo(HaveOccurred())
		idx, err := Front(points, dirs, 0)
		Expect(err).NotTo(HaveOccurred())

		for i, r := range ranks {
			Expect(r == 0).To(Equal(contains(idx, i)))
		}
	})
})

var _ = Describe("Direction", func() {
	It("round-trips through text", func() {
		for _, d := range []Direction{Maximize, Minimize} {
			text, err := d.MarshalText()
			Expect(err).NotTo(HaveOccurred())
			var parsed Direction
			Expect(parsed.UnmarshalText(text)).To(Succeed())
			Expect(parsed).To(Equal(d))
		}
	})

	It("accepts short names", func() {
		Expect(ParseDirection("min")).To(Equal(Minimize))
		_, err := ParseDirection("sideways")
		Expect(err).To(HaveOccurred())
	})
})
