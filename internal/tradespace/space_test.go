package tradespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceIndexRoundTrip(t *testing.T) {
	sp := newSpace(wideCatalog(), wideGrid())
	total := sp.size(DefaultMaxCandidates)
	require.Equal(t, 96, total)

	for i := 0; i < total; i++ {
		assert.Equal(t, i, sp.index(sp.coords(i)))
	}
}

func TestSpaceDefaults(t *testing.T) {
	grid := wideGrid()
	grid.Environments = nil
	grid.BaseMasses = nil
	sp := newSpace(paperCatalog(), grid)

	assert.Equal(t, 6, sp.size(DefaultMaxCandidates))
	cfg := sp.configuration(0)
	assert.Equal(t, 25.0, cfg.Environment.Temperature)
	assert.Zero(t, cfg.BaseMass)
}

func TestSpaceSizeLimit(t *testing.T) {
	sp := newSpace(wideCatalog(), wideGrid())
	assert.Equal(t, -1, sp.size(50))
}

func TestLatinHypercubeStratified(t *testing.T) {
	sp := newSpace(wideCatalog(), wideGrid())
	idx := latinHypercube(sp, 6, 9)

	require.NotEmpty(t, idx)
	assert.LessOrEqual(t, len(idx), 6)
	assert.IsIncreasing(t, idx)

	// every throttle level is hit when samples are a multiple of the axis
	seen := map[int]bool{}
	for _, i := range latinHypercube(sp, 3, 9) {
		seen[sp.coords(i)[5]] = true
	}
	assert.Len(t, seen, 3)

	assert.Equal(t, idx, latinHypercube(sp, 6, 9))
}
