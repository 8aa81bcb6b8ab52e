package tradespace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilityAttributeScore(t *testing.T) {
	maximize := UtilityAttribute{Metric: "hover_time", Min: 10, Max: 20, Weight: 1}
	assert.InDelta(t, 0.5, maximize.Score(15), 1e-12)
	assert.Equal(t, 0.0, maximize.Score(5))
	assert.Equal(t, 1.0, maximize.Score(25))

	minimize := UtilityAttribute{Metric: "mass", Min: 3, Max: 1, Weight: 1}
	assert.InDelta(t, 0.75, minimize.Score(1.5), 1e-12)

	assert.Error(t, UtilityAttribute{Metric: "nope", Min: 0, Max: 1}.Validate())
	assert.NoError(t, maximize.Validate())
}

func TestSummarize(t *testing.T) {
	res, err := NewEngine(nil, Options{}).Run(context.Background(), Request{Catalog: wideCatalog(), Grid: wideGrid()})
	require.NoError(t, err)
	require.Positive(t, res.Feasible)

	stats := Summarize(res, []string{"thrust_to_weight", "bogus"})
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, "thrust_to_weight", s.Metric)
	assert.Equal(t, res.Feasible, s.Count)
	assert.LessOrEqual(t, s.Min, s.Median)
	assert.LessOrEqual(t, s.Median, s.Max)
	assert.GreaterOrEqual(t, s.Mean, s.Min)
	assert.LessOrEqual(t, s.Mean, s.Max)

	assert.Nil(t, Summarize(&SweepResult{}, nil))
}
