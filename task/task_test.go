package task

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/randdist-oss/utils/config"
)

func TestSummarize(t *testing.T) {
	s := config.Stream{Name: "s", Mu: 2, Count: 5}
	draws := []float64{1, 2, 3, math.NaN(), 4}
	res := summarize(s, draws, 2*time.Second)
	assert.Equal(t, "s", res.Name)
	assert.Equal(t, 5, res.Count)
	assert.Equal(t, 1, res.Invalid)
	assert.InDelta(t, 2.5, res.Mean, 1e-12)
	// 无偏方差：(1.5²+0.5²+0.5²+1.5²)/3
	assert.InDelta(t, 5.0/3.0, res.Variance, 1e-12)
	assert.Equal(t, 1.0, res.Min)
	assert.Equal(t, 4.0, res.Max)
	assert.Equal(t, 2.0, res.Elapsed)
}

func TestSummarizeAllInvalid(t *testing.T) {
	s := config.Stream{Name: "bad", Mu: -1, Count: 2}
	res := summarize(s, []float64{math.NaN(), math.NaN()}, 0)
	assert.Equal(t, 2, res.Invalid)
	assert.Zero(t, res.Mean)
	assert.Zero(t, res.Variance)
}

func TestNewContextInvalidConfig(t *testing.T) {
	_, err := NewContext("job0", config.Config{})
	assert.Error(t, err)
}

func TestRunDeterministic(t *testing.T) {
	c := config.Config{
		Control: config.Control{Seed: 42},
		Streams: []config.Stream{
			{Name: "small", Mu: 5, Count: 20000},
			{Name: "big", Mu: 50, Count: 20000},
		},
	}
	run := func() []float64 {
		ctx, err := NewContext("job0", c)
		assert.NoError(t, err)
		assert.NoError(t, ctx.Run())
		means := make([]float64, 0, len(ctx.Summaries()))
		for _, s := range ctx.Summaries() {
			assert.Zero(t, s.Invalid)
			assert.InEpsilon(t, s.Mu, s.Mean, 0.05, "stream %s", s.Name)
			assert.InEpsilon(t, s.Mu, s.Variance, 0.05, "stream %s", s.Name)
			means = append(means, s.Mean)
		}
		return means
	}
	assert.Equal(t, run(), run())
}
