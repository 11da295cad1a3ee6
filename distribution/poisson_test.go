package distribution_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/randdist-oss/distribution"
	"github.com/tsinghua-fib-lab/randdist-oss/utils/randengine"
)

// countingSource 统计各类随机数消耗次数的随机源
type countingSource struct {
	engine  *randengine.Engine
	uniform int
	normal  int
	exp     int
}

func (s *countingSource) Float64() float64 {
	s.uniform++
	return s.engine.Float64()
}

func (s *countingSource) NormFloat64() float64 {
	s.normal++
	return s.engine.NormFloat64()
}

func (s *countingSource) ExpFloat64() float64 {
	s.exp++
	return s.engine.ExpFloat64()
}

// moments 计算样本均值与无偏方差
func moments(draws []float64) (mean, variance float64) {
	for _, v := range draws {
		mean += v
	}
	mean /= float64(len(draws))
	for _, v := range draws {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(draws) - 1)
	return
}

func TestSampleInvalidMean(t *testing.T) {
	sampler := &distribution.Poisson{}
	rng := randengine.New(1)
	for _, mu := range []float64{math.NaN(), -1, math.Inf(-1), math.Inf(1)} {
		assert.True(t, math.IsNaN(sampler.Sample(rng, mu)), "mu=%v", mu)
	}
}

func TestSampleZeroMean(t *testing.T) {
	sampler := &distribution.Poisson{}
	src := &countingSource{engine: randengine.New(1)}
	assert.EqualValues(t, 0, sampler.Sample(src, 0))
	// 退化分布不消耗随机源
	assert.Zero(t, src.uniform)
	assert.Zero(t, src.normal)
	assert.Zero(t, src.exp)
}

func TestSampleMoments(t *testing.T) {
	const n = 100000
	for _, mu := range []float64{0.5, 5, 50} {
		sampler := &distribution.Poisson{}
		rng := randengine.New(42)
		mean, variance := moments(sampler.SampleN(rng, n, mu))
		assert.InEpsilon(t, mu, mean, 0.05, "mean, mu=%v", mu)
		assert.InEpsilon(t, mu, variance, 0.05, "variance, mu=%v", mu)
	}
}

func TestSampleDeterminism(t *testing.T) {
	s1 := &distribution.Poisson{}
	s2 := &distribution.Poisson{}
	rng1 := randengine.New(12345)
	rng2 := randengine.New(12345)
	for _, mu := range []float64{5, 5, 12, 12, 7, 50, 0.3} {
		assert.Equal(t, s1.SampleN(rng1, 1000, mu), s2.SampleN(rng2, 1000, mu), "mu=%v", mu)
	}
}

func TestBranchRouting(t *testing.T) {
	// μ=10走大μ分支（闭区间下界），首先消耗一个正态随机数
	src := &countingSource{engine: randengine.New(7)}
	sampler := &distribution.Poisson{}
	sampler.Sample(src, 10)
	assert.GreaterOrEqual(t, src.normal, 1)

	// μ=9.999999走小μ分支，只消耗均匀随机数
	src = &countingSource{engine: randengine.New(7)}
	sampler = &distribution.Poisson{}
	sampler.Sample(src, 9.999999)
	assert.Zero(t, src.normal)
	assert.Zero(t, src.exp)
	assert.GreaterOrEqual(t, src.uniform, 1)
}

func TestCacheReuseUnbiased(t *testing.T) {
	// μ=7与μ=12交替调用同一实例，各组分布仍应与各自的μ一致
	const n = 30000
	sampler := &distribution.Poisson{}
	rng := randengine.New(2024)
	g7a := make([]float64, 0, n)
	g12 := make([]float64, 0, n)
	g7b := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		g7a = append(g7a, sampler.Sample(rng, 7))
		g12 = append(g12, sampler.Sample(rng, 12))
		g7b = append(g7b, sampler.Sample(rng, 7))
	}
	for _, group := range []struct {
		mu    float64
		draws []float64
	}{{7, g7a}, {12, g12}, {7, g7b}} {
		mean, variance := moments(group.draws)
		assert.InEpsilon(t, group.mu, mean, 0.05, "mean, mu=%v", group.mu)
		assert.InEpsilon(t, group.mu, variance, 0.05, "variance, mu=%v", group.mu)
	}
}

func TestSampleIntegerValued(t *testing.T) {
	sampler := &distribution.Poisson{}
	rng := randengine.New(9)
	for _, mu := range []float64{0.1, 3, 9.999999, 10, 42} {
		for i := 0; i < 2000; i++ {
			v := sampler.Sample(rng, mu)
			assert.False(t, math.IsNaN(v))
			assert.GreaterOrEqual(t, v, .0)
			assert.Equal(t, math.Floor(v), v)
		}
	}
}
