package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

func TestCompute_AnnualizedReturnAndVol(t *testing.T) {
	rets := []float64{0.01, -0.005, 0.02, 0.0, 0.004}
	res := Compute(rets, Default(contracts.ReturnSimple))

	m := (0.01 - 0.005 + 0.02 + 0.0 + 0.004) / 5
	wantAnnual := math.Pow(1+m, 252) - 1
	assert.InDelta(t, wantAnnual, res.AnnualReturn, 1e-9)

	// Sample standard deviation, annualized.
	ss := 0.0
	for _, r := range rets {
		ss += (r - m) * (r - m)
	}
	wantVol := math.Sqrt(ss/4) * math.Sqrt(252)
	assert.InDelta(t, wantVol, res.AnnualVolatility, 1e-9)

	wantSharpe := wantAnnual / wantVol
	assert.InDelta(t, wantSharpe, res.SharpeRatio, 1e-9)
}

func TestCompute_LogModeCompounding(t *testing.T) {
	r := math.Log(1.1)
	res := Compute([]float64{r, r}, Default(contracts.ReturnLog))

	assert.InDelta(t, 1.21, res.FinalValue, 1e-9, "exp of summed log returns")
	assert.InDelta(t, math.Exp(r*252)-1, res.AnnualReturn, 1e-6)
}

func TestCompute_FlatSeriesSharpeIsNaN(t *testing.T) {
	res := Compute([]float64{0.01, 0.01, 0.01}, Default(contracts.ReturnSimple))

	assert.Equal(t, 0.0, res.AnnualVolatility)
	assert.True(t, math.IsNaN(res.SharpeRatio), "flat series must not divide by zero silently")
}

func TestCompute_MaxDrawdown(t *testing.T) {
	// 1.0 → 1.1 → 0.88 → 0.99: worst drop is 0.88/1.1 - 1 = -0.2.
	rets := []float64{0.10, -0.20, 0.125}
	res := Compute(rets, Default(contracts.ReturnSimple))

	assert.InDelta(t, -0.20, res.MaxDrawdown, 1e-12)
	assert.LessOrEqual(t, res.MaxDrawdown, 0.0)
}

func TestCompute_MonotoneCurveHasZeroDrawdown(t *testing.T) {
	res := Compute([]float64{0.01, 0.0, 0.02}, Default(contracts.ReturnSimple))
	assert.Equal(t, 0.0, res.MaxDrawdown)
}

func TestCompute_NeutralResultOnDegenerateInput(t *testing.T) {
	opts := Default(contracts.ReturnSimple)
	opts.InitialValue = 10_000

	for name, input := range map[string][]float64{
		"empty":       {},
		"all-missing": {math.NaN(), math.NaN()},
	} {
		res := Compute(input, opts)
		assert.Equal(t, 0.0, res.AnnualReturn, name)
		assert.Equal(t, 0.0, res.AnnualVolatility, name)
		assert.Equal(t, 0.0, res.MaxDrawdown, name)
		assert.Equal(t, 10_000.0, res.FinalValue, "%s: final value equals initial capital", name)
	}
}

func TestCompute_RiskFreeRateEntersSharpe(t *testing.T) {
	rets := []float64{0.01, -0.005, 0.02}

	base := Compute(rets, Default(contracts.ReturnSimple))
	opts := Default(contracts.ReturnSimple)
	opts.RiskFreeRate = 0.02
	shifted := Compute(rets, opts)

	assert.InDelta(t, base.SharpeRatio-0.02/base.AnnualVolatility, shifted.SharpeRatio, 1e-9)
}

func TestFromValues(t *testing.T) {
	values := contracts.ValueSeries{
		Dates: []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		Values: []float64{10_000, 11_000, 10_450},
	}
	opts := Default(contracts.ReturnSimple)
	opts.InitialValue = 10_000

	res := FromValues(values, opts)
	require.InDelta(t, 10_450, res.FinalValue, 1e-6)
	assert.InDelta(t, -0.05, res.MaxDrawdown, 1e-12)
}

func TestMaxDrawdown_Direct(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdown(nil))
	assert.InDelta(t, -0.5, MaxDrawdown([]float64{1, 2, 1, 3}), 1e-12)
}
