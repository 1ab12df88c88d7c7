package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

func returnTable(cols map[string][]float64) *contracts.ReturnTable {
	var symbols []string
	rows := 0
	for _, sym := range []string{"A", "B", "C"} {
		if col, ok := cols[sym]; ok {
			symbols = append(symbols, sym)
			rows = len(col)
		}
	}
	dates := make([]time.Time, rows)
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return &contracts.ReturnTable{Dates: dates, Symbols: symbols, Columns: cols}
}

func TestContributions_SharesSumToOne(t *testing.T) {
	rets := returnTable(map[string][]float64{
		"A": {0.010, -0.004, 0.006, 0.002, -0.008},
		"B": {-0.002, 0.007, -0.001, 0.004, 0.003},
		"C": {0.005, 0.001, -0.006, 0.009, -0.002},
	})
	weights := contracts.WeightVector{"A": 0.5, "B": 0.3, "C": 0.2}

	contribs, err := Contributions(rets, weights, 252)
	require.NoError(t, err)
	require.Len(t, contribs, 3)

	sum := 0.0
	for _, c := range contribs {
		sum += c.Share
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "risk shares sum to 1")

	// Sorted by share, descending.
	for i := 1; i < len(contribs); i++ {
		assert.GreaterOrEqual(t, contribs[i-1].Share, contribs[i].Share)
	}
}

func TestContributions_TwoAssetClosedForm(t *testing.T) {
	// Perfectly anti-correlated assets with equal magnitude: an equal
	// weight portfolio has zero variance → empty result.
	rets := returnTable(map[string][]float64{
		"A": {0.01, -0.01, 0.02, -0.02},
		"B": {-0.01, 0.01, -0.02, 0.02},
	})

	contribs, err := Contributions(rets, contracts.WeightVector{"A": 1, "B": 1}, 252)
	require.NoError(t, err)
	assert.Empty(t, contribs, "zero portfolio variance yields empty result, not a division by zero")
}

func TestContributions_HedgeCanBeNegative(t *testing.T) {
	// B hedges A but with smaller weight, so the portfolio keeps
	// positive variance while B's contribution is negative.
	rets := returnTable(map[string][]float64{
		"A": {0.01, -0.01, 0.02, -0.02, 0.015},
		"B": {-0.01, 0.01, -0.02, 0.02, -0.015},
	})

	contribs, err := Contributions(rets, contracts.WeightVector{"A": 0.8, "B": 0.2}, 252)
	require.NoError(t, err)
	require.Len(t, contribs, 2)

	var shareB float64
	sum := 0.0
	for _, c := range contribs {
		sum += c.Share
		if c.Symbol == "B" {
			shareB = c.Share
		}
	}
	assert.Less(t, shareB, 0.0, "hedging asset has a negative risk share")
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestContributions_DegenerateInput(t *testing.T) {
	contribs, err := Contributions(returnTable(map[string][]float64{"A": {0.01}}), contracts.WeightVector{"A": 1}, 252)
	require.NoError(t, err)
	assert.Empty(t, contribs)
}

func TestReturnContributions(t *testing.T) {
	rets := returnTable(map[string][]float64{
		"A": {0.01, 0.01, 0.01},
		"B": {0.002, 0.002, 0.002},
	})

	contribs, err := ReturnContributions(rets, contracts.WeightVector{"A": 0.5, "B": 0.5}, 252)
	require.NoError(t, err)
	require.Len(t, contribs, 2)

	assert.Equal(t, "A", contribs[0].Symbol, "sorted by contribution")
	assert.InDelta(t, 0.5*0.01*252, contribs[0].Contribution, 1e-9)
	assert.InDelta(t, 0.5*0.002*252, contribs[1].Contribution, 1e-9)
}

func TestCorrelation(t *testing.T) {
	rets := returnTable(map[string][]float64{
		"A": {0.01, -0.01, 0.02, -0.02},
		"B": {-0.01, 0.01, -0.02, 0.02},
	})

	corr := Correlation(rets)
	require.Equal(t, []string{"A", "B"}, corr.Symbols)
	assert.InDelta(t, 1.0, corr.Values[0][0], 1e-12)
	assert.InDelta(t, -1.0, corr.Values[0][1], 1e-12)
	assert.InDelta(t, -1.0, corr.Values[1][0], 1e-12)
}

func TestAssetStats(t *testing.T) {
	rets := returnTable(map[string][]float64{
		"A": {0.01, 0.03, math.NaN()},
	})

	stats := AssetStats(rets, 252)
	require.Len(t, stats, 1)
	assert.InDelta(t, 0.02*252, stats[0].AnnualReturn, 1e-9)
	assert.Greater(t, stats[0].AnnualVolatility, 0.0)
}
