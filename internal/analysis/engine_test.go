package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/pkg/logger"
)

func tradingDates(n int) []time.Time {
	dates := make([]time.Time, n)
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		dates[i] = d
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

func TestRunSingleAssetBacktest(t *testing.T) {
	eng := NewEngine(logger.Nop())

	prices := contracts.PriceSeries{
		Symbol: "AAPL",
		Dates:  tradingDates(5),
		Prices: []float64{100, 102, 104, 106, 110},
	}

	res, err := eng.RunSingleAssetBacktest(prices, contracts.StrategyConfig{Kind: contracts.StrategyBuyAndHold}, 1000)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, contracts.StrategyBuyAndHold, res.Strategy)
	require.Equal(t, 5, res.Values.Len())
	// 1000 invested at 100 grows to 1100 at 110.
	assert.InDelta(t, 1100, res.Values.Final(0), 1e-9)
	assert.InDelta(t, 0.10, res.Metrics.TotalReturn, 1e-9)
	assert.InDelta(t, 1100, res.Metrics.FinalValue, 1e-9)
}

func TestRunSingleAssetBacktestInvalidConfig(t *testing.T) {
	eng := NewEngine(logger.Nop())

	prices := contracts.PriceSeries{
		Symbol: "AAPL",
		Dates:  tradingDates(3),
		Prices: []float64{100, 101, 102},
	}

	_, err := eng.RunSingleAssetBacktest(prices, contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 0}, 1000)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)

	_, err = eng.RunSingleAssetBacktest(prices, contracts.StrategyConfig{Kind: contracts.StrategyBuyAndHold}, -5)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestRunPortfolio(t *testing.T) {
	eng := NewEngine(logger.Nop())

	dates := tradingDates(40)
	table := contracts.NewPriceTable(dates)

	// Two assets with different drifts and a little alternation so the
	// covariance matrix is full rank.
	a := make([]float64, len(dates))
	b := make([]float64, len(dates))
	a[0], b[0] = 100, 50
	for i := 1; i < len(dates); i++ {
		ra := 0.01
		rb := 0.002
		if i%2 == 0 {
			ra = -0.004
			rb = 0.006
		}
		a[i] = a[i-1] * (1 + ra)
		b[i] = b[i-1] * (1 + rb)
	}
	table.AddColumn("AAA", a)
	table.AddColumn("BBB", b)

	res, err := eng.RunPortfolio(table, contracts.WeightVector{"AAA": 0.6, "BBB": 0.4},
		contracts.RebalanceMonthly, contracts.ReturnSimple, 0)
	require.NoError(t, err)

	assert.Equal(t, len(dates), res.Values.Len())
	assert.InDelta(t, 1.0, res.Values.Values[0], 1e-12)
	assert.False(t, res.Weights.Fallback)
	assert.Greater(t, res.RebalanceCount, 0)

	require.Len(t, res.RiskContributions, 2)
	shareSum := 0.0
	for _, rc := range res.RiskContributions {
		shareSum += rc.Share
	}
	assert.InDelta(t, 1.0, shareSum, 1e-9)

	require.Len(t, res.ReturnContributions, 2)
	require.Len(t, res.AssetStats, 2)
	require.Len(t, res.Correlation.Symbols, 2)
	assert.InDelta(t, 1.0, res.Correlation.Values[0][0], 1e-12)

	assert.InDelta(t, res.Values.Final(1)-1, res.Metrics.TotalReturn, 1e-9)
}

func TestRunPortfolioEmptyTable(t *testing.T) {
	eng := NewEngine(logger.Nop())

	table := contracts.NewPriceTable(nil)
	_, err := eng.RunPortfolio(table, contracts.WeightVector{}, contracts.RebalanceNone, contracts.ReturnSimple, 0)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrEmptyInput))
}

func TestRunForecast(t *testing.T) {
	eng := NewEngine(logger.Nop())

	dates := tradingDates(60)
	prices := make([]float64, len(dates))
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	series := contracts.PriceSeries{Symbol: "AAA", Dates: dates, Prices: prices}

	res, err := eng.RunForecast(series, 5)
	require.NoError(t, err)
	assert.Equal(t, "AAA", res.Symbol)
	assert.Len(t, res.Forecast, 5)
	assert.Len(t, res.Dates, 5)

	_, err = eng.RunForecast(series, 0)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}
