package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

func series(symbol string, prices ...float64) contracts.PriceSeries {
	dates := make([]time.Time, len(prices))
	base := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return contracts.PriceSeries{Symbol: symbol, Dates: dates, Prices: prices}
}

func TestBuyAndHold(t *testing.T) {
	res, err := BuyAndHold(series("AAPL", 100, 110, 120), 10_000)
	require.NoError(t, err)

	assert.Equal(t, 10_000.0, res.Values.Values[0], "value at date 0 equals initial capital exactly")
	assert.InDelta(t, 11_000, res.Values.Values[1], 1e-9)
	assert.InDelta(t, 12_000, res.Values.Values[2], 1e-9)
}

func TestBuyAndHold_NonPositiveCostBasis(t *testing.T) {
	_, err := BuyAndHold(series("BAD", 0, 110, 120), 10_000)
	require.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestBuyAndHold_SkipsLeadingMissingPrices(t *testing.T) {
	res, err := BuyAndHold(series("AAPL", math.NaN(), 50, 55), 1_000)
	require.NoError(t, err)

	require.Equal(t, 2, res.Values.Len())
	assert.Equal(t, 1_000.0, res.Values.Values[0])
	assert.InDelta(t, 1_100, res.Values.Values[1], 1e-9)
}

func TestMomentum_SignalLagAvoidsLookAhead(t *testing.T) {
	// Flat, then a +20% jump on day 4. The signal fires at the close of
	// day 4 but the position only earns from day 5.
	prices := series("X", 100, 100, 100, 100, 120, 132)
	cfg := contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 2, Threshold: 0.05}

	res, err := Momentum(prices, 1_000, cfg)
	require.NoError(t, err)

	// The +20% day itself is earned at position 0: value unchanged.
	assert.Equal(t, 1_000.0, res.Values.Values[4], "jump day return must not be captured")
	// Day 5's +10% is earned because the day-4 signal is now active.
	assert.InDelta(t, 1_100, res.Values.Values[5], 1e-9)

	assert.Equal(t, 0, res.Positions[3])
	assert.Equal(t, 1, res.Positions[4])
}

func TestMomentum_HoldsLastSignal(t *testing.T) {
	// Momentum fires once, then decays below threshold without a short
	// signal: the position is carried, not dropped.
	prices := series("X", 100, 100, 120, 121, 121.5)
	cfg := contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 1, Threshold: 0.05}

	res, err := Momentum(prices, 1_000, cfg)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1, 1}, res.Positions)
}

func TestMomentum_ShortVariant(t *testing.T) {
	prices := series("X", 100, 100, 80, 72)
	cfg := contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 1, Threshold: 0.05, AllowShort: true}

	res, err := Momentum(prices, 1_000, cfg)
	require.NoError(t, err)

	assert.Equal(t, -1, res.Positions[2])
	// Short from day 2: day 3's -10% asset return is a +10% gain.
	assert.InDelta(t, 1_100, res.Values.Values[3], 1e-9)
}

func TestMomentum_LookbackBeyondSeriesStaysFlat(t *testing.T) {
	prices := series("X", 100, 120, 150)
	cfg := contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 10, Threshold: 0.02}

	res, err := Momentum(prices, 5_000, cfg)
	require.NoError(t, err)

	for i, v := range res.Values.Values {
		assert.Equal(t, 5_000.0, v, "value at %d should stay at capital", i)
	}
	for _, p := range res.Positions {
		assert.Equal(t, 0, p)
	}
}

func TestMomentum_InvalidConfig(t *testing.T) {
	prices := series("X", 100, 110)

	_, err := Momentum(prices, 1_000, contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 0})
	require.ErrorIs(t, err, contracts.ErrInvalidInput)

	_, err = Momentum(prices, 1_000, contracts.StrategyConfig{Kind: contracts.StrategyMomentum, Lookback: 5, Threshold: -0.1})
	require.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestRun_DispatchesByKind(t *testing.T) {
	prices := series("X", 100, 110)

	res, err := Run(prices, 1_000, contracts.StrategyConfig{Kind: contracts.StrategyBuyAndHold})
	require.NoError(t, err)
	assert.Equal(t, contracts.StrategyBuyAndHold, res.Kind)

	_, err = Run(prices, 1_000, contracts.StrategyConfig{Kind: "martingale"})
	require.ErrorIs(t, err, contracts.ErrInvalidInput)
}
