// Package strategy simulates single-asset trading rules over a price
// series, producing a holdings curve in currency units.
package strategy

import (
	"fmt"
	"math"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// Result is the holdings curve of one simulated strategy. Positions is
// populated for signal-driven strategies and carries the position in
// effect at the close of each date (-1, 0 or 1).
type Result struct {
	Kind      contracts.StrategyKind
	Values    contracts.ValueSeries
	Positions []int
}

// BuyAndHold buys once at the first valid price and never trades again.
// Holdings at every date are shares × price.
func BuyAndHold(prices contracts.PriceSeries, capital float64) (*Result, error) {
	if capital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be positive, got %f", contracts.ErrInvalidInput, capital)
	}

	// The first observed (non-missing) price is the cost basis; a
	// non-positive one cannot open a position.
	for _, p := range prices.Prices {
		if math.IsNaN(p) {
			continue
		}
		if p <= 0 {
			return nil, fmt.Errorf("%w: non-positive cost basis %f for %s", contracts.ErrInvalidInput, p, prices.Symbol)
		}
		break
	}

	clean := prices.Clean()
	if clean.Len() == 0 {
		return nil, fmt.Errorf("%w: no valid prices for %s", contracts.ErrEmptyInput, prices.Symbol)
	}

	shares := capital / clean.Prices[0]
	values := make([]float64, clean.Len())
	for i, p := range clean.Prices {
		values[i] = shares * p
	}

	return &Result{
		Kind:   contracts.StrategyBuyAndHold,
		Values: contracts.ValueSeries{Dates: clean.Dates, Values: values},
	}, nil
}

// Momentum holds the asset while trailing momentum exceeds the
// threshold. The raw signal at date t is 1 when
// price_t/price_{t-lookback} - 1 > threshold, -1 below -threshold when
// shorting is enabled, and otherwise repeats the previous position
// (hold-last-signal). The strategy earns position_{t-1} × return_t: a
// signal observed at the close of day t is only acted on from day t+1,
// which keeps look-ahead bias out of the simulated returns.
func Momentum(prices contracts.PriceSeries, capital float64, cfg contracts.StrategyConfig) (*Result, error) {
	if capital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be positive, got %f", contracts.ErrInvalidInput, capital)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clean := prices.Clean()
	if clean.Len() == 0 {
		return nil, fmt.Errorf("%w: no valid prices for %s", contracts.ErrEmptyInput, prices.Symbol)
	}

	n := clean.Len()
	positions := signals(clean.Prices, cfg)

	values := make([]float64, n)
	values[0] = capital
	for t := 1; t < n; t++ {
		assetReturn := clean.Prices[t]/clean.Prices[t-1] - 1
		stratReturn := float64(positions[t-1]) * assetReturn
		values[t] = values[t-1] * (1 + stratReturn)
	}

	return &Result{
		Kind:      contracts.StrategyMomentum,
		Values:    contracts.ValueSeries{Dates: clean.Dates, Values: values},
		Positions: positions,
	}, nil
}

// signals computes the per-date position. Before the lookback window is
// filled the position is flat; when the lookback exceeds the series
// length the strategy never enters.
func signals(prices []float64, cfg contracts.StrategyConfig) []int {
	positions := make([]int, len(prices))
	for t := cfg.Lookback; t < len(prices); t++ {
		momentum := prices[t]/prices[t-cfg.Lookback] - 1
		switch {
		case momentum > cfg.Threshold:
			positions[t] = 1
		case cfg.AllowShort && momentum < -cfg.Threshold:
			positions[t] = -1
		default:
			// Hold the last signal rather than re-entering flat.
			positions[t] = positions[t-1]
		}
	}
	return positions
}

// Run dispatches to the configured strategy kind.
func Run(prices contracts.PriceSeries, capital float64, cfg contracts.StrategyConfig) (*Result, error) {
	switch cfg.Kind {
	case contracts.StrategyBuyAndHold:
		return BuyAndHold(prices, capital)
	case contracts.StrategyMomentum:
		return Momentum(prices, capital, cfg)
	}
	return nil, fmt.Errorf("%w: unknown strategy kind %q", contracts.ErrInvalidInput, cfg.Kind)
}
