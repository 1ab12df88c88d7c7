// Package analysis orchestrates the simulation and analytics engines
// into the three entry points the CLI and API expose: single-asset
// strategy backtests, multi-asset portfolio runs and price forecasts.
package analysis

import (
	"fmt"

	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/internal/forecast"
	"github.com/quantdesk/quantdesk/internal/metrics"
	"github.com/quantdesk/quantdesk/internal/portfolio"
	"github.com/quantdesk/quantdesk/internal/returns"
	"github.com/quantdesk/quantdesk/internal/risk"
	"github.com/quantdesk/quantdesk/internal/strategy"
	"github.com/quantdesk/quantdesk/pkg/logger"
)

// Engine ties the calculators together. All runs are pure given their
// inputs; the engine only adds validation and logging.
type Engine struct {
	logger         *logger.Logger
	periodsPerYear int
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger:         log,
		periodsPerYear: metrics.DefaultPeriodsPerYear,
	}
}

// WithPeriodsPerYear overrides the annualization factor, for data that
// is not daily.
func (e *Engine) WithPeriodsPerYear(n int) *Engine {
	if n > 0 {
		e.periodsPerYear = n
	}
	return e
}

// RunSingleAssetBacktest simulates one strategy on one asset and
// computes the metrics of the resulting value series. Metrics use
// simple returns on the strategy equity curve.
func (e *Engine) RunSingleAssetBacktest(prices contracts.PriceSeries, cfg contracts.StrategyConfig, initialCapital float64) (*contracts.BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := strategy.Run(prices, initialCapital, cfg)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", prices.Symbol, err)
	}

	opts := metrics.Options{
		PeriodsPerYear: e.periodsPerYear,
		Mode:           contracts.ReturnSimple,
		InitialValue:   initialCapital,
	}
	m := metrics.FromValues(res.Values, opts)

	e.logger.WithFields(map[string]interface{}{
		"symbol":   prices.Symbol,
		"strategy": string(cfg.Kind),
		"periods":  res.Values.Len(),
	}).Info("Backtest complete")

	return &contracts.BacktestResult{
		Symbol:   prices.Symbol,
		Strategy: cfg.Kind,
		Values:   res.Values,
		Metrics:  m,
		Config:   cfg,
	}, nil
}

// RunPortfolio simulates a rebalanced portfolio and decomposes its risk
// and return by asset. The value series starts at 1.0; metrics follow
// the requested return mode.
func (e *Engine) RunPortfolio(prices *contracts.PriceTable, weights contracts.WeightVector, schedule contracts.RebalanceSchedule, mode contracts.ReturnMode, riskFreeRate float64) (*contracts.PortfolioResult, error) {
	sim, err := portfolio.Value(prices, weights, schedule)
	if err != nil {
		return nil, fmt.Errorf("portfolio simulation: %w", err)
	}
	if sim.Weights.Fallback {
		e.logger.Warn("Weights sum to zero, fell back to equal weighting")
	}

	opts := metrics.Options{
		PeriodsPerYear: e.periodsPerYear,
		RiskFreeRate:   riskFreeRate,
		Mode:           mode,
		InitialValue:   1,
	}
	m := metrics.FromValues(sim.Values, opts)

	// Decomposition works on the aligned asset returns, not the value
	// curve, restricted to the rows the simulation actually used.
	aligned := prices.DropEmptyColumns().DropIncompleteRows()
	rets, err := returns.Table(aligned, mode)
	if err != nil {
		return nil, fmt.Errorf("asset returns: %w", err)
	}

	normWeights := sim.Weights.Map()
	riskContribs, err := risk.Contributions(rets, normWeights, e.periodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("risk decomposition: %w", err)
	}
	retContribs, err := risk.ReturnContributions(rets, normWeights, e.periodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("return decomposition: %w", err)
	}

	e.logger.WithFields(map[string]interface{}{
		"assets":     len(aligned.Symbols),
		"periods":    sim.Values.Len(),
		"rebalances": sim.RebalanceCount,
		"schedule":   string(schedule),
	}).Info("Portfolio run complete")

	return &contracts.PortfolioResult{
		Values:              sim.Values,
		Metrics:             m,
		Weights:             sim.Weights,
		RebalanceCount:      sim.RebalanceCount,
		RiskContributions:   riskContribs,
		ReturnContributions: retContribs,
		AssetStats:          risk.AssetStats(rets, e.periodsPerYear),
		Correlation:         risk.Correlation(rets),
	}, nil
}

// RunForecast produces a short-horizon recursive forecast for one
// asset.
func (e *Engine) RunForecast(prices contracts.PriceSeries, horizon int) (*contracts.ForecastResult, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least 1, got %d", contracts.ErrInvalidInput, horizon)
	}

	res, err := forecast.Forecast(prices, horizon)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", prices.Symbol, err)
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":  prices.Symbol,
		"horizon": horizon,
		"rmse":    res.RMSE,
	}).Info("Forecast complete")

	return res, nil
}
