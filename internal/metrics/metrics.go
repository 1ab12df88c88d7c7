// Package metrics derives annualized risk/return numbers from periodic
// return or value series.
package metrics

import (
	"math"

	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/internal/returns"
)

// DefaultPeriodsPerYear is the trading-day convention for daily data.
const DefaultPeriodsPerYear = 252

// Options parameterize a metrics computation.
type Options struct {
	PeriodsPerYear int
	RiskFreeRate   float64              // annualized fraction
	Mode           contracts.ReturnMode // compounding rule
	InitialValue   float64              // scales FinalValue; 0 means 1
}

// Default returns daily-data options for the given return mode.
func Default(mode contracts.ReturnMode) Options {
	return Options{PeriodsPerYear: DefaultPeriodsPerYear, Mode: mode, InitialValue: 1}
}

// Compute derives metrics from periodic returns. Missing observations
// are ignored. A degenerate input (no valid returns) yields the neutral
// result: all metrics zero and final value equal to the initial value.
// A flat series has zero volatility and a NaN Sharpe ratio; division by
// zero is never silent.
func Compute(rets []float64, opts Options) contracts.MetricsResult {
	opts = normalize(opts)

	valid := make([]float64, 0, len(rets))
	for _, r := range rets {
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		return contracts.MetricsResult{FinalValue: opts.InitialValue}
	}

	mean := mean(valid)
	vol := stddev(valid, mean) * math.Sqrt(float64(opts.PeriodsPerYear))

	var annualReturn float64
	if opts.Mode == contracts.ReturnLog {
		annualReturn = math.Exp(mean*float64(opts.PeriodsPerYear)) - 1
	} else {
		annualReturn = math.Pow(1+mean, float64(opts.PeriodsPerYear)) - 1
	}

	sharpe := math.NaN()
	if vol > 0 {
		sharpe = (annualReturn - opts.RiskFreeRate) / vol
	}

	curve := cumulative(valid, opts.Mode)
	final := curve[len(curve)-1]

	return contracts.MetricsResult{
		AnnualReturn:     annualReturn,
		AnnualVolatility: vol,
		SharpeRatio:      sharpe,
		MaxDrawdown:      maxDrawdown(curve),
		TotalReturn:      final - 1,
		FinalValue:       opts.InitialValue * final,
	}
}

// FromValues derives metrics from a value curve by differencing it with
// the run's return convention first.
func FromValues(values contracts.ValueSeries, opts Options) contracts.MetricsResult {
	opts = normalize(opts)
	if values.Len() < 2 {
		return contracts.MetricsResult{FinalValue: opts.InitialValue}
	}
	rs := returns.FromValues(values, opts.Mode)
	return Compute(rs.Returns, opts)
}

// MaxDrawdown exposes the drawdown of a pre-built value curve: the worst
// decline from a running peak, always <= 0.
func MaxDrawdown(values []float64) float64 {
	return maxDrawdown(values)
}

func normalize(opts Options) Options {
	if opts.PeriodsPerYear <= 0 {
		opts.PeriodsPerYear = DefaultPeriodsPerYear
	}
	if opts.InitialValue == 0 {
		opts.InitialValue = 1
	}
	if opts.Mode == "" {
		opts.Mode = contracts.ReturnSimple
	}
	return opts
}

// cumulative compounds returns into a base-1 value curve using the
// convention they were computed with.
func cumulative(rets []float64, mode contracts.ReturnMode) []float64 {
	out := make([]float64, len(rets))
	if mode == contracts.ReturnLog {
		sum := 0.0
		for i, r := range rets {
			sum += r
			out[i] = math.Exp(sum)
		}
		return out
	}
	acc := 1.0
	for i, r := range rets {
		acc *= 1 + r
		out[i] = acc
	}
	return out
}

func maxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	worst := 0.0
	peak := curve[0]
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := v/peak - 1; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator), matching
// the convention of the per-asset stats elsewhere in the engine.
func stddev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
