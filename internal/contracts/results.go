package contracts

import (
	"encoding/json"
	"math"
	"time"
)

// MetricsResult holds the derived risk/return numbers for one value or
// return series. All fields are recomputed per request, never mutated.
type MetricsResult struct {
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"` // NaN when volatility is 0
	MaxDrawdown      float64 `json:"max_drawdown"` // always <= 0
	TotalReturn      float64 `json:"total_return"`
	FinalValue       float64 `json:"final_value"`
}

// MarshalJSON renders non-finite values (a NaN Sharpe on a flat series)
// as null so API responses stay encodable.
func (m MetricsResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*float64{
		"annual_return":     jsonFloat(m.AnnualReturn),
		"annual_volatility": jsonFloat(m.AnnualVolatility),
		"sharpe_ratio":      jsonFloat(m.SharpeRatio),
		"max_drawdown":      jsonFloat(m.MaxDrawdown),
		"total_return":      jsonFloat(m.TotalReturn),
		"final_value":       jsonFloat(m.FinalValue),
	})
}

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// RiskContribution attributes a share of total portfolio variance to one
// constituent. Share can legitimately be negative for a hedging asset;
// shares sum to 1 when portfolio variance is positive.
type RiskContribution struct {
	Symbol   string  `json:"symbol"`
	Weight   float64 `json:"weight"`
	Marginal float64 `json:"marginal_contribution"` // (Σw)_i, annualized
	Share    float64 `json:"risk_contribution"`     // w_i (Σw)_i / wᵀΣw
}

// ReturnContribution attributes annualized return to one constituent:
// weight times annualized mean return. Not normalized; the column can
// sum above or below the portfolio's own annualized return because it
// ignores compounding and covariance.
type ReturnContribution struct {
	Symbol       string  `json:"symbol"`
	Weight       float64 `json:"weight"`
	AnnualReturn float64 `json:"annual_return"`
	Contribution float64 `json:"return_contribution"`
}

// AssetStat is a per-asset annualized summary shown next to portfolio
// results.
type AssetStat struct {
	Symbol           string  `json:"symbol"`
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
}

// CorrelationMatrix is the pairwise return correlation of the universe,
// indexed in Symbols order.
type CorrelationMatrix struct {
	Symbols []string    `json:"symbols"`
	Values  [][]float64 `json:"values"`
}

// BacktestResult is the outcome of a single-asset strategy run.
type BacktestResult struct {
	Symbol   string         `json:"symbol"`
	Strategy StrategyKind   `json:"strategy"`
	Values   ValueSeries    `json:"values"`
	Metrics  MetricsResult  `json:"metrics"`
	Config   StrategyConfig `json:"config"`
}

// PortfolioResult is the outcome of a multi-asset portfolio run.
type PortfolioResult struct {
	Values              ValueSeries          `json:"values"`
	Metrics             MetricsResult        `json:"metrics"`
	Weights             NormalizedWeights    `json:"weights"`
	RebalanceCount      int                  `json:"rebalance_count"`
	RiskContributions   []RiskContribution   `json:"risk_contributions"`
	ReturnContributions []ReturnContribution `json:"return_contributions"`
	AssetStats          []AssetStat          `json:"asset_stats"`
	Correlation         CorrelationMatrix    `json:"correlation"`
}

// ForecastResult is a recursive short-horizon price forecast with a
// uniform uncertainty band. The band width is fixed at ±1.96 × held-out
// RMSE for every step; it does not widen with horizon.
type ForecastResult struct {
	Symbol   string      `json:"symbol"`
	Dates    []time.Time `json:"dates"` // business days after the input
	Forecast []float64   `json:"forecast"`
	Lower    []float64   `json:"lower"`
	Upper    []float64   `json:"upper"`
	Interval float64     `json:"interval"` // 1.96 × RMSE
	RMSE     float64     `json:"rmse"`     // held-out split
	R2       float64     `json:"r2"`       // held-out split, diagnostic only
}
