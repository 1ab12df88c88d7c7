// Package risk attributes portfolio variance and return to the
// individual constituents via covariance decomposition. Pure calculator:
// data collection and weight policy live in the calling layer.
package risk

import (
	"math"
	"sort"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// Contributions decomposes total portfolio variance by constituent.
// Marginal contribution is (Σw)_i with Σ the annualized sample
// covariance matrix; the risk share is w_i(Σw)_i / wᵀΣw and sums to 1
// across assets. Shares can be negative for hedging assets. When the
// portfolio variance is not strictly positive (a degenerate or
// zero-variance universe) the result is empty rather than a division
// by zero.
func Contributions(rets *contracts.ReturnTable, weights contracts.WeightVector, periodsPerYear int) ([]contracts.RiskContribution, error) {
	complete := rets.DropIncompleteRows()
	if complete.Rows() < 2 {
		return nil, nil
	}

	w, err := weights.Normalize(complete.Symbols)
	if err != nil {
		return nil, err
	}

	cov := covariance(complete, periodsPerYear)

	n := len(complete.Symbols)
	marginal := make([]float64, n)
	portVar := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			marginal[i] += cov[i][j] * w.Weights[j]
		}
		portVar += w.Weights[i] * marginal[i]
	}

	if portVar <= 0 || math.IsNaN(portVar) {
		return nil, nil
	}

	out := make([]contracts.RiskContribution, n)
	for i, sym := range complete.Symbols {
		out[i] = contracts.RiskContribution{
			Symbol:   sym,
			Weight:   w.Weights[i],
			Marginal: marginal[i],
			Share:    w.Weights[i] * marginal[i] / portVar,
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Share > out[j].Share })
	return out, nil
}

// ReturnContributions computes each asset's simple annualized return
// contribution: weight × annualized mean return. Deliberately not
// normalized: the column ignores compounding and covariance, so it can
// sum above or below the portfolio's own annualized return.
func ReturnContributions(rets *contracts.ReturnTable, weights contracts.WeightVector, periodsPerYear int) ([]contracts.ReturnContribution, error) {
	complete := rets.DropIncompleteRows()
	if complete.Rows() == 0 {
		return nil, nil
	}

	w, err := weights.Normalize(complete.Symbols)
	if err != nil {
		return nil, err
	}

	out := make([]contracts.ReturnContribution, len(complete.Symbols))
	for i, sym := range complete.Symbols {
		annual := mean(complete.Columns[sym]) * float64(periodsPerYear)
		out[i] = contracts.ReturnContribution{
			Symbol:       sym,
			Weight:       w.Weights[i],
			AnnualReturn: annual,
			Contribution: w.Weights[i] * annual,
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contribution > out[j].Contribution })
	return out, nil
}

// Correlation computes the pairwise return correlation matrix of the
// universe over its complete rows.
func Correlation(rets *contracts.ReturnTable) contracts.CorrelationMatrix {
	complete := rets.DropIncompleteRows()
	n := len(complete.Symbols)
	out := contracts.CorrelationMatrix{
		Symbols: append([]string(nil), complete.Symbols...),
		Values:  make([][]float64, n),
	}
	if complete.Rows() < 2 {
		for i := range out.Values {
			out.Values[i] = make([]float64, n)
		}
		return out
	}

	cov := covariance(complete, 1)
	for i := 0; i < n; i++ {
		out.Values[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			denom := math.Sqrt(cov[i][i] * cov[j][j])
			if denom > 0 {
				out.Values[i][j] = cov[i][j] / denom
			}
		}
	}
	return out
}

// AssetStats returns per-asset annualized mean return and volatility.
func AssetStats(rets *contracts.ReturnTable, periodsPerYear int) []contracts.AssetStat {
	out := make([]contracts.AssetStat, 0, len(rets.Symbols))
	for _, sym := range rets.Symbols {
		valid := contracts.ReturnSeries{Returns: rets.Columns[sym]}.Valid()
		if len(valid) == 0 {
			out = append(out, contracts.AssetStat{Symbol: sym})
			continue
		}
		m := mean(valid)
		out = append(out, contracts.AssetStat{
			Symbol:           sym,
			AnnualReturn:     m * float64(periodsPerYear),
			AnnualVolatility: stddev(valid, m) * math.Sqrt(float64(periodsPerYear)),
		})
	}
	return out
}

// covariance builds the sample covariance matrix of the complete rows,
// scaled by periodsPerYear.
func covariance(rets *contracts.ReturnTable, periodsPerYear int) [][]float64 {
	n := len(rets.Symbols)
	rows := rets.Rows()

	means := make([]float64, n)
	for i, sym := range rets.Symbols {
		means[i] = mean(rets.Columns[sym])
	}

	cov := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		ci := rets.Columns[rets.Symbols[i]]
		for j := i; j < n; j++ {
			cj := rets.Columns[rets.Symbols[j]]
			sum := 0.0
			for k := 0; k < rows; k++ {
				sum += (ci[k] - means[i]) * (cj[k] - means[j])
			}
			v := sum / float64(rows-1) * float64(periodsPerYear)
			cov[i][j] = v
			cov[j][i] = v
		}
	}
	return cov
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

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
