// Package portfolio simulates a multi-asset portfolio under a target
// weight vector and a rebalancing schedule.
package portfolio

import (
	"fmt"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// Simulation is a portfolio value curve plus the normalized weights it
// was run with.
type Simulation struct {
	Values         contracts.ValueSeries
	Weights        contracts.NormalizedWeights
	RebalanceCount int
}

// Value simulates the portfolio value, base 1.0 at the first date.
//
// Prices are normalized to 1.0 at the first aligned date and
// unit-holdings are set to value × weight / price. On each scheduled
// rebalancing date the units are reset from the current value and
// current prices, so post-reset weights match the target exactly. Under
// RebalanceNone units never reset and weights drift with relative
// performance. Zero transaction cost, no cash drag, no leverage;
// negative target weights pass through as short exposure.
func Value(prices *contracts.PriceTable, weights contracts.WeightVector, schedule contracts.RebalanceSchedule) (*Simulation, error) {
	aligned := prices.DropEmptyColumns().DropIncompleteRows()
	if aligned.IsEmpty() {
		return nil, fmt.Errorf("%w: no complete rows after alignment", contracts.ErrEmptyInput)
	}

	w, err := weights.Normalize(aligned.Symbols)
	if err != nil {
		return nil, err
	}

	nAssets := len(aligned.Symbols)
	nDates := aligned.Rows()

	// Normalize every series to 1.0 at the first date.
	norm := make([][]float64, nAssets)
	for j, sym := range aligned.Symbols {
		col := aligned.Columns[sym]
		base := col[0]
		row := make([]float64, nDates)
		for i, p := range col {
			row[i] = p / base
		}
		norm[j] = row
	}

	rebal := rebalanceIndexes(aligned.Dates, schedule)

	value := 1.0
	units := make([]float64, nAssets)
	for j := range units {
		units[j] = value * w.Weights[j] / norm[j][0]
	}

	sim := &Simulation{Weights: w}
	out := make([]float64, nDates)
	for i := 0; i < nDates; i++ {
		value = 0
		for j := range units {
			value += units[j] * norm[j][i]
		}
		out[i] = value

		// Reset after recording the day's value; the first date is the
		// initial allocation, not a rebalance.
		if i > 0 && schedule != contracts.RebalanceNone && rebal[i] {
			for j := range units {
				units[j] = value * w.Weights[j] / norm[j][i]
			}
			sim.RebalanceCount++
		}
	}

	sim.Values = contracts.ValueSeries{Dates: aligned.Dates, Values: out}
	return sim, nil
}
