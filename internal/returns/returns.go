// Package returns converts price data into periodic fractional returns.
package returns

import (
	"fmt"
	"math"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// Series computes periodic returns for a single price series. The first
// date of the differencing has no return and is dropped. A zero or
// missing prior price yields a missing return (NaN), never zero.
func Series(prices contracts.PriceSeries, mode contracts.ReturnMode) (contracts.ReturnSeries, error) {
	if prices.ValidCount() < 2 {
		return contracts.ReturnSeries{}, fmt.Errorf("%w: %s has %d valid prices, need at least 2",
			contracts.ErrInsufficientData, prices.Symbol, prices.ValidCount())
	}

	out := contracts.ReturnSeries{
		Symbol:  prices.Symbol,
		Dates:   prices.Dates[1:],
		Returns: column(prices.Prices, mode),
	}
	return out, nil
}

// Table computes periodic returns for every column of a price table.
// Each series must carry at least 2 valid points. Incomplete rows are
// kept; cross-asset consumers drop them via ReturnTable.DropIncompleteRows.
func Table(prices *contracts.PriceTable, mode contracts.ReturnMode) (*contracts.ReturnTable, error) {
	if prices.IsEmpty() || prices.Rows() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows of prices", contracts.ErrInsufficientData)
	}

	out := &contracts.ReturnTable{
		Dates:   prices.Dates[1:],
		Symbols: append([]string(nil), prices.Symbols...),
		Columns: make(map[string][]float64, len(prices.Symbols)),
	}
	for _, sym := range prices.Symbols {
		series, _ := prices.Column(sym)
		if series.ValidCount() < 2 {
			return nil, fmt.Errorf("%w: %s has %d valid prices, need at least 2",
				contracts.ErrInsufficientData, sym, series.ValidCount())
		}
		out.Columns[sym] = column(prices.Columns[sym], mode)
	}
	return out, nil
}

// FromValues derives returns from a value curve, e.g. a simulated
// portfolio. The curve is gap-free so only the leading row is dropped.
func FromValues(values contracts.ValueSeries, mode contracts.ReturnMode) contracts.ReturnSeries {
	if values.Len() < 2 {
		return contracts.ReturnSeries{}
	}
	return contracts.ReturnSeries{
		Dates:   values.Dates[1:],
		Returns: column(values.Values, mode),
	}
}

func column(prices []float64, mode contracts.ReturnMode) []float64 {
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = periodReturn(prices[i-1], prices[i], mode)
	}
	return out
}

func periodReturn(prev, cur float64, mode contracts.ReturnMode) float64 {
	if !contracts.IsValidPrice(prev) || math.IsNaN(cur) || math.IsInf(cur, 0) {
		return math.NaN()
	}

	var r float64
	if mode == contracts.ReturnLog {
		if cur <= 0 {
			return math.NaN()
		}
		r = math.Log(cur / prev)
	} else {
		r = cur/prev - 1
	}

	// An infinite or undefined change is missing data, not zero.
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
