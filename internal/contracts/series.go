package contracts

import (
	"math"
	"time"
)

// PriceSeries is an ordered-by-date price history for one asset.
// Missing observations are math.NaN(); Dates and Prices always have the
// same length.
type PriceSeries struct {
	Symbol string      `json:"symbol"`
	Dates  []time.Time `json:"dates"`
	Prices []float64   `json:"prices"`
}

// Len returns the number of rows, valid or not.
func (s PriceSeries) Len() int {
	return len(s.Dates)
}

// ValidCount returns the number of finite, positive price points.
func (s PriceSeries) ValidCount() int {
	n := 0
	for _, p := range s.Prices {
		if IsValidPrice(p) {
			n++
		}
	}
	return n
}

// Clean returns a copy with invalid rows removed, preserving order.
func (s PriceSeries) Clean() PriceSeries {
	out := PriceSeries{Symbol: s.Symbol}
	for i, p := range s.Prices {
		if IsValidPrice(p) {
			out.Dates = append(out.Dates, s.Dates[i])
			out.Prices = append(out.Prices, p)
		}
	}
	return out
}

// IsValidPrice reports whether p is a usable observation: finite and
// strictly positive.
func IsValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}

// PriceTable is a set of price series aligned on a shared ordered date
// index. Every column has exactly len(Dates) entries; holes are NaN.
type PriceTable struct {
	Dates   []time.Time          `json:"dates"`
	Symbols []string             `json:"symbols"`
	Columns map[string][]float64 `json:"columns"`
}

// NewPriceTable builds an empty table for the given ordered date index.
func NewPriceTable(dates []time.Time) *PriceTable {
	return &PriceTable{
		Dates:   dates,
		Columns: make(map[string][]float64),
	}
}

// AddColumn appends a column. values must have len(Dates) entries.
func (t *PriceTable) AddColumn(symbol string, values []float64) {
	t.Symbols = append(t.Symbols, symbol)
	t.Columns[symbol] = values
}

// Rows returns the number of dates in the index.
func (t *PriceTable) Rows() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// IsEmpty reports whether the table carries no usable data at all.
func (t *PriceTable) IsEmpty() bool {
	return t == nil || len(t.Dates) == 0 || len(t.Symbols) == 0
}

// Column extracts one asset as a PriceSeries sharing the table's index.
func (t *PriceTable) Column(symbol string) (PriceSeries, bool) {
	col, ok := t.Columns[symbol]
	if !ok {
		return PriceSeries{}, false
	}
	return PriceSeries{Symbol: symbol, Dates: t.Dates, Prices: col}, true
}

// DropEmptyColumns removes assets without a single valid observation.
// The remaining column set is the live universe.
func (t *PriceTable) DropEmptyColumns() *PriceTable {
	out := NewPriceTable(t.Dates)
	for _, sym := range t.Symbols {
		col := t.Columns[sym]
		hasData := false
		for _, p := range col {
			if IsValidPrice(p) {
				hasData = true
				break
			}
		}
		if hasData {
			out.AddColumn(sym, col)
		}
	}
	return out
}

// DropIncompleteRows removes dates where any column is missing or
// invalid. Cross-asset consumers (portfolio simulation, covariance)
// require complete rows; single-asset callers should not use this.
func (t *PriceTable) DropIncompleteRows() *PriceTable {
	keep := make([]int, 0, len(t.Dates))
	for i := range t.Dates {
		complete := true
		for _, sym := range t.Symbols {
			if !IsValidPrice(t.Columns[sym][i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return t.selectRows(keep)
}

func (t *PriceTable) selectRows(keep []int) *PriceTable {
	dates := make([]time.Time, len(keep))
	for j, i := range keep {
		dates[j] = t.Dates[i]
	}
	out := NewPriceTable(dates)
	for _, sym := range t.Symbols {
		src := t.Columns[sym]
		col := make([]float64, len(keep))
		for j, i := range keep {
			col[j] = src[i]
		}
		out.AddColumn(sym, col)
	}
	return out
}

// ReturnSeries is a sequence of periodic fractional changes for one
// asset or one strategy.
type ReturnSeries struct {
	Symbol  string      `json:"symbol"`
	Dates   []time.Time `json:"dates"`
	Returns []float64   `json:"returns"`
}

// Valid returns the finite observations only, preserving order.
func (r ReturnSeries) Valid() []float64 {
	out := make([]float64, 0, len(r.Returns))
	for _, v := range r.Returns {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// ReturnTable is the multi-asset counterpart of ReturnSeries, aligned
// on a shared date index like PriceTable.
type ReturnTable struct {
	Dates   []time.Time          `json:"dates"`
	Symbols []string             `json:"symbols"`
	Columns map[string][]float64 `json:"columns"`
}

// Rows returns the number of dates in the index.
func (t *ReturnTable) Rows() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// DropIncompleteRows removes dates where any column is NaN, so that
// covariance and portfolio math see complete cross-sections.
func (t *ReturnTable) DropIncompleteRows() *ReturnTable {
	keep := make([]int, 0, len(t.Dates))
	for i := range t.Dates {
		complete := true
		for _, sym := range t.Symbols {
			v := t.Columns[sym][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	dates := make([]time.Time, len(keep))
	for j, i := range keep {
		dates[j] = t.Dates[i]
	}
	out := &ReturnTable{Dates: dates, Symbols: t.Symbols, Columns: make(map[string][]float64)}
	for _, sym := range t.Symbols {
		src := t.Columns[sym]
		col := make([]float64, len(keep))
		for j, i := range keep {
			col[j] = src[i]
		}
		out.Columns[sym] = col
	}
	return out
}

// ValueSeries is a base-normalized portfolio or strategy value curve.
// It has no gaps relative to the return series it was derived from.
type ValueSeries struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// Len returns the number of points in the curve.
func (v ValueSeries) Len() int {
	return len(v.Dates)
}

// Final returns the last value, or fallback for an empty curve.
func (v ValueSeries) Final(fallback float64) float64 {
	if len(v.Values) == 0 {
		return fallback
	}
	return v.Values[len(v.Values)-1]
}
