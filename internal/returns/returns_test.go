package returns

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

func dates(n int) []time.Time {
	out := make([]time.Time, n)
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = base.AddDate(0, 0, i)
	}
	return out
}

func TestSeries_Simple(t *testing.T) {
	prices := contracts.PriceSeries{
		Symbol: "AAPL",
		Dates:  dates(4),
		Prices: []float64{100, 110, 99, 99},
	}

	rs, err := Series(prices, contracts.ReturnSimple)
	require.NoError(t, err)

	require.Len(t, rs.Returns, 3)
	assert.InDelta(t, 0.10, rs.Returns[0], 1e-12)
	assert.InDelta(t, -0.10, rs.Returns[1], 1e-12)
	assert.InDelta(t, 0.0, rs.Returns[2], 1e-12)
	assert.Equal(t, prices.Dates[1], rs.Dates[0], "first differenced date is dropped")
}

func TestSeries_Log(t *testing.T) {
	prices := contracts.PriceSeries{
		Symbol: "AAPL",
		Dates:  dates(3),
		Prices: []float64{100, 110, 121},
	}

	rs, err := Series(prices, contracts.ReturnLog)
	require.NoError(t, err)

	assert.InDelta(t, math.Log(1.1), rs.Returns[0], 1e-12)
	assert.InDelta(t, math.Log(1.1), rs.Returns[1], 1e-12)
}

func TestSeries_MissingAndZeroPricesBecomeNaN(t *testing.T) {
	prices := contracts.PriceSeries{
		Symbol: "X",
		Dates:  dates(5),
		Prices: []float64{100, math.NaN(), 102, 0, 104},
	}

	rs, err := Series(prices, contracts.ReturnSimple)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(rs.Returns[0]), "return from valid to NaN must be missing")
	assert.True(t, math.IsNaN(rs.Returns[1]), "return from NaN prior must be missing, not zero")
	assert.True(t, math.IsNaN(rs.Returns[3]), "return from zero prior must be missing, not zero")
}

func TestSeries_InsufficientData(t *testing.T) {
	prices := contracts.PriceSeries{
		Symbol: "X",
		Dates:  dates(2),
		Prices: []float64{100, math.NaN()},
	}

	_, err := Series(prices, contracts.ReturnSimple)
	require.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestTable_KeepsIncompleteRowsForSingleAssetUse(t *testing.T) {
	table := contracts.NewPriceTable(dates(3))
	table.AddColumn("A", []float64{100, 110, 121})
	table.AddColumn("B", []float64{50, math.NaN(), 55})

	rt, err := Table(table, contracts.ReturnSimple)
	require.NoError(t, err)

	require.Equal(t, 2, rt.Rows())
	assert.True(t, math.IsNaN(rt.Columns["B"][0]))

	complete := rt.DropIncompleteRows()
	assert.Equal(t, 0, complete.Rows(), "both rows touch the B gap")
}

func TestTable_SeriesWithOnePointFails(t *testing.T) {
	table := contracts.NewPriceTable(dates(3))
	table.AddColumn("A", []float64{100, 110, 121})
	table.AddColumn("B", []float64{math.NaN(), math.NaN(), 55})

	_, err := Table(table, contracts.ReturnSimple)
	require.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestFromValues(t *testing.T) {
	vs := contracts.ValueSeries{
		Dates:  dates(3),
		Values: []float64{1.0, 1.1, 1.045},
	}

	rs := FromValues(vs, contracts.ReturnSimple)
	require.Len(t, rs.Returns, 2)
	assert.InDelta(t, 0.10, rs.Returns[0], 1e-12)
	assert.InDelta(t, -0.05, rs.Returns[1], 1e-12)
}
