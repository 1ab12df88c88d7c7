package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

func linearSeries(n int) contracts.PriceSeries {
	s := contracts.PriceSeries{Symbol: "LIN"}
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		s.Dates = append(s.Dates, d)
		s.Prices = append(s.Prices, 100+float64(i))
		d = d.AddDate(0, 0, 1)
	}
	return s
}

func TestForecast_PerfectlyLinearSeries(t *testing.T) {
	series := linearSeries(60)

	res, err := Forecast(series, 10)
	require.NoError(t, err)

	assert.Greater(t, res.R2, 0.999, "held-out fit on a perfect line")
	assert.Less(t, res.RMSE, 1e-6)

	// The recursion continues the line: next values are 160, 161, ...
	for step, pred := range res.Forecast {
		want := 160 + float64(step)
		assert.InDelta(t, want, pred, 1e-6, "step %d", step)
		assert.LessOrEqual(t, res.Lower[step], pred)
		assert.GreaterOrEqual(t, res.Upper[step], pred)
	}
}

func TestForecast_BandIsUniform(t *testing.T) {
	// A noisy-ish but deterministic series: the band must be identical
	// at every step regardless of horizon.
	s := contracts.PriceSeries{Symbol: "X"}
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 80; i++ {
		s.Dates = append(s.Dates, d)
		s.Prices = append(s.Prices, 100+5*math.Sin(float64(i)/3)+0.2*float64(i))
		d = d.AddDate(0, 0, 1)
	}

	res, err := Forecast(s, 15)
	require.NoError(t, err)

	for i := range res.Forecast {
		assert.InDelta(t, res.Interval, res.Forecast[i]-res.Lower[i], 1e-9)
		assert.InDelta(t, res.Interval, res.Upper[i]-res.Forecast[i], 1e-9)
	}
	assert.InDelta(t, zScore95*res.RMSE, res.Interval, 1e-12)
}

func TestForecast_DatesAreBusinessDays(t *testing.T) {
	series := linearSeries(40)

	res, err := Forecast(series, 12)
	require.NoError(t, err)
	require.Len(t, res.Dates, 12)

	last := series.Dates[len(series.Dates)-1]
	for _, d := range res.Dates {
		assert.True(t, d.After(last))
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestForecast_InsufficientData(t *testing.T) {
	_, err := Forecast(linearSeries(14), 5)
	require.ErrorIs(t, err, contracts.ErrInsufficientData)

	_, err = Forecast(contracts.PriceSeries{Symbol: "ONE", Dates: linearSeries(1).Dates, Prices: []float64{100}}, 5)
	require.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestForecast_InvalidHorizon(t *testing.T) {
	_, err := Forecast(linearSeries(60), 0)
	require.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestLstsq_WellConditionedSystem(t *testing.T) {
	// y = 2 + 3a - b over non-collinear rows.
	x := [][]float64{
		{1, 1, 0},
		{1, 0, 1},
		{1, 2, 1},
		{1, 3, 5},
		{1, -1, 2},
	}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 2 + 3*row[1] - row[2]
	}

	coef, err := lstsq(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2, coef[0], 1e-9)
	assert.InDelta(t, 3, coef[1], 1e-9)
	assert.InDelta(t, -1, coef[2], 1e-9)
}

func TestLstsq_RankDeficientStillFitsConsistentSystem(t *testing.T) {
	// Second feature duplicates the first; the system stays consistent
	// so residuals must still be zero.
	x := [][]float64{
		{1, 1, 1},
		{1, 2, 2},
		{1, 3, 3},
		{1, 5, 5},
	}
	y := []float64{3, 5, 7, 11} // y = 1 + 2a

	coef, err := lstsq(x, y)
	require.NoError(t, err)
	for i, row := range x {
		pred := coef[0]*row[0] + coef[1]*row[1] + coef[2]*row[2]
		assert.InDelta(t, y[i], pred, 1e-9, "row %d", i)
	}
}

func TestLstsq_Underdetermined(t *testing.T) {
	_, err := lstsq([][]float64{{1, 2, 3}}, []float64{1})
	require.ErrorIs(t, err, contracts.ErrInsufficientData)
}
