// Package forecast fits a lagged linear model on a price series and
// recursively forecasts forward with a fixed-width confidence band.
package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

const (
	// NumLags is the fixed feature window: the previous 5 price levels.
	NumLags = 5

	// minRows is the minimum number of complete-lag rows needed for a
	// usable train/test split.
	minRows = 10

	// trainFraction of the rows fits the model; the trailing remainder
	// is held out for the residual band and R². Order is preserved;
	// shuffling a time series would leak the future into the fit.
	trainFraction = 0.8

	// zScore95 scales the held-out RMSE into an approximate 95% band.
	zScore95 = 1.96
)

// Forecast fits lag-1…lag-5 price levels against the contemporaneous
// price and predicts `horizon` business days past the last input date.
//
// Each step predicts from the current lag vector, then shifts it so the
// prediction becomes lag-1. Forecast error therefore compounds with the
// horizon. The band is ±1.96 × held-out RMSE applied uniformly to every
// step; it does not widen over time.
func Forecast(prices contracts.PriceSeries, horizon int) (*contracts.ForecastResult, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be >= 1, got %d", contracts.ErrInvalidInput, horizon)
	}

	clean := prices.Clean()
	n := clean.Len() - NumLags
	if n < minRows {
		return nil, fmt.Errorf("%w: %d complete-lag rows for %s, need at least %d",
			contracts.ErrInsufficientData, max(n, 0), prices.Symbol, minRows)
	}

	// Row t predicts price[t+NumLags] from the 5 preceding levels,
	// lag-1 first, plus an intercept column.
	x := make([][]float64, n)
	y := make([]float64, n)
	for t := 0; t < n; t++ {
		row := make([]float64, NumLags+1)
		row[0] = 1
		for lag := 1; lag <= NumLags; lag++ {
			row[lag] = clean.Prices[t+NumLags-lag]
		}
		x[t] = row
		y[t] = clean.Prices[t+NumLags]
	}

	split := int(float64(n) * trainFraction)
	coef, err := lstsq(x[:split], y[:split])
	if err != nil {
		return nil, err
	}

	rmse, r2 := holdoutFit(coef, x[split:], y[split:])
	interval := zScore95 * rmse

	// Recursive forecast: the newest prediction becomes lag-1 and the
	// oldest lag falls off.
	lags := make([]float64, NumLags)
	for lag := 1; lag <= NumLags; lag++ {
		lags[lag-1] = clean.Prices[clean.Len()-lag]
	}

	result := &contracts.ForecastResult{
		Symbol:   prices.Symbol,
		Dates:    businessDays(clean.Dates[clean.Len()-1], horizon),
		Forecast: make([]float64, horizon),
		Lower:    make([]float64, horizon),
		Upper:    make([]float64, horizon),
		Interval: interval,
		RMSE:     rmse,
		R2:       r2,
	}
	for step := 0; step < horizon; step++ {
		pred := predict(coef, lags)
		result.Forecast[step] = pred
		result.Lower[step] = pred - interval
		result.Upper[step] = pred + interval

		copy(lags[1:], lags[:NumLags-1])
		lags[0] = pred
	}
	return result, nil
}

func predict(coef, lags []float64) float64 {
	v := coef[0]
	for i, lag := range lags {
		v += coef[i+1] * lag
	}
	return v
}

// holdoutFit evaluates the fitted model on the held-out rows. With a
// constant held-out target the R² denominator vanishes; a perfect fit
// reports 1 and anything else 0.
func holdoutFit(coef []float64, x [][]float64, y []float64) (rmse, r2 float64) {
	if len(y) == 0 {
		return 0, 0
	}

	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(len(y))

	ssRes, ssTot := 0.0, 0.0
	for i, row := range x {
		// Rows carry the intercept column; strip it for predict.
		pred := predict(coef, row[1:])
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}

	rmse = math.Sqrt(ssRes / float64(len(y)))
	switch {
	case ssTot > 0:
		r2 = 1 - ssRes/ssTot
	case ssRes == 0:
		r2 = 1
	default:
		r2 = 0
	}
	return rmse, r2
}

// businessDays returns the next n weekdays strictly after `last`.
// Exchange holidays are not modeled; weekends are the only skipped days.
func businessDays(last time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := last
	for len(out) < n {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}
