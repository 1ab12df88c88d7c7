package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/pkg/redis"
)

// FetchPrices fetches an aligned daily price table for the symbols.
// Symbols the provider does not know are dropped; if nothing remains
// the result is an empty table, not an error. Only transport failures
// return an error, wrapping contracts.ErrDataProvider.
func (c *Client) FetchPrices(ctx context.Context, symbols []string, from, to time.Time) (*contracts.PriceTable, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: start date %s must be before end date %s",
			contracts.ErrInvalidInput, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	perSymbol := make(map[string][]PricePoint, len(symbols))
	for _, symbol := range symbols {
		points, err := c.fetchSymbol(ctx, symbol, from, to)
		if err != nil {
			return nil, err
		}
		if len(points) > 0 {
			perSymbol[symbol] = points
		}
	}

	table := align(symbols, perSymbol)
	c.logger.WithFields(map[string]interface{}{
		"symbols": len(table.Symbols),
		"rows":    table.Rows(),
	}).Debug("Fetched price table")
	return table, nil
}

// fetchSymbol returns the daily closes for one symbol, consulting the
// cache first. A symbol Yahoo does not know yields no points and no
// error.
func (c *Client) fetchSymbol(ctx context.Context, symbol string, from, to time.Time) ([]PricePoint, error) {
	key := redis.PriceRangeKey(symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached []PricePoint
	if found, err := c.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	points, err := c.fetchChart(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, points, c.cacheTTL); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Price cache write failed")
	}
	return points, nil
}

func (c *Client) fetchChart(ctx context.Context, symbol string, from, to time.Time) ([]PricePoint, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		c.baseURL, symbol, from.Unix(), to.Unix())

	resp, err := c.httpClient.Get(ctx, fullURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrDataProvider, symbol, err)
	}
	defer resp.Body.Close()

	// An unknown symbol is "no data", not a failure.
	if resp.StatusCode == http.StatusNotFound {
		c.logger.WithField("symbol", symbol).Warn("Symbol not found")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: unexpected status code %d", contracts.ErrDataProvider, symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %v", contracts.ErrDataProvider, symbol, err)
	}

	return parseChart(symbol, body)
}

// parseChart extracts daily adjusted closes from a chart API payload,
// preferring the adjusted series when present.
func parseChart(symbol string, body []byte) ([]PricePoint, error) {
	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s: parse response: %v", contracts.ErrDataProvider, symbol, err)
	}

	if parsed.Chart.Error != nil {
		// Lookup-level errors ("Not Found") mean no data.
		return nil, nil
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, nil
	}

	result := parsed.Chart.Result[0]
	var closes []*float64
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) > 0 {
		closes = result.Indicators.AdjClose[0].AdjClose
	} else if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	points := make([]PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		points = append(points, PricePoint{Date: day, Close: *closes[i]})
	}
	return points, nil
}

// align merges per-symbol points onto a shared ordered date index.
// Dates missing for a symbol become NaN; symbols with no data at all
// are left out of the table.
func align(requested []string, perSymbol map[string][]PricePoint) *contracts.PriceTable {
	dateSet := make(map[time.Time]bool)
	for _, points := range perSymbol {
		for _, p := range points {
			dateSet[p.Date] = true
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	table := contracts.NewPriceTable(dates)
	for _, symbol := range requested {
		points, ok := perSymbol[symbol]
		if !ok {
			continue
		}
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, p := range points {
			col[index[p.Date]] = p.Close
		}
		table.AddColumn(symbol, col)
	}
	return table
}
