// Package report renders the daily monitoring report: last close, 24h
// variation, annualized volatility and one-year max drawdown for each
// watched asset, written as a dated text file.
package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/internal/metrics"
	"github.com/quantdesk/quantdesk/internal/returns"
	"github.com/quantdesk/quantdesk/pkg/config"
	"github.com/quantdesk/quantdesk/pkg/logger"
)

// Generator produces the daily report. A failing symbol is noted in the
// report body and never aborts the run.
type Generator struct {
	provider contracts.PriceProvider
	logger   *logger.Logger
	cfg      config.ReportConfig

	now func() time.Time
}

func NewGenerator(provider contracts.PriceProvider, log *logger.Logger, cfg config.ReportConfig) *Generator {
	return &Generator{
		provider: provider,
		logger:   log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Generate writes the report for today and returns the file path.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	if err := os.MkdirAll(g.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	today := g.now()
	path := filepath.Join(g.cfg.Dir, fmt.Sprintf("report_%s.txt", today.Format("2006-01-02")))

	var b strings.Builder
	b.WriteString("==========================================\n")
	b.WriteString("   DAILY QUANTITATIVE FINANCE REPORT\n")
	fmt.Fprintf(&b, "   Date: %s\n", today.Format("2006-01-02"))
	b.WriteString("==========================================\n\n")

	from := today.Add(-g.cfg.Lookback)
	for _, symbol := range g.cfg.Symbols {
		if err := g.writeAsset(ctx, &b, symbol, from, today); err != nil {
			fmt.Fprintf(&b, "[!] Asset: %s - Error: %s\n\n", symbol, err)
			g.logger.WithError(err).WithField("symbol", symbol).Warn("Report asset failed")
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	g.logger.WithField("path", path).Info("Daily report written")
	return path, nil
}

func (g *Generator) writeAsset(ctx context.Context, b *strings.Builder, symbol string, from, to time.Time) error {
	table, err := g.provider.FetchPrices(ctx, []string{symbol}, from, to)
	if err != nil {
		return err
	}

	series, ok := table.Column(symbol)
	if !ok || series.ValidCount() < 2 {
		fmt.Fprintf(b, "[!] Asset: %s - Not enough data\n\n", symbol)
		return nil
	}

	clean := series.Clean()
	last := clean.Prices[len(clean.Prices)-1]
	prev := clean.Prices[len(clean.Prices)-2]
	dailyVar := (last - prev) / prev * 100

	rets, err := returns.Series(clean, contracts.ReturnSimple)
	if err != nil {
		return err
	}
	m := metrics.Compute(rets.Returns, metrics.Default(contracts.ReturnSimple))

	fmt.Fprintf(b, "Asset: %s\n", symbol)
	b.WriteString("----------------------------\n")
	fmt.Fprintf(b, "Close (last):      %.2f\n", last)
	fmt.Fprintf(b, "24h Variation:     %+.2f%%\n", dailyVar)
	fmt.Fprintf(b, "Annual Volatility: %s\n", percent(m.AnnualVolatility))
	fmt.Fprintf(b, "1Y Max Drawdown:   %s\n", percent(m.MaxDrawdown))
	b.WriteString("\n")
	return nil
}

func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
