package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// Shared output formatting so every command prints the same way.

func printHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

func printSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

func printMetrics(m contracts.MetricsResult) {
	fmt.Printf("  Annual Return    : %s\n", fmtPercent(m.AnnualReturn))
	fmt.Printf("  Annual Volatility: %s\n", fmtPercent(m.AnnualVolatility))
	fmt.Printf("  Sharpe Ratio     : %s\n", fmtFloat(m.SharpeRatio))
	fmt.Printf("  Max Drawdown     : %s\n", fmtPercent(m.MaxDrawdown))
	fmt.Printf("  Total Return     : %s\n", fmtPercent(m.TotalReturn))
	fmt.Printf("  Final Value      : %.2f\n", m.FinalValue)
}

func fmtPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", v*100)
}

func fmtFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", v)
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	if end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end date %q (expected YYYY-MM-DD)", end)
		}
		to = parsed
	}

	from := to.AddDate(-1, 0, 0)
	if start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start date %q (expected YYYY-MM-DD)", start)
		}
		from = parsed
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must be before end date")
	}
	return from, to, nil
}
