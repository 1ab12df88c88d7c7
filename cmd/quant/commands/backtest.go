package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [symbol]",
	Short: "Run a single-asset strategy backtest",
	Long: `Simulates one strategy on one asset over daily prices.

Strategies:
  buy_and_hold  invest once at the first valid price
  momentum      trailing-return signal with a 1-day execution lag

Example:
  quant backtest AAPL --start 2023-01-01 --strategy momentum --lookback 20`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

var (
	backtestStart    string
	backtestEnd      string
	backtestCapital  float64
	backtestStrategy string
	backtestLookback int
	backtestThresh   float64
	backtestShort    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date YYYY-MM-DD (default: 1 year ago)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date YYYY-MM-DD (default: today)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 10000, "initial capital")
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "buy_and_hold", "strategy (buy_and_hold|momentum)")
	backtestCmd.Flags().IntVar(&backtestLookback, "lookback", 0, "momentum lookback in days (default from config)")
	backtestCmd.Flags().Float64Var(&backtestThresh, "threshold", 0, "momentum signal threshold")
	backtestCmd.Flags().BoolVar(&backtestShort, "short", false, "allow short positions")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	from, to, err := parseDateRange(backtestStart, backtestEnd)
	if err != nil {
		return err
	}

	cfg := contracts.StrategyConfig{
		Kind:       contracts.StrategyKind(backtestStrategy),
		Lookback:   backtestLookback,
		Threshold:  backtestThresh,
		AllowShort: backtestShort,
	}
	if cfg.Kind == contracts.StrategyMomentum {
		if cfg.Lookback == 0 {
			cfg.Lookback = a.cfg.Analysis.Lookback
		}
		if cfg.Threshold == 0 {
			cfg.Threshold = a.cfg.Analysis.Threshold
		}
	}

	ctx := context.Background()
	table, err := a.provider.FetchPrices(ctx, []string{symbol}, from, to)
	if err != nil {
		return err
	}
	series, ok := table.Column(symbol)
	if !ok || series.ValidCount() == 0 {
		return fmt.Errorf("no price data found for %s", symbol)
	}

	result, err := a.engine.RunSingleAssetBacktest(series, cfg, backtestCapital)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("Backtest: %s (%s)", result.Symbol, result.Strategy))
	fmt.Printf("  Period           : %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("  Initial Capital  : %.2f\n", backtestCapital)
	printSeparator()
	printMetrics(result.Metrics)
	printSeparator()
	return nil
}
