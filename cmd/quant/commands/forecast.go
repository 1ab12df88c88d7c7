package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast [symbol]",
	Short: "Forecast prices with a lagged regression model",
	Long: `Fits a linear model on the last five daily prices and forecasts
recursively over the horizon, with a 95% uncertainty band from the
held-out fit.

Example:
  quant forecast BTC-USD --horizon 30`,
	Args: cobra.ExactArgs(1),
	RunE: runForecast,
}

var (
	forecastStart   string
	forecastEnd     string
	forecastHorizon int
)

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().StringVar(&forecastStart, "start", "", "start date YYYY-MM-DD (default: 1 year ago)")
	forecastCmd.Flags().StringVar(&forecastEnd, "end", "", "end date YYYY-MM-DD (default: today)")
	forecastCmd.Flags().IntVar(&forecastHorizon, "horizon", 0, "forecast horizon in business days (default from config)")
}

func runForecast(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	from, to, err := parseDateRange(forecastStart, forecastEnd)
	if err != nil {
		return err
	}
	horizon := forecastHorizon
	if horizon == 0 {
		horizon = a.cfg.Analysis.ForecastHorizon
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

	result, err := a.engine.RunForecast(series, horizon)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("Forecast: %s (%d business days)", result.Symbol, horizon))
	fmt.Printf("  Holdout RMSE     : %.4f\n", result.RMSE)
	fmt.Printf("  Holdout R²       : %s\n", fmtFloat(result.R2))
	fmt.Printf("  Interval         : ±%.4f (95%%)\n", result.Interval)
	printSeparator()
	for i, date := range result.Dates {
		fmt.Printf("  %s  %10.2f  [%10.2f, %10.2f]\n",
			date.Format("2006-01-02"), result.Forecast[i], result.Lower[i], result.Upper[i])
	}
	printSeparator()
	return nil
}
