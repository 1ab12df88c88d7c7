package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio [symbols...]",
	Short: "Simulate a rebalanced portfolio with risk decomposition",
	Long: `Simulates a multi-asset portfolio with scheduled rebalancing and
decomposes its risk and return by asset.

Weights are matched to symbols by position and re-normalized to sum to
1; omit --weights for equal weighting.

Example:
  quant portfolio AAPL MSFT GOOGL --weights 0.5,0.3,0.2 --rebalancing monthly`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPortfolio,
}

var (
	portfolioStart    string
	portfolioEnd      string
	portfolioWeights  string
	portfolioSchedule string
	portfolioMode     string
	portfolioRate     float64
)

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVar(&portfolioStart, "start", "", "start date YYYY-MM-DD (default: 1 year ago)")
	portfolioCmd.Flags().StringVar(&portfolioEnd, "end", "", "end date YYYY-MM-DD (default: today)")
	portfolioCmd.Flags().StringVar(&portfolioWeights, "weights", "", "comma-separated weights, matched to symbols by position")
	portfolioCmd.Flags().StringVar(&portfolioSchedule, "rebalancing", "monthly", "rebalancing schedule (none|daily|weekly|monthly)")
	portfolioCmd.Flags().StringVar(&portfolioMode, "mode", "simple", "return mode (simple|log)")
	portfolioCmd.Flags().Float64Var(&portfolioRate, "risk-free-rate", 0, "annualized risk-free rate")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	symbols := args

	weights, err := parseWeights(symbols, portfolioWeights)
	if err != nil {
		return err
	}
	schedule, err := contracts.ParseRebalanceSchedule(portfolioSchedule)
	if err != nil {
		return err
	}
	mode, err := contracts.ParseReturnMode(portfolioMode)
	if err != nil {
		return err
	}
	from, to, err := parseDateRange(portfolioStart, portfolioEnd)
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	table, err := a.provider.FetchPrices(ctx, symbols, from, to)
	if err != nil {
		return err
	}
	if table.IsEmpty() {
		return fmt.Errorf("no price data found for %s", strings.Join(symbols, ", "))
	}

	result, err := a.engine.RunPortfolio(table, weights, schedule, mode, portfolioRate)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("Portfolio: %s", strings.Join(result.Weights.Symbols, ", ")))
	fmt.Printf("  Period           : %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("  Rebalancing      : %s (%d events)\n", schedule, result.RebalanceCount)
	if result.Weights.Fallback {
		fmt.Println("  Weights          : equal (supplied weights summed to zero)")
	}
	printSeparator()
	printMetrics(result.Metrics)

	if len(result.RiskContributions) > 0 {
		printSeparator()
		fmt.Println("  Risk Contributions")
		for _, rc := range result.RiskContributions {
			fmt.Printf("    %-10s weight %6.2f%%  share %7.2f%%\n",
				rc.Symbol, rc.Weight*100, rc.Share*100)
		}
	}
	if len(result.ReturnContributions) > 0 {
		printSeparator()
		fmt.Println("  Return Contributions (annualized)")
		for _, rc := range result.ReturnContributions {
			fmt.Printf("    %-10s %s\n", rc.Symbol, fmtPercent(rc.Contribution))
		}
	}
	if len(result.AssetStats) > 0 {
		printSeparator()
		fmt.Println("  Asset Stats (annualized)")
		for _, st := range result.AssetStats {
			fmt.Printf("    %-10s return %s  volatility %s\n",
				st.Symbol, fmtPercent(st.AnnualReturn), fmtPercent(st.AnnualVolatility))
		}
	}
	printSeparator()
	return nil
}

// parseWeights matches comma-separated weights to symbols by position.
// Empty means equal weighting.
func parseWeights(symbols []string, raw string) (contracts.WeightVector, error) {
	weights := contracts.WeightVector{}
	if raw == "" {
		return weights, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != len(symbols) {
		return nil, fmt.Errorf("got %d weights for %d symbols", len(parts), len(symbols))
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q", part)
		}
		weights[symbols[i]] = v
	}
	return weights, nil
}
