package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantdesk/quantdesk/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the daily monitoring report",
	Long: `Writes a dated text report with last close, 24h variation,
annualized volatility and one-year max drawdown for the configured
watchlist.

Example:
  quant report`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	gen := report.NewGenerator(a.provider, a.log, a.cfg.Report)
	path, err := gen.Generate(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("✅ Report written to %s\n", path)
	return nil
}
