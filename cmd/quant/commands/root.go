// Package commands implements the quant CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantdesk/quantdesk/internal/analysis"
	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/internal/external/yahoo"
	"github.com/quantdesk/quantdesk/pkg/config"
	"github.com/quantdesk/quantdesk/pkg/logger"
	"github.com/quantdesk/quantdesk/pkg/redis"
)

var verbose bool

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "QuantDesk - portfolio simulation and analytics engine",
	Long: `QuantDesk CLI

Single-asset backtests, multi-asset portfolio simulation with
rebalancing and risk decomposition, and short-horizon price forecasts
on Yahoo Finance daily data.

Examples:
  quant backtest AAPL --strategy momentum --lookback 20
  quant portfolio AAPL MSFT GOOGL --weights 0.5,0.3,0.2 --rebalancing monthly
  quant forecast BTC-USD --horizon 30
  quant report
  quant api`,
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// app holds the shared wiring every command needs.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	provider contracts.PriceProvider
	engine   *analysis.Engine
}

// setup loads config and builds the provider and engine. Redis being
// unreachable degrades to uncached fetches rather than failing.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, price caching disabled")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "quantdesk")

	provider := yahoo.NewClient(cfg, log, cache)
	engine := analysis.NewEngine(log).WithPeriodsPerYear(cfg.Analysis.PeriodsPerYear)

	return &app{
		cfg:      cfg,
		log:      log,
		redis:    redisClient,
		provider: provider,
		engine:   engine,
	}, nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
}
