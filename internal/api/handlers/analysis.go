// Package handlers implements the HTTP handlers for the analysis API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quantdesk/quantdesk/internal/analysis"
	"github.com/quantdesk/quantdesk/internal/contracts"
	"github.com/quantdesk/quantdesk/pkg/config"
	"github.com/quantdesk/quantdesk/pkg/logger"
)

const dateLayout = "2006-01-02"

// AnalysisHandler serves backtest, portfolio and forecast requests. It
// fetches prices through the provider, delegates to the engine and maps
// the error taxonomy onto HTTP status codes.
type AnalysisHandler struct {
	provider contracts.PriceProvider
	engine   *analysis.Engine
	defaults config.AnalysisConfig
	logger   *logger.Logger
}

func NewAnalysisHandler(provider contracts.PriceProvider, engine *analysis.Engine, defaults config.AnalysisConfig, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		provider: provider,
		engine:   engine,
		defaults: defaults,
		logger:   log,
	}
}

// BacktestRequest is the body of POST /api/backtest.
type BacktestRequest struct {
	Symbol         string  `json:"symbol"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	InitialCapital float64 `json:"initial_capital"`
	Strategy       string  `json:"strategy"`
	Lookback       int     `json:"lookback"`
	Threshold      float64 `json:"threshold"`
	AllowShort     bool    `json:"allow_short"`
}

// Backtest runs a single-asset strategy simulation.
// POST /api/backtest
func (h *AnalysisHandler) Backtest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	from, to, err := parseRange(req.Start, req.End)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := contracts.StrategyConfig{
		Kind:       contracts.StrategyKind(req.Strategy),
		Lookback:   req.Lookback,
		Threshold:  req.Threshold,
		AllowShort: req.AllowShort,
	}
	if cfg.Kind == "" {
		cfg.Kind = contracts.StrategyBuyAndHold
	}
	if cfg.Kind == contracts.StrategyMomentum && cfg.Lookback == 0 {
		cfg.Lookback = h.defaults.Lookback
	}
	capital := req.InitialCapital
	if capital == 0 {
		capital = 10000
	}

	series, ok := h.fetchSeries(w, r, req.Symbol, from, to)
	if !ok {
		return
	}

	result, err := h.engine.RunSingleAssetBacktest(series, cfg, capital)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// PortfolioRequest is the body of POST /api/portfolio.
type PortfolioRequest struct {
	Symbols      []string           `json:"symbols"`
	Start        string             `json:"start"`
	End          string             `json:"end"`
	Weights      map[string]float64 `json:"weights"`
	Rebalancing  string             `json:"rebalancing"`
	ReturnMode   string             `json:"return_mode"`
	RiskFreeRate float64            `json:"risk_free_rate"`
}

// Portfolio runs a multi-asset rebalanced simulation with risk
// decomposition.
// POST /api/portfolio
func (h *AnalysisHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	from, to, err := parseRange(req.Start, req.End)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	schedule, err := contracts.ParseRebalanceSchedule(req.Rebalancing)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := contracts.ParseReturnMode(req.ReturnMode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := h.provider.FetchPrices(r.Context(), req.Symbols, from, to)
	if err != nil {
		h.respondProviderError(w, err)
		return
	}
	if table.IsEmpty() {
		respondError(w, http.StatusNotFound, "no price data found for the requested symbols")
		return
	}

	result, err := h.engine.RunPortfolio(table, req.Weights, schedule, mode, req.RiskFreeRate)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ForecastRequest is the body of POST /api/forecast.
type ForecastRequest struct {
	Symbol  string `json:"symbol"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Horizon int    `json:"horizon"`
}

// Forecast runs a short-horizon price forecast.
// POST /api/forecast
func (h *AnalysisHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	from, to, err := parseRange(req.Start, req.End)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	horizon := req.Horizon
	if horizon == 0 {
		horizon = h.defaults.ForecastHorizon
	}

	series, ok := h.fetchSeries(w, r, req.Symbol, from, to)
	if !ok {
		return
	}

	result, err := h.engine.RunForecast(series, horizon)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// fetchSeries loads one symbol's prices. On failure it has already
// written the response and returns ok=false.
func (h *AnalysisHandler) fetchSeries(w http.ResponseWriter, r *http.Request, symbol string, from, to time.Time) (contracts.PriceSeries, bool) {
	table, err := h.provider.FetchPrices(r.Context(), []string{symbol}, from, to)
	if err != nil {
		h.respondProviderError(w, err)
		return contracts.PriceSeries{}, false
	}

	series, found := table.Column(symbol)
	if !found || series.ValidCount() == 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no price data found for %s", symbol))
		return contracts.PriceSeries{}, false
	}
	return series, true
}

func (h *AnalysisHandler) respondProviderError(w http.ResponseWriter, err error) {
	if errors.Is(err, contracts.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.WithError(err).Error("Price fetch failed")
	respondError(w, http.StatusBadGateway, "price data provider unavailable")
}

func (h *AnalysisHandler) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contracts.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrEmptyInput), errors.Is(err, contracts.ErrInsufficientData):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}

// parseRange fills a missing range with the trailing year.
func parseRange(start, end string) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	if end != "" {
		parsed, err := time.Parse(dateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'end' date format (expected YYYY-MM-DD)")
		}
		to = parsed
	}

	from := to.AddDate(-1, 0, 0)
	if start != "" {
		parsed, err := time.Parse(dateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'start' date format (expected YYYY-MM-DD)")
		}
		from = parsed
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must be before end date")
	}
	return from, to, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
