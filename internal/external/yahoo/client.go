// Package yahoo implements the PriceProvider contract against the
// Yahoo Finance chart API.
package yahoo

import (
	"time"

	"github.com/quantdesk/quantdesk/pkg/config"
	"github.com/quantdesk/quantdesk/pkg/httputil"
	"github.com/quantdesk/quantdesk/pkg/logger"
	"github.com/quantdesk/quantdesk/pkg/redis"
)

// Client fetches daily adjusted prices from the Yahoo Finance chart
// API. Fetches are cached per symbol and date range so repeated and
// concurrent analyses of the same universe do not re-hit the API.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a provider client from config.
func NewClient(cfg *config.Config, log *logger.Logger, cache *redis.Cache) *Client {
	httpClient := httputil.New(log, cfg.Provider.Timeout).
		WithRetry(cfg.Provider.RetryMax, cfg.Provider.RetryBaseDelay).
		WithRateLimit(cfg.Provider.RatePerSecond, cfg.Provider.RateBurst)

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   cfg.Provider.CacheTTL,
		logger:     log,
		baseURL:    cfg.Provider.BaseURL,
	}
}
