package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Environment
// variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (provider-level price cache)
	Redis RedisConfig

	// Market data provider
	Provider ProviderConfig

	// Daily report
	Report ReportConfig

	// Analysis defaults
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ProviderConfig holds market-data provider configuration.
type ProviderConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RatePerSecond  float64 // outbound request rate limit
	RateBurst      int
	CacheTTL       time.Duration
	RetryMax       int
	RetryBaseDelay time.Duration
}

// ReportConfig holds daily report configuration.
type ReportConfig struct {
	Dir      string
	Symbols  []string
	Schedule string // cron expression (with seconds field)
	Lookback time.Duration
}

// AnalysisConfig holds the default analysis parameters. Each can be
// overridden per request.
type AnalysisConfig struct {
	PeriodsPerYear  int
	RiskFreeRate    float64
	Lookback        int     // momentum window, days
	Threshold       float64 // momentum signal trigger
	ForecastHorizon int
}

// Load reads configuration from environment variables, consulting an
// optional .env file first.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Provider: ProviderConfig{
			BaseURL:        getEnv("PROVIDER_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout:        getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
			RatePerSecond:  getEnvAsFloat("PROVIDER_RATE_PER_SECOND", 5),
			RateBurst:      getEnvAsInt("PROVIDER_RATE_BURST", 5),
			CacheTTL:       getEnvAsDuration("PROVIDER_CACHE_TTL", "24h"),
			RetryMax:       getEnvAsInt("PROVIDER_RETRY_MAX", 3),
			RetryBaseDelay: getEnvAsDuration("PROVIDER_RETRY_BASE_DELAY", "1s"),
		},

		Report: ReportConfig{
			Dir:      getEnv("REPORT_DIR", "daily_reports"),
			Symbols:  getEnvAsList("REPORT_SYMBOLS", "AAPL,MSFT,GOOGL,BTC-USD,EURUSD=X,GC=F"),
			Schedule: getEnv("REPORT_SCHEDULE", "0 0 18 * * 1-5"),
			Lookback: getEnvAsDuration("REPORT_LOOKBACK", "8760h"), // 1 year
		},

		Analysis: AnalysisConfig{
			PeriodsPerYear:  getEnvAsInt("ANALYSIS_PERIODS_PER_YEAR", 252),
			RiskFreeRate:    getEnvAsFloat("ANALYSIS_RISK_FREE_RATE", 0),
			Lookback:        getEnvAsInt("ANALYSIS_MOMENTUM_LOOKBACK", 20),
			Threshold:       getEnvAsFloat("ANALYSIS_MOMENTUM_THRESHOLD", 0.02),
			ForecastHorizon: getEnvAsInt("ANALYSIS_FORECAST_HORIZON", 30),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.Analysis.PeriodsPerYear <= 0 {
		return fmt.Errorf("ANALYSIS_PERIODS_PER_YEAR must be positive")
	}
	if c.Analysis.Lookback < 1 {
		return fmt.Errorf("ANALYSIS_MOMENTUM_LOOKBACK must be >= 1")
	}
	if c.Analysis.Threshold < 0 {
		return fmt.Errorf("ANALYSIS_MOMENTUM_THRESHOLD must be >= 0")
	}
	if c.Analysis.ForecastHorizon < 1 {
		return fmt.Errorf("ANALYSIS_FORECAST_HORIZON must be >= 1")
	}
	return nil
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
