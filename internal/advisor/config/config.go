package config

import (
	"time"

	"golang-stock-advisor/pkg/config"
)

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	NewsRSSURL          string        `mapstructure:"news_rss_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	RetryBackoff        time.Duration `mapstructure:"retry_backoff"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Advisor holds advisor pipeline configuration.
type Advisor struct {
	NewsLimit            int    `mapstructure:"news_limit"`
	DefaultRiskProfile   string `mapstructure:"default_risk_profile"`
	DefaultHorizonMonths int    `mapstructure:"default_horizon_months"`
}

// Config holds the full configuration for the advisor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	API          config.API      `mapstructure:"api"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Telegram     config.Telegram `mapstructure:"telegram"`
	Advisor      Advisor         `mapstructure:"advisor"`
}

// Load loads the advisor service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.YahooFinance.BaseURL == "" {
		cfg.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.YahooFinance.NewsRSSURL == "" {
		cfg.YahooFinance.NewsRSSURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	}
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		cfg.YahooFinance.MaxRequestPerMinute = 60
	}
	if cfg.YahooFinance.RequestTimeout <= 0 {
		cfg.YahooFinance.RequestTimeout = 10 * time.Second
	}
	if cfg.YahooFinance.RetryBackoff <= 0 {
		cfg.YahooFinance.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.YahooFinance.CacheTTL <= 0 {
		cfg.YahooFinance.CacheTTL = time.Minute
	}
	if cfg.Advisor.NewsLimit <= 0 {
		cfg.Advisor.NewsLimit = 5
	}
	if cfg.Advisor.DefaultRiskProfile == "" {
		cfg.Advisor.DefaultRiskProfile = "moderate"
	}
	if cfg.Advisor.DefaultHorizonMonths <= 0 {
		cfg.Advisor.DefaultHorizonMonths = 12
	}

	return &cfg, nil
}
