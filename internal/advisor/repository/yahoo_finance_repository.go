package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const quoteSummaryModules = "price,summaryDetail,financialData,defaultKeyStatistics,summaryProfile"

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	payloadCache   *cache.Cache
}

// NewYahooFinanceRepository creates a StockDataRepository backed by the
// Yahoo Finance chart and quoteSummary APIs. Raw payloads are cached for a
// short TTL to avoid refetching inside one session; derived values are never
// cached.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) StockDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.YahooFinance.RequestTimeout,
		},
		requestLimiter: requestLimiter,
		payloadCache:   cache.New(cfg.YahooFinance.CacheTTL, 2*cfg.YahooFinance.CacheTTL),
	}
}

func (r *yahooFinanceRepository) GetChart(ctx context.Context, symbol, dataRange string) (*dto.ChartData, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", r.cfg.YahooFinance.BaseURL, symbol, dataRange)

	body, err := r.sendRequest(ctx, url, "chart:"+symbol+":"+dataRange)
	if err != nil {
		return nil, err
	}

	var response dto.ChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode chart response: %v", ErrProviderFailure, err)
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no chart result for %s", ErrDataUnavailable, symbol)
	}

	result := response.Chart.Result[0]
	data := &dto.ChartData{
		Symbol:             symbol,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
		PreviousClose:      result.Meta.PreviousClose,
	}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i, c := range closes {
			// Null quotes decode to zero; drop them together with their timestamp.
			if c <= 0 {
				continue
			}
			data.Closes = append(data.Closes, c)
			if i < len(result.Timestamp) {
				data.Timestamps = append(data.Timestamps, result.Timestamp[i])
			}
		}
	}

	if len(data.Closes) == 0 {
		return nil, fmt.Errorf("%w: no price history for %s", ErrDataUnavailable, symbol)
	}

	return data, nil
}

func (r *yahooFinanceRepository) GetQuoteSummary(ctx context.Context, symbol string) (*dto.FundamentalsSnapshot, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", r.cfg.YahooFinance.BaseURL, symbol, quoteSummaryModules)

	body, err := r.sendRequest(ctx, url, "summary:"+symbol)
	if err != nil {
		return nil, err
	}

	var response dto.QuoteSummaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode quote summary response: %v", ErrProviderFailure, err)
	}
	if response.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, response.QuoteSummary.Error.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote summary for %s", ErrDataUnavailable, symbol)
	}

	result := response.QuoteSummary.Result[0]
	snapshot := &dto.FundamentalsSnapshot{
		Symbol:   symbol,
		Sector:   "Unknown",
		Industry: "Unknown",
	}

	if result.Price != nil {
		if result.Price.MarketCap != nil {
			snapshot.MarketCap = int64(result.Price.MarketCap.Raw)
		}
	}
	if result.SummaryDetail != nil {
		snapshot.PERatio = result.SummaryDetail.TrailingPE.Ptr()
		snapshot.ForwardPE = result.SummaryDetail.ForwardPE.Ptr()
	}
	if result.DefaultKeyStatistics != nil {
		snapshot.PEGRatio = result.DefaultKeyStatistics.PegRatio.Ptr()
		snapshot.PriceToBook = result.DefaultKeyStatistics.PriceToBook.Ptr()
	}
	if result.FinancialData != nil {
		snapshot.DebtToEquity = result.FinancialData.DebtToEquity.Ptr()
		snapshot.ROE = result.FinancialData.ReturnOnEquity.Ptr()
		snapshot.ProfitMargin = result.FinancialData.ProfitMargins.Ptr()
		snapshot.RevenueGrowth = result.FinancialData.RevenueGrowth.Ptr()
		snapshot.EarningsGrowth = result.FinancialData.EarningsGrowth.Ptr()
		snapshot.CurrentRatio = result.FinancialData.CurrentRatio.Ptr()
	}
	if snapshot.ProfitMargin == nil && result.DefaultKeyStatistics != nil {
		snapshot.ProfitMargin = result.DefaultKeyStatistics.ProfitMargins.Ptr()
	}
	if result.SummaryProfile != nil {
		if result.SummaryProfile.Sector != "" {
			snapshot.Sector = result.SummaryProfile.Sector
		}
		if result.SummaryProfile.Industry != "" {
			snapshot.Industry = result.SummaryProfile.Industry
		}
	}

	// Yahoo reports debt/equity as a percentage; the scorer bands expect a ratio.
	if snapshot.DebtToEquity != nil && *snapshot.DebtToEquity > 10 {
		normalized := *snapshot.DebtToEquity / 100
		snapshot.DebtToEquity = &normalized
	}

	return snapshot, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, url, cacheKey string) ([]byte, error) {
	if cached, found := r.payloadCache.Get(cacheKey); found {
		return cached.([]byte), nil
	}

	fields := []zap.Field{
		zap.String("url", url),
		zap.Int("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.cfg.YahooFinance.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrProviderFailure, ctx.Err())
			case <-time.After(r.cfg.YahooFinance.RetryBackoff):
			}
		}

		body, err := r.doRequest(ctx, url)
		if err == nil {
			r.payloadCache.Set(cacheKey, body, cache.DefaultExpiration)
			return body, nil
		}
		lastErr = err
		r.log.DebugContext(ctx, "Yahoo Finance request attempt failed", append(fields, zap.Int("attempt", attempt), zap.Error(err))...)
	}

	r.log.ErrorContext(ctx, "Yahoo Finance request failed after retries", append(fields, zap.Error(lastErr))...)
	return nil, lastErr
}

func (r *yahooFinanceRepository) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrProviderFailure, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: symbol not found", ErrDataUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProviderFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrProviderFailure, err)
	}

	return body, nil
}
