package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{
	"chart": {
		"result": [{
			"meta": {"symbol": "AAPL", "currency": "USD", "regularMarketPrice": 178.5, "previousClose": 176.2},
			"timestamp": [1700000000, 1700086400, 1700172800, 1700259200],
			"indicators": {"quote": [{"close": [175.1, 0, 176.8, 178.5]}]}
		}],
		"error": null
	}
}`

const quoteSummaryFixture = `{
	"quoteSummary": {
		"result": [{
			"price": {"symbol": "AAPL", "marketCap": {"raw": 2800000000000, "fmt": "2.8T"}},
			"summaryDetail": {"trailingPE": {"raw": 29.4, "fmt": "29.40"}},
			"defaultKeyStatistics": {"priceToBook": {"raw": 45.2, "fmt": "45.20"}},
			"financialData": {
				"debtToEquity": {"raw": 176.3, "fmt": "176.30"},
				"returnOnEquity": {"raw": 1.47, "fmt": "147.00%"},
				"profitMargins": {"raw": 0.253, "fmt": "25.30%"},
				"revenueGrowth": {"raw": 0.021, "fmt": "2.10%"}
			},
			"summaryProfile": {"sector": "Technology", "industry": "Consumer Electronics"}
		}],
		"error": null
	}
}`

func testRepository(t *testing.T, baseURL string) StockDataRepository {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.YahooFinance.BaseURL = baseURL
	cfg.YahooFinance.MaxRequestPerMinute = 60000
	cfg.YahooFinance.RequestTimeout = 2 * time.Second
	cfg.YahooFinance.MaxRetries = 2
	cfg.YahooFinance.RetryBackoff = time.Millisecond
	cfg.YahooFinance.CacheTTL = time.Minute

	return NewYahooFinanceRepository(cfg, log)
}

func TestGetChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		fmt.Fprint(w, chartFixture)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	chart, err := repo.GetChart(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", chart.Symbol)
	assert.Equal(t, 178.5, chart.RegularMarketPrice)
	assert.Equal(t, 176.2, chart.PreviousClose)
	// The null quote and its timestamp are dropped together.
	assert.Equal(t, []float64{175.1, 176.8, 178.5}, chart.Closes)
	assert.Equal(t, []int64{1700000000, 1700172800, 1700259200}, chart.Timestamps)
}

func TestGetChartProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": [], "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	_, err := repo.GetChart(context.Background(), "GONE", "1y")

	assert.True(t, errors.Is(err, ErrProviderFailure))
	assert.Contains(t, err.Error(), "symbol may be delisted")
}

func TestGetChartEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": [], "error": null}}`)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	_, err := repo.GetChart(context.Background(), "EMPTY", "6mo")

	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestGetChartNotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	_, err := repo.GetChart(context.Background(), "NOPE", "6mo")

	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestGetChartRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, chartFixture)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	chart, err := repo.GetChart(context.Background(), "AAPL", "1y")

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, chart.Closes, 3)
}

func TestGetChartExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	_, err := repo.GetChart(context.Background(), "AAPL", "1y")

	assert.True(t, errors.Is(err, ErrProviderFailure))
	assert.Equal(t, int32(3), calls.Load()) // initial attempt + 2 retries
}

func TestGetChartCachesPayload(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, chartFixture)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)

	_, err := repo.GetChart(context.Background(), "AAPL", "1y")
	require.NoError(t, err)
	_, err = repo.GetChart(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())

	// A different range is a different cache entry.
	_, err = repo.GetChart(context.Background(), "AAPL", "2y")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetQuoteSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("modules"), "financialData")
		fmt.Fprint(w, quoteSummaryFixture)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	snapshot, err := repo.GetQuoteSummary(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, int64(2_800_000_000_000), snapshot.MarketCap)
	require.NotNil(t, snapshot.PERatio)
	assert.Equal(t, 29.4, *snapshot.PERatio)
	require.NotNil(t, snapshot.ProfitMargin)
	assert.Equal(t, 0.253, *snapshot.ProfitMargin)
	assert.Equal(t, "Technology", snapshot.Sector)
	assert.Equal(t, "Consumer Electronics", snapshot.Industry)

	// Yahoo's percentage debt/equity is normalized to a ratio.
	require.NotNil(t, snapshot.DebtToEquity)
	assert.InDelta(t, 1.763, *snapshot.DebtToEquity, 1e-9)

	// Metrics the payload omits stay absent.
	assert.Nil(t, snapshot.PEGRatio)
	assert.Nil(t, snapshot.EarningsGrowth)
	assert.Nil(t, snapshot.CurrentRatio)
}

func TestGetQuoteSummarySparsePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary": {"result": [{"price": null}], "error": null}}`)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	snapshot, err := repo.GetQuoteSummary(context.Background(), "SPARSE")
	require.NoError(t, err)

	assert.Equal(t, int64(0), snapshot.MarketCap)
	assert.Nil(t, snapshot.PERatio)
	assert.Equal(t, "Unknown", snapshot.Sector)
	assert.Equal(t, "Unknown", snapshot.Industry)
}

func TestGetQuoteSummaryProfitMarginFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"quoteSummary": {
				"result": [{
					"financialData": {"debtToEquity": null},
					"defaultKeyStatistics": {"profitMargins": {"raw": 0.18, "fmt": "18.00%"}}
				}],
				"error": null
			}
		}`)
	}))
	defer server.Close()

	repo := testRepository(t, server.URL)
	snapshot, err := repo.GetQuoteSummary(context.Background(), "AAPL")
	require.NoError(t, err)

	require.NotNil(t, snapshot.ProfitMargin)
	assert.Equal(t, 0.18, *snapshot.ProfitMargin)
}
