package service

import (
	"context"
	"testing"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Advisor: config.Advisor{
			NewsLimit:            5,
			DefaultRiskProfile:   "moderate",
			DefaultHorizonMonths: 12,
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// fakeStockDataRepository serves canned chart and summary data keyed by symbol.
type fakeStockDataRepository struct {
	charts     map[string]*dto.ChartData
	summaries  map[string]*dto.FundamentalsSnapshot
	chartErr   error
	summaryErr error
}

func (f *fakeStockDataRepository) GetChart(_ context.Context, symbol, _ string) (*dto.ChartData, error) {
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	return f.charts[symbol], nil
}

func (f *fakeStockDataRepository) GetQuoteSummary(_ context.Context, symbol string) (*dto.FundamentalsSnapshot, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summaries[symbol], nil
}

type fakeNewsRepository struct {
	items []dto.NewsItem
	err   error
}

func (f *fakeNewsRepository) GetHeadlines(_ context.Context, _ string, limit int) ([]dto.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}
