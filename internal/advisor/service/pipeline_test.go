package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipelineFixture(t *testing.T, stockData *fakeStockDataRepository, news *fakeNewsRepository, notifier *fakeNotifier) PipelineService {
	t.Helper()
	log := testLogger(t)
	market := NewMarketDataService(log, stockData)
	fundamentals := NewFundamentalsService(testConfig(), log, stockData, news)
	risk := NewRiskService(log)

	// A typed nil would pass the pipeline's nil check, so only assign when set.
	var n telegram.Notifier
	if notifier != nil {
		n = notifier
	}
	return NewPipelineService(log, market, fundamentals, risk, n)
}

type fakeNotifier struct {
	messages chan string
	err      error
}

func (f *fakeNotifier) SendMessage(text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages <- text
	return nil
}

func healthyStockData() *fakeStockDataRepository {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 150 + float64(i%5)
	}
	return &fakeStockDataRepository{
		charts: map[string]*dto.ChartData{
			"AAPL": {Symbol: "AAPL", RegularMarketPrice: closes[len(closes)-1], Closes: closes},
		},
		summaries: map[string]*dto.FundamentalsSnapshot{
			"AAPL": {
				Symbol:       "AAPL",
				MarketCap:    3_000_000_000_000,
				PERatio:      floatPtr(20),
				DebtToEquity: floatPtr(0.3),
				ProfitMargin: floatPtr(0.2),
				Sector:       "Technology",
				Industry:     "Consumer Electronics",
			},
		},
	}
}

func TestProcessQueryValidation(t *testing.T) {
	svc := newPipelineFixture(t, healthyStockData(), &fakeNewsRepository{}, nil)

	tests := []struct {
		name    string
		symbol  string
		profile dto.RiskProfile
		horizon int
	}{
		{"empty symbol", "", dto.RiskProfileModerate, 12},
		{"blank symbol", "   ", dto.RiskProfileModerate, 12},
		{"unknown profile", "AAPL", "reckless", 12},
		{"zero horizon", "AAPL", dto.RiskProfileModerate, 0},
		{"negative horizon", "AAPL", dto.RiskProfileModerate, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessQuery(context.Background(), tt.symbol, tt.profile, tt.horizon)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestProcessQueryFullRun(t *testing.T) {
	svc := newPipelineFixture(t, healthyStockData(), &fakeNewsRepository{items: []dto.NewsItem{
		{Title: "Apple ships a thing", Publisher: "Yahoo Finance", Link: "https://example.com/1"},
	}}, nil)

	result, err := svc.ProcessQuery(context.Background(), "aapl", dto.RiskProfileModerate, 12)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Query.Symbol)
	require.NotNil(t, result.Market.Snapshot)
	require.NotNil(t, result.Fundamentals.Fundamentals)
	require.NotNil(t, result.Risk.Recommendation)

	assert.Contains(t, result.FinalAnswer, "#### Final Answer - Financial Analysis for AAPL")
	assert.Contains(t, result.FinalAnswer, "Risk Profile: MODERATE")
	assert.Contains(t, result.FinalAnswer, result.Market.Output)
	assert.Contains(t, result.FinalAnswer, result.Fundamentals.Output)
	assert.Contains(t, result.FinalAnswer, result.Risk.Output)
	assert.Contains(t, result.FinalAnswer, "12-month investment horizon considerations")
}

func TestProcessQueryDegradedMarketStage(t *testing.T) {
	stockData := healthyStockData()
	stockData.chartErr = repository.ErrProviderFailure
	svc := newPipelineFixture(t, stockData, &fakeNewsRepository{}, nil)

	result, err := svc.ProcessQuery(context.Background(), "AAPL", dto.RiskProfileModerate, 12)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Market.Error)
	assert.Nil(t, result.Market.Snapshot)

	// The risk stage still runs, on zero volatility.
	require.NotNil(t, result.Risk.Recommendation)
	assert.Equal(t, 0.0, result.Risk.Volatility)
	assert.NotEmpty(t, result.FinalAnswer)
}

func TestProcessQueryDegradedFundamentalsStage(t *testing.T) {
	stockData := healthyStockData()
	stockData.summaryErr = repository.ErrDataUnavailable
	svc := newPipelineFixture(t, stockData, &fakeNewsRepository{}, nil)

	result, err := svc.ProcessQuery(context.Background(), "AAPL", dto.RiskProfileConservative, 24)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Fundamentals.Error)
	assert.Nil(t, result.Fundamentals.Fundamentals)
	require.NotNil(t, result.Risk.Recommendation)

	// Volatility is still scored from the market stage.
	assert.Equal(t, result.Market.Snapshot.Volatility, result.Risk.Volatility)
}

func TestProcessQuerySendsNotification(t *testing.T) {
	notifier := &fakeNotifier{messages: make(chan string, 1)}
	svc := newPipelineFixture(t, healthyStockData(), &fakeNewsRepository{}, notifier)

	result, err := svc.ProcessQuery(context.Background(), "AAPL", dto.RiskProfileModerate, 12)
	require.NoError(t, err)

	select {
	case msg := <-notifier.messages:
		assert.Equal(t, result.FinalAnswer, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a report notification")
	}
}

func TestProcessQueryNotificationFailureDoesNotFail(t *testing.T) {
	notifier := &fakeNotifier{messages: make(chan string, 1), err: errors.New("telegram down")}
	svc := newPipelineFixture(t, healthyStockData(), &fakeNewsRepository{}, notifier)

	result, err := svc.ProcessQuery(context.Background(), "AAPL", dto.RiskProfileModerate, 12)
	require.NoError(t, err)
	assert.NotEmpty(t, result.FinalAnswer)
}
