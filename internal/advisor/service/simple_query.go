package service

import (
	"context"
	"fmt"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"
)

// SimpleQueryService answers single-fact questions without running the
// analysis pipeline.
type SimpleQueryService interface {
	Answer(ctx context.Context, question *dto.ParsedQuestion) (string, error)
}

type simpleQueryService struct {
	log       *logger.Logger
	stockData repository.StockDataRepository
}

// NewSimpleQueryService creates a new SimpleQueryService.
func NewSimpleQueryService(log *logger.Logger, stockData repository.StockDataRepository) SimpleQueryService {
	return &simpleQueryService{log: log, stockData: stockData}
}

func (s *simpleQueryService) Answer(ctx context.Context, question *dto.ParsedQuestion) (string, error) {
	if question.Symbol == "" {
		return "", fmt.Errorf("%w: could not identify stock symbol in question", ErrInvalidInput)
	}

	switch question.Subtype {
	case dto.SubtypeCurrentPrice:
		return s.currentPrice(ctx, question.Symbol)
	case dto.SubtypeYesterdayPrice:
		return s.yesterdayPrice(ctx, question.Symbol)
	case dto.SubtypeMarketCap:
		return s.marketCap(ctx, question.Symbol)
	}
	return "", fmt.Errorf("%w: unknown question type %q", ErrInvalidInput, question.Subtype)
}

func (s *simpleQueryService) currentPrice(ctx context.Context, symbol string) (string, error) {
	chart, err := s.stockData.GetChart(ctx, symbol, "1d")
	if err != nil {
		return "", fmt.Errorf("failed to retrieve price for %s: %w", symbol, err)
	}

	price := chart.RegularMarketPrice
	if price <= 0 {
		price = chart.Closes[len(chart.Closes)-1]
	}
	return fmt.Sprintf("The current price of %s is $%.2f", symbol, price), nil
}

func (s *simpleQueryService) yesterdayPrice(ctx context.Context, symbol string) (string, error) {
	chart, err := s.stockData.GetChart(ctx, symbol, "5d")
	if err != nil {
		return "", fmt.Errorf("failed to retrieve yesterday's price for %s: %w", symbol, err)
	}

	idx := len(chart.Closes) - 1
	label := "most recent closing price"
	if len(chart.Closes) >= 2 {
		idx = len(chart.Closes) - 2
		label = "closing price yesterday"
	}

	date := ""
	if idx < len(chart.Timestamps) {
		date = time.Unix(chart.Timestamps[idx], 0).UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("%s's %s (%s) was $%.2f", symbol, label, date, chart.Closes[idx]), nil
}

func (s *simpleQueryService) marketCap(ctx context.Context, symbol string) (string, error) {
	fundamentals, err := s.stockData.GetQuoteSummary(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve market cap for %s: %w", symbol, err)
	}
	if fundamentals.MarketCap <= 0 {
		return "", fmt.Errorf("%w: no market cap reported for %s", repository.ErrDataUnavailable, symbol)
	}
	return fmt.Sprintf("%s's market cap is %s", symbol, formatMarketCap(fundamentals.MarketCap)), nil
}
