package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"gonum.org/v1/gonum/stat"
)

const tradingDaysPerYear = 252

// MarketDataService runs the market data stage of the pipeline.
type MarketDataService interface {
	Analyze(ctx context.Context, symbol string, horizonMonths int) dto.MarketStageResult
}

type marketDataService struct {
	log       *logger.Logger
	stockData repository.StockDataRepository
}

// NewMarketDataService creates a new MarketDataService.
func NewMarketDataService(log *logger.Logger, stockData repository.StockDataRepository) MarketDataService {
	return &marketDataService{log: log, stockData: stockData}
}

// PeriodForHorizon maps an investment horizon to the price history window.
// The window bounds the volatility sample, which feeds the risk score and
// therefore the recommendation: a longer horizon deliberately perceives risk
// through a longer lens.
func PeriodForHorizon(horizonMonths int) string {
	switch {
	case horizonMonths >= 24:
		return "2y"
	case horizonMonths >= 12:
		return "1y"
	default:
		return "6mo"
	}
}

// AnnualizedVolatility computes stddev(daily percent returns) scaled by
// sqrt(252 trading days), as a percentage.
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear) * 100
}

func (s *marketDataService) Analyze(ctx context.Context, symbol string, horizonMonths int) dto.MarketStageResult {
	period := PeriodForHorizon(horizonMonths)

	result := dto.MarketStageResult{
		Agent: "Market Data Agent",
		Reason: fmt.Sprintf(
			"Required data for %s:\n"+
				"- Investment horizon: %d months -> using period: %s\n"+
				"- Need: price data, returns, volatility metrics\n"+
				"- Data quality check: verify sufficient data points\n"+
				"- Trend analysis: identify price direction and momentum",
			symbol, horizonMonths, period,
		),
	}

	chart, err := s.stockData.GetChart(ctx, symbol, period)
	if err != nil {
		s.log.ErrorContext(ctx, "Market data stage failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		result.Error = err.Error()
		result.Output = fmt.Sprintf("Error: %s", err.Error())
		return result
	}

	snapshot := buildMarketSnapshot(symbol, period, chart)
	result.Snapshot = snapshot
	result.Output = renderMarketOutput(snapshot)
	return result
}

func buildMarketSnapshot(symbol, period string, chart *dto.ChartData) *dto.MarketSnapshot {
	closes := chart.Closes
	currentPrice := closes[len(closes)-1]
	prevPrice := currentPrice
	if len(closes) > 1 {
		prevPrice = closes[len(closes)-2]
	}

	priceChange := currentPrice - prevPrice
	priceChangePct := 0.0
	if prevPrice > 0 {
		priceChangePct = priceChange / prevPrice * 100
	}

	trend := dto.TrendDownward
	if priceChange > 0 {
		trend = dto.TrendUpward
	}

	quality := dto.DataQualityLimited
	if len(closes) > 50 {
		quality = dto.DataQualityGood
	}

	return &dto.MarketSnapshot{
		Symbol:         symbol,
		CurrentPrice:   utils.RoundFloat(currentPrice, 2),
		PriceChange:    utils.RoundFloat(priceChange, 2),
		PriceChangePct: utils.RoundFloat(priceChangePct, 2),
		Volatility:     utils.RoundFloat(AnnualizedVolatility(closes), 2),
		DataPoints:     len(closes),
		Period:         period,
		Trend:          trend,
		DataQuality:    quality,
	}
}

func renderMarketOutput(m *dto.MarketSnapshot) string {
	observation := "Moderate volatility"
	if m.Volatility > 30 {
		observation = "High volatility detected"
	}

	return fmt.Sprintf(
		"Market Data Summary for %s:\n"+
			"- Current Price: $%.2f\n"+
			"- Price Change: %+.2f (%+.2f%%)\n"+
			"- Annualized Volatility: %.2f%%\n"+
			"- Trend: %s\n"+
			"- Data Quality: %s (%d data points)\n"+
			"- Observation: %s",
		m.Symbol,
		m.CurrentPrice,
		m.PriceChange,
		m.PriceChangePct,
		m.Volatility,
		strings.ToUpper(string(m.Trend)),
		m.DataQuality,
		m.DataPoints,
		observation,
	)
}
