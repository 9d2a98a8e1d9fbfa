package service

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"
)

// FundamentalsService runs the fundamentals & news stage of the pipeline.
type FundamentalsService interface {
	Analyze(ctx context.Context, symbol string) dto.FundamentalsStageResult
}

type fundamentalsService struct {
	cfg       *config.Config
	log       *logger.Logger
	stockData repository.StockDataRepository
	news      repository.NewsRepository
}

// NewFundamentalsService creates a new FundamentalsService.
func NewFundamentalsService(cfg *config.Config, log *logger.Logger, stockData repository.StockDataRepository, news repository.NewsRepository) FundamentalsService {
	return &fundamentalsService{cfg: cfg, log: log, stockData: stockData, news: news}
}

func (s *fundamentalsService) Analyze(ctx context.Context, symbol string) dto.FundamentalsStageResult {
	result := dto.FundamentalsStageResult{
		Agent: "Fundamental & News Agent",
		Reason: fmt.Sprintf(
			"Required analysis for %s:\n"+
				"- Financial ratios: P/E, P/B, Debt/Equity, ROE, Profit Margin\n"+
				"- Growth metrics: Revenue growth, Earnings growth\n"+
				"- Liquidity: Current ratio\n"+
				"- News signals: Recent news sentiment and key events\n"+
				"- Sector/Industry context: Compare against sector averages",
			symbol,
		),
		News: []dto.NewsItem{},
	}

	fundamentals, err := s.stockData.GetQuoteSummary(ctx, symbol)
	if err != nil {
		s.log.ErrorContext(ctx, "Fundamentals stage failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		result.Error = err.Error()
		result.Output = fmt.Sprintf("Error: %s", err.Error())
		return result
	}
	result.Fundamentals = fundamentals

	// News failures degrade to an empty list, they do not fail the stage.
	news, err := s.news.GetHeadlines(ctx, symbol, s.cfg.Advisor.NewsLimit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch news headlines", logger.StringField("symbol", symbol), logger.ErrorField(err))
	} else {
		result.News = news
	}

	result.Output = renderFundamentalsOutput(fundamentals, result.News)
	return result
}

func renderFundamentalsOutput(f *dto.FundamentalsSnapshot, news []dto.NewsItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Fundamental Analysis for %s:\n\n", f.Symbol)
	b.WriteString("Financial Health:\n")

	if pe := f.PERatio; pe != nil {
		status := "Overvalued"
		if *pe < 15 {
			status = "Undervalued"
		} else if *pe < 25 {
			status = "Fairly valued"
		}
		fmt.Fprintf(&b, "- P/E Ratio: %.2f (%s)\n", *pe, status)
	}
	if pb := f.PriceToBook; pb != nil {
		fmt.Fprintf(&b, "- P/B Ratio: %.2f\n", *pb)
	}
	if margin := f.ProfitMargin; margin != nil {
		status := "Weak"
		if *margin > 0.15 {
			status = "Strong"
		} else if *margin > 0.05 {
			status = "Moderate"
		}
		fmt.Fprintf(&b, "- Profit Margin: %.2f%% (%s)\n", *margin*100, status)
	}
	if roe := f.ROE; roe != nil {
		fmt.Fprintf(&b, "- ROE: %.2f%%\n", *roe*100)
	}
	if growth := f.RevenueGrowth; growth != nil {
		fmt.Fprintf(&b, "- Revenue Growth: %.2f%%\n", *growth*100)
	}
	if growth := f.EarningsGrowth; growth != nil {
		fmt.Fprintf(&b, "- Earnings Growth: %.2f%%\n", *growth*100)
	}
	if de := f.DebtToEquity; de != nil {
		status := "High"
		if *de < 0.5 {
			status = "Low"
		} else if *de < 1.0 {
			status = "Moderate"
		}
		fmt.Fprintf(&b, "- Debt/Equity: %.2f (%s)\n", *de, status)
	}
	if cr := f.CurrentRatio; cr != nil {
		fmt.Fprintf(&b, "- Current Ratio: %.2f\n", *cr)
	}

	fmt.Fprintf(&b, "\nSector: %s\n", f.Sector)
	fmt.Fprintf(&b, "Industry: %s\n", f.Industry)

	b.WriteString("\n**Recent News:**\n\n")
	if len(news) > 0 {
		for i, item := range news {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, item.Title)
			fmt.Fprintf(&b, "   Source: %s\n", item.Publisher)
			if item.Link != "" {
				fmt.Fprintf(&b, "   Link: %s\n", item.Link)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No recent news available or error fetching news.\n\n")
	}

	b.WriteString("\nQualitative Signals: ")
	switch {
	case f.ProfitMargin != nil && *f.ProfitMargin > 0.1 && f.RevenueGrowth != nil && *f.RevenueGrowth > 0:
		b.WriteString("Positive fundamentals with growth trajectory")
	case f.DebtToEquity != nil && *f.DebtToEquity > 1.0:
		b.WriteString("High debt levels require caution")
	default:
		b.WriteString("Mixed signals, requires deeper analysis")
	}

	return b.String()
}
