package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"
)

// ComplexQueryService answers questions that need the full analysis
// pipeline: recommendations, comparisons and portfolio suggestions.
type ComplexQueryService interface {
	Handle(ctx context.Context, question *dto.ParsedQuestion) (string, []*dto.QueryResult, error)
}

type complexQueryService struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline PipelineService
}

// NewComplexQueryService creates a new ComplexQueryService.
func NewComplexQueryService(cfg *config.Config, log *logger.Logger, pipeline PipelineService) ComplexQueryService {
	return &complexQueryService{cfg: cfg, log: log, pipeline: pipeline}
}

func (s *complexQueryService) Handle(ctx context.Context, question *dto.ParsedQuestion) (string, []*dto.QueryResult, error) {
	switch question.Subtype {
	case dto.SubtypeInvestmentRecommendation:
		return s.investmentRecommendation(ctx, question)
	case dto.SubtypeComparison:
		return s.comparison(ctx, question)
	case dto.SubtypePortfolio:
		return s.portfolio(ctx, question)
	case dto.SubtypeDataBasedRecommendation:
		return s.dataBasedRecommendation(ctx, question)
	}
	return "", nil, fmt.Errorf("%w: unknown complex question type %q", ErrInvalidInput, question.Subtype)
}

func (s *complexQueryService) investmentRecommendation(ctx context.Context, question *dto.ParsedQuestion) (string, []*dto.QueryResult, error) {
	if question.Symbol == "" {
		return "", nil, fmt.Errorf("%w: please specify a stock symbol in your question", ErrInvalidInput)
	}

	profile := question.RiskProfile
	if profile == "" {
		profile = dto.RiskProfile(s.cfg.Advisor.DefaultRiskProfile)
	}
	horizon := question.HorizonMonths
	if horizon <= 0 {
		horizon = s.cfg.Advisor.DefaultHorizonMonths
	}

	result, err := s.pipeline.ProcessQuery(ctx, question.Symbol, profile, horizon)
	if err != nil {
		return "", nil, err
	}
	return result.FinalAnswer, []*dto.QueryResult{result}, nil
}

func (s *complexQueryService) comparison(ctx context.Context, question *dto.ParsedQuestion) (string, []*dto.QueryResult, error) {
	if len(question.Symbols) < 2 {
		return "", nil, fmt.Errorf("%w: please specify two stocks to compare", ErrInvalidInput)
	}

	profile := dto.RiskProfile(s.cfg.Advisor.DefaultRiskProfile)
	horizon := s.cfg.Advisor.DefaultHorizonMonths

	first, err := s.pipeline.ProcessQuery(ctx, question.Symbols[0], profile, horizon)
	if err != nil {
		return "", nil, err
	}
	second, err := s.pipeline.ProcessQuery(ctx, question.Symbols[1], profile, horizon)
	if err != nil {
		return "", nil, err
	}

	return renderComparison(first, second), []*dto.QueryResult{first, second}, nil
}

func (s *complexQueryService) portfolio(ctx context.Context, question *dto.ParsedQuestion) (string, []*dto.QueryResult, error) {
	amount := parseAmount(question.Amount)

	profile := question.RiskProfile
	if profile == "" {
		profile = dto.RiskProfile(s.cfg.Advisor.DefaultRiskProfile)
	}

	// Single representative symbol per profile; a full portfolio engine is
	// out of scope.
	symbol := "MSFT"
	switch profile {
	case dto.RiskProfileConservative:
		symbol = "AAPL"
	case dto.RiskProfileAggressive:
		symbol = "NVDA"
	}

	result, err := s.pipeline.ProcessQuery(ctx, symbol, profile, s.cfg.Advisor.DefaultHorizonMonths)
	if err != nil {
		return "", nil, err
	}

	rec := result.Risk.Recommendation
	answer := strings.TrimSpace(fmt.Sprintf(
		"#### Portfolio Recommendation for $%s\n\n"+
			"**Risk Profile:** %s\n\n"+
			"**Suggested Allocation:**\n"+
			"- %s: %s\n"+
			"- Action: %s\n\n"+
			"**Reasoning:**\n%s\n\n"+
			"**Note:** This is a simplified recommendation. A full portfolio should include diversification across multiple stocks and asset classes.",
		groupThousands(amount),
		strings.ToUpper(string(profile)),
		symbol,
		rec.Allocation,
		rec.Action,
		rec.Reasoning,
	))

	return answer, []*dto.QueryResult{result}, nil
}

func (s *complexQueryService) dataBasedRecommendation(ctx context.Context, question *dto.ParsedQuestion) (string, []*dto.QueryResult, error) {
	symbol := question.Symbol
	if symbol == "" {
		symbol = "AAPL"
	}

	result, err := s.pipeline.ProcessQuery(ctx, symbol, dto.RiskProfile(s.cfg.Advisor.DefaultRiskProfile), s.cfg.Advisor.DefaultHorizonMonths)
	if err != nil {
		return "", nil, err
	}

	market := result.Market.Snapshot
	fundamentals := result.Fundamentals.Fundamentals
	rec := result.Risk.Recommendation

	var pe, margin, growth *float64
	if fundamentals != nil {
		pe = fundamentals.PERatio
		margin = fundamentals.ProfitMargin
		growth = fundamentals.RevenueGrowth
	}

	answer := strings.TrimSpace(fmt.Sprintf(
		"#### Data-Based Recommendation for %s\n\n"+
			"**Market Data:**\n"+
			"- Current Price: $%.2f\n"+
			"- Volatility: %.2f%%\n"+
			"- Trend: %s\n\n"+
			"**Fundamentals:**\n"+
			"- P/E Ratio: %s\n"+
			"- Profit Margin: %s%%\n"+
			"- Revenue Growth: %s%%\n\n"+
			"**Recommendation:** %s\n"+
			"**Allocation:** %s\n\n"+
			"**Reasoning:** %s",
		symbol,
		marketPrice(market),
		marketVolatility(market),
		marketTrend(market),
		fmtOptional(pe),
		fmtOptionalPct(margin),
		fmtOptionalPct(growth),
		rec.Action,
		rec.Allocation,
		rec.Reasoning,
	))

	return answer, []*dto.QueryResult{result}, nil
}

func renderComparison(first, second *dto.QueryResult) string {
	symbol1 := first.Query.Symbol
	symbol2 := second.Query.Symbol
	rec1 := first.Risk.Recommendation
	rec2 := second.Risk.Recommendation

	var pe1, pe2 *float64
	if f := first.Fundamentals.Fundamentals; f != nil {
		pe1 = f.PERatio
	}
	if f := second.Fundamentals.Fundamentals; f != nil {
		pe2 = f.PERatio
	}

	summary := fmt.Sprintf("%s shows %s signal while %s shows %s signal", symbol1, rec1.Action, symbol2, rec2.Action)
	if rec1.Action == rec2.Action {
		summary = "both stocks show potential"
	}

	return strings.TrimSpace(fmt.Sprintf(
		"#### Comparison: %s vs %s\n\n"+
			"**Price Comparison:**\n"+
			"- %s: $%.2f (Volatility: %.2f%%)\n"+
			"- %s: $%.2f (Volatility: %.2f%%)\n\n"+
			"**Valuation:**\n"+
			"- %s P/E: %s\n"+
			"- %s P/E: %s\n\n"+
			"**Recommendations:**\n"+
			"- %s: %s - %s\n"+
			"- %s: %s - %s\n\n"+
			"**Summary:**\n"+
			"Based on the analysis, %s.",
		symbol1, symbol2,
		symbol1, marketPrice(first.Market.Snapshot), marketVolatility(first.Market.Snapshot),
		symbol2, marketPrice(second.Market.Snapshot), marketVolatility(second.Market.Snapshot),
		symbol1, fmtOptional(pe1),
		symbol2, fmtOptional(pe2),
		symbol1, rec1.Action, rec1.Allocation,
		symbol2, rec2.Action, rec2.Allocation,
		summary,
	))
}

func marketPrice(m *dto.MarketSnapshot) float64 {
	if m == nil {
		return 0
	}
	return m.CurrentPrice
}

func marketVolatility(m *dto.MarketSnapshot) float64 {
	if m == nil {
		return 0
	}
	return m.Volatility
}

func marketTrend(m *dto.MarketSnapshot) string {
	if m == nil {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(m.Trend))
}

// parseAmount parses amount strings like "50k" or "1m" into whole dollars.
func parseAmount(raw string) int64 {
	if raw == "" {
		raw = "50000"
	}
	raw = strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(raw, "$", ""), ",", ""))

	multiplier := int64(1)
	if strings.HasSuffix(raw, "k") {
		multiplier = 1_000
		raw = strings.TrimSuffix(raw, "k")
	} else if strings.HasSuffix(raw, "m") {
		multiplier = 1_000_000
		raw = strings.TrimSuffix(raw, "m")
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 50_000
	}
	return int64(value) * multiplier
}
