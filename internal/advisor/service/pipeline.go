package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"
)

// ErrInvalidInput marks a request rejected before the pipeline runs: empty
// symbol, unknown risk profile or non-positive horizon.
var ErrInvalidInput = errors.New("invalid input")

// PipelineService coordinates the three analysis stages and assembles the
// final report. Stages run strictly sequentially; a stage failure is carried
// in that stage's Error field and the remaining stages proceed on whatever
// data is available.
type PipelineService interface {
	ProcessQuery(ctx context.Context, symbol string, profile dto.RiskProfile, horizonMonths int) (*dto.QueryResult, error)
}

type pipelineService struct {
	log          *logger.Logger
	market       MarketDataService
	fundamentals FundamentalsService
	risk         RiskService
	notifier     telegram.Notifier
}

// NewPipelineService creates a new PipelineService. The notifier may be nil
// when Telegram delivery is not configured.
func NewPipelineService(log *logger.Logger, market MarketDataService, fundamentals FundamentalsService, risk RiskService, notifier telegram.Notifier) PipelineService {
	return &pipelineService{
		log:          log,
		market:       market,
		fundamentals: fundamentals,
		risk:         risk,
		notifier:     notifier,
	}
}

func (s *pipelineService) ProcessQuery(ctx context.Context, symbol string, profile dto.RiskProfile, horizonMonths int) (*dto.QueryResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	if _, err := dto.ParseRiskProfile(string(profile)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidInput, horizonMonths)
	}

	s.log.DebugContext(ctx, "Processing analysis query",
		logger.StringField("symbol", symbol),
		logger.StringField("risk_profile", string(profile)),
		logger.IntField("horizon_months", horizonMonths),
	)

	result := &dto.QueryResult{
		Query: dto.Query{
			Symbol:        symbol,
			RiskProfile:   profile,
			HorizonMonths: horizonMonths,
		},
	}

	// Stage 1: market data.
	result.Market = s.market.Analyze(ctx, symbol, horizonMonths)

	// Stage 2: fundamentals & news.
	result.Fundamentals = s.fundamentals.Analyze(ctx, symbol)

	// Stage 3: portfolio & risk, fed by the previous stages. Errored stages
	// contribute nil snapshots; the risk stage treats those as empty data.
	result.Risk = s.risk.Analyze(symbol, profile, horizonMonths, result.Market.Snapshot, result.Fundamentals.Fundamentals)

	result.FinalAnswer = s.assembleFinalAnswer(result)

	if s.notifier != nil {
		report := result.FinalAnswer
		utils.GoSafe(func() {
			if err := s.notifier.SendMessage(report); err != nil {
				s.log.Error("Failed to send report notification", logger.ErrorField(err))
			}
		})
	}

	return result, nil
}

func (s *pipelineService) assembleFinalAnswer(result *dto.QueryResult) string {
	action := dto.ActionHold
	allocation := "N/A"
	if rec := result.Risk.Recommendation; rec != nil {
		action = rec.Action
		allocation = rec.Allocation
	}

	return strings.TrimSpace(fmt.Sprintf(
		"#### Final Answer - Financial Analysis for %s\n\n"+
			"**Query Parameters:**\n"+
			"- Symbol: %s\n"+
			"- Risk Profile: %s\n"+
			"- Investment Horizon: %d months\n\n"+
			"---\n\n"+
			"##### Agent Analysis Summary\n\n"+
			"**1. Market Data Analysis:**\n%s\n\n"+
			"**2. Fundamental & News Analysis:**\n%s\n\n"+
			"**3. Portfolio & Risk Analysis:**\n%s\n\n"+
			"---\n\n"+
			"##### Investment Recommendation\n\n"+
			"**Action:** %s  \n"+
			"**Suggested Portfolio Allocation:** %s\n\n"+
			"**Justification:**\n"+
			"The recommendation is based on:\n"+
			"- Market data trends and volatility assessment\n"+
			"- Fundamental financial health metrics\n"+
			"- Alignment with your %s risk profile\n"+
			"- %d-month investment horizon considerations",
		result.Query.Symbol,
		result.Query.Symbol,
		strings.ToUpper(string(result.Query.RiskProfile)),
		result.Query.HorizonMonths,
		result.Market.Output,
		result.Fundamentals.Output,
		result.Risk.Output,
		action,
		allocation,
		result.Query.RiskProfile,
		result.Query.HorizonMonths,
	))
}
