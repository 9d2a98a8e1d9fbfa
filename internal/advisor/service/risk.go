package service

import (
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"
)

// RiskService computes risk scores and recommendations. Scores are derived
// values: recomputed on every call, never cached.
type RiskService interface {
	Score(fundamentals *dto.FundamentalsSnapshot, volatility float64, profile dto.RiskProfile) float64
	Recommend(score float64, profile dto.RiskProfile, horizonMonths int, fundamentals *dto.FundamentalsSnapshot, market *dto.MarketSnapshot) dto.Recommendation
	Analyze(symbol string, profile dto.RiskProfile, horizonMonths int, market *dto.MarketSnapshot, fundamentals *dto.FundamentalsSnapshot) dto.RiskStageResult
}

type riskService struct {
	log *logger.Logger
}

// NewRiskService creates a new RiskService.
func NewRiskService(log *logger.Logger) RiskService {
	return &riskService{log: log}
}

// Score maps fundamentals and volatility to a risk score in [0, 100] via
// additive banded rules. A nil metric skips its band, so two symbols with
// identical volatility but different data completeness score differently;
// that is a known property of the model, not a bug.
//
// The risk profile is accepted but intentionally unused: risk here is an
// objective property of the asset, while tolerance is subjective and belongs
// to the selector.
func (s *riskService) Score(fundamentals *dto.FundamentalsSnapshot, volatility float64, _ dto.RiskProfile) float64 {
	score := 0.0

	// Volatility component (0-40 points)
	switch {
	case volatility < 15:
		score += 10
	case volatility < 25:
		score += 20
	case volatility < 35:
		score += 30
	default:
		score += 40
	}

	if fundamentals != nil {
		// P/E ratio component (0-20 points)
		if pe := fundamentals.PERatio; pe != nil {
			switch {
			case *pe < 15:
				score += 5
			case *pe < 25:
				score += 15
			default:
				score += 20
			}
		}

		// Debt-to-equity component (0-20 points)
		if de := fundamentals.DebtToEquity; de != nil {
			switch {
			case *de < 0.5:
				score += 5
			case *de < 1.0:
				score += 15
			default:
				score += 20
			}
		}

		// Profit margin component (0-20 points)
		if margin := fundamentals.ProfitMargin; margin != nil {
			switch {
			case *margin > 0.15:
				score += 5
			case *margin > 0.05:
				score += 15
			default:
				score += 20
			}
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Recommend maps (risk score, risk profile, horizon) to an action and
// allocation band. Thresholds are strict upper bounds: a score of exactly 30
// falls through to the next conservative band.
func (s *riskService) Recommend(score float64, profile dto.RiskProfile, horizonMonths int, _ *dto.FundamentalsSnapshot, _ *dto.MarketSnapshot) dto.Recommendation {
	var (
		action     dto.Action
		allocation string
		reasoning  string
	)

	switch profile {
	case dto.RiskProfileConservative:
		switch {
		case score < 30:
			action = dto.ActionBuy
			allocation = "5-10%"
			reasoning = "Low risk score aligns with conservative profile"
		case score < 50:
			action = dto.ActionHold
			allocation = "3-5%"
			reasoning = "Moderate risk, limited exposure recommended"
		default:
			action = dto.ActionAvoid
			allocation = "0%"
			reasoning = "High risk score incompatible with conservative profile"
		}
	case dto.RiskProfileModerate:
		switch {
		case score < 40:
			action = dto.ActionBuy
			allocation = "10-15%"
			reasoning = "Acceptable risk for moderate profile"
		case score < 60:
			action = dto.ActionHold
			allocation = "5-10%"
			reasoning = "Moderate risk, standard allocation"
		default:
			action = dto.ActionReduce
			allocation = "0-5%"
			reasoning = "Elevated risk, reduce exposure"
		}
	case dto.RiskProfileAggressive:
		switch {
		case score < 60:
			action = dto.ActionBuy
			allocation = "15-20%"
			reasoning = "Risk acceptable for aggressive profile"
		default:
			action = dto.ActionHold
			allocation = "10-15%"
			reasoning = "High risk but manageable for aggressive investors"
		}
	}

	switch {
	case horizonMonths >= 24:
		reasoning += fmt.Sprintf(". Long-term horizon (%d months) supports position.", horizonMonths)
	case horizonMonths >= 12:
		reasoning += fmt.Sprintf(". Medium-term horizon (%d months) appropriate.", horizonMonths)
	default:
		reasoning += fmt.Sprintf(". Short-term horizon (%d months) requires caution.", horizonMonths)
	}

	return dto.Recommendation{
		Action:        action,
		Allocation:    allocation,
		RiskScore:     utils.RoundFloat(score, 1),
		Reasoning:     reasoning,
		HorizonMonths: horizonMonths,
	}
}

// Analyze runs the portfolio & risk stage over the outputs of the two data
// stages. Missing market data degrades to zero volatility instead of failing.
func (s *riskService) Analyze(symbol string, profile dto.RiskProfile, horizonMonths int, market *dto.MarketSnapshot, fundamentals *dto.FundamentalsSnapshot) dto.RiskStageResult {
	volatility := 0.0
	if market != nil {
		volatility = market.Volatility
	}

	score := s.Score(fundamentals, volatility, profile)
	recommendation := s.Recommend(score, profile, horizonMonths, fundamentals, market)

	result := dto.RiskStageResult{
		Agent:          "Portfolio & Risk Agent",
		Reason:         s.buildReason(symbol, profile, horizonMonths, market, fundamentals),
		RiskScore:      score,
		Volatility:     volatility,
		Recommendation: &recommendation,
	}
	result.Output = s.buildOutput(score, volatility, &recommendation)
	return result
}

func (s *riskService) buildReason(symbol string, profile dto.RiskProfile, horizonMonths int, market *dto.MarketSnapshot, fundamentals *dto.FundamentalsSnapshot) string {
	var volatility, debtEquity, profitMarginPct *float64
	if market != nil {
		v := market.Volatility
		volatility = &v
	}
	if fundamentals != nil {
		debtEquity = fundamentals.DebtToEquity
		if fundamentals.ProfitMargin != nil {
			pct := *fundamentals.ProfitMargin * 100
			profitMarginPct = &pct
		}
	}

	horizonLabel := "Short-term"
	if horizonMonths >= 24 {
		horizonLabel = "Long-term"
	} else if horizonMonths >= 12 {
		horizonLabel = "Medium-term"
	}

	focus := "balanced approach"
	switch profile {
	case dto.RiskProfileConservative:
		focus = "stability focus"
	case dto.RiskProfileAggressive:
		focus = "growth focus"
	}

	return fmt.Sprintf(
		"Risk Assessment for %s:\n"+
			"- User Risk Profile: %s\n"+
			"- Investment Horizon: %d months\n"+
			"- Market Volatility: %s%% (annualized)\n"+
			"- Financial Leverage: Debt/Equity = %s\n"+
			"- Profitability: Margin = %s%%\n"+
			"- Scenario Sensitivity: %s horizon requires %s\n"+
			"- Constraints: Risk profile must align with portfolio allocation",
		symbol,
		strings.ToUpper(string(profile)),
		horizonMonths,
		fmtOptional(volatility),
		fmtOptional(debtEquity),
		fmtOptional(profitMarginPct),
		horizonLabel,
		focus,
	)
}

func (s *riskService) buildOutput(score, volatility float64, recommendation *dto.Recommendation) string {
	output := fmt.Sprintf(
		"Portfolio & Risk Recommendation:\n\n"+
			"Risk Score: %.1f/100\n"+
			"Volatility: %.2f%%\n\n"+
			"Recommendation: %s\n"+
			"Suggested Allocation: %s\n\n"+
			"Reasoning:\n%s\n\n",
		score,
		volatility,
		recommendation.Action,
		recommendation.Allocation,
		recommendation.Reasoning,
	)

	switch {
	case score > 60:
		output += "Stress Considerations: High risk score indicates elevated volatility and potential downside risk. Consider position sizing and stop-loss strategies.\n"
	case score < 30:
		output += "Stress Considerations: Low risk score suggests relative stability. Suitable for risk-averse investors.\n"
	default:
		output += "Stress Considerations: Moderate risk level. Monitor market conditions and adjust position as needed.\n"
	}

	return output
}
