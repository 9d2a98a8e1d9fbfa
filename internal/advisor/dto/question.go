package dto

// QuestionType separates single-fact lookups from full pipeline runs.
type QuestionType string

const (
	QuestionTypeSimple  QuestionType = "simple"
	QuestionTypeComplex QuestionType = "complex"
)

// Simple question subtypes.
const (
	SubtypeCurrentPrice   = "current_price"
	SubtypeYesterdayPrice = "yesterday_price"
	SubtypeMarketCap      = "market_cap"
)

// Complex question subtypes.
const (
	SubtypeInvestmentRecommendation = "investment_recommendation"
	SubtypeComparison               = "comparison"
	SubtypePortfolio                = "portfolio"
	SubtypeDataBasedRecommendation  = "data_based_recommendation"
)

// ParsedQuestion is the result of classifying a natural-language question.
type ParsedQuestion struct {
	Type             QuestionType `json:"type"`
	Subtype          string       `json:"subtype"`
	Symbol           string       `json:"symbol,omitempty"`
	Symbols          []string     `json:"symbols,omitempty"`
	Amount           string       `json:"amount,omitempty"`
	RiskProfile      RiskProfile  `json:"risk_profile,omitempty"`
	HorizonMonths    int          `json:"horizon_months,omitempty"`
	OriginalQuestion string       `json:"original_question"`
}
