package dto

import "fmt"

// RiskProfile is the caller-declared risk tolerance category.
type RiskProfile string

const (
	RiskProfileConservative RiskProfile = "conservative"
	RiskProfileModerate     RiskProfile = "moderate"
	RiskProfileAggressive   RiskProfile = "aggressive"
)

// ParseRiskProfile validates a raw risk profile string.
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch RiskProfile(s) {
	case RiskProfileConservative, RiskProfileModerate, RiskProfileAggressive:
		return RiskProfile(s), nil
	}
	return "", fmt.Errorf("unknown risk profile %q", s)
}

// Action is the recommended portfolio action.
type Action string

const (
	ActionBuy    Action = "BUY"
	ActionHold   Action = "HOLD"
	ActionReduce Action = "REDUCE"
	ActionAvoid  Action = "AVOID"
)

// Trend labels the price direction over the sampled window.
type Trend string

const (
	TrendUpward   Trend = "upward"
	TrendDownward Trend = "downward"
)

// DataQuality labels whether the price history had enough points.
type DataQuality string

const (
	DataQualityGood    DataQuality = "good"
	DataQualityLimited DataQuality = "limited"
)

// MarketSnapshot captures price statistics for one symbol at query time.
// It is request-scoped and immutable once returned.
type MarketSnapshot struct {
	Symbol         string      `json:"symbol"`
	CurrentPrice   float64     `json:"current_price"`
	PriceChange    float64     `json:"price_change"`
	PriceChangePct float64     `json:"price_change_pct"`
	Volatility     float64     `json:"volatility"`
	DataPoints     int         `json:"data_points"`
	Period         string      `json:"period"`
	Trend          Trend       `json:"trend"`
	DataQuality    DataQuality `json:"data_quality"`
}

// FundamentalsSnapshot captures fundamental metrics for one symbol.
// Optional metrics are pointers: nil means the provider did not report the
// metric, which is a valid state and must never be defaulted to zero.
type FundamentalsSnapshot struct {
	Symbol         string   `json:"symbol"`
	MarketCap      int64    `json:"market_cap"`
	PERatio        *float64 `json:"pe_ratio,omitempty"`
	ForwardPE      *float64 `json:"forward_pe,omitempty"`
	PEGRatio       *float64 `json:"peg_ratio,omitempty"`
	PriceToBook    *float64 `json:"price_to_book,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	ROE            *float64 `json:"roe,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	Sector         string   `json:"sector"`
	Industry       string   `json:"industry"`
}

// NewsItem is one news headline. All fields are optional; an empty list of
// items is a valid result.
type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Summary   string `json:"summary,omitempty"`
}

// Recommendation is the action/allocation/reasoning triple produced by the
// decision table. RiskScore is echoed from the scorer, rounded to 1 decimal.
type Recommendation struct {
	Action        Action  `json:"action"`
	Allocation    string  `json:"allocation"`
	RiskScore     float64 `json:"risk_score"`
	Reasoning     string  `json:"reasoning"`
	HorizonMonths int     `json:"horizon_months"`
}

// MarketStageResult is the output of the market data stage. A provider
// failure is captured in Error instead of aborting the pipeline.
type MarketStageResult struct {
	Agent    string          `json:"agent"`
	Reason   string          `json:"reason"`
	Snapshot *MarketSnapshot `json:"snapshot,omitempty"`
	Output   string          `json:"output"`
	Error    string          `json:"error,omitempty"`
}

// FundamentalsStageResult is the output of the fundamentals & news stage.
type FundamentalsStageResult struct {
	Agent        string                `json:"agent"`
	Reason       string                `json:"reason"`
	Fundamentals *FundamentalsSnapshot `json:"fundamentals,omitempty"`
	News         []NewsItem            `json:"news"`
	Output       string                `json:"output"`
	Error        string                `json:"error,omitempty"`
}

// RiskStageResult is the output of the portfolio & risk stage.
type RiskStageResult struct {
	Agent          string          `json:"agent"`
	Reason         string          `json:"reason"`
	RiskScore      float64         `json:"risk_score"`
	Volatility     float64         `json:"volatility"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Output         string          `json:"output"`
	Error          string          `json:"error,omitempty"`
}

// Query echoes the parameters of one analysis request.
type Query struct {
	Symbol        string      `json:"symbol"`
	RiskProfile   RiskProfile `json:"risk_profile"`
	HorizonMonths int         `json:"horizon_months"`
}

// QueryResult aggregates all stage outputs for one request. No QueryResult
// outlives the request that produced it.
type QueryResult struct {
	Query        Query                   `json:"query"`
	Market       MarketStageResult       `json:"market_data"`
	Fundamentals FundamentalsStageResult `json:"fundamental_news"`
	Risk         RiskStageResult         `json:"portfolio_risk"`
	FinalAnswer  string                  `json:"final_answer"`
}
