package service

import (
	"regexp"
	"strconv"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
)

// QuestionParserService classifies natural-language questions via fixed
// pattern matching, first match wins. There is no ambiguity resolution
// beyond pattern order.
type QuestionParserService interface {
	Parse(question string) *dto.ParsedQuestion
}

type questionParserService struct{}

// NewQuestionParserService creates a new QuestionParserService.
func NewQuestionParserService() QuestionParserService {
	return &questionParserService{}
}

type patternGroup struct {
	subtype  string
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(expr)
	}
	return compiled
}

// Pattern order is part of the contract: groups and patterns are tried in
// declaration order.
var simplePatterns = []patternGroup{
	{dto.SubtypeCurrentPrice, compileAll(
		`what is the current price of (\w+)`,
		`current price of (\w+)`,
		`price of (\w+)`,
		`how much is (\w+)`,
	)},
	{dto.SubtypeYesterdayPrice, compileAll(
		`what was (\w+)'s closing price yesterday`,
		`(\w+) closing price yesterday`,
		`yesterday's closing price for (\w+)`,
	)},
	{dto.SubtypeMarketCap, compileAll(
		`what is (\w+)'s market cap`,
		`market cap of (\w+)`,
		`(\w+) market capitalization`,
	)},
}

var complexPatterns = []patternGroup{
	{dto.SubtypeInvestmentRecommendation, compileAll(
		`is (\w+) a good investment`,
		`should i invest in (\w+)`,
		`investment recommendation for (\w+)`,
		`buy recommendation for (\w+)`,
	)},
	{dto.SubtypeComparison, compileAll(
		`compare (\w+) and (\w+)`,
		`(\w+) vs (\w+)`,
		`difference between (\w+) and (\w+)`,
	)},
	{dto.SubtypePortfolio, compileAll(
		`build.*portfolio.*\$?(\d+[km]?)`,
		`conservative portfolio.*\$?(\d+[km]?)`,
		`portfolio.*\$?(\d+[km]?)`,
	)},
	{dto.SubtypeDataBasedRecommendation, compileAll(
		`based.*data.*news.*market.*recommendation`,
		`suggest.*buy.*recommendation`,
		`recommendation.*based.*data`,
	)},
}

var (
	comparisonSymbolsRe = regexp.MustCompile(`(\w+)\s+(?:and|vs)\s+(\w+)`)
	amountRe            = regexp.MustCompile(`\$?(\d+[km]?)`)
	horizonRe           = regexp.MustCompile(`(\d+)\s*(?:month|months|year|years)`)
	dataBasedSymbolRe   = regexp.MustCompile(`for (\w+)`)
	fallbackSymbolRe    = regexp.MustCompile(`\b([A-Z]{2,5})\b`)
)

func (p *questionParserService) Parse(question string) *dto.ParsedQuestion {
	lower := strings.ToLower(strings.TrimSpace(question))

	for _, group := range simplePatterns {
		for _, re := range group.patterns {
			if m := re.FindStringSubmatch(lower); m != nil {
				return &dto.ParsedQuestion{
					Type:             dto.QuestionTypeSimple,
					Subtype:          group.subtype,
					Symbol:           strings.ToUpper(m[1]),
					OriginalQuestion: question,
				}
			}
		}
	}

	for _, group := range complexPatterns {
		for _, re := range group.patterns {
			m := re.FindStringSubmatch(lower)
			if m == nil {
				continue
			}

			switch group.subtype {
			case dto.SubtypeComparison:
				symbols := comparisonSymbolsRe.FindStringSubmatch(lower)
				if symbols == nil {
					continue
				}
				return &dto.ParsedQuestion{
					Type:             dto.QuestionTypeComplex,
					Subtype:          group.subtype,
					Symbols:          []string{strings.ToUpper(symbols[1]), strings.ToUpper(symbols[2])},
					OriginalQuestion: question,
				}

			case dto.SubtypePortfolio:
				amount := ""
				if am := amountRe.FindStringSubmatch(lower); am != nil {
					amount = am[1]
				}
				return &dto.ParsedQuestion{
					Type:             dto.QuestionTypeComplex,
					Subtype:          group.subtype,
					Amount:           amount,
					RiskProfile:      profileFromText(lower),
					OriginalQuestion: question,
				}

			case dto.SubtypeInvestmentRecommendation:
				return &dto.ParsedQuestion{
					Type:             dto.QuestionTypeComplex,
					Subtype:          group.subtype,
					Symbol:           strings.ToUpper(m[1]),
					HorizonMonths:    horizonFromText(lower),
					RiskProfile:      profileFromText(lower),
					OriginalQuestion: question,
				}

			case dto.SubtypeDataBasedRecommendation:
				symbol := ""
				if sm := dataBasedSymbolRe.FindStringSubmatch(lower); sm != nil {
					symbol = strings.ToUpper(sm[1])
				}
				return &dto.ParsedQuestion{
					Type:             dto.QuestionTypeComplex,
					Subtype:          group.subtype,
					Symbol:           symbol,
					OriginalQuestion: question,
				}
			}
		}
	}

	// Default: treat as a complex investment question and try to pick an
	// uppercase ticker-looking token out of the raw text.
	symbol := ""
	if m := fallbackSymbolRe.FindStringSubmatch(question); m != nil {
		symbol = m[1]
	}

	return &dto.ParsedQuestion{
		Type:             dto.QuestionTypeComplex,
		Subtype:          dto.SubtypeInvestmentRecommendation,
		Symbol:           symbol,
		HorizonMonths:    12,
		RiskProfile:      dto.RiskProfileModerate,
		OriginalQuestion: question,
	}
}

func profileFromText(lower string) dto.RiskProfile {
	if strings.Contains(lower, "conservative") {
		return dto.RiskProfileConservative
	}
	if strings.Contains(lower, "aggressive") {
		return dto.RiskProfileAggressive
	}
	return dto.RiskProfileModerate
}

func horizonFromText(lower string) int {
	horizon := 12
	if m := horizonRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			horizon = n
		}
	}
	if strings.Contains(lower, "year") {
		horizon *= 12
	}
	return horizon
}
