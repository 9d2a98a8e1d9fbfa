package dto

// AnalyzeRequest is the form-based analysis request body.
type AnalyzeRequest struct {
	Symbol        string `json:"symbol"`
	RiskProfile   string `json:"risk_profile"`
	HorizonMonths int    `json:"horizon_months"`
}

// AskRequest is the natural-language question request body.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the answer text plus the classification and, for
// complex questions, the structured pipeline result(s).
type AskResponse struct {
	Answer  string          `json:"answer"`
	Parsed  *ParsedQuestion `json:"parsed"`
	Results []*QueryResult  `json:"results,omitempty"`
}
