package dto

// TabularRow is one quarter of the fixed demo table.
type TabularRow struct {
	Quarter    string  `json:"quarter"`
	RevenueM   float64 `json:"revenue_m"`
	NetIncomeM float64 `json:"net_income_m"`
}

// TabularChecks exposes the intermediate values of the tabular demo for
// evaluation transparency.
type TabularChecks struct {
	ComparedColumn  string    `json:"compared_column"`
	QuartersSeen    []string  `json:"quarters_seen"`
	NetIncomeValues []float64 `json:"net_income_values"`
	MaxNetIncomeM   float64   `json:"max_net_income_m"`
	MaxQuarter      string    `json:"max_quarter"`
}

// TabularQAResult is the structured answer of the tabular reasoning demo.
type TabularQAResult struct {
	Mode          string        `json:"mode"`
	Question      string        `json:"question"`
	Answer        string        `json:"answer"`
	FinalAnswer   string        `json:"final_answer"`
	Confidence    float64       `json:"confidence"`
	ReasonSummary string        `json:"reason_summary"`
	ActSummary    string        `json:"act_summary"`
	Evidence      []TabularRow  `json:"evidence"`
	Checks        TabularChecks `json:"checks"`
	Table         []TabularRow  `json:"tabular_data"`
}
