package service

import (
	"fmt"

	"golang-stock-advisor/internal/advisor/dto"
)

// TabularData is the fixed demo table for the tabular reasoning demo.
var TabularData = []dto.TabularRow{
	{Quarter: "Q1", RevenueM: 120, NetIncomeM: 15},
	{Quarter: "Q2", RevenueM: 140, NetIncomeM: 22},
	{Quarter: "Q3", RevenueM: 135, NetIncomeM: 18},
	{Quarter: "Q4", RevenueM: 160, NetIncomeM: 30},
}

// AnswerHighestNetIncome answers "Which quarter has the highest net income?"
// over the given table with evidence and evaluation checks. The answer is a
// deterministic argmax, hence the near-certain confidence.
func AnswerHighestNetIncome(table []dto.TabularRow) (*dto.TabularQAResult, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: table must be a non-empty list of rows", ErrInvalidInput)
	}

	bestIdx := 0
	for i, row := range table {
		if row.Quarter == "" {
			return nil, fmt.Errorf("%w: missing quarter in row %d", ErrInvalidInput, i)
		}
		if row.NetIncomeM > table[bestIdx].NetIncomeM {
			bestIdx = i
		}
	}
	best := table[bestIdx]

	quarters := make([]string, len(table))
	netIncomes := make([]float64, len(table))
	for i, row := range table {
		quarters[i] = row.Quarter
		netIncomes[i] = row.NetIncomeM
	}

	return &dto.TabularQAResult{
		Mode:          "hard_plus_tabular",
		Question:      "Which quarter has the highest net income?",
		Answer:        best.Quarter,
		FinalAnswer:   fmt.Sprintf("%s has the highest net income (%gM).", best.Quarter, best.NetIncomeM),
		Confidence:    0.99,
		ReasonSummary: "We need to identify the quarter with the maximum value in the 'net_income_m' column.",
		ActSummary:    "Validated table schema and selected the maximum 'net_income_m' across all rows.",
		Evidence:      []dto.TabularRow{best},
		Checks: dto.TabularChecks{
			ComparedColumn:  "net_income_m",
			QuartersSeen:    quarters,
			NetIncomeValues: netIncomes,
			MaxNetIncomeM:   best.NetIncomeM,
			MaxQuarter:      best.Quarter,
		},
		Table: table,
	}, nil
}
