package dto

// ChartResponse mirrors the Yahoo Finance v8 chart API envelope.
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol              string  `json:"symbol"`
				Currency            string  `json:"currency"`
				RegularMarketPrice  float64 `json:"regularMarketPrice"`
				PreviousClose       float64 `json:"previousClose"`
				RegularMarketVolume int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

// QuoteSummaryResponse mirrors the Yahoo Finance v10 quoteSummary envelope
// for the modules the advisor requests.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				Symbol             string      `json:"symbol"`
				RegularMarketPrice *YahooValue `json:"regularMarketPrice"`
				MarketCap          *YahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE *YahooValue `json:"trailingPE"`
				ForwardPE  *YahooValue `json:"forwardPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				PegRatio       *YahooValue `json:"pegRatio"`
				PriceToBook    *YahooValue `json:"priceToBook"`
				ProfitMargins  *YahooValue `json:"profitMargins"`
				EarningsGrowth *YahooValue `json:"earningsQuarterlyGrowth"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				DebtToEquity   *YahooValue `json:"debtToEquity"`
				ReturnOnEquity *YahooValue `json:"returnOnEquity"`
				ProfitMargins  *YahooValue `json:"profitMargins"`
				RevenueGrowth  *YahooValue `json:"revenueGrowth"`
				EarningsGrowth *YahooValue `json:"earningsGrowth"`
				CurrentRatio   *YahooValue `json:"currentRatio"`
				CurrentPrice   *YahooValue `json:"currentPrice"`
			} `json:"financialData"`
			SummaryProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"quoteSummary"`
}

// YahooValue is Yahoo's raw/fmt number pair. Absent metrics are decoded as a
// nil pointer, never as zero.
type YahooValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// Ptr returns the raw value as an optional float, nil when the value itself
// is absent.
func (v *YahooValue) Ptr() *float64 {
	if v == nil {
		return nil
	}
	raw := v.Raw
	return &raw
}

// YahooError is the error object Yahoo embeds in its response envelopes.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartData is the normalized price history extracted from a chart response.
// Closes and Timestamps are parallel slices with null quotes removed.
type ChartData struct {
	Symbol             string
	RegularMarketPrice float64
	PreviousClose      float64
	Closes             []float64
	Timestamps         []int64
}
