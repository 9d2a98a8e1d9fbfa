package service

import "fmt"

// fmtOptional renders an optional metric with two decimals, or "N/A" when
// the provider did not report it. Absent metrics are shown as absent, never
// as a fabricated number.
func fmtOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// fmtOptionalPct renders an optional ratio as a percentage.
func fmtOptionalPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v*100)
}

// formatMarketCap renders a market cap with a T/B/M unit suffix.
func formatMarketCap(marketCap int64) string {
	switch {
	case marketCap >= 1e12:
		return fmt.Sprintf("$%.2fT", float64(marketCap)/1e12)
	case marketCap >= 1e9:
		return fmt.Sprintf("$%.2fB", float64(marketCap)/1e9)
	case marketCap >= 1e6:
		return fmt.Sprintf("$%.2fM", float64(marketCap)/1e6)
	default:
		return fmt.Sprintf("$%s", groupThousands(marketCap))
	}
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
