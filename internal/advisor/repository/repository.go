package repository

import (
	"context"
	"errors"

	"golang-stock-advisor/internal/advisor/dto"
)

// Error taxonomy for upstream data providers. A missing optional metric is
// not an error; it is a nil field on the snapshot.
var (
	// ErrDataUnavailable means the provider answered but returned no usable
	// data (empty history, empty result set).
	ErrDataUnavailable = errors.New("no data available")

	// ErrProviderFailure means the provider call itself failed and the cause
	// is wrapped alongside.
	ErrProviderFailure = errors.New("provider request failed")
)

// StockDataRepository fetches price history and fundamental metrics for a
// symbol. Implementations are treated as untrusted: any field may be absent
// and any call may fail.
type StockDataRepository interface {
	GetChart(ctx context.Context, symbol, dataRange string) (*dto.ChartData, error)
	GetQuoteSummary(ctx context.Context, symbol string) (*dto.FundamentalsSnapshot, error)
}

// NewsRepository fetches recent headlines for a symbol.
type NewsRepository interface {
	GetHeadlines(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error)
}
