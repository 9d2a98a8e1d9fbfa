package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	result *dto.QueryResult
	err    error
}

func (f *fakePipeline) ProcessQuery(_ context.Context, symbol string, profile dto.RiskProfile, horizonMonths int) (*dto.QueryResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &dto.QueryResult{
		Query:       dto.Query{Symbol: symbol, RiskProfile: profile, HorizonMonths: horizonMonths},
		FinalAnswer: "analysis for " + symbol,
	}, nil
}

type fakeAdvisor struct {
	response *dto.AskResponse
	err      error
}

func (f *fakeAdvisor) Ask(_ context.Context, question string) (*dto.AskResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newHandlerFixture(t *testing.T, pipeline service.PipelineService, advisor service.AdvisorService) (*echo.Echo, *QueryHandler) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	e := echo.New()
	h := NewQueryHandler(pipeline, advisor, log)
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, h
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeHandler(t *testing.T) {
	e, _ := newHandlerFixture(t, &fakePipeline{}, &fakeAdvisor{})

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/analyze", `{"symbol": "AAPL", "risk_profile": "moderate", "horizon_months": 12}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "AAPL", result.Query.Symbol)
	assert.Equal(t, "analysis for AAPL", result.FinalAnswer)
}

func TestAnalyzeHandlerNormalizesProfile(t *testing.T) {
	e, _ := newHandlerFixture(t, &fakePipeline{}, &fakeAdvisor{})

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/analyze", `{"symbol": "AAPL", "risk_profile": " Moderate ", "horizon_months": 12}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeHandlerBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown profile", `{"symbol": "AAPL", "risk_profile": "reckless", "horizon_months": 12}`},
		{"missing profile", `{"symbol": "AAPL", "horizon_months": 12}`},
		{"malformed json", `{"symbol": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newHandlerFixture(t, &fakePipeline{}, &fakeAdvisor{})
			rec := doJSON(e, http.MethodPost, "/api/v1/queries/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeHandlerInvalidInputFromPipeline(t *testing.T) {
	pipeline := &fakePipeline{err: fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)}
	e, _ := newHandlerFixture(t, pipeline, &fakeAdvisor{})

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/analyze", `{"symbol": "", "risk_profile": "moderate", "horizon_months": 12}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "symbol is required")
}

func TestAnalyzeHandlerBothStagesDown(t *testing.T) {
	pipeline := &fakePipeline{result: &dto.QueryResult{
		Query:        dto.Query{Symbol: "AAPL", RiskProfile: dto.RiskProfileModerate, HorizonMonths: 12},
		Market:       dto.MarketStageResult{Error: "provider request failed"},
		Fundamentals: dto.FundamentalsStageResult{Error: "provider request failed"},
		FinalAnswer:  "degraded",
	}}
	e, _ := newHandlerFixture(t, pipeline, &fakeAdvisor{})

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/analyze", `{"symbol": "AAPL", "risk_profile": "moderate", "horizon_months": 12}`)

	// The degraded result is still returned, with a gateway status.
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var result dto.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "degraded", result.FinalAnswer)
}

func TestAnalyzeHandlerPartialDegradationIsOK(t *testing.T) {
	pipeline := &fakePipeline{result: &dto.QueryResult{
		Query:       dto.Query{Symbol: "AAPL", RiskProfile: dto.RiskProfileModerate, HorizonMonths: 12},
		Market:      dto.MarketStageResult{Error: "provider request failed"},
		FinalAnswer: "partial",
	}}
	e, _ := newHandlerFixture(t, pipeline, &fakeAdvisor{})

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/analyze", `{"symbol": "AAPL", "risk_profile": "moderate", "horizon_months": 12}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAskHandler(t *testing.T) {
	advisor := &fakeAdvisor{response: &dto.AskResponse{
		Answer: "The current price of AAPL is $178.35",
		Parsed: &dto.ParsedQuestion{Type: dto.QuestionTypeSimple, Subtype: dto.SubtypeCurrentPrice, Symbol: "AAPL"},
	}}
	e, _ := newHandlerFixture(t, &fakePipeline{}, advisor)

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/ask", `{"question": "What is the current price of AAPL?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var response dto.AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "The current price of AAPL is $178.35", response.Answer)
	assert.Equal(t, dto.QuestionTypeSimple, response.Parsed.Type)
}

func TestAskHandlerEmptyQuestion(t *testing.T) {
	e, _ := newHandlerFixture(t, &fakePipeline{}, &fakeAdvisor{})

	rec := doJSON(e, http.MethodPost, "/api/v1/queries/ask", `{"question": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid input", fmt.Errorf("%w: no symbol", service.ErrInvalidInput), http.StatusBadRequest},
		{"data unavailable", fmt.Errorf("price lookup: %w", repository.ErrDataUnavailable), http.StatusBadGateway},
		{"provider failure", fmt.Errorf("price lookup: %w", repository.ErrProviderFailure), http.StatusBadGateway},
		{"unexpected error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newHandlerFixture(t, &fakePipeline{}, &fakeAdvisor{err: tt.err})
			rec := doJSON(e, http.MethodPost, "/api/v1/queries/ask", `{"question": "What is the current price of AAPL?"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestTabularDemoHandler(t *testing.T) {
	e, _ := newHandlerFixture(t, &fakePipeline{}, &fakeAdvisor{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/demo/tabular", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.TabularQAResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Q4", result.Answer)
	assert.Equal(t, "Q4 has the highest net income (30M).", result.FinalAnswer)
	assert.Len(t, result.Table, 4)
}
