package http

import (
	"errors"
	"net/http"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// QueryHandler handles HTTP requests for stock analysis queries.
type QueryHandler struct {
	pipeline service.PipelineService
	advisor  service.AdvisorService
	logger   *logger.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(pipeline service.PipelineService, advisor service.AdvisorService, logger *logger.Logger) *QueryHandler {
	return &QueryHandler{pipeline: pipeline, advisor: advisor, logger: logger}
}

// RegisterRoutes registers the query routes to the Echo group.
func (h *QueryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/queries/analyze", h.Analyze)
	g.POST("/queries/ask", h.Ask)
	g.GET("/demo/tabular", h.TabularDemo)
}

// Analyze godoc
// @Summary Run a full analysis for one symbol
// @Description Runs the three-stage analysis pipeline and returns the aggregated result. Partial results are returned with per-stage error text when a provider fails.
// @Tags queries
// @Accept  json
// @Produce  json
// @Param   query  body    dto.AnalyzeRequest   true    "Analysis parameters"
// @Success 200 {object} dto.QueryResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.QueryResult
// @Router /queries/analyze [post]
func (h *QueryHandler) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	profile, err := dto.ParseRiskProfile(strings.ToLower(strings.TrimSpace(req.RiskProfile)))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result, err := h.pipeline.ProcessQuery(c.Request().Context(), req.Symbol, profile, req.HorizonMonths)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to process analysis query", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to process query"})
	}

	// Both data stages down means there is nothing real to advise on.
	if result.Market.Error != "" && result.Fundamentals.Error != "" {
		return c.JSON(http.StatusBadGateway, result)
	}

	return c.JSON(http.StatusOK, result)
}

// Ask godoc
// @Summary Answer a natural-language question
// @Description Classifies the question and routes it to the single-fact responder or the full analysis pipeline.
// @Tags queries
// @Accept  json
// @Produce  json
// @Param   question  body    dto.AskRequest   true    "Question to answer"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /queries/ask [post]
func (h *QueryHandler) Ask(c echo.Context) error {
	var req dto.AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Question is required"})
	}

	response, err := h.advisor.Ask(c.Request().Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrDataUnavailable), errors.Is(err, repository.ErrProviderFailure):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to answer question", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to answer question"})
	}

	return c.JSON(http.StatusOK, response)
}

// TabularDemo godoc
// @Summary Run the tabular reasoning demo
// @Description Answers a fixed question over a fixed quarterly table, with evidence and checks.
// @Tags demo
// @Produce  json
// @Success 200 {object} dto.TabularQAResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /demo/tabular [get]
func (h *QueryHandler) TabularDemo(c echo.Context) error {
	result, err := service.AnswerHighestNetIncome(service.TabularData)
	if err != nil {
		h.logger.Error("Failed to run tabular demo", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to run tabular demo"})
	}
	return c.JSON(http.StatusOK, result)
}
