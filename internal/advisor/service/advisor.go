package service

import (
	"context"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"
)

// AdvisorService is the natural-language entry point: it classifies a
// question and routes it to the single-fact responder or the full pipeline.
type AdvisorService interface {
	Ask(ctx context.Context, question string) (*dto.AskResponse, error)
}

type advisorService struct {
	log     *logger.Logger
	parser  QuestionParserService
	simple  SimpleQueryService
	complex ComplexQueryService
}

// NewAdvisorService creates a new AdvisorService.
func NewAdvisorService(log *logger.Logger, parser QuestionParserService, simple SimpleQueryService, complex ComplexQueryService) AdvisorService {
	return &advisorService{log: log, parser: parser, simple: simple, complex: complex}
}

func (s *advisorService) Ask(ctx context.Context, question string) (*dto.AskResponse, error) {
	parsed := s.parser.Parse(question)

	s.log.DebugContext(ctx, "Classified question",
		logger.StringField("type", string(parsed.Type)),
		logger.StringField("subtype", parsed.Subtype),
		logger.StringField("symbol", parsed.Symbol),
	)

	if parsed.Type == dto.QuestionTypeSimple {
		answer, err := s.simple.Answer(ctx, parsed)
		if err != nil {
			return nil, err
		}
		return &dto.AskResponse{Answer: answer, Parsed: parsed}, nil
	}

	answer, results, err := s.complex.Handle(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return &dto.AskResponse{Answer: answer, Parsed: parsed, Results: results}, nil
}
