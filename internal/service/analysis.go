package service

import (
	"context"
	"strings"

	"file-insight/internal/logger"
	"file-insight/internal/metrics"
	"file-insight/internal/model"
)

type AnalysisService struct {
	llm Completer
}

func NewAnalysisService(llm Completer) *AnalysisService {
	return &AnalysisService{llm: llm}
}

// Ready returns ErrMissingAPIKey when the completer reports it has no
// credentials, so callers can fail before reading the request.
func (s *AnalysisService) Ready() error {
	if c, ok := s.llm.(interface{ Configured() bool }); ok && !c.Configured() {
		return ErrMissingAPIKey
	}
	return nil
}

// Analyze composes the prompt, calls the gateway once and pulls an optional
// chart out of the completion. A missing chart is not an error.
func (s *AnalysisService) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, malformed("query is required")
	}
	log := logger.FromContext(ctx)
	log.Info("analysis.start", "file", req.FileName, "query", req.Query, "content_len", len(req.FileContent))

	text, err := s.llm.Complete(ctx, ComposeMessages(req))
	if err != nil {
		return nil, err
	}

	chart := ExtractChart(text)
	if chart != nil {
		metrics.ChartsExtracted.WithLabelValues("true").Inc()
	} else {
		metrics.ChartsExtracted.WithLabelValues("false").Inc()
	}
	log.Info("analysis.done", "file", req.FileName, "response_len", len(text), "chart", chart != nil)
	log.Debug("analysis.response", "response", text)

	return &model.AnalysisResponse{Response: text, ChartData: chart}, nil
}
