package Insight

import (
	"context"
	"errors"
	"time"

	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/metrics"
)

var ErrNotConfigured = errors.New("ai service not configured")

var insightService *InsightService

type InsightService struct {
	generator TextGenerator
	log       logger.Logger
}

// InitializeService installs the generator. A nil generator leaves the
// service unconfigured; generation then fails with ErrNotConfigured.
func InitializeService(generator TextGenerator, log logger.Logger) {
	if log == nil {
		log = logger.NewNoOp()
	}
	insightService = &InsightService{generator: generator, log: log.With(logger.Fields{"component": "insights"})}
}

func GetInsightService() *InsightService {
	return insightService
}

func (s *InsightService) Configured() bool {
	return s != nil && s.generator != nil
}

// Generate never fails because of the model: transport and parse problems
// are logged and produce an empty list.
func (s *InsightService) Generate(ctx context.Context, req GenerateRequest) ([]Insight, error) {
	if !s.Configured() {
		metrics.InsightRequests.WithLabelValues(string(req.PageType), "unconfigured").Inc()
		return nil, ErrNotConfigured
	}

	count := clampCount(req.Count)
	prompt := buildPrompt(req.VisibleData, req.PageType, count, req.Language)
	log := s.log.With(logger.Fields{"page_type": req.PageType, "count": count})
	log.Debug("generating insights", nil)

	start := time.Now()
	reply, err := s.generator.Generate(ctx, prompt)
	metrics.InsightLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		log.WithError(err).Error("insight generation failed", nil)
		metrics.InsightRequests.WithLabelValues(string(req.PageType), "error").Inc()
		return []Insight{}, nil
	}

	insights, err := parseInsights(reply)
	if err != nil {
		log.WithError(err).Error("could not parse insight reply", logger.Fields{"reply": truncate(reply, 500)})
		metrics.InsightRequests.WithLabelValues(string(req.PageType), "unparsable").Inc()
		return []Insight{}, nil
	}

	if len(insights) > count {
		insights = insights[:count]
	}
	log.Info("generated insights", logger.Fields{"returned": len(insights)})
	metrics.InsightRequests.WithLabelValues(string(req.PageType), "ok").Inc()
	return insights, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
