package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/azure-analyst/backend/internal/client"
	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/metrics"
	"github.com/azure-analyst/backend/internal/service"
)

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// buildService - 설정에 맞는 provider, 알림, 지표를 묶어 분석 서비스 생성
// reg가 nil이면 지표를 등록하지 않음
func buildService(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*service.AnalysisService, error) {
	completer, err := client.NewCompleter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	var notifier service.Notifier
	if slack := client.NewSlackClient(cfg.Slack); slack.IsConfigured() {
		notifier = slack
		logger.Info("slack notification enabled", "channel", cfg.Slack.ChannelID)
	}

	logger.Info("analysis service configured",
		"provider", cfg.Completion.Provider,
		"timeout", cfg.Completion.Timeout.String(),
		"max_tokens", cfg.Completion.MaxTokens)

	return service.NewAnalysisService(completer, notifier, recorder, cfg.Completion, logger), nil
}
