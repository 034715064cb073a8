package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
)

// ErrEmptyCompletion - provider가 2xx를 반환했지만 텍스트가 없는 경우
var ErrEmptyCompletion = errors.New("completion response contained no text")

// Completer - 프롬프트 1건을 보내고 응답 텍스트를 받는 provider 공통 인터페이스
type Completer interface {
	Complete(ctx context.Context, req model.CompletionRequest) (string, error)
}

// NewCompleter - COMPLETION_PROVIDER 값에 맞는 provider 생성
func NewCompleter(cfg config.Config, logger *slog.Logger) (Completer, error) {
	timeout := cfg.Completion.Timeout

	switch cfg.Completion.Provider {
	case "azure":
		return NewAzureClient(cfg.Azure, timeout, logger)
	case "agent":
		return NewAgentClient(cfg.Agent, timeout, logger), nil
	case "gemini":
		return NewGeminiClient(context.Background(), cfg.Gemini, timeout, logger)
	case "ollama":
		return NewOllamaClient(cfg.Ollama, timeout, logger)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %q", cfg.Completion.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// API 에러 본문이 로그를 뒤덮지 않도록 자름
func truncateAPIError(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "...(truncated)"
	}
	return s
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
