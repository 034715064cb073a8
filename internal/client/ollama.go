package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
)

// OllamaClient - 로컬/사내 Ollama 서버용 provider
type OllamaClient struct {
	client *api.Client
	model  string
	logger *slog.Logger
}

// OLLAMA_HOST가 비어있으면 ollama 기본 환경변수 규칙을 따름
func NewOllamaClient(cfg config.OllamaConfig, timeout time.Duration, logger *slog.Logger) (*OllamaClient, error) {
	logger = loggerOrDefault(logger)

	var client *api.Client
	if cfg.Host != "" {
		parsedURL, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host: %w", err)
		}
		client = api.NewClient(parsedURL, &http.Client{Timeout: timeout})
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "llama3.2"
	}

	return &OllamaClient{client: client, model: modelName, logger: logger}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	chatReq := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: req.UserPrompt},
		},
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"top_p":       req.TopP,
			"num_predict": req.MaxTokens,
		},
		Stream: new(bool), // false - 전체 응답을 한 번에 받음
	}

	c.logger.Info("sending completion request", "provider", "ollama", "model", c.model)

	var response api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}

	c.logger.Info("completion response received", "provider", "ollama",
		"prompt_tokens", response.PromptEvalCount,
		"eval_tokens", response.EvalCount)

	if strings.TrimSpace(response.Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return response.Message.Content, nil
}
