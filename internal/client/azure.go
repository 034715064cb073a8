// Azure OpenAI chat completions 클라이언트
//
// 환경변수:
//   - AZURE_OPENAI_ENDPOINT: https://<resource>-<region>.cognitiveservices.azure.com
//   - AZURE_API_KEY: 리소스 키
//   - AZURE_DEPLOYMENT_NAME: 배포 이름 (예: gpt-5)
//   - AZURE_API_VERSION: 예) 2025-01-01-preview

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
)

// AzureClient 구조체 정의
type AzureClient struct {
	client     *openai.Client
	deployment string
	logger     *slog.Logger
}

// AzureClient 객체 생성
func NewAzureClient(cfg config.AzureConfig, timeout time.Duration, logger *slog.Logger) (*AzureClient, error) {
	if cfg.APIKey == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing AZURE_API_KEY or AZURE_OPENAI_ENDPOINT")
	}

	deployment := cfg.Deployment
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}
	// 요청의 model 값과 무관하게 설정된 배포로 라우팅
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &AzureClient{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
		logger:     loggerOrDefault(logger),
	}, nil
}

func (c *AzureClient) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}

	// reasoning 계열 배포는 max_tokens, temperature, top_p를 거부함
	if isReasoningDeployment(c.deployment) {
		chatReq.MaxCompletionTokens = req.MaxTokens
	} else {
		chatReq.MaxTokens = req.MaxTokens
		chatReq.Temperature = req.Temperature
		chatReq.TopP = req.TopP
	}

	c.logger.Info("sending completion request", "provider", "azure", "deployment", c.deployment)

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("azure openai API error", "status", apiErr.HTTPStatusCode, "message", apiErr.Message)
			return "", fmt.Errorf("azure openai returned status %d: %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("failed to call azure openai: %w", err)
	}

	c.logger.Info("completion response received", "provider", "azure", "choices", len(resp.Choices))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningDeployment(deployment string) bool {
	name := strings.ToLower(deployment)
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
