// 범용 completion 에이전트와 HTTP 통신하는 클라이언트 정의
//
// 환경변수:
//   - AGENT_URL: 에이전트 서비스 URL (예: http://completion-agent.security.svc:8000)
//   - AGENT_API_KEY: (선택) Authorization Bearer 토큰
//
// 에이전트에 전달하는 데이터:
//   - system_instruction, user_prompt, temperature, max_tokens, top_p
//
// 응답 본문은 JSON({"response": "..."}) 또는 plain text 모두 허용

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
)

// AgentClient 구조체 정의
type AgentClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// AgentCompletionResponse - 에이전트 JSON 응답
// 에이전트 구현마다 텍스트 필드 이름이 달라 후보를 모두 받음
type AgentCompletionResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	Analysis string `json:"analysis"`
	Content  string `json:"content"`
	Text     string `json:"text"`
	Error    string `json:"error"`
}

// AgentClient 객체 생성
func NewAgentClient(cfg config.AgentConfig, timeout time.Duration, logger *slog.Logger) *AgentClient {
	return &AgentClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: loggerOrDefault(logger),
	}
}

// 에이전트 설정 여부 체크
func (c *AgentClient) IsConfigured() bool {
	return c.baseURL != ""
}

// POST /complete 요청 후 응답 텍스트 반환 (동기)
func (c *AgentClient) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("agent URL not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal agent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/complete", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Info("sending completion request", "provider", "agent", "url", c.baseURL+"/complete")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request to agent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Info("completion response received", "provider", "agent", "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d: %s", resp.StatusCode, truncateAPIError(body))
	}

	return parseAgentBody(resp.Header.Get("Content-Type"), body)
}

func parseAgentBody(contentType string, body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", ErrEmptyCompletion
	}

	if !strings.Contains(contentType, "json") && trimmed[0] != '{' {
		return string(body), nil
	}

	var parsed AgentCompletionResponse
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Status == model.StatusError || parsed.Error != "" {
		return "", fmt.Errorf("agent reported failure: %s", firstNonEmpty(parsed.Error, "unknown error"))
	}

	text := firstNonEmpty(parsed.Response, parsed.Analysis, parsed.Content, parsed.Text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
