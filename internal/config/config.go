// 환경변수 기반 설정 로딩
//
// 프로세스 시작 시 Load()로 한 번 생성하고 각 레이어에 값으로 전달
// 로직 내부에서 환경변수를 직접 읽지 않음

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 과거 버전 소스에 커밋되어 있던 placeholder 키
const placeholderAPIKey = "your-azure-openai-api-key-here"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server     ServerConfig
	Completion CompletionConfig
	Azure      AzureConfig
	Agent      AgentConfig
	Gemini     GeminiConfig
	Ollama     OllamaConfig
	Slack      SlackConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port     string
	LogLevel slog.Level
}

// CompletionConfig - provider 공통 설정
type CompletionConfig struct {
	// azure | agent | gemini | ollama
	Provider    string
	Temperature float32
	MaxTokens   int
	TopP        float32

	// 호스트 호출 제한시간(30초)보다 짧아야 함
	Timeout time.Duration
}

type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

type AgentConfig struct {
	BaseURL string
	APIKey  string
}

type GeminiConfig struct {
	APIKey string
	Model  string

	// 비어있으면 SDK 기본 엔드포인트 사용 (프록시/테스트용)
	BaseURL string
}

type OllamaConfig struct {
	Host  string
	Model string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type AuthConfig struct {
	// 비어있으면 인증 미들웨어 비활성화
	JWTSecret string
}

type RateLimitConfig struct {
	// 0이면 비활성화
	RPS   float64
	Burst int
}

// Load - .env 파일(있으면)과 환경변수에서 설정 로딩
func Load() Config {
	// .env가 없어도 환경변수만으로 동작
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Port:     getenv("PORT", "8080"),
			LogLevel: parseLevel(os.Getenv("LOG_LEVEL")),
		},
		Completion: CompletionConfig{
			Provider:    strings.ToLower(getenv("COMPLETION_PROVIDER", "azure")),
			Temperature: getenvFloat32("COMPLETION_TEMPERATURE", 0.7),
			MaxTokens:   getenvInt("COMPLETION_MAX_TOKENS", 2000),
			TopP:        getenvFloat32("COMPLETION_TOP_P", 0.95),
			Timeout:     getenvDuration("COMPLETION_TIMEOUT", 25*time.Second),
		},
		Azure: AzureConfig{
			Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			APIKey:     os.Getenv("AZURE_API_KEY"),
			Deployment: getenv("AZURE_DEPLOYMENT_NAME", "gpt-5"),
			APIVersion: getenv("AZURE_API_VERSION", "2025-01-01-preview"),
		},
		Agent: AgentConfig{
			BaseURL: os.Getenv("AGENT_URL"),
			APIKey:  os.Getenv("AGENT_API_KEY"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("AI_API_KEY"),
			Model:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),

			BaseURL: os.Getenv("GEMINI_BASE_URL"),
		},
		Ollama: OllamaConfig{
			Host:  os.Getenv("OLLAMA_HOST"),
			Model: getenv("OLLAMA_MODEL", "llama3.2"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("INVOKE_JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getenvFloat64("RATE_LIMIT_RPS", 0),
			Burst: getenvInt("RATE_LIMIT_BURST", 10),
		},
	}
}

// Validate - 선택된 provider에 필요한 값이 모두 설정되었는지 확인
func (c Config) Validate() error {
	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("%w: COMPLETION_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("%w: COMPLETION_MAX_TOKENS must be positive", ErrInvalidConfig)
	}

	switch c.Completion.Provider {
	case "azure":
		if c.Azure.APIKey == "" || c.Azure.APIKey == placeholderAPIKey {
			return fmt.Errorf("%w: AZURE_API_KEY is not configured", ErrInvalidConfig)
		}
		if c.Azure.Endpoint == "" {
			return fmt.Errorf("%w: AZURE_OPENAI_ENDPOINT is not configured", ErrInvalidConfig)
		}
		if c.Azure.Deployment == "" {
			return fmt.Errorf("%w: AZURE_DEPLOYMENT_NAME is not configured", ErrInvalidConfig)
		}
	case "agent":
		if c.Agent.BaseURL == "" {
			return fmt.Errorf("%w: AGENT_URL is not configured", ErrInvalidConfig)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: AI_API_KEY is not configured", ErrInvalidConfig)
		}
	case "ollama":
		// OLLAMA_HOST가 비어있으면 ollama 클라이언트 기본값 사용
	default:
		return fmt.Errorf("%w: unknown COMPLETION_PROVIDER %q", ErrInvalidConfig, c.Completion.Provider)
	}

	if c.RateLimit.RPS < 0 || (c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: RATE_LIMIT_RPS/RATE_LIMIT_BURST out of range", ErrInvalidConfig)
	}
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat64(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvFloat32(key string, fallback float32) float32 {
	return float32(getenvFloat64(key, float64(fallback)))
}

// 숫자만 주어지면 초 단위로 해석 (예: "25" -> 25s)
func getenvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
