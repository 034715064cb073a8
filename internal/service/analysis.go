// 호스트 호출 1건을 처리하는 분석 서비스
//
// 처리 순서:
//   1. 페이로드 분류 (chat / triage / 실패)
//   2. 프롬프트 생성
//   3. completion 호출 (COMPLETION_TIMEOUT으로 제한)
//   4. 결과 생성 + (triage 성공 시) Slack 알림 비동기 전송
//
// 어떤 실패도 호출자에게 에러로 전파하지 않고 status:error 결과로 변환

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/azure-analyst/backend/internal/client"
	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/metrics"
	"github.com/azure-analyst/backend/internal/model"
	"github.com/azure-analyst/backend/internal/normalize"
	"github.com/azure-analyst/backend/internal/template"
)

// ErrCompletionUnavailable - provider 호출 실패 (전송 오류, non-2xx, 빈 응답 모두 포함)
var ErrCompletionUnavailable = errors.New("completion service unavailable")

const (
	msgInsufficientData = "Unable to extract detection/incident data from payload"
	msgCompletionFailed = "Failed to get response from the completion service"
	msgExceptionPrefix  = "Exception occurred: "

	notifyTimeout = 10 * time.Second
)

// Notifier - 분석 결과 알림 채널 (현재는 Slack)
type Notifier interface {
	IsConfigured() bool
	SendAnalysis(ctx context.Context, detection model.NormalizedDetection, analysis string) error
}

type AnalysisService struct {
	classifier *normalize.Classifier
	completer  client.Completer
	notifier   Notifier
	metrics    *metrics.Recorder
	settings   config.CompletionConfig
	logger     *slog.Logger

	// 진행 중인 알림 goroutine (종료 시 대기용)
	notifications sync.WaitGroup
}

// notifier, recorder는 nil 허용
func NewAnalysisService(completer client.Completer, notifier Notifier, recorder *metrics.Recorder, settings config.CompletionConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		classifier: normalize.NewClassifier(logger),
		completer:  completer,
		notifier:   notifier,
		metrics:    recorder,
		settings:   settings,
		logger:     logger,
	}
}

// Analyze - 호출 1건 처리. 항상 결과를 반환하고 panic도 결과로 변환
func (s *AnalysisService) Analyze(ctx context.Context, raw model.RawPayload) (result model.AnalysisResult) {
	var kind model.RequestKind
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis panicked", "kind", kind, "panic", r)
			result = model.NewErrorResult(kind, fmt.Sprintf("%s%v", msgExceptionPrefix, r))
		}
		s.metrics.ObserveInvocation(string(result.RequestKind), result.Status)
	}()

	s.logger.Info("analysis invocation started", "keys", len(raw))

	req, err := s.classifier.Classify(raw)
	if err != nil {
		if errors.Is(err, normalize.ErrInsufficientData) {
			s.logger.Warn("payload rejected", "error", err)
			return model.NewErrorResult("", msgInsufficientData)
		}
		return model.NewErrorResult("", msgExceptionPrefix+err.Error())
	}
	kind = req.Kind()

	prompt, err := template.CompilePrompt(req)
	if err != nil {
		s.logger.Error("failed to compile prompt", "kind", kind, "error", err)
		return model.NewErrorResult(kind, msgExceptionPrefix+err.Error())
	}

	// complete는 모든 실패를 ErrCompletionUnavailable로 감싸서 반환
	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.Error("completion failed", "kind", kind, "error", err)
		return model.NewErrorResult(kind, msgCompletionFailed)
	}

	triage, ok := req.(model.TriageRequest)
	if !ok {
		return model.NewSuccessResult(kind, text, nil)
	}

	detection := triage.Detection
	s.notify(detection, text)
	return model.NewSuccessResult(kind, text, &detection)
}

// Preview - completion 호출 없이 분류 결과와 프롬프트만 반환 (CLI dry-run)
func (s *AnalysisService) Preview(raw model.RawPayload) (model.RequestKind, string, error) {
	req, err := s.classifier.Classify(raw)
	if err != nil {
		return "", "", err
	}
	prompt, err := template.CompilePrompt(req)
	if err != nil {
		return req.Kind(), "", err
	}
	return req.Kind(), prompt, nil
}

// Wait - 전송 중인 알림이 끝날 때까지 대기
func (s *AnalysisService) Wait() {
	s.notifications.Wait()
}

func (s *AnalysisService) complete(ctx context.Context, prompt string) (string, error) {
	if s.completer == nil {
		return "", fmt.Errorf("%w: no completion provider configured", ErrCompletionUnavailable)
	}

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := s.completer.Complete(ctx, model.CompletionRequest{
		SystemInstruction: template.SystemInstruction,
		UserPrompt:        prompt,
		Temperature:       s.settings.Temperature,
		MaxTokens:         s.settings.MaxTokens,
		TopP:              s.settings.TopP,
	})
	elapsed := time.Since(started)

	if err != nil {
		s.metrics.ObserveCompletion(s.settings.Provider, model.StatusError, elapsed)
		return "", fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}

	s.metrics.ObserveCompletion(s.settings.Provider, model.StatusSuccess, elapsed)
	s.logger.Info("completion call succeeded", "provider", s.settings.Provider,
		"elapsed_ms", elapsed.Milliseconds(), "length", len(text))
	return text, nil
}

// 알림 실패는 결과에 영향을 주지 않음 (로그만 남김)
func (s *AnalysisService) notify(detection model.NormalizedDetection, text string) {
	if s.notifier == nil || !s.notifier.IsConfigured() {
		return
	}

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.SendAnalysis(ctx, detection, text); err != nil {
			s.logger.Warn("failed to send analysis notification",
				"detection_id", detection.DetectionID, "error", err)
		}
	}()
}
