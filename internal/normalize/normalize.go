// Package normalize classifies raw host payloads into triage or chat requests
// and extracts detection fields through a single declarative mapping table.
package normalize

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/azure-analyst/backend/internal/model"
)

// ErrInsufficientData is returned when a payload carries neither chat nor
// triage indicator keys.
var ErrInsufficientData = errors.New("insufficient data in payload")

const (
	defaultUnknown     = "Unknown"
	defaultDescription = "No description provided"
)

// 채팅 요청 판별 키 (우선순위 순서)
var chatKeys = []string{"query", "message", "logs"}

// Detection/Incident 판별 키
var triageKeys = []string{"description", "tactic", "detection_id", "id", "name", "detection_name"}

// fieldMapping - 대상 필드 -> 후보 키 목록(순서대로) -> 기본값
type fieldMapping struct {
	candidates []string
	fallback   string
	assign     func(d *model.NormalizedDetection, value string)
}

// 점(.)이 포함된 후보 키는 중첩 객체/배열 경로이며 항상 평면 키 뒤에 둔다
var detectionFields = []fieldMapping{
	{
		candidates: []string{"description", "summary", "name", "behavior"},
		fallback:   defaultDescription,
		assign:     func(d *model.NormalizedDetection, v string) { d.Description = v },
	},
	{
		candidates: []string{"tactic", "tactics", "primary_tactic", "behaviors.0.tactic"},
		fallback:   defaultUnknown,
		assign:     func(d *model.NormalizedDetection, v string) { d.Tactic = v },
	},
	{
		candidates: []string{"technique", "techniques", "primary_technique", "behaviors.0.technique"},
		fallback:   defaultUnknown,
		assign:     func(d *model.NormalizedDetection, v string) { d.Technique = v },
	},
	{
		candidates: []string{"hostname", "host_name", "device_name", "computer_name", "device.hostname"},
		fallback:   defaultUnknown,
		assign:     func(d *model.NormalizedDetection, v string) { d.HostName = v },
	},
	{
		candidates: []string{"name", "detection_name", "rule_name"},
		fallback:   defaultUnknown,
		assign:     func(d *model.NormalizedDetection, v string) { d.DetectionName = v },
	},
	{
		candidates: []string{"severity", "priority"},
		fallback:   defaultUnknown,
		assign:     func(d *model.NormalizedDetection, v string) { d.Severity = strings.ToUpper(v) },
	},
	{
		candidates: []string{"detection_id", "id", "composite_id"},
		fallback:   defaultUnknown,
		assign:     func(d *model.NormalizedDetection, v string) { d.DetectionID = v },
	},
}

// Classifier wraps Classify with optional diagnostic logging.
type Classifier struct {
	logger *slog.Logger
}

func NewClassifier(logger *slog.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify decides the request kind. Chat keys are probed before triage keys,
// so a payload carrying both is always a chat request.
func (c *Classifier) Classify(raw model.RawPayload) (model.Request, error) {
	req, err := Classify(raw)
	if c.logger == nil {
		return req, err
	}
	if err != nil {
		c.logger.Debug("payload rejected", "keys", len(raw), "error", err)
		return nil, err
	}
	if triage, ok := req.(model.TriageRequest); ok {
		d := triage.Detection
		c.logger.Debug("extracted detection data",
			"detection_name", d.DetectionName,
			"severity", d.Severity,
			"tactic", d.Tactic,
			"technique", d.Technique,
			"host_name", d.HostName,
			"detection_id", d.DetectionID)
	}
	return req, nil
}

// Classify is the logger-free form of Classifier.Classify.
func Classify(raw model.RawPayload) (model.Request, error) {
	if value, ok := firstPresent(raw, chatKeys); ok {
		return model.ChatRequest{Text: chatText(value)}, nil
	}
	if _, ok := firstPresent(raw, triageKeys); ok {
		return model.TriageRequest{Detection: Normalize(raw)}, nil
	}
	return nil, ErrInsufficientData
}

// Normalize builds a NormalizedDetection from any payload. Fields without a
// matching key get their placeholder, so the result is always complete.
func Normalize(raw model.RawPayload) model.NormalizedDetection {
	var d model.NormalizedDetection
	for _, field := range detectionFields {
		value := field.fallback
		if v, ok := firstPresent(raw, field.candidates); ok {
			value = stringify(v)
		}
		field.assign(&d, value)
	}
	return d
}

// firstPresent - 후보 키를 순서대로 확인하여 처음으로 비어있지 않은 값 반환
func firstPresent(raw model.RawPayload, keys []string) (any, bool) {
	for _, key := range keys {
		value, ok := lookup(raw, key)
		if ok && !isEmpty(value) {
			return value, true
		}
	}
	return nil, false
}
