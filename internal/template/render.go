// Package template renders the fixed LLM prompt templates.
//
// 지원하는 변수 형식:
//
//	{{detection.name}}, {{detection.description}}, {{detection.tactic}},
//	{{detection.technique}}, {{detection.host}}, {{detection.severity}},
//	{{detection.id}}
//
//	{{chat.text}}
//
// 치환은 단일 패스로 수행되므로 사용자 입력에 포함된 {{...}} 구문은 다시 치환되지 않음
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/azure-analyst/backend/internal/model"
)

// ErrUnsupportedRequest is returned for a request variant without a template.
var ErrUnsupportedRequest = errors.New("unsupported request kind")

// SystemInstruction - 모든 요청에 공통으로 사용하는 system 메시지
const SystemInstruction = "You are a cybersecurity expert specializing in threat analysis and incident response."

// 응답 섹션 구성(1~5)은 후속 단계에서 파싱/표시하므로 유지해야 함
const triageTemplate = `You are a senior cybersecurity analyst. Analyze the following CrowdStrike detection and provide a detailed security assessment.

Detection Information:
- Detection Name: {{detection.name}}
- Description: {{detection.description}}
- MITRE ATT&CK Tactic: {{detection.tactic}}
- MITRE ATT&CK Technique: {{detection.technique}}
- Affected Host: {{detection.host}}
- Severity: {{detection.severity}}
- Detection ID: {{detection.id}}

Please provide:
1. Threat Summary: a brief summary of what this detection indicates
2. Threat Actors: potential threat actors or campaigns associated with this technique
3. Investigation Steps: recommended immediate investigation steps
4. Containment & Remediation: suggested containment and remediation actions
5. Risk Rating: one of Critical, High, Medium, Low, with a short justification

Format your response in clear sections with proper markdown formatting.`

const chatTemplate = `You are a security expert. Answer the following inquiry or analyze the provided logs:

{{chat.text}}
`

// CompilePrompt - 요청 variant에 맞는 템플릿으로 프롬프트 생성
func CompilePrompt(req model.Request) (string, error) {
	switch r := req.(type) {
	case model.TriageRequest:
		return TriagePrompt(r.Detection), nil
	case *model.TriageRequest:
		return TriagePrompt(r.Detection), nil
	case model.ChatRequest:
		return ChatPrompt(r.Text), nil
	case *model.ChatRequest:
		return ChatPrompt(r.Text), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedRequest, req)
	}
}

// TriagePrompt - Detection 분석 프롬프트
func TriagePrompt(d model.NormalizedDetection) string {
	return strings.NewReplacer(
		"{{detection.name}}", d.DetectionName,
		"{{detection.description}}", d.Description,
		"{{detection.tactic}}", d.Tactic,
		"{{detection.technique}}", d.Technique,
		"{{detection.host}}", d.HostName,
		"{{detection.severity}}", d.Severity,
		"{{detection.id}}", d.DetectionID,
	).Replace(triageTemplate)
}

// ChatPrompt - 자유 질의/로그 분석 프롬프트 (입력 텍스트는 원문 그대로)
func ChatPrompt(text string) string {
	return strings.NewReplacer("{{chat.text}}", text).Replace(chatTemplate)
}
