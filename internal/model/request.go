package model

// RequestKind - 요청 유형 (triage | chat)
type RequestKind string

const (
	RequestKindTriage RequestKind = "triage"
	RequestKindChat   RequestKind = "chat"
)

// Request - 분류기가 만들어내는 요청 variant
// TriageRequest 또는 ChatRequest 중 하나
type Request interface {
	Kind() RequestKind
}

// TriageRequest - 보안 Detection/Incident 분석 요청
type TriageRequest struct {
	Detection NormalizedDetection
}

func (TriageRequest) Kind() RequestKind { return RequestKindTriage }

// ChatRequest - 자유 질의 또는 원본 로그 분석 요청
// Text는 원본 그대로 유지 (trim, 길이 제한 없음)
type ChatRequest struct {
	Text string
}

func (ChatRequest) Kind() RequestKind { return RequestKindChat }

// CompletionRequest - LLM completion 서비스로 전달하는 요청
type CompletionRequest struct {
	SystemInstruction string  `json:"system_instruction"`
	UserPrompt        string  `json:"user_prompt"`
	Temperature       float32 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	TopP              float32 `json:"top_p"`
}
