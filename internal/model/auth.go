package model

// Caller - 검증된 access token의 호출자 정보
type Caller struct {
	Subject string `json:"subject"`
	Scope   string `json:"scope,omitempty"`
}
