package model

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AnalysisResult - 호출 1회당 한 번 생성되어 호스트로 반환되는 결과
// 성공/실패 모두 같은 구조를 사용하고 status 필드로 구분
type AnalysisResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	// 모델 응답 텍스트 (실패 시 빈 문자열)
	// 구버전 호스트는 analysis, 신버전 호스트는 response 필드를 읽음
	Analysis string `json:"analysis"`
	Response string `json:"response"`

	ExtractedData *NormalizedDetection `json:"extractedData,omitempty"`
	RequestKind   RequestKind          `json:"requestKind,omitempty"`
}

// NewSuccessResult - 성공 결과 생성
func NewSuccessResult(kind RequestKind, text string, detection *NormalizedDetection) AnalysisResult {
	return AnalysisResult{
		Status:        StatusSuccess,
		Message:       "Analysis completed successfully",
		Analysis:      text,
		Response:      text,
		ExtractedData: detection,
		RequestKind:   kind,
	}
}

// NewErrorResult - 실패 결과 생성 (analysis/response는 항상 빈 문자열)
func NewErrorResult(kind RequestKind, message string) AnalysisResult {
	return AnalysisResult{
		Status:      StatusError,
		Message:     message,
		RequestKind: kind,
	}
}
