// 호스트(오케스트레이션 플랫폼)에서 전달되는 원본 페이로드와 정규화 결과 구조체 정의
// handler, service, normalize, template 레이어에서 공통으로 사용하기 때문에 model 레이어에 정의

package model

// RawPayload - 호스트가 보낸 스키마 없는 JSON 객체
// Detection 피드, Incident 피드, 채팅 요청마다 키 구성이 다름
type RawPayload map[string]any

// NormalizedDetection - Detection/Incident 페이로드에서 추출한 고정 필드
// 7개 필드는 항상 값이 채워짐 (원본에 없으면 placeholder 사용)
type NormalizedDetection struct {
	// 탐지 설명 (없으면 "No description provided")
	Description string `json:"description"`

	// MITRE ATT&CK Tactic / Technique
	Tactic    string `json:"tactic"`
	Technique string `json:"technique"`

	// 탐지가 발생한 호스트 이름
	HostName string `json:"hostName"`

	DetectionName string `json:"detectionName"`

	// 대문자로 정규화된 심각도 (없으면 "UNKNOWN")
	Severity string `json:"severity"`

	DetectionID string `json:"detectionId"`
}
