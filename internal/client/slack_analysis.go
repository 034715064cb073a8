// Slack 분석 결과 메시지 관련 메서드 정의

package client

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/azure-analyst/backend/internal/model"
)

// Slack attachment text 최대 길이 (초과분은 잘라냄)
const slackTextLimit = 3500

// Triage 분석 결과를 Slack으로 전송
func (c *SlackClient) SendAnalysis(ctx context.Context, detection model.NormalizedDetection, analysis string) error {
	if !c.IsConfigured() {
		return fmt.Errorf("slack bot token or channel ID not configured")
	}

	title := fmt.Sprintf("🤖 [%s] %s", detection.Severity, detection.DetectionName)

	fields := []SlackField{
		{Title: "Host", Value: detection.HostName, Short: true},
		{Title: "Severity", Value: detection.Severity, Short: true},
		{Title: "Tactic", Value: detection.Tactic, Short: true},
		{Title: "Technique", Value: detection.Technique, Short: true},
		{Title: "Detection ID", Value: detection.DetectionID, Short: false},
	}

	text := truncateText(toSlackMarkdown(analysis), slackTextLimit)

	msg := SlackMessage{
		Channel: c.channelID,
		Attachments: []SlackAttachment{
			{
				Color:    colorBySeverity(detection.Severity),
				Title:    title,
				Text:     text,
				Fields:   fields,
				Footer:   "azure-analyst",
				Ts:       time.Now().Unix(),
				MrkdwnIn: []string{"text"},
			},
		},
	}

	_, err := c.send(ctx, msg)
	return err
}

// limit 바이트 이내로 자르되 멀티바이트 문자 중간에서 자르지 않음
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	n := limit
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n] + "\n…"
}

// Severity에 따른 적절한 메시지 색상 반환
func colorBySeverity(severity string) string {
	switch severity {
	case "CRITICAL":
		return "#dc3545" // red
	case "HIGH":
		return "#fd7e14" // orange
	case "MEDIUM":
		return "#ffc107" // yellow
	case "LOW", "INFORMATIONAL":
		return "#36a64f" // green
	default:
		return "#6f42c1" // purple
	}
}

var (
	boldPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	headingPattern = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
)

// toSlackMarkdown - 모델이 생성한 Markdown을 Slack mrkdwn으로 변환
// 코드 블록과 인라인 코드 내부는 변환하지 않음
func toSlackMarkdown(input string) string {
	lines := strings.Split(input, "\n")
	inCodeBlock := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			heading := strings.ReplaceAll(m[1], "**", "")
			lines[i] = "*" + strings.TrimSpace(heading) + "*"
			continue
		}
		lines[i] = convertInline(line)
	}
	return strings.Join(lines, "\n")
}

// 백틱으로 나눈 조각 중 짝수 번째(코드 밖)만 변환
func convertInline(line string) string {
	parts := strings.Split(line, "`")
	for i := 0; i < len(parts); i += 2 {
		parts[i] = boldPattern.ReplaceAllString(parts[i], "*$1*")
	}
	return strings.Join(parts, "`")
}
