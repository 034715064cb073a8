package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/azure-analyst/backend/internal/model"
)

// lookup resolves a flat key first, then a dotted path such as
// "device.hostname" or "behaviors.0.tactic".
func lookup(raw model.RawPayload, key string) (any, bool) {
	if value, ok := raw[key]; ok {
		return value, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var current any = map[string]any(raw)
	for _, part := range strings.Split(key, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next
		case model.RawPayload:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// isEmpty - 원본 producer의 falsy 판정과 동일하게 처리
// null, "", false, 0, 빈 배열(빈 값만 담긴 배열 포함), 빈 객체
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case float32:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case []any:
		for _, item := range v {
			if !isEmpty(item) {
				return false
			}
		}
		return true
	case []string:
		for _, item := range v {
			if item != "" {
				return false
			}
		}
		return true
	case map[string]any:
		return len(v) == 0
	case model.RawPayload:
		return len(v) == 0
	default:
		return false
	}
}

// stringify renders a JSON-compatible value for a detection field.
// Arrays become comma separated lists, objects compact JSON.
func stringify(value any) string {
	return render(value, ", ")
}

// chatText keeps strings verbatim and joins arrays of log lines with newlines.
func chatText(value any) string {
	return render(value, "\n")
}

func render(value any, sep string) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case []string:
		return strings.Join(v, sep)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if isEmpty(item) {
				continue
			}
			parts = append(parts, render(item, sep))
		}
		return strings.Join(parts, sep)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
