package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-analyst/backend/internal/model"
)

func decode(t *testing.T, body string) model.RawPayload {
	t.Helper()
	var raw model.RawPayload
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestClassifyChatWinsOverTriage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "query", body: `{"query":"what is T1055?","description":"ignored","tactic":"Execution"}`, want: "what is T1055?"},
		{name: "message", body: `{"message":"hello","name":"Process Hollowing"}`, want: "hello"},
		{name: "logs", body: `{"logs":"4625 An account failed to log on","detection_id":"evt:1"}`, want: "4625 An account failed to log on"},
		{name: "query-before-message", body: `{"message":"second","query":"first"}`, want: "first"},
		{name: "empty-query-falls-through", body: `{"query":"","message":"fallback"}`, want: "fallback"},
		{name: "log-lines", body: `{"logs":["line one","line two"]}`, want: "line one\nline two"},
		{name: "verbatim", body: `{"query":"  keep   spacing \n"}`, want: "  keep   spacing \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Classify(decode(t, tt.body))
			require.NoError(t, err)
			require.Equal(t, model.RequestKindChat, req.Kind())
			assert.Equal(t, tt.want, req.(model.ChatRequest).Text)
		})
	}
}

func TestClassifyInsufficientData(t *testing.T) {
	bodies := []string{
		`{}`,
		`null`,
		`{"summary":"only a summary","hostname":"WS-001"}`,
		`{"query":"","description":null,"tactic":[],"name":{}}`,
		`{"severity":"high","priority":"p1"}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			req, err := Classify(decode(t, body))
			assert.Nil(t, req)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestClassifyTriageScenario(t *testing.T) {
	raw := decode(t, `{
		"description":"Suspicious process execution",
		"tactic":"Execution",
		"technique":"CLI",
		"hostname":"WS-001",
		"name":"Process Hollowing",
		"severity":"high",
		"detection_id":"evt:1"
	}`)

	req, err := Classify(raw)
	require.NoError(t, err)
	require.Equal(t, model.RequestKindTriage, req.Kind())

	assert.Equal(t, model.NormalizedDetection{
		Description:   "Suspicious process execution",
		Tactic:        "Execution",
		Technique:     "CLI",
		HostName:      "WS-001",
		DetectionName: "Process Hollowing",
		Severity:      "HIGH",
		DetectionID:   "evt:1",
	}, req.(model.TriageRequest).Detection)
}

func TestNormalizeFallbackOrder(t *testing.T) {
	d := Normalize(model.RawPayload{"description": "A", "summary": "B"})
	assert.Equal(t, "A", d.Description)

	d = Normalize(model.RawPayload{"description": "", "summary": "B"})
	assert.Equal(t, "B", d.Description)

	d = Normalize(model.RawPayload{"host_name": "second", "device_name": "third", "hostname": "first"})
	assert.Equal(t, "first", d.HostName)

	d = Normalize(model.RawPayload{"id": "ldt:1", "composite_id": "cid:1"})
	assert.Equal(t, "ldt:1", d.DetectionID)
}

func TestNormalizePlaceholders(t *testing.T) {
	d := Normalize(model.RawPayload{"tactic": "Persistence"})

	assert.Equal(t, model.NormalizedDetection{
		Description:   "No description provided",
		Tactic:        "Persistence",
		Technique:     "Unknown",
		HostName:      "Unknown",
		DetectionName: "Unknown",
		Severity:      "UNKNOWN",
		DetectionID:   "Unknown",
	}, d)
}

func TestClassifyAcceptsPlaceholderDescription(t *testing.T) {
	req, err := Classify(model.RawPayload{"tactic": "Execution", "severity": "low"})
	require.NoError(t, err)
	assert.Equal(t, "No description provided", req.(model.TriageRequest).Detection.Description)
}

func TestSeverityNormalization(t *testing.T) {
	for _, in := range []string{"high", "High", "HIGH", "hIgH"} {
		d := Normalize(model.RawPayload{"severity": in})
		assert.Equal(t, "HIGH", d.Severity, in)
	}

	assert.Equal(t, "UNKNOWN", Normalize(model.RawPayload{}).Severity)
	assert.Equal(t, "UNKNOWN", Normalize(model.RawPayload{"severity": nil}).Severity)
	assert.Equal(t, "CRITICAL", Normalize(model.RawPayload{"priority": "critical"}).Severity)
	assert.Equal(t, "70", Normalize(decode(t, `{"severity":70}`)).Severity)
}

func TestNormalizeNestedPaths(t *testing.T) {
	raw := decode(t, `{
		"detection_id":"ldt:abc",
		"device":{"hostname":"FIN-LAPTOP-7"},
		"behaviors":[{"tactic":"Defense Evasion","technique":"Masquerading"}]
	}`)

	d := Normalize(raw)
	assert.Equal(t, "FIN-LAPTOP-7", d.HostName)
	assert.Equal(t, "Defense Evasion", d.Tactic)
	assert.Equal(t, "Masquerading", d.Technique)

	// 평면 키가 중첩 경로보다 우선
	raw["hostname"] = "FLAT"
	assert.Equal(t, "FLAT", Normalize(raw).HostName)
}

func TestNormalizeNonStringValues(t *testing.T) {
	raw := decode(t, `{
		"tactics":["Execution","Persistence"],
		"id":12345,
		"behavior":{"cmd":"powershell -enc"}
	}`)

	d := Normalize(raw)
	assert.Equal(t, "Execution, Persistence", d.Tactic)
	assert.Equal(t, "12345", d.DetectionID)
	assert.Equal(t, `{"cmd":"powershell -enc"}`, d.Description)
}

func TestLookup(t *testing.T) {
	raw := model.RawPayload{
		"a.b": "literal",
		"x":   map[string]any{"y": []any{"zero", map[string]any{"z": "deep"}}},
	}

	v, ok := lookup(raw, "a.b")
	assert.True(t, ok)
	assert.Equal(t, "literal", v)

	v, ok = lookup(raw, "x.y.1.z")
	assert.True(t, ok)
	assert.Equal(t, "deep", v)

	_, ok = lookup(raw, "x.y.5")
	assert.False(t, ok)

	_, ok = lookup(raw, "x.missing")
	assert.False(t, ok)
}

func TestIsEmpty(t *testing.T) {
	empty := []any{nil, "", false, float64(0), json.Number("0"), []any{}, []any{"", nil}, map[string]any{}, model.RawPayload{}}
	for _, v := range empty {
		assert.True(t, isEmpty(v), "%#v", v)
	}

	present := []any{" ", true, float64(1), json.Number("12"), []any{"a"}, map[string]any{"k": "v"}, model.RawPayload{"k": "v"}}
	for _, v := range present {
		assert.False(t, isEmpty(v), "%#v", v)
	}
}

func TestNormalizeEmptyNestedPayload(t *testing.T) {
	d := Normalize(model.RawPayload{"name": "x", "summary": model.RawPayload{}})
	assert.Equal(t, "x", d.Description)
}

func TestNormalizeKeepsLargeIntegerIDs(t *testing.T) {
	d := Normalize(model.RawPayload{"name": "x", "detection_id": json.Number("1234567890123456789")})
	assert.Equal(t, "1234567890123456789", d.DetectionID)
}

func TestClassifierLogsWithoutChangingResult(t *testing.T) {
	c := NewClassifier(nil)
	req, err := c.Classify(model.RawPayload{"name": "Credential Dumping"})
	require.NoError(t, err)
	assert.Equal(t, "Credential Dumping", req.(model.TriageRequest).Detection.DetectionName)
	// name은 description 후보이기도 함
	assert.Equal(t, "Credential Dumping", req.(model.TriageRequest).Detection.Description)
}
