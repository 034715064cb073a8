package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
)

var testCompletionRequest = model.CompletionRequest{
	SystemInstruction: "You are a cybersecurity expert.",
	UserPrompt:        "Analyze this",
	Temperature:       0.7,
	MaxTokens:         2000,
	TopP:              0.95,
}

func TestAgentCompleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/complete", r.URL.Path)
		assert.Equal(t, "Bearer agent-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "You are a cybersecurity expert.", body["system_instruction"])
		assert.Equal(t, "Analyze this", body["user_prompt"])
		assert.EqualValues(t, 2000, body["max_tokens"])
		assert.Contains(t, body, "temperature")
		assert.Contains(t, body, "top_p")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","response":"analysis text"}`))
	}))
	defer srv.Close()

	c := NewAgentClient(config.AgentConfig{BaseURL: srv.URL + "/", APIKey: "agent-key"}, 5*time.Second, nil)
	text, err := c.Complete(context.Background(), testCompletionRequest)
	require.NoError(t, err)
	assert.Equal(t, "analysis text", text)
}

func TestAgentCompletePlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("## Summary\nplain analysis"))
	}))
	defer srv.Close()

	c := NewAgentClient(config.AgentConfig{BaseURL: srv.URL}, 5*time.Second, nil)
	text, err := c.Complete(context.Background(), testCompletionRequest)
	require.NoError(t, err)
	assert.Equal(t, "## Summary\nplain analysis", text)
}

func TestAgentCompleteFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
	}{
		{name: "server-error", status: http.StatusInternalServerError, body: `upstream exploded`},
		{name: "unauthorized", status: http.StatusUnauthorized, contentType: "application/json", body: `{"error":"bad key"}`},
		{name: "empty-body", status: http.StatusOK, body: ``},
		{name: "malformed-json", status: http.StatusOK, contentType: "application/json", body: `{"response":`},
		{name: "json-without-text", status: http.StatusOK, contentType: "application/json", body: `{"status":"success"}`},
		{name: "reported-error", status: http.StatusOK, contentType: "application/json", body: `{"status":"error","error":"quota"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewAgentClient(config.AgentConfig{BaseURL: srv.URL}, 5*time.Second, nil)
			text, err := c.Complete(context.Background(), testCompletionRequest)
			assert.Error(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestAgentCompleteNotConfigured(t *testing.T) {
	c := NewAgentClient(config.AgentConfig{}, time.Second, nil)
	assert.False(t, c.IsConfigured())
	_, err := c.Complete(context.Background(), testCompletionRequest)
	assert.Error(t, err)
}

func TestTruncateAPIError(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	got := truncateAPIError(long)
	assert.Len(t, got, 512+len("...(truncated)"))
	assert.Equal(t, "short", truncateAPIError([]byte("  short \n")))
}
