package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvokeTestCmd(out *bytes.Buffer, in string) *cobra.Command {
	cmd := &cobra.Command{Use: "invoke"}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(in))
	cmd.Flags().Bool("dry-run", false, "")
	return cmd
}

func writePayload(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInvokeDryRunTriageFile(t *testing.T) {
	file := writePayload(t, `{"description":"Suspicious process execution","tactic":"Execution","technique":"CLI","hostname":"WS-001","name":"Process Hollowing","severity":"high","detection_id":"evt:1"}`)

	var out bytes.Buffer
	cmd := newInvokeTestCmd(&out, "")
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))

	require.NoError(t, runInvoke(cmd, []string{file}))

	output := out.String()
	assert.True(t, strings.HasPrefix(output, "kind: triage\n"), output)
	for _, want := range []string{"Process Hollowing", "HIGH", "WS-001"} {
		assert.Contains(t, output, want)
	}
}

func TestInvokeDryRunChatStdin(t *testing.T) {
	var out bytes.Buffer
	cmd := newInvokeTestCmd(&out, `{"query":"explain this PowerShell one-liner: iex $x"}`)
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))

	require.NoError(t, runInvoke(cmd, []string{"-"}))

	assert.Contains(t, out.String(), "kind: chat")
	assert.Contains(t, out.String(), "explain this PowerShell one-liner: iex $x")
}

func TestInvokeDryRunKeepsLargeIntegerIDs(t *testing.T) {
	var out bytes.Buffer
	cmd := newInvokeTestCmd(&out, `{"name":"x","detection_id":1234567890123456789}`)
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))

	require.NoError(t, runInvoke(cmd, nil))

	assert.Contains(t, out.String(), "1234567890123456789")
	assert.NotContains(t, out.String(), "1234567890123456800")
}

func TestInvokeDryRunInsufficientData(t *testing.T) {
	var out bytes.Buffer
	cmd := newInvokeTestCmd(&out, `{}`)
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))

	err := runInvoke(cmd, nil)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestReadPayloadErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "malformed", stdin: `{"query":`},
		{name: "null", stdin: `null`},
		{name: "array", stdin: `[1,2]`},
		{name: "trailing-data", stdin: `{"query":"x"} {"query":"y"}`},
		{name: "missing-file", args: []string{filepath.Join(t.TempDir(), "missing.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newInvokeTestCmd(&bytes.Buffer{}, tt.stdin)
			_, err := readPayload(cmd, tt.args)
			assert.Error(t, err)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "analyst dev")
}
