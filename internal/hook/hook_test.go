package hook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	in := ReadInput(strings.NewReader(`{
		"session_id": "abc123",
		"transcript_path": "/tmp/transcript.jsonl",
		"cwd": "/project",
		"tool_name": "Bash",
		"tool_input": {"command": "npm test"},
		"tool_output": {"exit_code": 1}
	}`))

	assert.Equal(t, "abc123", in.SessionID)
	assert.Equal(t, "/tmp/transcript.jsonl", in.TranscriptPath)
	assert.Equal(t, "/project", in.Cwd)
	assert.Equal(t, "Bash", in.ToolName)
}

func TestReadInput_FailsOpen(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"session_id": 42}`} {
		in := ReadInput(strings.NewReader(raw))
		assert.Empty(t, in.SessionID, "input %q", raw)
		assert.Empty(t, in.ToolName, "input %q", raw)
	}
}

func TestInput_FilePath(t *testing.T) {
	in := ReadInput(strings.NewReader(`{"tool_input": {"file_path": "/project/app.py"}}`))
	assert.Equal(t, "/project/app.py", in.FilePath())

	assert.Empty(t, Input{}.FilePath())
}

func TestInput_Command(t *testing.T) {
	in := ReadInput(strings.NewReader(`{"tool_input": {"command": "pytest -q"}}`))
	assert.Equal(t, "pytest -q", in.Command())

	assert.Empty(t, Input{}.Command())
}

func TestInput_ExitCode(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"object field", `{"tool_output": {"exit_code": 2}}`, 2},
		{"object zero", `{"tool_output": {"exit_code": 0}}`, 0},
		{"string form", `{"tool_output": "Command failed with exit code: 127"}`, 127},
		{"string form no colon", `{"tool_output": "exit code 3"}`, 3},
		{"no output", `{}`, 0},
		{"string without code", `{"tool_output": "done"}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := ReadInput(strings.NewReader(tc.raw))
			assert.Equal(t, tc.want, in.ExitCode())
		})
	}
}

func TestWriteDecision(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDecision(&buf, Decision{Decision: "block", Reason: "tests failed"}))
	assert.JSONEq(t, `{"decision":"block","reason":"tests failed"}`, strings.TrimSpace(buf.String()))

	buf.Reset()
	require.NoError(t, WriteDecision(&buf, Decision{Decision: "approve"}))
	assert.JSONEq(t, `{"decision":"approve"}`, strings.TrimSpace(buf.String()))
}
