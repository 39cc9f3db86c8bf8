package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead_MissingFile(t *testing.T) {
	messages, err := Read(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.Nil(t, messages)
}

func TestRead_SkipsMalformedAndBlankLines(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","content":"hi"}`,
		"",
		"not json at all",
		`{"type":"assistant","content":"hello"}`,
	)

	messages, err := Read(path)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0]["type"])
	assert.Equal(t, "assistant", messages[1]["type"])
}

func TestLastAssistantMessages_KeepsMostRecent(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","content":"one"}`,
		`{"type":"user","content":"question"}`,
		`{"type":"assistant","content":"two"}`,
		`{"type":"assistant","content":"three"}`,
		`{"type":"assistant","content":"four"}`,
	)

	messages, err := LastAssistantMessages(path, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "two", messages[0]["content"])
	assert.Equal(t, "four", messages[2]["content"])
}

func TestRecentAssistantText_JoinsWithBlankLines(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","content":"first"}`,
		`{"type":"user","content":"ignored"}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"second"}]}}`,
	)

	text, err := RecentAssistantText(path, 3)
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", text)
}

func TestRecentAssistantText_MissingFile(t *testing.T) {
	text, err := RecentAssistantText(filepath.Join(t.TempDir(), "absent.jsonl"), 3)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractText(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "plain content string",
			msg:  Message{"content": "hello"},
			want: "hello",
		},
		{
			name: "message string",
			msg:  Message{"message": "hello"},
			want: "hello",
		},
		{
			name: "nested text blocks",
			msg: Message{"message": map[string]any{
				"content": []any{
					map[string]any{"type": "text", "text": "alpha"},
					map[string]any{"type": "tool_use", "name": "Bash"},
					map[string]any{"type": "text", "text": "beta"},
				},
			}},
			want: "alpha\nbeta",
		},
		{
			name: "content list of strings",
			msg:  Message{"content": []any{"alpha", "beta"}},
			want: "alpha\nbeta",
		},
		{
			name: "no text anywhere",
			msg:  Message{"type": "assistant"},
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractText(tc.msg))
		})
	}
}
