// Package hook implements the stdin/stdout framing of the host's hook
// protocol: one JSON object in, at most one decision object out.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// Input is the JSON object a hook invocation reads from stdin. Verification
// uses SessionID, TranscriptPath, and Cwd; tracking uses SessionID and the
// Tool* fields.
type Input struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	ToolOutput     json.RawMessage `json:"tool_output"`
}

// ReadInput decodes hook input. Malformed or empty input yields a zero
// Input, never an error: a hook must fail open, not crash.
func ReadInput(r io.Reader) Input {
	var in Input
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return in
	}
	_ = json.Unmarshal(data, &in)
	return in
}

// FilePath extracts tool_input.file_path for file-writing tools
func (in Input) FilePath() string {
	var ti struct {
		FilePath string `json:"file_path"`
	}
	_ = json.Unmarshal(in.ToolInput, &ti)
	return ti.FilePath
}

// Command extracts tool_input.command for shell-execution tools
func (in Input) Command() string {
	var ti struct {
		Command string `json:"command"`
	}
	_ = json.Unmarshal(in.ToolInput, &ti)
	return ti.Command
}

// ExitCode extracts the exit code from tool_output, which may be an object
// with an exit_code field or a bare string mentioning "exit code: N".
func (in Input) ExitCode() int {
	var obj struct {
		ExitCode *int `json:"exit_code"`
	}
	if json.Unmarshal(in.ToolOutput, &obj) == nil && obj.ExitCode != nil {
		return *obj.ExitCode
	}

	var text string
	if json.Unmarshal(in.ToolOutput, &text) == nil {
		if m := exitCodePattern.FindStringSubmatch(text); m != nil {
			code, err := strconv.Atoi(m[1])
			if err == nil {
				return code
			}
		}
	}
	return 0
}

var exitCodePattern = regexp.MustCompile(`(?i)exit code[:\s]+(\d+)`)

// Decision is the verification hook's output object
type Decision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// WriteDecision emits a decision object to w
func WriteDecision(w io.Writer, d Decision) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}
