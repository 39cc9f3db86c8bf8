package verify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/claimcheck/claimcheck/internal/detect"
	"github.com/claimcheck/claimcheck/internal/model"
)

// toolCheck describes one command-running verifier. Test, lint, and build
// verification share the same shape: resolve a command, run it, judge the
// exit code.
type toolCheck struct {
	noun       string // "Tests", "Lint", "Build"
	missing    string // what wasn't found, for the skip message
	toolKey    string // details key for the tool name
	skipReason string // reason tag when no tooling is found
	tailLimit  int    // diagnostic output tail size
	detectCmd  func(*detect.Detector, string) *detect.Profile
}

func (r *Registry) verifyTestsPass(_, dir string, cfg model.VerifierConfig) model.Outcome {
	return r.runToolCheck(toolCheck{
		noun:       "Tests",
		missing:    "test framework",
		toolKey:    "framework",
		skipReason: "no_test_framework",
		tailLimit:  1000,
		detectCmd:  (*detect.Detector).TestCommand,
	}, dir, cfg)
}

func (r *Registry) verifyLintClean(_, dir string, cfg model.VerifierConfig) model.Outcome {
	return r.runToolCheck(toolCheck{
		noun:       "Lint",
		missing:    "linter",
		toolKey:    "linter",
		skipReason: "no_linter",
		tailLimit:  1000,
		detectCmd:  (*detect.Detector).LintCommand,
	}, dir, cfg)
}

func (r *Registry) verifyBuildSuccess(_, dir string, cfg model.VerifierConfig) model.Outcome {
	return r.runToolCheck(toolCheck{
		noun:       "Build",
		missing:    "build system",
		toolKey:    "build_tool",
		skipReason: "no_build_system",
		tailLimit:  1500,
		detectCmd:  (*detect.Detector).BuildCommand,
	}, dir, cfg)
}

// runToolCheck resolves the command (custom override first, then detection)
// and executes it. No detected tooling is a passing skip: absence of tooling
// is not evidence of a false claim.
func (r *Registry) runToolCheck(check toolCheck, dir string, cfg model.VerifierConfig) model.Outcome {
	command := cfg.Command
	tool := "custom"
	if command == "" {
		profile := check.detectCmd(r.detector, dir)
		if profile == nil {
			return skip(fmt.Sprintf("No %s detected, skipping verification", check.missing), check.skipReason)
		}
		command, tool = profile.Command, profile.Tool
	}

	argv := detect.SplitCommand(command)
	if len(argv) == 0 {
		return fail("Empty command", map[string]any{"command": command, check.toolKey: tool})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()

	// A timeout is a distinct failure from a nonzero exit.
	if ctx.Err() == context.DeadlineExceeded {
		return fail(fmt.Sprintf("%s timed out after %s", check.noun, cfg.Timeout), map[string]any{
			"command":     command,
			check.toolKey: tool,
			"timeout":     cfg.Timeout.String(),
			"error":       "timeout",
		})
	}

	if err == nil {
		return pass(fmt.Sprintf("%s passed (%s)", check.noun, tool), map[string]any{
			"command":     command,
			check.toolKey: tool,
			"exit_code":   0,
		})
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fail(fmt.Sprintf("%s failed (%s)", check.noun, tool), map[string]any{
			"command":     command,
			check.toolKey: tool,
			"exit_code":   exitErr.ExitCode(),
			"output_tail": tail(output, check.tailLimit),
		})
	}

	// Command could not run at all (not found, permission).
	return fail(fmt.Sprintf("Failed to run %s: %v", argv[0], err), map[string]any{
		"command":     command,
		check.toolKey: tool,
		"error":       err.Error(),
	})
}

// tail returns the last limit bytes of combined output, enough to show a
// failure signature without unbounded growth.
func tail(output []byte, limit int) string {
	if len(output) == 0 {
		return "No output"
	}
	if len(output) > limit {
		output = output[len(output)-limit:]
	}
	return string(output)
}
