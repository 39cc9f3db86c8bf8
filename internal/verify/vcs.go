package verify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/claimcheck/claimcheck/internal/model"
)

// codeExtensions classifies changed files: a bug-fix claim is strongest when
// at least one of these changed.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".rs": true, ".go": true, ".java": true, ".c": true, ".cpp": true,
	".h": true, ".hpp": true, ".rb": true, ".php": true, ".swift": true,
	".kt": true, ".scala": true, ".vue": true, ".svelte": true,
}

func isCodeFile(path string) bool {
	return codeExtensions[strings.ToLower(filepath.Ext(path))]
}

// verifyChangesMade checks that the working tree actually changed, for
// bug-fix claims. Staged, unstaged, and untracked-but-not-ignored files are
// inspected; if all three are empty, a commit within the configured window
// still counts (the fix may have been committed between turns).
func verifyChangesMade(_, dir string, cfg model.VerifierConfig) model.Outcome {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return skip("Not a git repository, skipping change verification", "not_git_repo")
	}

	staged, err := gitLines(dir, cfg.Timeout, "diff", "--cached", "--name-only")
	if err != nil {
		return gitFailure(err)
	}
	unstaged, err := gitLines(dir, cfg.Timeout, "diff", "--name-only")
	if err != nil {
		return gitFailure(err)
	}
	untracked, err := gitLines(dir, cfg.Timeout, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return gitFailure(err)
	}

	codeStaged := filterCode(staged)
	codeUnstaged := filterCode(unstaged)
	codeUntracked := filterCode(untracked)
	codeChanges := len(codeStaged) + len(codeUnstaged) + len(codeUntracked)
	totalChanges := len(staged) + len(unstaged) + len(untracked)

	if codeChanges > 0 {
		return pass(fmt.Sprintf("Code changes detected: %d file(s)", codeChanges), map[string]any{
			"staged_files":       codeStaged,
			"unstaged_files":     codeUnstaged,
			"new_files":          codeUntracked,
			"total_code_changes": codeChanges,
		})
	}

	if totalChanges > 0 {
		// Weaker evidence than a code change, but not proof of falsehood.
		return pass(fmt.Sprintf("Changes detected (non-code): %d file(s)", totalChanges), map[string]any{
			"staged_files":    staged,
			"unstaged_files":  unstaged,
			"untracked_files": untracked,
			"note":            "No code files changed, but other files modified",
		})
	}

	// Nothing in the working tree; the fix may already be committed.
	since := fmt.Sprintf("%d seconds ago", int(cfg.CommitWindow.Seconds()))
	commits, err := gitLines(dir, cfg.Timeout, "log", "-1", "--format=%H", "--since="+since)
	if err != nil {
		if strings.Contains(err.Error(), "timed out") {
			return gitFailure(err)
		}
		// A repo with no history makes git log exit nonzero; that just
		// means no recent commit.
		commits = nil
	}
	if len(commits) > 0 {
		short := commits[0]
		if len(short) > 8 {
			short = short[:8]
		}
		return pass("Recent commit found (changes already committed)", map[string]any{
			"commit": short,
			"note":   "Changes were likely already committed",
		})
	}

	return fail("No code changes detected for bug fix claim", map[string]any{
		"staged_files":    staged,
		"unstaged_files":  unstaged,
		"untracked_files": untracked,
		"note":            "Expected code changes for a bug fix claim",
	})
}

// gitLines runs one git plumbing command and returns its non-empty output
// lines. Git must be queryable if .git exists, so any failure here is a
// verification failure, not a skip.
func gitLines(dir string, timeout time.Duration, args ...string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("git %s: timed out", args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func gitFailure(err error) model.Outcome {
	return fail(fmt.Sprintf("Failed to check git status: %v", err), map[string]any{
		"error": err.Error(),
	})
}

func filterCode(files []string) []string {
	var code []string
	for _, f := range files {
		if isCodeFile(f) {
			code = append(code, f)
		}
	}
	return code
}
