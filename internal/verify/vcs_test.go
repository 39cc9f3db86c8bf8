package verify

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claimcheck/claimcheck/internal/model"
)

func gitRun(t *testing.T, dir, when string, args ...string) {
	t.Helper()
	full := append([]string{"-c", "user.email=test@example.com", "-c", "user.name=test"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	if when != "" {
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_DATE="+when,
			"GIT_COMMITTER_DATE="+when,
		)
	}
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, output)
}

// initRepo creates a repository whose only commit is far in the past, so the
// recent-commit fallback doesn't fire unless a test makes a fresh commit.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitRun(t, dir, "", "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("docs\n"), 0o644))
	gitRun(t, dir, "2020-01-01T00:00:00Z", "add", "README")
	gitRun(t, dir, "2020-01-01T00:00:00Z", "commit", "-q", "-m", "initial")
	return dir
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestVerifyChangesMade_NotARepo(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	out := r.Verify(model.ClaimBugFixed, "", t.TempDir(), model.DefaultConfig())
	assert.True(t, out.Passed)
	assert.True(t, out.Skipped())
	assert.Equal(t, "not_git_repo", out.SkipReason())
}

func TestVerifyChangesMade_UntrackedCodeFile(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fix.go"), []byte("package fix\n"), 0o644))

	out := NewRegistry(zap.NewNop()).Verify(model.ClaimBugFixed, "", dir, model.DefaultConfig())
	assert.True(t, out.Passed)
	assert.Equal(t, 1, out.Details["total_code_changes"])
	assert.Equal(t, []string{"fix.go"}, out.Details["new_files"])
}

func TestVerifyChangesMade_ModifiedTrackedCodeFile(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("pass\n"), 0o644))
	gitRun(t, dir, "2020-01-01T00:00:00Z", "add", "app.py")
	gitRun(t, dir, "2020-01-01T00:00:00Z", "commit", "-q", "-m", "add app")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("raise\n"), 0o644))

	out := NewRegistry(zap.NewNop()).Verify(model.ClaimBugFixed, "", dir, model.DefaultConfig())
	assert.True(t, out.Passed)
	assert.Equal(t, []string{"app.py"}, out.Details["unstaged_files"])
}

func TestVerifyChangesMade_NonCodeChangesPassWithNote(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("notes\n"), 0o644))

	out := NewRegistry(zap.NewNop()).Verify(model.ClaimBugFixed, "", dir, model.DefaultConfig())
	assert.True(t, out.Passed)
	assert.Equal(t, "No code files changed, but other files modified", out.Details["note"])
}

func TestVerifyChangesMade_RecentCommitPasses(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fix.go"), []byte("package fix\n"), 0o644))
	gitRun(t, dir, "", "add", "fix.go")
	gitRun(t, dir, "", "commit", "-q", "-m", "fix crash")

	out := NewRegistry(zap.NewNop()).Verify(model.ClaimBugFixed, "", dir, model.DefaultConfig())
	assert.True(t, out.Passed)
	assert.Contains(t, out.Message, "Recent commit found")
	assert.Len(t, out.Details["commit"], 8)
}

func TestVerifyChangesMade_CleanTreeOldHistoryFails(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	out := NewRegistry(zap.NewNop()).Verify(model.ClaimBugFixed, "", dir, model.DefaultConfig())
	assert.False(t, out.Passed)
	assert.Contains(t, out.Message, "No code changes detected")
}
