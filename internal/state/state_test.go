package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimcheck/claimcheck/internal/model"
)

func TestLoad_FreshSession(t *testing.T) {
	store := NewStore(t.TempDir())

	sess := store.Load("abc123")
	rec := sess.Record()

	assert.Equal(t, SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "abc123", rec.SessionID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.False(t, sess.HookActive())
	assert.Zero(t, sess.Attempts())
}

func TestSession_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	sess := store.Load("abc123")
	require.NoError(t, sess.AddFileWritten("/tmp/foo.py", "Write"))
	require.NoError(t, sess.AddCommandRun("pytest", 1, true, false, false))
	_, err := sess.IncrementAttempts()
	require.NoError(t, err)
	require.NoError(t, sess.AddVerification(model.Verification{
		Kind:      model.ClaimTestsPass,
		Text:      "all tests pass",
		Passed:    false,
		Message:   "Tests failed (pytest)",
		Timestamp: time.Now().UTC(),
	}))

	reloaded := NewStore(dir).Load("abc123")
	rec := reloaded.Record()

	assert.Equal(t, 1, rec.Attempts)
	require.Len(t, rec.FilesWritten, 1)
	assert.Equal(t, "/tmp/foo.py", rec.FilesWritten[0].Path)
	require.Len(t, rec.CommandsRun, 1)
	assert.True(t, rec.CommandsRun[0].IsTest)
	require.Len(t, rec.Verifications, 1)
	assert.Equal(t, model.ClaimTestsPass, rec.Verifications[0].Kind)
}

func TestSession_ActivateRelease(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	sess := store.Load("abc123")
	require.NoError(t, sess.Activate())

	// The flag is durable: a second process sees it.
	other := NewStore(dir).Load("abc123")
	assert.True(t, other.HookActive())
	assert.ErrorIs(t, other.Activate(), ErrActive)

	require.NoError(t, sess.Release())
	assert.NoError(t, NewStore(dir).Load("abc123").Activate())
}

func TestLoad_CorruptRecordStartsFresh(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	sess := store.Load("abc123")
	_, err := sess.IncrementAttempts()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.path("abc123"), []byte("{not json"), 0o644))

	fresh := NewStore(dir).Load("abc123")
	assert.Zero(t, fresh.Attempts())
	assert.Equal(t, "abc123", fresh.Record().SessionID)
}

func TestLoad_DefaultsOlderSchema(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(store.path("old"), []byte(`{"verification_count": 2}`), 0o644))

	sess := store.Load("old")
	rec := sess.Record()
	assert.Equal(t, 2, rec.Attempts)
	assert.Equal(t, SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "old", rec.SessionID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestPath_SanitizesSessionID(t *testing.T) {
	store := NewStore("/state")

	path := store.path("../../etc/passwd")
	assert.Equal(t, "/state", filepath.Dir(path))
	assert.NotContains(t, filepath.Base(path), "/")
}

func TestStore_Cleanup(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Load("old").Release())
	require.NoError(t, store.Load("new").Release())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("keep"), 0o644))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.path("old"), stale, stale))

	removed, err := store.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	ids, err := store.Sessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)

	_, err = os.Stat(filepath.Join(dir, "unrelated.txt"))
	assert.NoError(t, err)
}

func TestStore_CleanupMissingDir(t *testing.T) {
	removed, err := NewStore(filepath.Join(t.TempDir(), "absent")).Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSession_WasFileWritten(t *testing.T) {
	sess := NewStore(t.TempDir()).Load("abc123")
	require.NoError(t, sess.AddFileWritten("/project/src/app.py", "Write"))

	assert.True(t, sess.WasFileWritten("/project/src/app.py"))
	assert.True(t, sess.WasFileWritten("/project/src/../src/app.py"))
	assert.False(t, sess.WasFileWritten("/project/src/other.py"))
}

func TestSession_LastCommandOutcomes(t *testing.T) {
	sess := NewStore(t.TempDir()).Load("abc123")

	assert.Nil(t, sess.LastTestPassed())
	assert.Nil(t, sess.LastLintPassed())
	assert.Nil(t, sess.LastBuildPassed())

	require.NoError(t, sess.AddCommandRun("pytest", 1, true, false, false))
	require.NoError(t, sess.AddCommandRun("pytest", 0, true, false, false))
	require.NoError(t, sess.AddCommandRun("make", 2, false, false, true))

	require.NotNil(t, sess.LastTestPassed())
	assert.True(t, *sess.LastTestPassed())
	require.NotNil(t, sess.LastBuildPassed())
	assert.False(t, *sess.LastBuildPassed())
	assert.Nil(t, sess.LastLintPassed())
}
