// Package state persists per-session verification state across hook
// invocations. One JSON record per session id lives in the state directory;
// every mutation writes through immediately so state survives the
// process-per-invocation execution model.
//
// A session's record is owned by that session's sequential invocations. The
// host serializes invocations per session, so no file locking is used; the
// durable re-entrancy flag guards the one degenerate case where verification
// recursively triggers itself.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/claimcheck/claimcheck/internal/model"
)

const (
	// SchemaVersion is stamped into every record. Older records load with
	// missing fields defaulted; the version gives future migrations an
	// anchor.
	SchemaVersion = 1

	filePrefix = "session_"
	fileSuffix = ".json"
)

// FileWrite records one file written by the assistant during the session
type FileWrite struct {
	Path      string    `json:"path"`
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandRun records one command the assistant executed
type CommandRun struct {
	Command   string    `json:"command"`
	ExitCode  int       `json:"exit_code"`
	IsTest    bool      `json:"is_test"`
	IsLint    bool      `json:"is_lint"`
	IsBuild   bool      `json:"is_build"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the durable per-session state
type Record struct {
	SchemaVersion int                  `json:"schema_version"`
	SessionID     string               `json:"session_id"`
	CreatedAt     time.Time            `json:"created_at"`
	HookActive    bool                 `json:"stop_hook_active"`
	Attempts      int                  `json:"verification_count"`
	FilesWritten  []FileWrite          `json:"files_written"`
	CommandsRun   []CommandRun         `json:"commands_run"`
	Verifications []model.Verification `json:"verification_results"`
}

// Store addresses session records in a well-known directory
type Store struct {
	dir string
}

// DefaultDir returns the state directory: $CLAIMCHECK_STATE_DIR if set, else
// ~/.claimcheck.
func DefaultDir() string {
	if dir := os.Getenv("CLAIMCHECK_STATE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claimcheck"
	}
	return filepath.Join(home, ".claimcheck")
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory
func (s *Store) Dir() string {
	return s.dir
}

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// path maps a session id to its record file, replacing any character that
// could escape the state directory.
func (s *Store) path(sessionID string) string {
	safe := unsafeIDChars.ReplaceAllString(sessionID, "_")
	return filepath.Join(s.dir, filePrefix+safe+fileSuffix)
}

// Load returns the session for an id, reading its record from disk if
// present. A missing or corrupt record is treated as absent: the session
// starts fresh rather than failing.
func (s *Store) Load(sessionID string) *Session {
	sess := &Session{
		store: s,
		rec: Record{
			SchemaVersion: SchemaVersion,
			SessionID:     sessionID,
			CreatedAt:     time.Now().UTC(),
		},
	}

	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return sess
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return sess
	}

	// Default fields older schema versions don't carry.
	if rec.SchemaVersion == 0 {
		rec.SchemaVersion = SchemaVersion
	}
	if rec.SessionID == "" {
		rec.SessionID = sessionID
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	sess.rec = rec
	return sess
}

// Cleanup removes session records older than maxAge, returning how many were
// removed. Unreadable entries are skipped, not fatal.
func (s *Store) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read state dir: %w", err)
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.dir, name)) == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// Sessions lists the session ids with a record on disk
func (s *Store) Sessions() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		}
	}
	return ids, nil
}

// ErrActive is returned by Activate when the re-entrancy flag is already set
var ErrActive = errors.New("verification already active for session")

// Session is the mutable handle for one session's record. Mutations persist
// immediately.
type Session struct {
	store *Store
	rec   Record
}

// Record returns a copy of the current record
func (s *Session) Record() Record {
	return s.rec
}

// HookActive reports whether a verification run is already in flight
func (s *Session) HookActive() bool {
	return s.rec.HookActive
}

// Activate sets the re-entrancy flag, failing with ErrActive if it is
// already set. Callers must pair a successful Activate with Release on every
// exit path.
func (s *Session) Activate() error {
	if s.rec.HookActive {
		return ErrActive
	}
	s.rec.HookActive = true
	return s.save()
}

// Release clears the re-entrancy flag unconditionally
func (s *Session) Release() error {
	s.rec.HookActive = false
	return s.save()
}

// Attempts returns the verification attempt counter
func (s *Session) Attempts() int {
	return s.rec.Attempts
}

// IncrementAttempts bumps the attempt counter and returns the new value
func (s *Session) IncrementAttempts() (int, error) {
	s.rec.Attempts++
	return s.rec.Attempts, s.save()
}

// AddFileWritten appends to the file-written log
func (s *Session) AddFileWritten(path, tool string) error {
	s.rec.FilesWritten = append(s.rec.FilesWritten, FileWrite{
		Path:      path,
		Tool:      tool,
		Timestamp: time.Now().UTC(),
	})
	return s.save()
}

// AddCommandRun appends to the command log
func (s *Session) AddCommandRun(command string, exitCode int, isTest, isLint, isBuild bool) error {
	s.rec.CommandsRun = append(s.rec.CommandsRun, CommandRun{
		Command:   command,
		ExitCode:  exitCode,
		IsTest:    isTest,
		IsLint:    isLint,
		IsBuild:   isBuild,
		Timestamp: time.Now().UTC(),
	})
	return s.save()
}

// AddVerification appends to the verification outcome log
func (s *Session) AddVerification(v model.Verification) error {
	s.rec.Verifications = append(s.rec.Verifications, v)
	return s.save()
}

// WasFileWritten reports whether a path was written this session
func (s *Session) WasFileWritten(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, fw := range s.rec.FilesWritten {
		recorded, err := filepath.Abs(fw.Path)
		if err != nil {
			recorded = fw.Path
		}
		if recorded == abs {
			return true
		}
	}
	return false
}

// LastTestPassed reports whether the most recent test command exited zero,
// or nil when no test command was recorded.
func (s *Session) LastTestPassed() *bool {
	return s.lastCommandPassed(func(c CommandRun) bool { return c.IsTest })
}

// LastLintPassed reports whether the most recent lint command exited zero,
// or nil when none was recorded.
func (s *Session) LastLintPassed() *bool {
	return s.lastCommandPassed(func(c CommandRun) bool { return c.IsLint })
}

// LastBuildPassed reports whether the most recent build command exited zero,
// or nil when none was recorded.
func (s *Session) LastBuildPassed() *bool {
	return s.lastCommandPassed(func(c CommandRun) bool { return c.IsBuild })
}

func (s *Session) lastCommandPassed(match func(CommandRun) bool) *bool {
	for i := len(s.rec.CommandsRun) - 1; i >= 0; i-- {
		if match(s.rec.CommandsRun[i]) {
			passed := s.rec.CommandsRun[i].ExitCode == 0
			return &passed
		}
	}
	return nil
}

// save writes the record through to disk
func (s *Session) save() error {
	if err := os.MkdirAll(s.store.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	if err := os.WriteFile(s.store.path(s.rec.SessionID), data, 0o644); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}
