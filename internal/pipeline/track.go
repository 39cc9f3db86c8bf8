package pipeline

import (
	"go.uber.org/zap"

	"github.com/claimcheck/claimcheck/internal/detect"
	"github.com/claimcheck/claimcheck/internal/hook"
	"github.com/claimcheck/claimcheck/internal/state"
)

// Tracker appends tool-use records to session state so later verification
// passes can consult what actually happened during the turn.
type Tracker struct {
	log   *zap.Logger
	store *state.Store
}

// NewTracker creates a tracker backed by the given store
func NewTracker(log *zap.Logger, store *state.Store) *Tracker {
	return &Tracker{log: log, store: store}
}

// Record handles one tool-use event. Tracking must never block a tool, so
// every failure is logged and swallowed.
func (t *Tracker) Record(in hook.Input) {
	sess := t.store.Load(in.SessionID)

	switch in.ToolName {
	case "Write", "Edit":
		path := in.FilePath()
		if path == "" {
			return
		}
		if err := sess.AddFileWritten(path, in.ToolName); err != nil {
			t.log.Error("failed to track file write", zap.Error(err))
			return
		}
		t.log.Debug("tracked file write", zap.String("path", path))

	case "Bash":
		command := in.Command()
		if command == "" {
			return
		}
		if err := sess.AddCommandRun(
			command,
			in.ExitCode(),
			detect.IsTestCommand(command),
			detect.IsLintCommand(command),
			detect.IsBuildCommand(command),
		); err != nil {
			t.log.Error("failed to track command", zap.Error(err))
			return
		}
		t.log.Debug("tracked command", zap.String("command", truncate(command, 50)))
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
