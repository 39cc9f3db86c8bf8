package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimcheck/claimcheck/internal/hook"
	"github.com/claimcheck/claimcheck/internal/logging"
	"github.com/claimcheck/claimcheck/internal/pipeline"
	"github.com/claimcheck/claimcheck/internal/state"
)

// trackCmd is the PostToolUse entry point
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track file writes and command runs (PostToolUse hook)",
	Long: `Track reads one hook input object from stdin (session_id, tool_name,
tool_input, tool_output) and appends file-written or command-run records to
the session's state. Commands are classified as test, lint, or build by
pattern. Tracking always exits 0 and never blocks a tool.`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	in := hook.ReadInput(cmd.InOrStdin())
	if in.SessionID == "" || in.ToolName == "" {
		return nil
	}

	stateDir := state.DefaultDir()
	log := logging.New(verbose, stateDir)
	defer func() { _ = log.Sync() }()

	tracker := pipeline.NewTracker(log, state.NewStore(stateDir))
	tracker.Record(in)

	return nil
}
