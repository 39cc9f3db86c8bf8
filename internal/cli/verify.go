package cli

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claimcheck/claimcheck/internal/config"
	"github.com/claimcheck/claimcheck/internal/hook"
	"github.com/claimcheck/claimcheck/internal/logging"
	"github.com/claimcheck/claimcheck/internal/pipeline"
	"github.com/claimcheck/claimcheck/internal/state"
)

// verifyCmd is the Stop-hook entry point
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify claims in recent assistant output (Stop hook)",
	Long: `Verify reads one hook input object from stdin (session_id,
transcript_path, cwd), extracts claims from the recent assistant messages,
and independently verifies each one. If verification fails it writes a
block decision to stdout; otherwise it emits nothing.

The exit code is always 0: failure to verify is signaled through the
decision object, never a process crash.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	in := hook.ReadInput(cmd.InOrStdin())

	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}
	if in.Cwd == "" {
		if cwd, err := os.Getwd(); err == nil {
			in.Cwd = cwd
		}
	}

	cfg, err := config.Load(in.Cwd)

	stateDir := state.DefaultDir()
	log := logging.New(cfg.Debug || verbose, stateDir)
	defer func() { _ = log.Sync() }()

	if err != nil {
		log.Warn("config load failed, using defaults", zap.Error(err))
	}

	store := state.NewStore(stateDir)
	p := pipeline.New(cfg, log, store)

	if decision := p.Run(in); decision != nil {
		if err := hook.WriteDecision(cmd.OutOrStdout(), *decision); err != nil {
			log.Error("failed to write decision", zap.Error(err))
		}
	}

	// Never surface an error: the hook contract is exit 0, decide via stdout.
	return nil
}
