package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimcheck/claimcheck/internal/state"
)

var cleanupDays int

// stateCmd groups session state inspection commands
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and maintain session state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's state record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := state.NewStore(state.DefaultDir())
		sess := store.Load(args[0])

		data, err := json.MarshalIndent(sess.Record(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal session record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions with a state record",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := state.NewStore(state.DefaultDir())
		ids, err := store.Sessions()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var stateCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove session records older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := state.NewStore(state.DefaultDir())
		removed, err := store.Cleanup(time.Duration(cleanupDays) * 24 * time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session record(s)\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateListCmd)
	stateCmd.AddCommand(stateCleanupCmd)

	stateCleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "remove records older than this many days")
}
