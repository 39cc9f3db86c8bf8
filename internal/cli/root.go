package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimcheck",
	Short: "Claimcheck - independent verification of assistant claims",
	Long: `Claimcheck inspects an AI coding assistant's recent output, extracts
assertions such as "I created file X" or "tests now pass", and re-checks each
assertion against the real filesystem, version-control state, and build/test/
lint exit codes before the assistant may end its turn.

Claim detection is a fixed, auditable table of patterns with confidence
weights, not a learned classifier. Verification fails open: a broken check
never blocks completion, only contradicting evidence does.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimcheck v0.2.1")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(versionCmd)
}
