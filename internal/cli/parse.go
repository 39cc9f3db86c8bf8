package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimcheck/claimcheck/internal/claims"
)

var (
	parseThreshold float64
	parsePaths     bool
)

// parseCmd runs the claim recognizer standalone, for auditing and
// benchmarking the pattern table without a live hook invocation.
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract claims from a text file or stdin",
	Long: `Parse runs the claim recognizer over a text file (or stdin when no
file is given) and prints the extracted claims as JSON.

Example:
  claimcheck parse response.txt
  echo "All tests pass now." | claimcheck parse
  claimcheck parse --threshold 0.9 response.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Float64Var(&parseThreshold, "threshold", 0.7, "minimum claim confidence")
	parseCmd.Flags().BoolVar(&parsePaths, "paths", false, "also list file paths mentioned in the text")
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	text := string(data)
	extracted := claims.NewRecognizer().Parse(text, parseThreshold)

	output := map[string]any{
		"claims":  extracted,
		"summary": claims.Summary(extracted),
	}
	if parsePaths {
		output["file_paths"] = claims.ExtractFilePaths(text)
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal claims: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
