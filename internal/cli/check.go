package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/argmap/internal/model"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <source>...",
	Short: "Report syntax errors in Argdown sources",
	Long: `Check parses every source and prints one diagnostic per rejected block,
with the error category, position and context. It exits non-zero when any
block was rejected.

Example:
  argmap check debate.argdown notes.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "overall timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	_, _, p, err := setupPipeline()
	if err != nil {
		return err
	}

	result, err := p.ParseSources(ctx, args...)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range result.Reports {
		writeDiagnostics(out, r)
	}

	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d block(s) rejected", failed)
	}
	return nil
}

// writeDiagnostics prints the rejected blocks of one report, or a summary
// line when every block was ingested
func writeDiagnostics(w io.Writer, r *model.Report) {
	if r.Failed() == 0 {
		fmt.Fprintf(w, "✓ %s: %d blocks ok\n", r.Source, len(r.Blocks))
		return
	}
	for _, b := range r.Blocks {
		if b.OK() {
			continue
		}
		category := b.Category
		if category == "" {
			category = "syntax"
		}
		fmt.Fprintf(w, "✗ %s:%d: %s block [%s]\n", r.Source, b.Line, b.Kind, category)
		for _, line := range strings.Split(strings.TrimRight(b.Error, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
