package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/argmap/internal/graph"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <export.json>...",
	Short: "Summarize graph exports written by parse or batch",
	Long: `Stats reads JSON graph exports and prints their node and relation counts.

Example:
  argmap parse debate.argdown --out debate.json
  argmap stats debate.json argmap-graphs/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := writeStats(cmd.OutOrStdout(), path); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func writeStats(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	doc, err := graph.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s := doc.Stats()
	fmt.Fprintf(w, "%s: %d propositions, %d arguments, %d relations (%d grounded)\n",
		path, s.Propositions, s.Arguments, s.Relations, s.Grounded)
	return nil
}
