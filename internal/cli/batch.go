package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/argmap/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency   int
	outputDir     string
	batchTimeout  time.Duration
	sourceTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Build one graph per source listed in a file, in parallel",
	Long: `Batch processes many independent sources concurrently:
- Read sources from the input file (one path or URL per line, # for comments)
- Build a separate graph for each source on a worker pool
- Write one export file per source to the output directory

Example:
  argmap batch sources.txt
  argmap batch sources.txt --concurrency 10 --output-dir ./graphs
  argmap batch sources.txt --format yaml --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./argmap-graphs", "output directory for exports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&sourceTimeout, "source-timeout", time.Minute, "timeout for each source")
	batchCmd.Flags().StringVar(&outFormat, "format", "", "output format: json or yaml (default from config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&strict, "strict", false, "fail a source on its first rejected block")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, _, p, err := setupPipeline()
	if err != nil {
		return err
	}
	workers := cfg.Concurrency.Workers
	if cmd.Flags().Changed("concurrency") || workers <= 0 {
		workers = concurrency
	}
	format := cfg.Output.Format
	if outFormat != "" {
		format = outFormat
	}
	ext := "json"
	if format == "yaml" || format == "yml" {
		ext = "yaml"
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, workers, sourceTimeout)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		data, err := result.Result.Graph.Export().Encode(format)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, err)
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.%s", result.Index+1, sanitizeFilename(result.Source), ext))
		if err := os.WriteFile(path, data, 0644); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write export: %v\n", result.Source, err)
			continue
		}

		successCount++
		stats := result.Result.Graph.Stats()
		fmt.Fprintf(os.Stderr, "✓ %s (%d nodes, %d relations, %d blocks skipped, %v)\n",
			result.Source, stats.Propositions+stats.Arguments, stats.Relations,
			result.Result.Failed(), result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d sources failed", failureCount, len(results))
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a path or URL into a file name stem
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = strings.Trim(filenameReplacer.Replace(s), "._-")
	if s == "" {
		s = "source"
	}

	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
