package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ppiankov/argmap/internal/cache"
	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/pipeline"
	"github.com/ppiankov/argmap/internal/worker"
	"github.com/spf13/cobra"
)

const defaultTimeout = 2 * time.Minute

var (
	outFormat string
	outPath   string
	timeout   time.Duration
	noCache   bool
	strict    bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <source>...",
	Short: "Build one argument graph from Argdown sources",
	Long: `Parse ingests every source, in order, into a single argument graph and
prints the graph export.

Sources are files (.argdown, .ad, .md, .html), URLs or "-" for stdin.
Blocks that fail to parse are skipped and reported unless --strict is set.

Example:
  argmap parse debate.argdown
  argmap parse notes.md https://example.org/map.argdown --format yaml
  cat map.argdown | argmap parse - --out graph.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&outFormat, "format", "", "output format: json or yaml (default from config)")
	parseCmd.Flags().StringVar(&outPath, "out", "", "write the export to a file instead of stdout")
	addSourceFlags(parseCmd)
}

// addSourceFlags registers the flags shared by commands that read sources
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "overall timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on the first rejected block")
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, logger, p, err := setupPipeline()
	if err != nil {
		return err
	}

	result, err := p.ParseSources(ctx, args...)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	for _, r := range result.Reports {
		for _, b := range r.Blocks {
			if !b.OK() {
				logger.Warn("block skipped", "source", r.Source, "line", b.Line, "category", b.Category)
			}
		}
	}

	format := cfg.Output.Format
	if outFormat != "" {
		format = outFormat
	}
	data, err := result.Graph.Export().Encode(format)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	stats := result.Graph.Stats()
	fmt.Fprintf(os.Stderr, "✓ %s: %d propositions, %d arguments, %d relations\n",
		outPath, stats.Propositions, stats.Arguments, stats.Relations)
	return nil
}

// setupPipeline builds a pipeline from the effective configuration and the
// source flags
func setupPipeline() (model.Config, *slog.Logger, *pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, nil, err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if strict {
		cfg.Parser.Strict = true
	}
	logger := newLogger(cfg)

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithRateLimiter(worker.NewLimiterFromConfig(cfg.RateLimiting)),
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Warn("cache disabled", "error", err)
	} else if c != nil {
		opts = append(opts, pipeline.WithCache(c))
	}

	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		return cfg, logger, nil, err
	}
	return cfg, logger, p, nil
}
