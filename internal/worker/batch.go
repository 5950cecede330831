package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/argmap/internal/pipeline"
)

// Runner builds a graph from sources
type Runner interface {
	ParseSources(ctx context.Context, sources ...string) (*pipeline.Result, error)
}

// SourceJob builds the graph of a single source
type SourceJob struct {
	Index   int
	Source  string
	Runner  Runner
	Timeout time.Duration // Zero means no per-source deadline
}

// Execute runs the job
func (j *SourceJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := j.Runner.ParseSources(ctx, j.Source)
	out := &SourceResult{
		Index:    j.Index,
		Source:   j.Source,
		Duration: time.Since(start),
		Error:    err,
	}
	if err == nil {
		out.Result = result
	}
	return out
}

// SourceResult is the outcome of one source
type SourceResult struct {
	Index    int
	Source   string
	Result   *pipeline.Result // nil on error
	Duration time.Duration
	Error    error
}

// GetError returns the error of the source
func (r *SourceResult) GetError() error {
	return r.Error
}

// BatchProcessor builds one independent graph per source concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a batch processor. timeout bounds each source.
func NewBatchProcessor(runner Runner, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Process handles sources concurrently and returns results in input order
func (b *BatchProcessor) Process(ctx context.Context, sources []string) []*SourceResult {
	if len(sources) == 0 {
		return []*SourceResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, src := range sources {
		if !pool.Submit(&SourceJob{Index: i, Source: src, Runner: b.runner, Timeout: b.timeout}) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*SourceResult, len(results))
	for i, r := range results {
		out[i] = r.(*SourceResult)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads sources from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*SourceResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.Process(ctx, sources), nil
}

// ReadSourcesFromFile reads one source (path or URL) per line, skipping
// blank lines, "#" comments and duplicates
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
