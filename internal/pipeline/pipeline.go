// Package pipeline ingests Argdown documents into one argument graph.
//
// A document is stripped of comments, segmented into map and argument
// blocks, normalized, parsed and ingested block by block. A rejected
// block is reported and skipped; the graph keeps every block that was
// accepted before and after it, unless the pipeline runs strict.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/argmap/internal/cache"
	"github.com/ppiankov/argmap/internal/extract"
	"github.com/ppiankov/argmap/internal/graph"
	"github.com/ppiankov/argmap/internal/ingest"
	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/parse"
	"github.com/ppiankov/argmap/internal/preprocess"
)

// ErrBlockRejected wraps the first block failure in strict mode
var ErrBlockRejected = errors.New("block rejected")

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger handed to every stage
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCache caches fetched remote documents
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithRateLimiter limits remote fetches per host
func WithRateLimiter(l RateLimiter) Option {
	return func(p *Pipeline) { p.limiter = l }
}

// WithStdin sets the reader behind the "-" source
func WithStdin(r io.Reader) Option {
	return func(p *Pipeline) { p.stdin = r }
}

// Pipeline orchestrates loading, parsing and ingestion
type Pipeline struct {
	cfg      model.Config
	parser   *parse.Parser
	ingester *ingest.Ingester
	chain    preprocess.Chain
	snippets *extract.SnippetExtractor
	fetcher  *Fetcher
	cache    cache.Cache
	limiter  RateLimiter
	stdin    io.Reader
	logger   *slog.Logger
}

// New creates a pipeline with the given configuration
func New(cfg model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:      cfg,
		chain:    preprocess.DefaultChain(),
		snippets: extract.NewSnippetExtractor(),
		stdin:    os.Stdin,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.parser = parse.New(parse.WithTabWidth(cfg.Parser.TabWidth))
	p.ingester = ingest.New(ingest.WithLogger(p.logger))

	fetcher, err := NewFetcher(cfg.HTTP, p.limiter, p.logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	p.fetcher = fetcher
	return p, nil
}

// Result is the graph built from one or more documents, with one report
// per document
type Result struct {
	Graph   graph.Argdown
	Reports []*model.Report
}

// Failed returns the number of rejected blocks over all documents
func (r *Result) Failed() int {
	n := 0
	for _, rep := range r.Reports {
		n += rep.Failed()
	}
	return n
}

func (p *Pipeline) newGraph() graph.Argdown {
	return graph.New(graph.WithLogger(p.logger))
}

// Parse ingests raw Argdown texts, in order, into a fresh graph
func (p *Pipeline) Parse(ctx context.Context, texts ...string) (*Result, error) {
	res := &Result{Graph: p.newGraph()}
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		report := &model.Report{Source: fmt.Sprintf("text[%d]", i), FetchedAt: time.Now().UTC()}
		res.Reports = append(res.Reports, report)

		var err error
		res.Graph, err = p.ingestText(res.Graph, text, 0, report)
		report.Stats = res.Graph.Stats()
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// ParseSources loads files, URLs or "-" (stdin) and ingests them, in
// order, into a fresh graph
func (p *Pipeline) ParseSources(ctx context.Context, sources ...string) (*Result, error) {
	res := &Result{Graph: p.newGraph()}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		doc, err := p.load(ctx, src)
		if err != nil {
			return res, fmt.Errorf("load %s: %w", src, err)
		}
		report := &model.Report{
			Source:    src,
			FetchedAt: doc.fetchedAt,
			FetchMeta: doc.meta,
			Cached:    doc.cached,
		}
		res.Reports = append(res.Reports, report)

		snippets, err := p.snippets.Extract(doc.body, doc.format)
		if err != nil {
			return res, fmt.Errorf("extract %s: %w", src, err)
		}
		if len(snippets) == 0 {
			p.logger.Warn("no argdown found", "source", src, "format", doc.format)
		}
		for _, sn := range snippets {
			res.Graph, err = p.ingestText(res.Graph, sn.Text, max(sn.Line-1, 0), report)
			if err != nil {
				report.Stats = res.Graph.Stats()
				return res, err
			}
		}
		report.Stats = res.Graph.Stats()
	}
	return res, nil
}

// ingestText ingests every block of text. lineOffset shifts block lines
// into the host document.
func (p *Pipeline) ingestText(g graph.Argdown, text string, lineOffset int, report *model.Report) (graph.Argdown, error) {
	for _, b := range preprocess.SplitBlocks(text) {
		b = p.chain.Process(b)
		if strings.TrimSpace(b.Text) == "" {
			continue
		}

		br := model.BlockReport{Index: len(report.Blocks), Kind: b.Kind, Line: b.Line + lineOffset}
		var err error
		g, err = p.ingestBlock(g, b)
		if err != nil {
			br.Error = err.Error()
			var serr *parse.SyntaxError
			if errors.As(err, &serr) && serr.Category != nil {
				br.Category = serr.Category.Name
			}
			p.logger.Debug("block rejected", "source", report.Source, "line", br.Line, "kind", b.Kind, "error", err)
		}
		report.Blocks = append(report.Blocks, br)

		if err != nil && p.cfg.Parser.Strict {
			return g, fmt.Errorf("%s: block at line %d: %w: %w", report.Source, br.Line, ErrBlockRejected, err)
		}
	}
	return g, nil
}

func (p *Pipeline) ingestBlock(g graph.Argdown, b preprocess.Block) (graph.Argdown, error) {
	if b.Kind == model.BlockArgument {
		tree, err := p.parser.Argument(b.Text)
		if err != nil {
			return g, err
		}
		return p.ingester.Argument(g, tree)
	}
	tree, err := p.parser.Map(b.Text)
	if err != nil {
		return g, err
	}
	return p.ingester.Map(g, tree)
}

type document struct {
	body      string
	format    extract.Format
	meta      *model.FetchMeta
	fetchedAt time.Time
	cached    bool
}

func (p *Pipeline) load(ctx context.Context, src string) (*document, error) {
	switch {
	case src == "-":
		body, err := io.ReadAll(p.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &document{body: string(body), format: extract.FormatAuto, fetchedAt: time.Now().UTC()}, nil

	case IsURL(src):
		return p.fetch(ctx, src)

	default:
		body, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		return &document{body: string(body), format: formatFromPath(src), fetchedAt: time.Now().UTC()}, nil
	}
}

// fetch reads a remote document through the cache
func (p *Pipeline) fetch(ctx context.Context, rawURL string) (*document, error) {
	key := cache.Key(rawURL)
	if p.cache != nil {
		if raw, ok := p.cache.Get(key); ok {
			var hit FetchResult
			if err := json.Unmarshal(raw, &hit); err == nil {
				p.logger.Debug("cache hit", "url", rawURL)
				return fetchedDocument(&hit, true), nil
			}
			if err := p.cache.Delete(key); err != nil {
				p.logger.Debug("cache evict failed", "url", rawURL, "error", err)
			}
		}
	}

	res, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		raw, err := json.Marshal(res)
		if err == nil {
			err = p.cache.Set(key, raw, 0)
		}
		if err != nil {
			p.logger.Warn("cache write failed", "url", rawURL, "error", err)
		}
	}
	return fetchedDocument(res, false), nil
}

func fetchedDocument(res *FetchResult, cached bool) *document {
	meta := res.Meta
	return &document{
		body:      res.Body,
		format:    formatFromContentType(meta.ContentType, res.FinalURL),
		meta:      &meta,
		fetchedAt: time.Now().UTC(),
		cached:    cached,
	}
}

// IsURL reports whether src names an http(s) resource
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func formatFromPath(path string) extract.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return extract.FormatMarkdown
	case ".html", ".htm":
		return extract.FormatHTML
	case ".argdown", ".ad":
		return extract.FormatRaw
	default:
		return extract.FormatAuto
	}
}

func formatFromContentType(contentType, finalURL string) extract.Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "html"):
		return extract.FormatHTML
	case strings.Contains(ct, "markdown"):
		return extract.FormatMarkdown
	}
	return formatFromPath(strings.SplitN(finalURL, "?", 2)[0])
}
