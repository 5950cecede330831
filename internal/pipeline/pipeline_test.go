package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/argmap/internal/cache"
	"github.com/ppiankov/argmap/internal/graph"
	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s ...string) string { return strings.Join(s, "\n") }

var (
	snippetClaims = lines(
		"[Claim A]",
		"  + <Reason 1>",
		"  - <Reason 2>",
		"",
		"[Claim B]",
		"  + <Reason 3>",
		"  - <Reason 4>",
		"",
		"<Reason 4>",
		"",
		"(1) Premise 1.",
		"-----",
		"(2) Conclusion.",
		">< [Claim B]",
	)

	snippetReasons = lines(
		"<Reason 3>",
		"  <- <Reason 5>",
		"  -> <Reason 6>",
		"",
		"<Reason 3>",
		"",
	)

	snippetMetadata = lines(
		"[A]",
		`  + <Reason 1>: {"a": 1}`,
		"",
		`<Reason 1>: {"b": 2}`,
		"",
		"<Arg>",
		"",
		"(1) P.",
		"-----",
		"(2) Q.",
		`+ <Reason 1>: {"a": 2, "c": 3}`,
	)

	snippetAnonymous = lines(
		"[Claim A]",
		"  + <Reason 1>",
		"  - Reason 2",
		"",
		"Claim B",
	)

	snippetInference = lines(
		"<Argument>",
		"",
		"(1) Premise.",
		"    <+ Reason.",
		`-- {uses: ["1"]} --`,
		"(2) Conclusion.",
		"",
		"<Argument2>",
		"",
		"(1) Premise.",
		"    <+ Reason.",
		"-- {uses: [1, 2]} --",
		"(2) Conclusion.",
	)

	freeWill = lines(
		"[Free Will_C]: Humans have free will.",
		"[Determinism_C]: All events are determined by prior causes.",
		"[Compatibilism_C]: Free will and determinism are compatible.",
		"",
		"<FreeWill>",
		"    + [Free Will_C]",
		"<Determinism>",
		"    + [Determinism_C]",
		"    -> [Free Will_C]",
		"<Compatibilism>",
		"    + [Compatibilism_C]",
		"    +> [Free Will_C]",
		"    -> [Determinism_C]",
	)
)

func testConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.RespectRobots = false
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func newTestPipeline(t *testing.T, cfg model.Config, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func parseTexts(t *testing.T, texts ...string) *Result {
	t.Helper()
	res, err := newTestPipeline(t, testConfig()).Parse(context.Background(), texts...)
	require.NoError(t, err)
	return res
}

func labels(g graph.Argdown) []string {
	var out []string
	for _, p := range g.Propositions() {
		out = append(out, "["+p.Label+"]")
	}
	for _, a := range g.Arguments() {
		out = append(out, "<"+a.Label+">")
	}
	return out
}

func TestParse_FreeWill(t *testing.T) {
	res := parseTexts(t, freeWill)
	stats := res.Graph.Stats()
	assert.Equal(t, 3, stats.Propositions)
	assert.Equal(t, 3, stats.Arguments)
	assert.Zero(t, res.Failed())

	_, ok := res.Graph.Relation("Compatibilism", "Free Will_C", model.Support)
	assert.True(t, ok)
	_, ok = res.Graph.Relation("Determinism", "Free Will_C", model.Attack)
	assert.True(t, ok)
}

func TestParse_GroundsSketchedAttack(t *testing.T) {
	res := parseTexts(t, snippetClaims)
	g := res.Graph

	stats := g.Stats()
	assert.Equal(t, 4, stats.Propositions)
	assert.Equal(t, 4, stats.Arguments)
	for _, p := range g.Propositions() {
		assert.False(t, strings.HasPrefix(p.Label, "UNNAMED"), p.Label)
	}

	rels := g.RelationsBetween("Reason 4", "Claim B")
	require.Len(t, rels, 1)
	assert.Equal(t, model.Attack, rels[0].Valence)
	assert.Equal(t, model.Dialectics(model.Sketched, model.Grounded), rels[0].Dialectics)

	arg, ok := g.Argument("Reason 4")
	require.True(t, ok)
	for _, entry := range arg.PCS {
		assert.True(t, strings.HasPrefix(entry.PropositionLabel, "Reason_4"), entry.PropositionLabel)
	}

	kinds := make([]model.BlockKind, 0, len(res.Reports[0].Blocks))
	for _, b := range res.Reports[0].Blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []model.BlockKind{model.BlockMap, model.BlockMap, model.BlockArgument}, kinds)
}

func TestParse_MultipleTexts(t *testing.T) {
	res := parseTexts(t, snippetReasons)
	stats := res.Graph.Stats()
	assert.Equal(t, 0, stats.Propositions)
	assert.Equal(t, 3, stats.Arguments)

	res = parseTexts(t, snippetClaims, snippetReasons)
	stats = res.Graph.Stats()
	assert.Equal(t, 4, stats.Propositions)
	assert.Equal(t, 6, stats.Arguments)
	require.Len(t, res.Reports, 2)
	assert.Equal(t, "text[1]", res.Reports[1].Source)
	assert.Equal(t, stats, res.Reports[1].Stats)
}

func TestParse_MergesMetadata(t *testing.T) {
	res := parseTexts(t, snippetMetadata)
	assert.Len(t, res.Graph.Arguments(), 2)

	arg, ok := res.Graph.Argument("Reason 1")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 2, "b": 2, "c": 3}, arg.Data)
}

func TestParse_AnonymousPropositions(t *testing.T) {
	res := parseTexts(t, snippetAnonymous)
	stats := res.Graph.Stats()
	assert.Equal(t, 3, stats.Propositions)
	assert.Equal(t, 1, stats.Arguments)

	unnamed := 0
	for _, p := range res.Graph.Propositions() {
		if strings.HasPrefix(p.Label, "UNNAMED_PROPOSITION") {
			unnamed++
		}
	}
	assert.Equal(t, 2, unnamed)
}

func TestParse_InferenceData(t *testing.T) {
	res := parseTexts(t, snippetInference)
	args := res.Graph.Arguments()
	require.Len(t, args, 2)

	want := map[string][]any{
		"Argument":  {"1"},
		"Argument2": {1, 2},
	}
	for _, a := range args {
		require.Len(t, a.PCS, 2, a.Label)
		c := a.PCS[1]
		require.True(t, c.IsConclusion())
		assert.Equal(t, want[a.Label], c.InferenceData["uses"], a.Label)
	}
}

func TestParse_CommentsDoNotMatter(t *testing.T) {
	withComment := lines("", "// comment comment :-)", "", snippetReasons)

	plain := parseTexts(t, snippetReasons)
	commented := parseTexts(t, withComment)
	if diff := cmp.Diff(labels(plain.Graph), labels(commented.Graph)); diff != "" {
		t.Errorf("node sets differ (-plain +commented):\n%s", diff)
	}
}

func TestParse_RejectedBlockIsReported(t *testing.T) {
	doc := lines(
		"[C]: Claim.",
		"  + [R]: Reason.",
		"",
		"<Broken>",
		"",
		"(1) Premise.",
		"(2) Premise.",
		"--",
		"(3) Conclusion.",
		"",
		"[D]: Another claim.",
	)

	res := parseTexts(t, doc)
	assert.True(t, res.Graph.Has("C"))
	assert.True(t, res.Graph.Has("D"))
	assert.False(t, res.Graph.Has("Broken"))

	blocks := res.Reports[0].Blocks
	require.Len(t, blocks, 3)
	assert.True(t, blocks[0].OK())
	assert.False(t, blocks[1].OK())
	assert.Equal(t, model.BlockArgument, blocks[1].Kind)
	assert.Equal(t, parse.InvalidInferenceLine.Name, blocks[1].Category)
	assert.Equal(t, 4, blocks[1].Line)
	assert.Equal(t, 11, blocks[2].Line)
	assert.Equal(t, 1, res.Failed())
}

func TestParse_Strict(t *testing.T) {
	cfg := testConfig()
	cfg.Parser.Strict = true
	p := newTestPipeline(t, cfg)

	res, err := p.Parse(context.Background(), lines(
		"[C]: Claim.",
		"",
		"<A>",
		"",
		"(1) P.",
		"(2) P.",
		"--",
		"(3) Q.",
		"",
		"[D]",
	))
	require.ErrorIs(t, err, ErrBlockRejected)
	require.ErrorIs(t, err, parse.InvalidInferenceLine)
	assert.True(t, res.Graph.Has("C"))
	assert.False(t, res.Graph.Has("D"))
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestPipeline(t, testConfig()).Parse(ctx, "[C]")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSources_FilesAndStdin(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(md, []byte(lines(
		"# Notes",
		"",
		"Some prose.",
		"",
		"```argdown",
		"[C]: Claim.",
		"  + [R]: Reason.",
		"```",
	)), 0o644))
	raw := filepath.Join(dir, "map.argdown")
	require.NoError(t, os.WriteFile(raw, []byte("[C]: Claim restated.\n  - [O]: Objection."), 0o644))

	p := newTestPipeline(t, testConfig(), WithStdin(strings.NewReader("[O]\n  - [X]: Rebuttal.")))
	res, err := p.ParseSources(context.Background(), md, raw, "-")
	require.NoError(t, err)

	assert.Equal(t, 4, res.Graph.Stats().Propositions)
	c, _ := res.Graph.Proposition("C")
	assert.Equal(t, []string{"Claim.", "Claim restated."}, c.Texts)

	require.Len(t, res.Reports, 3)
	assert.Equal(t, 6, res.Reports[0].Blocks[0].Line, "block line is shifted into the host document")
	assert.Equal(t, "-", res.Reports[2].Source)
}

func TestParseSources_MissingFile(t *testing.T) {
	_, err := newTestPipeline(t, testConfig()).ParseSources(context.Background(), filepath.Join(t.TempDir(), "nope.argdown"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseSources_RemoteIsCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, `<html><body><p>intro</p><pre><code class="language-argdown">[C]: Claim.
  + [R]: Reason.</code></pre></body></html>`)
	}))
	defer server.Close()

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	p := newTestPipeline(t, testConfig(), WithCache(mem))
	url := server.URL + "/debate.html"

	res, err := p.ParseSources(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Graph.Stats().Propositions)
	assert.False(t, res.Reports[0].Cached)
	require.NotNil(t, res.Reports[0].FetchMeta)
	assert.Equal(t, http.StatusOK, res.Reports[0].FetchMeta.StatusCode)

	res, err = p.ParseSources(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, res.Reports[0].Cached)
	assert.Equal(t, 2, res.Graph.Stats().Propositions)
	assert.Equal(t, int32(1), hits.Load())
}

// brokenCache serves an undecodable entry and refuses to evict it
type brokenCache struct {
	deletes atomic.Int32
}

func (c *brokenCache) Get(string) ([]byte, bool) { return []byte("not json"), true }
func (c *brokenCache) Set(string, []byte, time.Duration) error { return nil }
func (c *brokenCache) Clear() error { return nil }
func (c *brokenCache) Delete(string) error {
	c.deletes.Add(1)
	return errors.New("read-only cache")
}

func TestParseSources_CorruptCacheEntryIsRefetched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "[C]: Claim.\n  + [R]: Reason.")
	}))
	defer server.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := &brokenCache{}
	p := newTestPipeline(t, testConfig(), WithCache(c), WithLogger(logger))

	res, err := p.ParseSources(context.Background(), server.URL+"/map.argdown")
	require.NoError(t, err)
	assert.False(t, res.Reports[0].Cached)
	assert.Equal(t, 2, res.Graph.Stats().Propositions)
	assert.Equal(t, int32(1), c.deletes.Load())
	assert.Contains(t, logs.String(), "cache evict failed")
	assert.Contains(t, logs.String(), "read-only cache")
}

func TestFormatDetection(t *testing.T) {
	assert.Equal(t, "markdown", string(formatFromPath("a/b/README.md")))
	assert.Equal(t, "html", string(formatFromPath("page.HTM")))
	assert.Equal(t, "raw", string(formatFromPath("map.argdown")))
	assert.Equal(t, "auto", string(formatFromPath("notes.txt")))
	assert.Equal(t, "html", string(formatFromContentType("text/html; charset=utf-8", "")))
	assert.Equal(t, "markdown", string(formatFromContentType("text/plain", "https://x.org/a.md?raw=1")))
	assert.True(t, IsURL("https://example.org"))
	assert.False(t, IsURL("map.argdown"))
}
