// Package ingest applies parse trees to an argument graph.
//
// Every block is applied to a clone of the graph. The clone replaces the
// caller's graph only when the whole block was applied and inference ran;
// otherwise the original graph is returned next to the error.
package ingest

import (
	"log/slog"
	"strings"

	"github.com/ppiankov/argmap/internal/extract"
	"github.com/ppiankov/argmap/internal/graph"
	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/parse"
)

// Placeholder label stems for anonymous mentions
const (
	UnnamedArgument    = "UNNAMED_ARGUMENT"
	UnnamedProposition = "UNNAMED_PROPOSITION"
)

// Option configures an Ingester
type Option func(*Ingester)

// WithLogger sets the logger for rejected blocks and skipped arguments
func WithLogger(logger *slog.Logger) Option {
	return func(in *Ingester) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// Ingester applies map and argument trees transactionally
type Ingester struct {
	logger *slog.Logger
}

// New creates an ingester
func New(opts ...Option) *Ingester {
	in := &Ingester{logger: slog.Default()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Map applies a map tree. On error g is returned unchanged.
func (in *Ingester) Map(g graph.Argdown, tree *parse.MapTree) (graph.Argdown, error) {
	return in.apply(g, model.BlockMap, func(work graph.Argdown) error {
		return (&mapTransformer{g: work}).transform(tree)
	})
}

// Argument applies an argument tree. On error g is returned unchanged.
func (in *Ingester) Argument(g graph.Argdown, tree *parse.ArgumentTree) (graph.Argdown, error) {
	return in.apply(g, model.BlockArgument, func(work graph.Argdown) error {
		return newArgumentTransformer(work, in.logger).transform(tree)
	})
}

func (in *Ingester) apply(g graph.Argdown, kind model.BlockKind, fn func(graph.Argdown) error) (graph.Argdown, error) {
	work := g.Clone()
	if err := fn(work); err != nil {
		in.logger.Error("block rejected, keeping previous graph", "kind", kind, "error", err)
		return g, err
	}
	work.Infer()
	return work, nil
}

// register adds or merges the node a reason mentions and returns its label
func register(g graph.Argdown, r parse.Reason) (string, error) {
	text, data := extract.Metadata(r.Text)
	var texts []string
	if text = strings.TrimSpace(text); text != "" {
		texts = []string{text}
	}

	if r.Kind == parse.ReasonArgument {
		err := g.AddArgument(model.Argument{Label: r.Label, Gists: texts, Data: data}, graph.WithAllowExists(true))
		return r.Label, err
	}

	label := r.Label
	if label == "" {
		label = g.MakeLabelUnique(UnnamedProposition)
	}
	err := g.AddProposition(model.Proposition{Label: label, Texts: texts, Data: data}, graph.WithAllowExists(true))
	return label, err
}

// orient resolves a marker between a reason and its anchor
func orient(marker parse.RelationMarker, reason, anchor string) model.Relation {
	r := model.Relation{Source: anchor, Target: reason, Valence: marker.Valence()}
	if marker.FromChild() {
		r.Source, r.Target = reason, anchor
	}
	return r
}
