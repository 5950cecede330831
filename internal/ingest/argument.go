package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/argmap/internal/extract"
	"github.com/ppiankov/argmap/internal/graph"
	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/parse"
)

var errDanglingReason = errors.New("embedded reason without preceding premise or conclusion")

type argumentTransformer struct {
	g      graph.Argdown
	logger *slog.Logger
	// stands in for the PCS entry an embedded reason attaches to
	placeholder string
	argLabel    string
}

func newArgumentTransformer(g graph.Argdown, logger *slog.Logger) *argumentTransformer {
	return &argumentTransformer{
		g:           g,
		logger:      logger,
		placeholder: uuid.New().String(),
	}
}

func (t *argumentTransformer) transform(tree *parse.ArgumentTree) error {
	var gists []string
	var data map[string]any
	if tree.Head != nil {
		t.argLabel = tree.Head.Label
		var text string
		text, data = extract.Metadata(tree.Head.Text)
		if text = strings.TrimSpace(text); text != "" {
			gists = []string{text}
		}
	}

	var pcs []model.PCSEntry
	for _, item := range tree.Body {
		switch item.Kind {
		case parse.ItemPremise, parse.ItemConclusion:
			entry, err := t.statement(item)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Statement.Line, err)
			}
			pcs = append(pcs, entry)

		case parse.ItemReason:
			if len(pcs) == 0 {
				return fmt.Errorf("line %d: %w", item.Reason.Line, errDanglingReason)
			}
			rel, err := t.reason(item)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Reason.Line, err)
			}
			anchor := pcs[len(pcs)-1].PropositionLabel
			if rel.Source == t.placeholder {
				rel.Source = anchor
			} else {
				rel.Target = anchor
			}
			if err := t.g.AddRelation(rel); err != nil {
				return fmt.Errorf("line %d: %w", item.Reason.Line, err)
			}
		}
	}

	label := t.argLabel
	if label == "" {
		label = t.g.MakeLabelUnique(UnnamedArgument)
	}
	arg := model.Argument{Label: label, Gists: gists, Data: data, PCS: pcs}
	if ok, msg := graph.HasLegalPCS(arg); !ok {
		t.logger.Error("skipping argument with illegal premise-conclusion structure", "argument", label, "reason", msg)
		return nil
	}
	return t.g.AddArgument(arg, graph.WithAllowExists(true))
}

// statement registers the proposition of a PCS line and returns its entry
func (t *argumentTransformer) statement(item parse.BodyItem) (model.PCSEntry, error) {
	st := item.Statement
	conclusion := item.Kind == parse.ItemConclusion

	label := st.PropositionLabel
	if label == "" {
		stem := "UNNAMED_PREMISE_" + st.Seq
		if conclusion {
			stem = "UNNAMED_CONCLUSION_" + st.Seq
		}
		if t.argLabel != "" {
			stem = strings.ReplaceAll(t.argLabel, " ", "_") + "_" + stem
		}
		label = t.g.MakeLabelUnique(stem)
	}

	text, data := extract.Metadata(st.Text)
	var texts []string
	if text = strings.TrimSpace(text); text != "" {
		texts = []string{text}
	}
	if err := t.g.AddProposition(model.Proposition{Label: label, Texts: texts, Data: data}, graph.WithAllowExists(true)); err != nil {
		return model.PCSEntry{}, err
	}

	if !conclusion {
		return model.Premise(st.Seq, label), nil
	}
	info, infoData := extract.Metadata(item.Inference)
	return model.Conclusion(st.Seq, label, strings.TrimSpace(info), infoData), nil
}

// reason registers the mentioned node and returns the relation with the
// placeholder standing in for the anchor
func (t *argumentTransformer) reason(item parse.BodyItem) (model.Relation, error) {
	label, err := register(t.g, item.Reason)
	if err != nil {
		return model.Relation{}, err
	}
	rel := orient(item.Marker, label, t.placeholder)
	rel.Dialectics = model.Dialectics(model.Sketched)
	if item.Reason.Kind == parse.ReasonProposition {
		rel.Dialectics = model.Dialectics(model.Axiomatic)
	}
	return rel, nil
}
