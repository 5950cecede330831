package ingest

import (
	"fmt"

	"github.com/ppiankov/argmap/internal/graph"
	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/parse"
)

type mapTransformer struct {
	g graph.Argdown
}

func (t *mapTransformer) transform(tree *parse.MapTree) error {
	for _, root := range tree.Roots {
		if _, err := t.node(root); err != nil {
			return err
		}
	}
	return nil
}

// node registers n, then its subtrees, then the relations to its children
func (t *mapTransformer) node(n *parse.MapNode) (string, error) {
	label, err := register(t.g, n.Reason)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", n.Reason.Line, err)
	}

	children := make([]string, len(n.Children))
	for i, c := range n.Children {
		if children[i], err = t.node(c); err != nil {
			return "", err
		}
	}

	for i, c := range n.Children {
		rel := orient(c.Marker, children[i], label)
		rel.Dialectics = model.Dialectics(model.Sketched)
		if t.g.IsProposition(label) && t.g.IsProposition(children[i]) {
			rel.Dialectics = model.Dialectics(model.Axiomatic)
		}
		if err := t.g.AddRelation(rel); err != nil {
			return "", fmt.Errorf("line %d: %w", c.Reason.Line, err)
		}
	}
	return label, nil
}
