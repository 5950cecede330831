package graph

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ppiankov/argmap/internal/model"
)

var valences = [...]model.Valence{model.Support, model.Attack, model.Contradict, model.Undercut}

type node struct {
	prop *model.Proposition
	arg  *model.Argument
}

type edge struct {
	rel model.Relation
	seq uint64
}

// MultiDiGraph is the adjacency-map implementation of Argdown.
// Node and edge listings follow insertion order.
type MultiDiGraph struct {
	logger *slog.Logger
	order  []string
	nodes  map[string]*node
	edges  map[model.Key]*edge
	seq    uint64
}

// New creates an empty graph
func New(opts ...GraphOption) *MultiDiGraph {
	g := &MultiDiGraph{
		logger: slog.Default(),
		nodes:  make(map[string]*node),
		edges:  make(map[model.Key]*edge),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *MultiDiGraph) Has(label string) bool {
	_, ok := g.nodes[label]
	return ok
}

func (g *MultiDiGraph) IsProposition(label string) bool {
	n, ok := g.nodes[label]
	return ok && n.prop != nil
}

func (g *MultiDiGraph) IsArgument(label string) bool {
	n, ok := g.nodes[label]
	return ok && n.arg != nil
}

func (g *MultiDiGraph) MakeLabelUnique(label string) string {
	if !g.Has(label) {
		return label
	}
	for i := 1; ; i++ {
		candidate := label + "_" + strconv.Itoa(i)
		if !g.Has(candidate) {
			return candidate
		}
	}
}

func (g *MultiDiGraph) AddProposition(p model.Proposition, opts ...AddOption) error {
	o := newAddOptions(false, opts)
	if p.Label == "" {
		return fmt.Errorf("add proposition: %w", ErrEmptyLabel)
	}
	if g.Has(p.Label) {
		if !o.allowExists {
			return fmt.Errorf("add proposition [%s]: %w", p.Label, ErrDuplicateLabel)
		}
		if err := g.UpdateProposition(p); err != nil {
			return err
		}
	} else {
		stored := cloneProposition(p)
		stored.Texts = mergeVariants(nil, stored.Texts)
		if stored.Data == nil {
			stored.Data = map[string]any{}
		}
		g.insertNode(p.Label, &node{prop: &stored})
	}
	if o.infer {
		g.Infer()
	}
	return nil
}

func (g *MultiDiGraph) UpdateProposition(p model.Proposition) error {
	n, ok := g.nodes[p.Label]
	if !ok {
		return fmt.Errorf("update proposition [%s]: %w", p.Label, ErrNodeNotFound)
	}
	if n.prop == nil {
		return fmt.Errorf("update proposition [%s]: label names an argument: %w", p.Label, ErrKindMismatch)
	}
	n.prop.Texts = mergeVariants(n.prop.Texts, p.Texts)
	mergeData(n.prop.Data, p.Data)
	return nil
}

func (g *MultiDiGraph) Proposition(label string) (model.Proposition, bool) {
	n, ok := g.nodes[label]
	if !ok || n.prop == nil {
		return model.Proposition{}, false
	}
	return cloneProposition(*n.prop), true
}

func (g *MultiDiGraph) RemoveProposition(label string) error {
	return fmt.Errorf("remove proposition [%s]: %w", label, ErrUnsupported)
}

func (g *MultiDiGraph) AddArgument(a model.Argument, opts ...AddOption) error {
	o := newAddOptions(false, opts)
	if a.Label == "" {
		return fmt.Errorf("add argument: %w", ErrEmptyLabel)
	}
	if g.Has(a.Label) {
		if !o.allowExists {
			return fmt.Errorf("add argument <%s>: %w", a.Label, ErrDuplicateLabel)
		}
		if err := g.UpdateArgument(a, opts...); err != nil {
			return err
		}
		if o.infer {
			g.Infer()
		}
		return nil
	}

	if o.checkLegal && len(a.PCS) > 0 {
		if ok, msg := HasLegalPCS(a); !ok {
			return fmt.Errorf("add argument <%s>: %s: %w", a.Label, msg, ErrIllegalPCS)
		}
	}
	if err := g.checkReferences(a); err != nil {
		return fmt.Errorf("add argument <%s>: %w", a.Label, err)
	}

	stored := cloneArgument(a)
	stored.Gists = mergeVariants(nil, stored.Gists)
	if stored.Data == nil {
		stored.Data = map[string]any{}
	}
	g.insertNode(a.Label, &node{arg: &stored})
	if o.infer {
		g.Infer()
	}
	return nil
}

// UpdateArgument merges a into the stored argument. An illegal PCS makes
// the whole update a logged no-op.
func (g *MultiDiGraph) UpdateArgument(a model.Argument, opts ...AddOption) error {
	o := newAddOptions(true, opts)
	n, ok := g.nodes[a.Label]
	if !ok {
		return fmt.Errorf("update argument <%s>: %w", a.Label, ErrNodeNotFound)
	}
	if n.arg == nil {
		return fmt.Errorf("update argument <%s>: label names a proposition: %w", a.Label, ErrKindMismatch)
	}
	if o.checkLegal && len(a.PCS) > 0 {
		if ok, msg := HasLegalPCS(a); !ok {
			g.logger.Error("argument update ignored", "argument", a.Label, "reason", msg)
			return nil
		}
	}
	if err := g.checkReferences(a); err != nil {
		return fmt.Errorf("update argument <%s>: %w", a.Label, err)
	}

	n.arg.Gists = mergeVariants(n.arg.Gists, a.Gists)
	mergeData(n.arg.Data, a.Data)
	if len(a.PCS) > 0 {
		if len(n.arg.PCS) > 0 {
			g.logger.Warn("overwriting premise-conclusion structure", "argument", a.Label)
		}
		n.arg.PCS = clonePCS(a.PCS)
	}
	return nil
}

func (g *MultiDiGraph) Argument(label string) (model.Argument, bool) {
	n, ok := g.nodes[label]
	if !ok || n.arg == nil {
		return model.Argument{}, false
	}
	return cloneArgument(*n.arg), true
}

func (g *MultiDiGraph) RemoveArgument(label string) error {
	return fmt.Errorf("remove argument <%s>: %w", label, ErrUnsupported)
}

func (g *MultiDiGraph) checkReferences(a model.Argument) error {
	for _, entry := range a.PCS {
		n, ok := g.nodes[entry.PropositionLabel]
		if !ok {
			return fmt.Errorf("%s references [%s]: %w", entry.Label, entry.PropositionLabel, ErrNodeNotFound)
		}
		if n.prop == nil {
			return fmt.Errorf("%s references <%s>: %w", entry.Label, entry.PropositionLabel, ErrKindMismatch)
		}
	}
	return nil
}

func (g *MultiDiGraph) AddRelation(r model.Relation, opts ...AddOption) error {
	o := newAddOptions(true, opts)
	if r.Source == "" || r.Target == "" {
		return fmt.Errorf("add relation: %w", ErrEmptyLabel)
	}
	for _, label := range []string{r.Source, r.Target} {
		if !g.Has(label) {
			return fmt.Errorf("add relation %s -> %s: %q: %w", r.Source, r.Target, label, ErrNodeNotFound)
		}
	}
	if len(g.RelationsBetween(r.Source, r.Target)) > 0 && !o.allowExists {
		return fmt.Errorf("add relation %s -> %s: %w", r.Source, r.Target, ErrDuplicateRelation)
	}

	if _, ok := g.edges[r.Key()]; ok {
		if err := g.UpdateRelation(r); err != nil {
			return err
		}
	} else {
		g.seq++
		stored := cloneRelation(r)
		if stored.Data == nil {
			stored.Data = map[string]any{}
		}
		g.edges[r.Key()] = &edge{rel: stored, seq: g.seq}
	}
	if o.infer {
		g.Infer()
	}
	return nil
}

func (g *MultiDiGraph) UpdateRelation(r model.Relation) error {
	e, ok := g.edges[r.Key()]
	if !ok {
		return fmt.Errorf("update relation %s -%s-> %s: %w", r.Source, r.Valence, r.Target, ErrRelationNotFound)
	}
	e.rel.Dialectics = e.rel.Dialectics.Union(r.Dialectics)
	mergeData(e.rel.Data, r.Data)
	return nil
}

func (g *MultiDiGraph) Relation(source, target string, valence model.Valence) (model.Relation, bool) {
	e, ok := g.edges[model.Key{Source: source, Target: target, Valence: valence}]
	if !ok {
		return model.Relation{}, false
	}
	return cloneRelation(e.rel), true
}

func (g *MultiDiGraph) RelationsBetween(source, target string) []model.Relation {
	var out []model.Relation
	for _, v := range valences {
		if rel, ok := g.Relation(source, target, v); ok {
			out = append(out, rel)
		}
	}
	return out
}

func (g *MultiDiGraph) RemoveRelation(source, target string, valence model.Valence) error {
	key := model.Key{Source: source, Target: target, Valence: valence}
	if _, ok := g.edges[key]; !ok {
		return fmt.Errorf("remove relation %s -%s-> %s: %w", source, valence, target, ErrRelationNotFound)
	}
	delete(g.edges, key)
	return nil
}

func (g *MultiDiGraph) Propositions() []model.Proposition {
	var out []model.Proposition
	for _, label := range g.order {
		if n := g.nodes[label]; n.prop != nil {
			out = append(out, cloneProposition(*n.prop))
		}
	}
	return out
}

func (g *MultiDiGraph) Arguments() []model.Argument {
	var out []model.Argument
	for _, label := range g.order {
		if n := g.nodes[label]; n.arg != nil {
			out = append(out, cloneArgument(*n.arg))
		}
	}
	return out
}

// Relations returns all edges in creation order.
func (g *MultiDiGraph) Relations() []model.Relation {
	sorted := make([]*edge, 0, len(g.edges))
	for _, e := range g.edges {
		sorted = append(sorted, e)
	}
	slices.SortFunc(sorted, func(a, b *edge) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	out := make([]model.Relation, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, cloneRelation(e.rel))
	}
	return out
}

func (g *MultiDiGraph) Stats() model.GraphStats {
	var s model.GraphStats
	for _, n := range g.nodes {
		if n.prop != nil {
			s.Propositions++
		} else {
			s.Arguments++
		}
	}
	for _, e := range g.edges {
		s.Relations++
		if e.rel.Dialectics.Has(model.Grounded) {
			s.Grounded++
		}
	}
	return s
}

func (g *MultiDiGraph) Clone() Argdown {
	c := &MultiDiGraph{
		logger: g.logger,
		order:  slices.Clone(g.order),
		nodes:  make(map[string]*node, len(g.nodes)),
		edges:  make(map[model.Key]*edge, len(g.edges)),
		seq:    g.seq,
	}
	for label, n := range g.nodes {
		cn := &node{}
		if n.prop != nil {
			p := cloneProposition(*n.prop)
			cn.prop = &p
		} else {
			a := cloneArgument(*n.arg)
			cn.arg = &a
		}
		c.nodes[label] = cn
	}
	for key, e := range g.edges {
		c.edges[key] = &edge{rel: cloneRelation(e.rel), seq: e.seq}
	}
	return c
}

func (g *MultiDiGraph) insertNode(label string, n *node) {
	g.nodes[label] = n
	g.order = append(g.order, label)
}
