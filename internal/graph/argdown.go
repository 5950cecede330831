// Package graph holds the typed argument multigraph and its inference pass.
//
// Nodes are propositions and arguments sharing one label namespace. Edges
// are keyed by (source, target, valence), so two nodes may be linked by at
// most one edge per valence. Every edge carries a set of dialectical types:
// SKETCHED and AXIOMATIC come from explicit statements, GROUNDED is derived
// by Infer and is recomputed from scratch on every pass.
//
// Graphs are not safe for concurrent use. Ingestion works on a Clone and
// swaps it in only when a block was fully applied.
package graph

import "github.com/ppiankov/argmap/internal/model"

// Argdown is the capability set ingestion and export rely on.
type Argdown interface {
	// AddProposition registers a proposition. With WithAllowExists(true) an
	// existing proposition of the same label is merged instead.
	AddProposition(p model.Proposition, opts ...AddOption) error
	// UpdateProposition merges texts and data into an existing proposition.
	UpdateProposition(p model.Proposition) error
	// Proposition returns a copy of the proposition with the given label.
	Proposition(label string) (model.Proposition, bool)
	// RemoveProposition always fails with ErrUnsupported.
	RemoveProposition(label string) error

	// AddArgument registers an argument, validating its PCS.
	AddArgument(a model.Argument, opts ...AddOption) error
	// UpdateArgument merges gists and data and replaces a non-empty PCS.
	UpdateArgument(a model.Argument, opts ...AddOption) error
	// Argument returns a copy of the argument with the given label.
	Argument(label string) (model.Argument, bool)
	// RemoveArgument always fails with ErrUnsupported.
	RemoveArgument(label string) error

	// AddRelation adds a relation, merging into an existing edge of the
	// same key unless WithAllowExists(false) is given.
	AddRelation(r model.Relation, opts ...AddOption) error
	// UpdateRelation merges dialectics and data into an existing edge.
	UpdateRelation(r model.Relation) error
	// Relation returns the edge with the given key.
	Relation(source, target string, valence model.Valence) (model.Relation, bool)
	// RelationsBetween returns all edges from source to target.
	RelationsBetween(source, target string) []model.Relation
	// RemoveRelation deletes one edge.
	RemoveRelation(source, target string, valence model.Valence) error

	Has(label string) bool
	IsProposition(label string) bool
	IsArgument(label string) bool
	// MakeLabelUnique returns label if free, else the first free label_N.
	MakeLabelUnique(label string) string

	Propositions() []model.Proposition
	Arguments() []model.Argument
	Relations() []model.Relation
	Stats() model.GraphStats

	// Infer recomputes all GROUNDED relations.
	Infer()
	// Clone returns a deep copy sharing no mutable state.
	Clone() Argdown
	// Export returns the node-link view of the graph.
	Export() Document
}

var _ Argdown = (*MultiDiGraph)(nil)

// HasLegalPCS reports whether an argument carries a usable
// premise-conclusion structure, and why not if it does not.
func HasLegalPCS(a model.Argument) (bool, string) {
	if len(a.PCS) == 0 {
		return false, "No premise conclusion structure found."
	}
	if a.PCS[0].IsConclusion() {
		return false, "Premise conclusion structure starts with a conclusion, but must start with a premise."
	}
	if !a.PCS[len(a.PCS)-1].IsConclusion() {
		return false, "Premise conclusion structure does not end with a conclusion."
	}
	return true, ""
}
