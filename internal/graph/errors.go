package graph

import "errors"

// Sentinel errors for graph operations. Callers match them with errors.Is;
// the graph wraps them with the offending labels.
var (
	// ErrEmptyLabel is returned when a node or relation endpoint has no label.
	ErrEmptyLabel = errors.New("empty label")

	// ErrDuplicateLabel is returned when adding a node whose label is taken
	// and merging was not allowed.
	ErrDuplicateLabel = errors.New("label already exists")

	// ErrNodeNotFound is returned when an operation references a label
	// that is not in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrKindMismatch is returned when a label names a node of the other kind,
	// e.g. merging a proposition into an argument or referencing an argument
	// from a premise-conclusion structure.
	ErrKindMismatch = errors.New("node kind mismatch")

	// ErrDuplicateRelation is returned when adding a relation between a pair
	// that is already connected and merging was not allowed.
	ErrDuplicateRelation = errors.New("relation already exists")

	// ErrRelationNotFound is returned when updating or removing a relation
	// that does not exist.
	ErrRelationNotFound = errors.New("relation not found")

	// ErrIllegalPCS is returned when a premise-conclusion structure does not
	// start with a premise or does not end with a conclusion.
	ErrIllegalPCS = errors.New("illegal premise-conclusion structure")

	// ErrUnsupported is returned by operations the graph deliberately lacks.
	ErrUnsupported = errors.New("operation not supported")
)
