package graph

import "log/slog"

// GraphOption configures a graph at construction.
type GraphOption func(*MultiDiGraph)

// WithLogger sets the logger used for warnings about ignored or
// overwritten input.
func WithLogger(logger *slog.Logger) GraphOption {
	return func(g *MultiDiGraph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// AddOption configures a single add operation.
type AddOption func(*addOptions)

type addOptions struct {
	allowExists bool
	checkLegal  bool
	infer       bool
}

func newAddOptions(allowExists bool, opts []AddOption) addOptions {
	o := addOptions{allowExists: allowExists, checkLegal: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAllowExists controls whether an existing node or relation is merged
// instead of rejected. Nodes default to false, relations to true.
func WithAllowExists(allow bool) AddOption {
	return func(o *addOptions) {
		o.allowExists = allow
	}
}

// withoutLegalityCheck skips premise-conclusion validation for arguments.
func withoutLegalityCheck() AddOption {
	return func(o *addOptions) {
		o.checkLegal = false
	}
}

// WithInference runs the inference pass after a successful mutation.
func WithInference() AddOption {
	return func(o *addOptions) {
		o.infer = true
	}
}
