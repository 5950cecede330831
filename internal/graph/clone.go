package graph

import (
	"maps"
	"slices"

	"github.com/ppiankov/argmap/internal/model"
)

// mergeVariants appends the unseen entries of add to base, keeping first
// mention order and dropping duplicates.
func mergeVariants(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// mergeData copies src into dst, overwriting existing keys.
func mergeData(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = deepCopy(v)
	}
}

func cloneProposition(p model.Proposition) model.Proposition {
	return model.Proposition{
		Label: p.Label,
		Texts: slices.Clone(p.Texts),
		Data:  cloneData(p.Data),
	}
}

func cloneArgument(a model.Argument) model.Argument {
	return model.Argument{
		Label: a.Label,
		Gists: slices.Clone(a.Gists),
		Data:  cloneData(a.Data),
		PCS:   clonePCS(a.PCS),
	}
}

func clonePCS(pcs []model.PCSEntry) []model.PCSEntry {
	if pcs == nil {
		return nil
	}
	out := make([]model.PCSEntry, len(pcs))
	for i, e := range pcs {
		out[i] = e
		out[i].InferenceData = cloneData(e.InferenceData)
	}
	return out
}

func cloneRelation(r model.Relation) model.Relation {
	r.Data = cloneData(r.Data)
	return r
}

func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

// deepCopy copies the container shapes produced by YAML and JSON decoding.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case map[any]any:
		out := make(map[any]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
