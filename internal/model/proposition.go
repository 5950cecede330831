package model

import "fmt"

// Proposition is a statement node of an argument map
type Proposition struct {
	Label string         `json:"label" yaml:"label"`                   // Globally unique across propositions and arguments
	Texts []string       `json:"texts" yaml:"texts"`                   // Surface variants, in order of first mention
	Data  map[string]any `json:"data,omitempty" yaml:"data,omitempty"` // Inline metadata
}

// Argument is an inference node, optionally reconstructed as a premise-conclusion structure
type Argument struct {
	Label string         `json:"label" yaml:"label"`
	Gists []string       `json:"gists" yaml:"gists"` // Summaries, in order of first mention
	Data  map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	PCS   []PCSEntry     `json:"pcs,omitempty" yaml:"pcs,omitempty"`
}

// EntryKind discriminates premises from conclusions in a PCS
type EntryKind int

const (
	EntryPremise    EntryKind = iota // Plain proposition reference
	EntryConclusion                  // Reference preceded by an inference line
)

func (k EntryKind) String() string {
	switch k {
	case EntryPremise:
		return "premise"
	case EntryConclusion:
		return "conclusion"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *EntryKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "premise":
		*k = EntryPremise
	case "conclusion":
		*k = EntryConclusion
	default:
		return fmt.Errorf("unknown pcs entry kind %q", string(b))
	}
	return nil
}

// PCSEntry is one numbered line of a premise-conclusion structure.
// InferenceInfo and InferenceData are only set on conclusions.
type PCSEntry struct {
	Kind             EntryKind      `json:"kind" yaml:"kind"`
	Label            string         `json:"label" yaml:"label"`                         // Sequence label, e.g. "(1)"
	PropositionLabel string         `json:"proposition" yaml:"proposition"`             // Referenced proposition
	InferenceInfo    string         `json:"inference_info,omitempty" yaml:"inference_info,omitempty"`
	InferenceData    map[string]any `json:"inference_data,omitempty" yaml:"inference_data,omitempty"`
}

// Premise builds a premise entry
func Premise(label, proposition string) PCSEntry {
	return PCSEntry{Kind: EntryPremise, Label: label, PropositionLabel: proposition}
}

// Conclusion builds a conclusion entry
func Conclusion(label, proposition, info string, data map[string]any) PCSEntry {
	return PCSEntry{
		Kind:             EntryConclusion,
		Label:            label,
		PropositionLabel: proposition,
		InferenceInfo:    info,
		InferenceData:    data,
	}
}

// IsConclusion reports whether the entry is a conclusion
func (e PCSEntry) IsConclusion() bool {
	return e.Kind == EntryConclusion
}
