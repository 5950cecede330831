package model

import (
	"fmt"
	"strings"
)

// Valence is the dialectical kind of a relation
type Valence int

const (
	Support    Valence = iota // Source speaks for target
	Attack                    // Source speaks against target
	Contradict                // Source and target cannot both hold
	Undercut                  // Source attacks the inference of target
)

var valenceNames = [...]string{"SUPPORT", "ATTACK", "CONTRADICT", "UNDERCUT"}

func (v Valence) String() string {
	if v < 0 || int(v) >= len(valenceNames) {
		return fmt.Sprintf("Valence(%d)", int(v))
	}
	return valenceNames[v]
}

// MarshalText implements encoding.TextMarshaler
func (v Valence) MarshalText() ([]byte, error) {
	if v < 0 || int(v) >= len(valenceNames) {
		return nil, fmt.Errorf("invalid valence %d", int(v))
	}
	return []byte(valenceNames[v]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Valence) UnmarshalText(b []byte) error {
	parsed, err := ParseValence(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseValence resolves a valence by name, case-insensitively
func ParseValence(s string) (Valence, error) {
	for i, name := range valenceNames {
		if strings.EqualFold(s, name) {
			return Valence(i), nil
		}
	}
	return 0, fmt.Errorf("unknown valence %q", s)
}

// DialecticalType records how a relation came to be
type DialecticalType int

const (
	Sketched  DialecticalType = iota // Stated between arguments or mixed endpoints
	Axiomatic                        // Stated directly between propositions
	Grounded                         // Derived by inference
)

var dialecticNames = [...]string{"SKETCHED", "AXIOMATIC", "GROUNDED"}

func (d DialecticalType) String() string {
	if d < 0 || int(d) >= len(dialecticNames) {
		return fmt.Sprintf("DialecticalType(%d)", int(d))
	}
	return dialecticNames[d]
}

// MarshalText implements encoding.TextMarshaler
func (d DialecticalType) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= len(dialecticNames) {
		return nil, fmt.Errorf("invalid dialectical type %d", int(d))
	}
	return []byte(dialecticNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *DialecticalType) UnmarshalText(b []byte) error {
	parsed, err := ParseDialecticalType(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDialecticalType resolves a dialectical type by name, case-insensitively
func ParseDialecticalType(s string) (DialecticalType, error) {
	for i, name := range dialecticNames {
		if strings.EqualFold(s, name) {
			return DialecticalType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dialectical type %q", s)
}

// DialecticSet is a set of dialectical types
type DialecticSet uint8

// Dialectics builds a set from the given types
func Dialectics(types ...DialecticalType) DialecticSet {
	var s DialecticSet
	for _, t := range types {
		s = s.Add(t)
	}
	return s
}

func (s DialecticSet) Has(t DialecticalType) bool { return s&(1<<uint(t)) != 0 }

func (s DialecticSet) Add(t DialecticalType) DialecticSet { return s | 1<<uint(t) }

func (s DialecticSet) Remove(t DialecticalType) DialecticSet { return s &^ (1 << uint(t)) }

func (s DialecticSet) Union(o DialecticSet) DialecticSet { return s | o }

func (s DialecticSet) Empty() bool { return s == 0 }

// List returns the members in declaration order
func (s DialecticSet) List() []DialecticalType {
	var out []DialecticalType
	for i := range dialecticNames {
		if s.Has(DialecticalType(i)) {
			out = append(out, DialecticalType(i))
		}
	}
	return out
}

// Names returns the member names in declaration order
func (s DialecticSet) Names() []string {
	out := []string{}
	for _, t := range s.List() {
		out = append(out, t.String())
	}
	return out
}

func (s DialecticSet) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}

// Relation is a directed, typed edge between two nodes
type Relation struct {
	Source     string         `json:"source" yaml:"source"`
	Target     string         `json:"target" yaml:"target"`
	Valence    Valence        `json:"valence" yaml:"valence"`
	Dialectics DialecticSet   `json:"-" yaml:"-"`
	Data       map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Key identifies a relation within the multigraph
type Key struct {
	Source  string
	Target  string
	Valence Valence
}

// Key returns the uniqueness key of the relation
func (r Relation) Key() Key {
	return Key{Source: r.Source, Target: r.Target, Valence: r.Valence}
}
