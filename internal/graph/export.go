package graph

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/argmap/internal/model"
	"gopkg.in/yaml.v3"
)

// Node kind discriminants used in exports.
const (
	KindProposition = "Proposition"
	KindArgument    = "Argument"
)

// Document is the node-link view of a graph, compatible with the common
// attributed multigraph interchange layout.
type Document struct {
	Directed   bool           `json:"directed" yaml:"directed"`
	Multigraph bool           `json:"multigraph" yaml:"multigraph"`
	Graph      map[string]any `json:"graph" yaml:"graph"`
	Nodes      []NodeRecord   `json:"nodes" yaml:"nodes"`
	Links      []LinkRecord   `json:"links" yaml:"links"`
}

// NodeRecord is one exported node. Texts is set for propositions, Gists and
// PCS for arguments; encoding always writes the list field of the node's
// kind, even when empty.
type NodeRecord struct {
	ID    string           `json:"id" yaml:"id"`
	Type  string           `json:"type" yaml:"type"`
	Label string           `json:"label" yaml:"label"`
	Texts []string         `json:"texts,omitempty" yaml:"texts,omitempty"`
	Gists []string         `json:"gists,omitempty" yaml:"gists,omitempty"`
	Data  map[string]any   `json:"data" yaml:"data"`
	PCS   []model.PCSEntry `json:"pcs,omitempty" yaml:"pcs,omitempty"`
}

// LinkRecord is one exported edge; Key is the valence name.
type LinkRecord struct {
	Source     string         `json:"source" yaml:"source"`
	Target     string         `json:"target" yaml:"target"`
	Key        string         `json:"key" yaml:"key"`
	Valence    model.Valence  `json:"valence" yaml:"valence"`
	Dialectics []string       `json:"dialectics" yaml:"dialectics"`
	Data       map[string]any `json:"data" yaml:"data"`
}

func (g *MultiDiGraph) Export() Document {
	doc := Document{
		Directed:   true,
		Multigraph: true,
		Graph:      map[string]any{},
		Nodes:      []NodeRecord{},
		Links:      []LinkRecord{},
	}
	for _, label := range g.order {
		n := g.nodes[label]
		if n.prop != nil {
			p := cloneProposition(*n.prop)
			doc.Nodes = append(doc.Nodes, NodeRecord{
				ID: label, Type: KindProposition, Label: label,
				Texts: p.Texts, Data: p.Data,
			})
			continue
		}
		a := cloneArgument(*n.arg)
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID: label, Type: KindArgument, Label: label,
			Gists: a.Gists, Data: a.Data, PCS: a.PCS,
		})
	}
	for _, r := range g.Relations() {
		doc.Links = append(doc.Links, LinkRecord{
			Source:     r.Source,
			Target:     r.Target,
			Key:        r.Valence.String(),
			Valence:    r.Valence,
			Dialectics: r.Dialectics.Names(),
			Data:       r.Data,
		})
	}
	return doc
}

// Encode renders the document as "json" or "yaml".
func (d Document) Encode(format string) ([]byte, error) {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type propositionView struct {
	ID    string         `json:"id" yaml:"id"`
	Type  string         `json:"type" yaml:"type"`
	Label string         `json:"label" yaml:"label"`
	Texts []string       `json:"texts" yaml:"texts"`
	Data  map[string]any `json:"data" yaml:"data"`
}

type argumentView struct {
	ID    string           `json:"id" yaml:"id"`
	Type  string           `json:"type" yaml:"type"`
	Label string           `json:"label" yaml:"label"`
	Gists []string         `json:"gists" yaml:"gists"`
	Data  map[string]any   `json:"data" yaml:"data"`
	PCS   []model.PCSEntry `json:"pcs,omitempty" yaml:"pcs,omitempty"`
}

func (n NodeRecord) view() any {
	if n.Type == KindArgument {
		gists := n.Gists
		if gists == nil {
			gists = []string{}
		}
		return argumentView{ID: n.ID, Type: n.Type, Label: n.Label, Gists: gists, Data: n.Data, PCS: n.PCS}
	}
	texts := n.Texts
	if texts == nil {
		texts = []string{}
	}
	return propositionView{ID: n.ID, Type: n.Type, Label: n.Label, Texts: texts, Data: n.Data}
}

// MarshalJSON implements json.Marshaler
func (n NodeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.view())
}

// MarshalYAML implements yaml.Marshaler
func (n NodeRecord) MarshalYAML() (any, error) {
	return n.view(), nil
}

// DecodeDocument parses a JSON export.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// Stats counts the document contents the same way MultiDiGraph.Stats does.
func (d Document) Stats() model.GraphStats {
	var s model.GraphStats
	for _, n := range d.Nodes {
		if n.Type == KindProposition {
			s.Propositions++
		} else {
			s.Arguments++
		}
	}
	for _, l := range d.Links {
		s.Relations++
		for _, name := range l.Dialectics {
			if name == model.Grounded.String() {
				s.Grounded++
			}
		}
	}
	return s
}
