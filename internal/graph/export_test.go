package graph

import (
	"encoding/json"
	"testing"

	"github.com/ppiankov/argmap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExport_NodeLinkLayout(t *testing.T) {
	g := chainGraph(t)
	g.Infer()

	doc := g.Export()
	assert.True(t, doc.Directed)
	assert.True(t, doc.Multigraph)
	require.Len(t, doc.Nodes, 6)
	assert.Equal(t, "P1", doc.Nodes[0].ID)
	assert.Equal(t, KindProposition, doc.Nodes[0].Type)
	assert.Equal(t, KindArgument, doc.Nodes[4].Type)
	assert.Len(t, doc.Nodes[4].PCS, 2)

	stats := doc.Stats()
	assert.Equal(t, g.Stats(), stats)
	assert.Equal(t, 4, stats.Propositions)
	assert.Equal(t, 2, stats.Arguments)
}

func TestDocument_EncodeJSONRoundTrip(t *testing.T) {
	g := chainGraph(t)
	g.Infer()

	data, err := g.Export().Encode("json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"valence": "SUPPORT"`)
	assert.Contains(t, string(data), `"dialectics": [`)
	assert.Contains(t, string(data), `"kind": "conclusion"`)

	doc, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, g.Stats(), doc.Stats())
	assert.Equal(t, model.EntryConclusion, doc.Nodes[4].PCS[1].Kind)
}

func TestDocument_EncodeYAML(t *testing.T) {
	g := New()
	require.NoError(t, g.AddProposition(prop("P", "text")))

	data, err := g.Export().Encode("yaml")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, true, raw["directed"])

	_, err = g.Export().Encode("xml")
	assert.Error(t, err)
}

func TestDocument_EncodeAlwaysWritesVariantLists(t *testing.T) {
	g := New()
	require.NoError(t, g.AddProposition(model.Proposition{Label: "C"}))
	require.NoError(t, g.AddArgument(model.Argument{Label: "A"}))

	data, err := g.Export().Encode("json")
	require.NoError(t, err)

	var raw struct {
		Nodes []map[string]any `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.Nodes, 2)
	assert.Equal(t, []any{}, raw.Nodes[0]["texts"])
	assert.NotContains(t, raw.Nodes[0], "gists")
	assert.Equal(t, []any{}, raw.Nodes[1]["gists"])
	assert.NotContains(t, raw.Nodes[1], "texts")

	data, err = g.Export().Encode("yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "texts: []")
	assert.Contains(t, string(data), "gists: []")
}
