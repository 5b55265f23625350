package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/imfimport/api"
)

func sampleModel() *api.UnverifiedConceptualModel {
	one := 1
	return &api.UnverifiedConceptualModel{
		Metadata: api.Metadata{
			Role:        "information architect",
			Space:       "imf_space",
			ExternalID:  "IMFDataModel",
			Version:     "v1",
			Created:     time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC),
			Updated:     time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC),
			Description: "Data model imported using IMFImporter",
			Creator:     "Neat",
		},
		Concepts: []api.Concept{
			{Concept: "Pump", Name: "Pump", Implements: api.Implements{"Equipment"}, InstanceSource: "http://ex.org/ns#Pump"},
			{Concept: "Valve", Implements: api.Implements{"Equipment", "Block"}},
			{Concept: "Equipment"},
		},
		Properties: []api.Property{
			{Concept: "Pump", Property: "hasFlowRate", Name: "flow rate", ValueType: "float", MinCount: &one},
			{Concept: "Pump", Property: "hasSpeed", ValueType: "string", MinCount: &one, MaxCount: &one, Default: int64(1450)},
		},
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	in := sampleModel()
	require.NoError(t, NewSQLiteWriter(path).Submit(in))

	out, err := ReadSQLite(path)
	require.NoError(t, err)

	assert.True(t, in.Metadata.Created.Equal(out.Metadata.Created))
	assert.Equal(t, in.Metadata.Space, out.Metadata.Space)
	assert.Equal(t, in.Metadata.Creator, out.Metadata.Creator)
	assert.Nil(t, out.Metadata.Name)
	assert.Equal(t, in.Concepts, out.Concepts)

	require.Len(t, out.Properties, 2)
	assert.Equal(t, in.Properties[0], out.Properties[0])
	assert.Equal(t, float64(1450), out.Properties[1].Default)
	assert.Equal(t, 1, *out.Properties[1].MaxCount)
}

func TestSQLite_SubmitReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	w := NewSQLiteWriter(path)
	require.NoError(t, w.Submit(sampleModel()))

	smaller := sampleModel()
	smaller.Concepts = smaller.Concepts[:1]
	smaller.Properties = nil
	require.NoError(t, w.Submit(smaller))

	out, err := ReadSQLite(path)
	require.NoError(t, err)
	assert.Len(t, out.Concepts, 1)
	assert.Empty(t, out.Properties)
}

func TestSQLite_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")
	assert.ErrorIs(t, NewSQLiteWriter(path).Submit(nil), ErrNoModel)
}

func TestJSON_RoundTrip(t *testing.T) {
	fs := memfs.New()
	in := sampleModel()
	require.NoError(t, NewJSONWriter(fs, "/out/model.json").Submit(in))

	raw, err := util.ReadFile(fs, "/out/model.json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"implements": "Equipment"`)
	assert.Contains(t, string(raw), `"property_": "hasFlowRate"`)

	out, err := ReadJSON(fs, "/out/model.json")
	require.NoError(t, err)
	assert.Equal(t, in.Concepts, out.Concepts)
	assert.True(t, in.Metadata.Updated.Equal(out.Metadata.Updated))
}

func TestOpen(t *testing.T) {
	fs := memfs.New()
	assert.IsType(t, &SQLiteWriter{}, Open(fs, "model.DB"))
	assert.IsType(t, &SQLiteWriter{}, Open(fs, "model.sqlite"))
	assert.IsType(t, &JSONWriter{}, Open(fs, "model.json"))
	assert.IsType(t, &JSONWriter{}, Open(fs, "model"))
}

func TestRead_Dispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.sqlite")
	require.NoError(t, Open(memfs.New(), path).Submit(sampleModel()))

	m, err := Read(memfs.New(), path)
	require.NoError(t, err)
	assert.Len(t, m.Concepts, 3)
}
