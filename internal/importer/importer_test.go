package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/imfimport/api"
	"github.com/agentic-research/imfimport/internal/compliance"
	"github.com/agentic-research/imfimport/internal/imftest"
	"github.com/agentic-research/imfimport/internal/issues"
	"github.com/agentic-research/imfimport/internal/query"
	"github.com/agentic-research/imfimport/internal/rdfgraph"
	v "github.com/agentic-research/imfimport/internal/vocab"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 3, 1, 12, 30, 45, 987654321, time.UTC)
}

const pumpNT = `<http://ex.org/ns#Pump> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ns.imfid.org/imf#BlockType> .
<http://ex.org/ns#Pump> <http://www.w3.org/2000/01/rdf-schema#label> "Pump"@en .
<http://ex.org/ns#Pump> <http://www.w3.org/2000/01/rdf-schema#subClassOf> <http://ex.org/ns#Equipment> .
<http://ex.org/ns#Pump> <http://www.w3.org/ns/shacl#property> _:flow .
_:flow <http://www.w3.org/ns/shacl#path> <http://ex.org/ns#hasFlowRate> .
_:flow <http://www.w3.org/ns/shacl#minCount> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex.org/ns#hasFlowRate> <http://www.w3.org/2000/01/rdf-schema#range> <http://www.w3.org/2001/XMLSchema#float> .
`

func TestNew_RequiresVersion(t *testing.T) {
	_, err := New(nil, rdfgraph.New(), Config{
		DataModelID: DataModelID{Space: "sp", ExternalID: "model"},
	})
	require.Error(t, err)
	var ve *issues.ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestNew_RejectsUnknownVariantAndPolicy(t *testing.T) {
	_, err := New(nil, nil, Config{Variant: "subclas"})
	assert.ErrorContains(t, err, "subclas")

	_, err = New(nil, nil, Config{Policy: "never"})
	assert.ErrorContains(t, err, "never")

	im, err := New(nil, nil, Config{})
	require.NoError(t, err)
	assert.Equal(t, query.VariantShape, im.cfg.Variant)
	assert.Equal(t, compliance.PolicyUUID, im.cfg.Policy)
}

func TestNew_Defaults(t *testing.T) {
	im, err := New(nil, nil, Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDataModelID, im.cfg.DataModelID)
	assert.Equal(t, "en", im.cfg.Language)
	assert.Equal(t, "IMFImporter issues", im.Issues().Title)
	assert.NotEmpty(t, im.Description())
}

func TestToDataModel_Pump(t *testing.T) {
	rep := &issues.Collector{}
	im, err := New(nil, imftest.PumpGraph(t), Config{Reporter: rep, Now: fixedNow})
	require.NoError(t, err)

	m, err := im.ToDataModel()
	require.NoError(t, err)
	require.NotNil(t, m)

	require.Len(t, m.Concepts, 1)
	assert.Equal(t, "Pump", m.Concepts[0].Concept)
	assert.Equal(t, "Pump", m.Concepts[0].Name)
	assert.Equal(t, api.Implements{"Equipment"}, m.Concepts[0].Implements)

	require.Len(t, m.Properties, 1)
	p := m.Properties[0]
	assert.Equal(t, "Pump.hasFlowRate", p.ID())
	assert.Equal(t, "float", p.ValueType)
	require.NotNil(t, p.MinCount)
	assert.Equal(t, 1, *p.MinCount)

	md := m.Metadata
	assert.Equal(t, "information architect", md.Role)
	assert.Equal(t, "imf_space", md.Space)
	assert.Equal(t, "IMFDataModel", md.ExternalID)
	assert.Equal(t, "v1", md.Version)
	assert.Equal(t, "Neat", md.Creator)
	assert.Nil(t, md.Name)
	assert.Equal(t, "Data model imported using IMFImporter", md.Description)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC), md.Created)
	assert.Equal(t, md.Created, md.Updated)

	assert.Empty(t, rep.Warnings)
}

func TestToDataModel_RepeatedCallsReportOwnIssues(t *testing.T) {
	g := imftest.PumpGraph(t)
	require.NoError(t, g.Add(imftest.Ex("Pump"), rdfgraph.IRI(v.RDFSComment), rdfgraph.Literal("alpha")))
	require.NoError(t, g.Add(imftest.Ex("Pump"), rdfgraph.IRI(v.SKOSDefinition), rdfgraph.Literal("beta")))

	rep := &issues.Collector{}
	im, err := New(nil, g, Config{Reporter: rep})
	require.NoError(t, err)

	first, err := im.ToDataModel()
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, 1, im.Issues().Len())

	second, err := im.ToDataModel()
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 2, "one warning per call")
	assert.Equal(t, 1, im.Issues().Len())
	assert.Equal(t, rep.Warnings[0].Error(), rep.Warnings[1].Error())
	assert.Equal(t, first.Concepts, second.Concepts)
}

func TestToDataModel_RepeatedCallsKeepLoadErrors(t *testing.T) {
	im, err := FromFile(memfs.New(), "/missing.ttl", Config{})
	require.NoError(t, err)

	for range 2 {
		_, err = im.ToDataModel()
		var mv *issues.MultiValueError
		require.True(t, errors.As(err, &mv))
		assert.Len(t, mv.Issues, 1)
	}
}

func TestToDataModel_LanguageSelectsLabels(t *testing.T) {
	im, err := New(nil, imftest.PumpGraph(t), Config{Language: "de"})
	require.NoError(t, err)

	m, err := im.ToDataModel()
	require.NoError(t, err)
	assert.Equal(t, "Pumpe", m.Concepts[0].Name)
	assert.Empty(t, m.Properties[0].Name, "the only property label is english")
}

func TestToDataModel_SubclassVariant(t *testing.T) {
	im, err := New(nil, imftest.SubclassGraph(t), Config{Variant: query.VariantSubclass})
	require.NoError(t, err)

	m, err := im.ToDataModel()
	require.NoError(t, err)

	byID := map[string]api.Concept{}
	for _, c := range m.Concepts {
		byID[c.Concept] = c
	}
	require.Contains(t, byID, "Pump")
	assert.Equal(t, api.Implements{"Block", "Equipment"}, byID["Pump"].Implements)
	require.Contains(t, byID, "Temperature")
	assert.Equal(t, api.Implements{"Attribute"}, byID["Temperature"].Implements)

	props := map[string]api.Property{}
	for _, p := range m.Properties {
		props[p.ID()] = p
	}
	speed, ok := props["Pump.hasSpeed"]
	require.True(t, ok)
	assert.Equal(t, "string", speed.ValueType)
	assert.Equal(t, int64(1450), speed.Default)
	require.NotNil(t, speed.MinCount)
	require.NotNil(t, speed.MaxCount)
	assert.Equal(t, 1, *speed.MinCount)
	assert.Equal(t, 1, *speed.MaxCount)

	pred, ok := props["Temperature.predicate"]
	require.True(t, ok)
	assert.Equal(t, "anyURI", pred.ValueType)
	assert.Equal(t, imftest.NS+"hasTemperature", pred.Default)
}

func TestToDataModel_EmptyGraphFails(t *testing.T) {
	im, err := New(nil, rdfgraph.New(), Config{})
	require.NoError(t, err)

	m, err := im.ToDataModel()
	assert.Nil(t, m)
	require.Error(t, err)

	var mv *issues.MultiValueError
	require.True(t, errors.As(err, &mv))
	require.Len(t, mv.Issues, 2)
	assert.Equal(t, "Unable to parse concepts", mv.Issues[0].Error())
	assert.Equal(t, "Unable to parse properties", mv.Issues[1].Error())
}

func TestToDataModel_WarningsReportedOnFailure(t *testing.T) {
	b := imftest.NewBuilder(t)
	b.Add(imftest.Ex("Valve"), v.RDFType, rdfgraph.IRI(v.IMFBlockType)).
		Add(imftest.Ex("Valve"), v.RDFSSubClassOf, rdfgraph.Blank("r"))

	rep := &issues.Collector{}
	im, err := New(nil, b.G, Config{Reporter: rep})
	require.NoError(t, err)

	_, err = im.ToDataModel()
	require.True(t, issues.IsMultiValue(err))
	require.Len(t, rep.Warnings, 1)
	assert.IsType(t, &issues.ResourceRetrievalWarning{}, rep.Warnings[0])
}

func TestFromFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/types/pump.nt", []byte(pumpNT), 0o644))

	im, err := FromFile(fs, "/types/pump.nt", Config{})
	require.NoError(t, err)
	assert.Zero(t, im.Issues().Len())
	assert.Equal(t, v.IMF, im.Graph().Namespaces()["imf"])

	m, err := im.ToDataModel()
	require.NoError(t, err)
	require.Len(t, m.Concepts, 1)
	assert.Equal(t, "Pump", m.Concepts[0].Concept)
	require.Len(t, m.Properties, 1)
	assert.Equal(t, "float", m.Properties[0].ValueType)
}

func TestFromFile_ReadErrorIsQueued(t *testing.T) {
	im, err := FromFile(memfs.New(), "/missing.ttl", Config{})
	require.NoError(t, err, "read failures surface from ToDataModel")
	require.Equal(t, 1, im.Issues().Len())

	_, err = im.ToDataModel()
	var fre *issues.FileReadError
	require.True(t, errors.As(err, &fre))
	assert.Equal(t, "/missing.ttl", fre.Path)

	var mv *issues.MultiValueError
	require.True(t, errors.As(err, &mv))
	assert.Len(t, mv.Issues, 1, "extraction does not run after a read failure")
}
