package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/imfimport/api"
)

func model() *api.UnverifiedConceptualModel {
	one := 1
	return &api.UnverifiedConceptualModel{
		Metadata: api.Metadata{Space: "imf_space", ExternalID: "IMFDataModel", Version: "v1"},
		Concepts: []api.Concept{
			{Concept: "Pump", Implements: api.Implements{"Equipment"}},
			{Concept: "Valve", Implements: api.Implements{"Equipment", "Block"}},
		},
		Properties: []api.Property{
			{Concept: "Pump", Property: "hasFlowRate", ValueType: "float", MinCount: &one},
			{Concept: "Pump", Property: "hasThing", ValueType: "anyURI"},
		},
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     []any
	}{
		{"path", "$.Concepts[*].concept", []any{"Pump", "Valve"}},
		{"alias", "concepts", []any{"Pump", "Valve"}},
		{"filter", `$.Properties[?(@.min_count == 1)].property_`, []any{"hasFlowRate"}},
		{"untyped alias", "untyped", []any{"hasThing"}},
		{"scalar implements", "$.Concepts[0].implements", []any{"Equipment"}},
		{"no match", "$.Concepts[*].missing", []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(model(), tt.selector)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSelect_Invalid(t *testing.T) {
	_, err := Select(model(), "$.Concepts[?(@.concept ==")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	got, err := Select(model(), "$.Concepts[1].implements")
	require.NoError(t, err)
	out := Render(got)
	assert.Contains(t, out, `"Equipment"`)
	assert.Contains(t, out, `"Block"`)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "imf_space:IMFDataModel/v1: 2 concepts, 2 properties", Summary(model()))
}
