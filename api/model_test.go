package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplements_JSONShape(t *testing.T) {
	tests := []struct {
		name string
		in   Implements
		want string
	}{
		{"none", nil, `null`},
		{"one", Implements{"Equipment"}, `"Equipment"`},
		{"many", Implements{"Equipment", "Block"}, `["Equipment","Block"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))

			var back Implements
			require.NoError(t, json.Unmarshal(got, &back))
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestImplements_RejectsNonStrings(t *testing.T) {
	var im Implements
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &im))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &im))
}

func TestConcept_WireNames(t *testing.T) {
	one := 1
	m := UnverifiedConceptualModel{
		Concepts:   []Concept{{Concept: "Pump", Name: "Pump", Implements: Implements{"Equipment"}}},
		Properties: []Property{{Concept: "Pump", Property: "hasFlowRate", ValueType: "float", MinCount: &one}},
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.ElementsMatch(t, []string{"Metadata", "Concepts", "Properties"}, keys(generic))

	prop := generic["Properties"].([]any)[0].(map[string]any)
	assert.Equal(t, "hasFlowRate", prop["property_"])
	assert.Equal(t, "float", prop["value_type"])
	assert.Equal(t, float64(1), prop["min_count"])
	for _, k := range []string{"name", "description", "max_count", "default"} {
		require.Contains(t, prop, k)
		assert.Nil(t, prop[k], k)
	}

	concept := generic["Concepts"].([]any)[0].(map[string]any)
	assert.Equal(t, "Equipment", concept["implements"])
	assert.Equal(t, "Pump", concept["name"])
	for _, k := range []string{"description", "instance_source"} {
		require.Contains(t, concept, k)
		assert.Nil(t, concept[k], k)
	}
	assert.Equal(t, "Pump.hasFlowRate", m.Properties[0].ID())
}

func TestConcept_NullFieldsDecodeEmpty(t *testing.T) {
	c := Concept{Concept: "Pump", Description: "a pump"}
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"concept":"Pump","name":null,"description":"a pump","implements":null,"instance_source":null}`, string(raw))

	var back Concept
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, c, back)

	p := Property{Concept: "Pump", Property: "hasFlowRate", Name: "flow rate", ValueType: "float", Default: 1.5}
	raw, err = json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"concept":"Pump","property_":"hasFlowRate","name":"flow rate","description":null,"value_type":"float","min_count":null,"max_count":null,"default":1.5}`, string(raw))

	var backProp Property
	require.NoError(t, json.Unmarshal(raw, &backProp))
	assert.Equal(t, p, backProp)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
