package issues

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Triage(t *testing.T) {
	l := NewList("IMFImporter issues")
	redef := &ResourceRedefinedWarning{Identifier: "Pump", ResourceType: "concept", Feature: "description", CurrentValue: "alpha", NewValue: "beta"}
	empty := &ValueError{Message: "Unable to parse concepts"}
	read := &FileReadError{Path: "pump.ttl", Reason: "boom"}

	l.Append(redef, nil, empty, read)

	assert.Equal(t, 3, l.Len())
	assert.True(t, l.HasErrors())
	assert.Equal(t, []Issue{redef}, l.Warnings())
	assert.Equal(t, []Issue{empty, read}, l.Errors())
}

func TestList_AsError(t *testing.T) {
	l := NewList("run")
	l.Append(&ResourceRetrievalWarning{Identifier: "p", ResourceType: "property", Reason: "no value type"})
	assert.NoError(t, l.AsError())

	l.Append(&ValueError{Message: "Unable to parse concepts"}, &ValueError{Message: "Unable to parse properties"})
	err := l.AsError()
	require.Error(t, err)
	assert.True(t, IsMultiValue(fmt.Errorf("wrapped: %w", err)))

	var mv *MultiValueError
	require.ErrorAs(t, err, &mv)
	assert.Len(t, mv.Issues, 2)
	assert.Contains(t, err.Error(), "Unable to parse concepts")
	assert.Contains(t, err.Error(), "Unable to parse properties")

	var ve *ValueError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Unable to parse concepts", ve.Message)
}

func TestList_TriggerWarnings(t *testing.T) {
	l := NewList("run")
	w := &ResourceRetrievalWarning{Identifier: "p", ResourceType: "property", Reason: "no value type"}
	l.Append(w, &ValueError{Message: "x"})

	var c Collector
	l.TriggerWarnings(&c)
	assert.Equal(t, []Issue{w}, c.Warnings)

	l.TriggerWarnings(nil)
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LogReporter{Logger: log.New(&buf)}
	r.Report("run", []Issue{
		&ResourceRedefinedWarning{Identifier: "Pump", ResourceType: "concept", Feature: "name", CurrentValue: "Pump", NewValue: "Pumpe"},
	})
	out := buf.String()
	assert.Contains(t, out, "Pump")
	assert.Contains(t, out, "redefined")
}
