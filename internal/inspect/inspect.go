// Package inspect evaluates JSONPath expressions over a produced model.
package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/imfimport/api"
)

// Aliases are shorthand selectors accepted by Select.
var Aliases = map[string]string{
	"concepts":   "$.Concepts[*].concept",
	"properties": "$.Properties[*]",
	"implements": "$.Concepts[*].implements",
	"metadata":   "$.Metadata",
	"untyped":    `$.Properties[?(@.value_type == "anyURI")].property_`,
}

// Generic converts a model into plain maps and slices, as seen on the wire.
func Generic(m *api.UnverifiedConceptualModel) (any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	v, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return v, nil
}

// Select evaluates a JSONPath expression, or one of the Aliases, against
// the wire form of m.
func Select(m *api.UnverifiedConceptualModel, selector string) ([]any, error) {
	if alias, ok := Aliases[strings.TrimSpace(selector)]; ok {
		selector = alias
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	root, err := Generic(m)
	if err != nil {
		return nil, err
	}
	return x.Get(root), nil
}

// Render formats values as indented JSON with sorted keys, one value per
// line group.
func Render(values []any) string {
	opts := &ojg.Options{Indent: 2, Sort: true}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(oj.JSON(v, opts))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary describes a model in one line.
func Summary(m *api.UnverifiedConceptualModel) string {
	md := m.Metadata
	return fmt.Sprintf("%s:%s/%s: %d concepts, %d properties",
		md.Space, md.ExternalID, md.Version, len(m.Concepts), len(m.Properties))
}
