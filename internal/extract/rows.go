package extract

import (
	"github.com/agentic-research/imfimport/internal/compliance"
	"github.com/agentic-research/imfimport/internal/query"
	"github.com/agentic-research/imfimport/internal/rdfgraph"
)

// Ref is a decoded resource binding. The zero Ref is unbound.
type Ref struct {
	ID   string
	Kind rdfgraph.Kind
}

func (r Ref) Bound() bool   { return r.Kind != 0 }
func (r Ref) IsBlank() bool { return r.Kind == rdfgraph.KindBlank }

func refOf(t rdfgraph.Term) Ref {
	return Ref{ID: t.Value, Kind: t.Kind}
}

// ConceptRow is one decoded concept query result.
type ConceptRow struct {
	Concept     string
	Source      string
	Name        string
	Description string
	Implements  Ref
}

// PropertyRow is one decoded property query result.
type PropertyRow struct {
	Concept     Ref
	Property    string
	Name        string
	Description string
	ValueType   Ref
	MinCount    *int
	MaxCount    *int
	Default     any
}

// DecodeConcept converts a concept query row. URIs are kept whole; see
// NormalizeConcept.
func DecodeConcept(r query.Row) ConceptRow {
	concept := r.Get("concept").Value
	return ConceptRow{
		Concept:     concept,
		Source:      concept,
		Name:        r.Get("name").Value,
		Description: r.Get("description").Value,
		Implements:  refOf(r.Get("implements")),
	}
}

// DecodeProperty converts a property query row. Literals become Go values;
// an IRI default is reduced to its local name.
func DecodeProperty(r query.Row) PropertyRow {
	row := PropertyRow{
		Concept:     refOf(r.Get("concept")),
		Property:    r.Get("property_").Value,
		Name:        r.Get("name").Value,
		Description: r.Get("description").Value,
		ValueType:   refOf(r.Get("value_type")),
		MinCount:    count(r.Get("min_count")),
		MaxCount:    count(r.Get("max_count")),
	}
	switch d := r.Get("default"); {
	case d.IsIRI():
		row.Default = compliance.StripNamespace(d.Value)
	case d.IsLiteral():
		row.Default = d.Native()
	}
	return row
}

func count(t rdfgraph.Term) *int {
	if !t.IsLiteral() {
		return nil
	}
	n, ok := t.Native().(int64)
	if !ok || n < 0 {
		return nil
	}
	c := int(n)
	return &c
}

// NormalizeConcept rewrites the concept identifier into a compliant one and
// strips the namespace of the implemented concept.
func NormalizeConcept(n compliance.Normalizer, r ConceptRow) ConceptRow {
	r.Concept = n.Identifier(r.Concept)
	if r.Implements.Kind == rdfgraph.KindIRI {
		r.Implements.ID = compliance.StripNamespace(r.Implements.ID)
	}
	return r
}

// NormalizeProperty rewrites the concept and property identifiers into
// compliant ones. The value type is namespace-stripped only.
func NormalizeProperty(n compliance.Normalizer, r PropertyRow) PropertyRow {
	if r.Concept.Kind == rdfgraph.KindIRI {
		r.Concept.ID = n.Identifier(r.Concept.ID)
	}
	r.Property = n.Identifier(r.Property)
	if r.ValueType.Kind == rdfgraph.KindIRI {
		r.ValueType.ID = compliance.StripNamespace(r.ValueType.ID)
	}
	return r
}
