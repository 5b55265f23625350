// Package extract folds concept and property query rows into records.
//
// Rows for the same identity are merged: multi-valued fields accumulate,
// descriptive fields keep their first non-empty value, and conflicting
// redefinitions are reported as warnings on the caller's issue list.
// Rows that cannot be linked to a concept or value type are dropped with a
// warning. Nothing in this package returns an error.
package extract

import (
	"slices"
	"strings"

	"github.com/agentic-research/imfimport/api"
	"github.com/agentic-research/imfimport/internal/compliance"
	"github.com/agentic-research/imfimport/internal/issues"
	"github.com/agentic-research/imfimport/internal/query"
	"github.com/agentic-research/imfimport/internal/rdfgraph"
)

// DefaultUnknownType replaces value types that have no local name.
const DefaultUnknownType = "anyURI"

// Options configure an extraction.
type Options struct {
	Variant    query.Variant
	Language   string
	Normalizer compliance.Normalizer
	// UnknownType stands in for a value type whose identifier strips to the
	// empty string. Empty means DefaultUnknownType.
	UnknownType string
}

func (o Options) params() query.Params {
	return query.Params{Language: o.Language}
}

// Map is an insertion-ordered map owned by one extraction.
type Map[T any] struct {
	keys  []string
	items map[string]*T
}

func newMap[T any]() *Map[T] {
	return &Map[T]{items: make(map[string]*T)}
}

func (m *Map[T]) Len() int { return len(m.keys) }

// Keys returns identities in first-seen order.
func (m *Map[T]) Keys() []string { return slices.Clone(m.keys) }

// Get returns the record for key.
func (m *Map[T]) Get(key string) (*T, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Values returns copies of the records in first-seen order.
func (m *Map[T]) Values() []T {
	out := make([]T, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, *m.items[k])
	}
	return out
}

func (m *Map[T]) put(key string, v *T) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// ParseConcepts runs the concept query of opts.Variant and aggregates the
// rows by concept identifier. An empty result appends a ValueError.
func ParseConcepts(g *rdfgraph.Graph, opts Options, list *issues.List) *Map[api.Concept] {
	out := newMap[api.Concept]()
	for raw := range query.Concepts(opts.Variant).Rows(g, opts.params()) {
		addConcept(out, NormalizeConcept(opts.Normalizer, DecodeConcept(raw)), list)
	}
	if out.Len() == 0 {
		list.Append(&issues.ValueError{Message: "Unable to parse concepts"})
	}
	return out
}

func addConcept(out *Map[api.Concept], row ConceptRow, list *issues.List) {
	if row.Implements.IsBlank() {
		list.Append(&issues.ResourceRetrievalWarning{
			Identifier:   row.Concept,
			ResourceType: "concept",
			Reason:       "unable to determine concept that is being implemented",
		})
		return
	}

	c, seen := out.Get(row.Concept)
	if !seen {
		c = &api.Concept{
			Concept:        row.Concept,
			Name:           row.Name,
			Description:    row.Description,
			InstanceSource: row.Source,
		}
		out.put(row.Concept, c)
	} else {
		mergeText(list, "concept", row.Concept, "name", &c.Name, row.Name)
		mergeText(list, "concept", row.Concept, "description", &c.Description, row.Description)
	}

	if impl := row.Implements.ID; impl != "" && !slices.Contains(c.Implements, impl) {
		c.Implements = append(c.Implements, impl)
	}
}

// property is the accumulating form of api.Property.
type property struct {
	api.Property
	valueTypes []string
}

// ParseProperties runs the property query of opts.Variant and aggregates the
// rows by "{concept}.{property}". Value types of repeated rows are merged in
// first-seen order and joined with ", ". An empty result appends a
// ValueError.
func ParseProperties(g *rdfgraph.Graph, opts Options, list *issues.List) *Map[api.Property] {
	acc := newMap[property]()
	for raw := range query.Properties(opts.Variant).Rows(g, opts.params()) {
		addProperty(acc, NormalizeProperty(opts.Normalizer, DecodeProperty(raw)), list)
	}

	unknown := opts.UnknownType
	if unknown == "" {
		unknown = DefaultUnknownType
	}
	out := newMap[api.Property]()
	for _, id := range acc.keys {
		p := acc.items[id]
		types := make([]string, 0, len(p.valueTypes))
		for _, vt := range p.valueTypes {
			if vt == "" {
				vt = unknown
			}
			if !slices.Contains(types, vt) {
				types = append(types, vt)
			}
		}
		p.ValueType = strings.Join(types, ", ")
		out.put(id, &p.Property)
	}

	if out.Len() == 0 {
		list.Append(&issues.ValueError{Message: "Unable to parse properties"})
	}
	return out
}

func addProperty(acc *Map[property], row PropertyRow, list *issues.List) {
	if !row.Concept.Bound() || row.Concept.IsBlank() {
		list.Append(&issues.ResourceRetrievalWarning{
			Identifier:   row.Property,
			ResourceType: "property",
			Reason:       "unable to determine to what concept property is being defined",
		})
		return
	}
	if !row.ValueType.Bound() || row.ValueType.IsBlank() {
		list.Append(&issues.ResourceRetrievalWarning{
			Identifier:   row.Property,
			ResourceType: "property",
			Reason:       "unable to determine value type of property",
		})
		return
	}

	id := row.Concept.ID + "." + row.Property
	p, seen := acc.Get(id)
	if !seen {
		acc.put(id, &property{
			Property: api.Property{
				Concept:     row.Concept.ID,
				Property:    row.Property,
				Name:        row.Name,
				Description: row.Description,
				MinCount:    row.MinCount,
				MaxCount:    row.MaxCount,
				Default:     row.Default,
			},
			valueTypes: []string{row.ValueType.ID},
		})
		return
	}

	mergeText(list, "property", id, "name", &p.Name, row.Name)
	mergeText(list, "property", id, "description", &p.Description, row.Description)
	if !slices.Contains(p.valueTypes, row.ValueType.ID) {
		p.valueTypes = append(p.valueTypes, row.ValueType.ID)
	}
	if p.MinCount == nil {
		p.MinCount = row.MinCount
	}
	if p.MaxCount == nil {
		p.MaxCount = row.MaxCount
	}
	if p.Default == nil {
		p.Default = row.Default
	}
}

// mergeText adopts next when the stored value is empty. A different
// non-empty value is reported and ignored.
func mergeText(list *issues.List, resourceType, id, feature string, cur *string, next string) {
	switch {
	case next == "" || next == *cur:
	case *cur == "":
		*cur = next
	default:
		list.Append(&issues.ResourceRedefinedWarning{
			Identifier:   id,
			ResourceType: resourceType,
			Feature:      feature,
			CurrentValue: *cur,
			NewValue:     next,
		})
	}
}
