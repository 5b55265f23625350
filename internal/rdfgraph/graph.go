// Package rdfgraph is an in-memory RDF triple store with roaring bitmap
// indexes on subject, predicate and object.
package rdfgraph

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/RoaringBitmap/roaring"
)

var ErrInvalidTriple = errors.New("invalid triple")

// Triple is a single RDF statement.
type Triple struct {
	S, P, O Term
}

// Graph is a set of triples. Triples keep their insertion order, which is
// also the iteration order of Match.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	triples []Triple
	seen    map[Triple]uint32

	// Term → bitmap of triple indexes, one map per position.
	bySubject   map[Term]*roaring.Bitmap
	byPredicate map[Term]*roaring.Bitmap
	byObject    map[Term]*roaring.Bitmap

	namespaces map[string]string
}

func New() *Graph {
	return &Graph{
		seen:        make(map[Triple]uint32),
		bySubject:   make(map[Term]*roaring.Bitmap),
		byPredicate: make(map[Term]*roaring.Bitmap),
		byObject:    make(map[Term]*roaring.Bitmap),
		namespaces:  make(map[string]string),
	}
}

// Add inserts a triple. Subjects must be IRIs or blank nodes and predicates
// must be IRIs. Adding a triple that already exists is a no-op.
func (g *Graph) Add(s, p, o Term) error {
	if s.Kind != KindIRI && s.Kind != KindBlank {
		return fmt.Errorf("%w: subject %s", ErrInvalidTriple, s.Kind)
	}
	if p.Kind != KindIRI {
		return fmt.Errorf("%w: predicate %s", ErrInvalidTriple, p.Kind)
	}
	if o.IsZero() {
		return fmt.Errorf("%w: unbound object", ErrInvalidTriple)
	}

	t := Triple{S: s, P: p, O: o}
	if _, ok := g.seen[t]; ok {
		return nil
	}
	id := uint32(len(g.triples))
	g.triples = append(g.triples, t)
	g.seen[t] = id

	index(g.bySubject, s, id)
	index(g.byPredicate, p, id)
	index(g.byObject, o, id)
	return nil
}

func index(m map[Term]*roaring.Bitmap, key Term, id uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(id)
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Match yields every triple matching the pattern in insertion order. A zero
// Term in any position matches anything.
func (g *Graph) Match(s, p, o Term) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		var sets []*roaring.Bitmap
		for _, pos := range []struct {
			term Term
			idx  map[Term]*roaring.Bitmap
		}{{s, g.bySubject}, {p, g.byPredicate}, {o, g.byObject}} {
			if pos.term.IsZero() {
				continue
			}
			bm, ok := pos.idx[pos.term]
			if !ok {
				return
			}
			sets = append(sets, bm)
		}

		if len(sets) == 0 {
			for _, t := range g.triples {
				if !yield(t) {
					return
				}
			}
			return
		}

		hits := sets[0]
		if len(sets) > 1 {
			hits = roaring.FastAnd(sets...)
		}
		it := hits.Iterator()
		for it.HasNext() {
			if !yield(g.triples[it.Next()]) {
				return
			}
		}
	}
}

// Bind associates a prefix with a namespace IRI, replacing any earlier
// binding for the prefix.
func (g *Graph) Bind(prefix, namespace string) {
	g.namespaces[prefix] = namespace
}

// Namespaces returns a copy of the prefix bindings.
func (g *Graph) Namespaces() map[string]string {
	return maps.Clone(g.namespaces)
}
