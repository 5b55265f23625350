// Package imftest builds small IMF graphs for tests.
package imftest

import (
	"testing"

	"github.com/agentic-research/imfimport/internal/rdfgraph"
	v "github.com/agentic-research/imfimport/internal/vocab"
)

// NS is the namespace of fixture resources.
const NS = "http://ex.org/ns#"

// Ex returns a fixture IRI.
func Ex(local string) rdfgraph.Term { return rdfgraph.IRI(NS + local) }

// Builder accumulates triples and fails the test on invalid ones.
type Builder struct {
	t testing.TB
	G *rdfgraph.Graph
}

func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	return &Builder{t: t, G: rdfgraph.New()}
}

// Add inserts s p o. Predicates are given as full IRIs.
func (b *Builder) Add(s rdfgraph.Term, p string, o rdfgraph.Term) *Builder {
	b.t.Helper()
	if err := b.G.Add(s, rdfgraph.IRI(p), o); err != nil {
		b.t.Fatalf("add triple: %v", err)
	}
	return b
}

// Integer is an xsd:integer literal.
func Integer(lex string) rdfgraph.Term { return rdfgraph.TypedLiteral(lex, v.XSDInteger) }

// PumpGraph is the end-to-end fixture in its SHACL-shape form: one block
// type "Pump" implementing Equipment with a hasFlowRate property ranged
// xsd:float and minCount 1.
func PumpGraph(t testing.TB) *rdfgraph.Graph {
	b := NewBuilder(t)
	shape := rdfgraph.Blank("flowShape")
	b.Add(Ex("Pump"), v.RDFType, rdfgraph.IRI(v.IMFBlockType)).
		Add(Ex("Pump"), v.RDFSLabel, rdfgraph.LangLiteral("Pump", "en")).
		Add(Ex("Pump"), v.RDFSLabel, rdfgraph.LangLiteral("Pumpe", "de")).
		Add(Ex("Pump"), v.RDFSSubClassOf, Ex("Equipment")).
		Add(Ex("Pump"), v.SHProperty, shape).
		Add(shape, v.SHPath, Ex("hasFlowRate")).
		Add(shape, v.SHMinCount, Integer("1")).
		Add(Ex("hasFlowRate"), v.RDFSRange, rdfgraph.IRI(v.XSDFloat)).
		Add(Ex("hasFlowRate"), v.SKOSPrefLabel, rdfgraph.LangLiteral("flow rate", "en"))
	return b.G
}

// SubclassGraph declares the same pump through rdfs:subClassOf imf:Block,
// plus an attribute subclass carrying an imf:predicate.
func SubclassGraph(t testing.TB) *rdfgraph.Graph {
	b := NewBuilder(t)
	shape := rdfgraph.Blank("speedShape")
	b.Add(Ex("Pump"), v.RDFSSubClassOf, rdfgraph.IRI(v.IMFBlock)).
		Add(Ex("Pump"), v.RDFSSubClassOf, Ex("Equipment")).
		Add(Ex("Pump"), v.RDFSLabel, rdfgraph.LangLiteral("Pump", "en")).
		Add(Ex("Pump"), v.SHProperty, shape).
		Add(shape, v.SHPath, Ex("hasSpeed")).
		Add(shape, v.SHHasValue, rdfgraph.TypedLiteral("1450", v.XSDInteger)).
		Add(Ex("Temperature"), v.RDFSSubClassOf, rdfgraph.IRI(v.IMFAttribute)).
		Add(Ex("Temperature"), v.IMFPredicate, Ex("hasTemperature"))
	return b.G
}
