package query

import (
	"fmt"

	"github.com/agentic-research/imfimport/internal/rdfgraph"
	v "github.com/agentic-research/imfimport/internal/vocab"
)

// Variant selects how IMF types are recognised in the graph.
type Variant string

const (
	// VariantShape matches nodes typed imf:BlockType, imf:TerminalType or
	// imf:AttributeType.
	VariantShape Variant = "shape"
	// VariantSubclass matches nodes declared rdfs:subClassOf imf:Block,
	// imf:Terminal or imf:Attribute.
	VariantSubclass Variant = "subclass"
)

// ParseVariant validates a variant name. The empty string selects
// VariantShape.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantShape:
		return VariantShape, nil
	case VariantSubclass:
		return VariantSubclass, nil
	default:
		return "", fmt.Errorf("unknown query variant %q (want %q or %q)", s, VariantShape, VariantSubclass)
	}
}

// Row variables produced by the concept queries.
var ConceptVars = []string{"concept", "name", "description", "implements"}

// Row variables produced by the property queries.
var PropertyVars = []string{"concept", "property_", "name", "description", "value_type", "min_count", "max_count", "default"}

// Concepts returns the concept query of a variant.
func Concepts(variant Variant) *Query {
	if variant == VariantSubclass {
		return subclassConcepts
	}
	return shapeConcepts
}

// Properties returns the property query of a variant.
func Properties(variant Variant) *Query {
	if variant == VariantSubclass {
		return subclassProperties
	}
	return shapeProperties
}

var (
	labelPath       = Alt(Pred(v.RDFSLabel), Pred(v.SKOSPrefLabel))
	descriptionPath = Alt(Pred(v.RDFSComment), Pred(v.SKOSDefinition))
	valueShapePath  = Alt(Pred(v.SHClass), Seq(Pred(v.SHQualifiedValueShape), Pred(v.SHClass)))

	one = rdfgraph.TypedLiteral("1", v.XSDInteger)
)

func conceptLabels() Group {
	return Group{
		Optional(Triple(V("concept"), labelPath, V("name")), Filter(LangOK("name"))),
		Optional(Triple(V("concept"), descriptionPath, V("description")), Filter(LangOK("description"))),
	}
}

// shapeProperty discovers sh:property shapes on ?concept and their optional
// constraints. Cardinality binds into minVar/maxVar.
func shapeProperty(minVar, maxVar string) Group {
	return Group{
		Triple(V("concept"), Pred(v.SHProperty), V("shape")),
		Triple(V("shape"), Pred(v.SHPath), V("property_")),
		Optional(Triple(V("property_"), Pred(v.SKOSPrefLabel), V("name")), Filter(LangOK("name"))),
		Optional(Triple(V("property_"), Pred(v.SKOSDefinition), V("description")), Filter(LangOK("description"))),
		Optional(Triple(V("property_"), Pred(v.RDFSRange), V("range"))),
		Optional(Triple(V("shape"), Pred(v.SHMinCount), V(minVar))),
		Optional(Triple(V("shape"), Pred(v.SHMaxCount), V(maxVar))),
		Optional(Triple(V("shape"), Pred(v.SHHasValue), V("default"))),
		Optional(Triple(V("shape"), valueShapePath, V("valueShape"))),
	}
}

// attributePredicate treats imf:predicate as the single property of an
// attribute type, valued by anyURI, with the predicate's object as default.
func attributePredicate() Group {
	return Group{
		Bind("valueShape", Const(rdfgraph.IRI(v.XSDAnyURI))),
		Bind("property_", Const(rdfgraph.IRI(v.IMFPredicate))),
		Triple(V("concept"), Pred(v.IMFPredicate), V("defaultURI")),
		Bind("default", Str("defaultURI")),
	}
}

var shapeConcepts = &Query{
	Name:   "shape-concepts",
	Select: ConceptVars,
	Where: Group{
		Values("type", v.IMFBlockType, v.IMFTerminalType, v.IMFAttributeType),
		Triple(V("concept"), Pred(v.RDFType), V("type")),
		Optional(Triple(V("concept"), Pred(v.RDFSSubClassOf), V("parent"))),
		conceptLabels(),
		Bind("implements", Coalesce(
			Var("parent"),
			If(Equals("type", v.IMFAttributeType), Const(rdfgraph.IRI(v.IMFAttribute))),
		)),
		Filter(NotBlank("concept")),
	},
}

var subclassConcepts = &Query{
	Name:   "subclass-concepts",
	Select: ConceptVars,
	Where: Group{
		Values("marker", v.IMFBlock, v.IMFTerminal, v.IMFAttribute),
		Triple(V("concept"), Pred(v.RDFSSubClassOf), V("marker")),
		Triple(V("concept"), Pred(v.RDFSSubClassOf), V("implements")),
		conceptLabels(),
		Filter(NotBlank("concept")),
	},
}

var shapeProperties = &Query{
	Name:   "shape-properties",
	Select: PropertyVars,
	Where: Group{
		Union(
			append(Group{
				Values("type", v.IMFBlockType, v.IMFTerminalType),
				Triple(V("concept"), Pred(v.RDFType), V("type")),
			}, shapeProperty("min_count", "max_count")...),
			append(Group{
				Triple(V("concept"), Pred(v.RDFType), I(v.IMFAttributeType)),
			}, attributePredicate()...),
		),
		Bind("value_type", Coalesce(Var("valueShape"), Var("range"))),
		Filter(NotBlank("property_")),
	},
}

var subclassProperties = &Query{
	Name:   "subclass-properties",
	Select: PropertyVars,
	Where: Group{
		Union(
			append(Group{
				Values("marker", v.IMFBlock, v.IMFTerminal),
				Triple(V("concept"), Pred(v.RDFSSubClassOf), V("marker")),
			}, shapeProperty("declaredMin", "declaredMax")...),
			append(Group{
				Triple(V("concept"), Pred(v.RDFSSubClassOf), I(v.IMFAttribute)),
			}, attributePredicate()...),
		),
		Bind("value_type", Coalesce(Var("valueShape"), Var("range"), Const(rdfgraph.IRI(v.XSDString)))),
		Bind("min_count", Coalesce(Var("declaredMin"), If(defaultOnly, Const(one)))),
		Bind("max_count", Coalesce(Var("declaredMax"), If(defaultOnly, Const(one)))),
		Filter(NotBlank("property_")),
	},
}

// defaultOnly holds when a default value is given without any explicit
// cardinality.
var defaultOnly = All(Bound("default"), Unbound("declaredMin"), Unbound("declaredMax"))
