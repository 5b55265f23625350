// Package vocab holds the namespace IRIs and terms used by the IMF queries.
package vocab

// Namespace base IRIs.
const (
	IMF  = "http://ns.imfid.org/imf#"
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	SKOS = "http://www.w3.org/2004/02/skos/core#"
	SH   = "http://www.w3.org/ns/shacl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
)

// IMF classes and predicates.
const (
	IMFBlockType     = IMF + "BlockType"
	IMFTerminalType  = IMF + "TerminalType"
	IMFAttributeType = IMF + "AttributeType"
	IMFBlock         = IMF + "Block"
	IMFTerminal      = IMF + "Terminal"
	IMFAttribute     = IMF + "Attribute"
	IMFPredicate     = IMF + "predicate"
)

const (
	RDFType = RDF + "type"

	RDFSSubClassOf = RDFS + "subClassOf"
	RDFSLabel      = RDFS + "label"
	RDFSComment    = RDFS + "comment"
	RDFSRange      = RDFS + "range"

	SKOSPrefLabel  = SKOS + "prefLabel"
	SKOSDefinition = SKOS + "definition"
)

// SHACL predicates.
const (
	SHProperty            = SH + "property"
	SHPath                = SH + "path"
	SHMinCount            = SH + "minCount"
	SHMaxCount            = SH + "maxCount"
	SHHasValue            = SH + "hasValue"
	SHClass               = SH + "class"
	SHQualifiedValueShape = SH + "qualifiedValueShape"
)

// XSD datatypes.
const (
	XSDString   = XSD + "string"
	XSDAnyURI   = XSD + "anyURI"
	XSDBoolean  = XSD + "boolean"
	XSDInteger  = XSD + "integer"
	XSDInt      = XSD + "int"
	XSDLong     = XSD + "long"
	XSDNonNeg   = XSD + "nonNegativeInteger"
	XSDDecimal  = XSD + "decimal"
	XSDFloat    = XSD + "float"
	XSDDouble   = XSD + "double"
	RDFLangText = RDF + "langString"
)

// DefaultPrefixes are bound on every graph loaded from a file.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"imf":  IMF,
		"rdf":  RDF,
		"rdfs": RDFS,
		"skos": SKOS,
		"sh":   SH,
		"xsd":  XSD,
		"owl":  OWL,
	}
}
