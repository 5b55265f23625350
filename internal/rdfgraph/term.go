package rdfgraph

import (
	"strconv"
	"strings"

	"github.com/agentic-research/imfimport/internal/vocab"
)

// Kind discriminates the three RDF term kinds. The zero Kind marks an
// unbound term.
type Kind uint8

const (
	KindIRI Kind = iota + 1
	KindBlank
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unbound"
	}
}

// Term is an RDF term. It is comparable and used directly as an index key.
// The zero Term is "unbound" and acts as a wildcard in Match.
type Term struct {
	Kind     Kind
	Value    string // IRI, blank node label, or literal lexical form
	Lang     string // language tag, literals only
	Datatype string // datatype IRI, literals only
}

func IRI(v string) Term { return Term{Kind: KindIRI, Value: v} }

func Blank(id string) Term { return Term{Kind: KindBlank, Value: id} }

func Literal(v string) Term { return Term{Kind: KindLiteral, Value: v} }

func LangLiteral(v, lang string) Term {
	return Term{Kind: KindLiteral, Value: v, Lang: lang}
}

func TypedLiteral(v, datatype string) Term {
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

func (t Term) IsZero() bool    { return t.Kind == 0 }
func (t Term) IsIRI() bool     { return t.Kind == KindIRI }
func (t Term) IsBlank() bool   { return t.Kind == KindBlank }
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// String renders the term in N-Triples notation.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		if strings.HasPrefix(t.Value, "_:") {
			return t.Value
		}
		return "_:" + t.Value
	case KindLiteral:
		s := strconv.Quote(t.Value)
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" && t.Datatype != vocab.XSDString {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return ""
	}
}

// Native converts a literal to a Go value according to its datatype:
// int64 for integer types, float64 for decimals and floats, bool for
// booleans, string otherwise. Lexical forms that do not parse fall back to
// the string. Non-literals return their Value.
func (t Term) Native() any {
	if t.Kind != KindLiteral {
		return t.Value
	}
	switch t.Datatype {
	case vocab.XSDInteger, vocab.XSDInt, vocab.XSDLong, vocab.XSDNonNeg:
		if n, err := strconv.ParseInt(strings.TrimSpace(t.Value), 10, 64); err == nil {
			return n
		}
	case vocab.XSDDecimal, vocab.XSDFloat, vocab.XSDDouble:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t.Value), 64); err == nil {
			return f
		}
	case vocab.XSDBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(t.Value)); err == nil {
			return b
		}
	}
	return t.Value
}
