package query

import (
	"strings"

	"github.com/agentic-research/imfimport/internal/rdfgraph"
	"golang.org/x/text/language"
)

// Expr computes a term from a solution. The zero Term means "no value".
type Expr func(r Row, p Params) rdfgraph.Term

// Cond is a filter condition.
type Cond func(r Row, p Params) bool

// Var reads a variable.
func Var(name string) Expr {
	return func(r Row, _ Params) rdfgraph.Term { return r[name] }
}

// Const always yields t.
func Const(t rdfgraph.Term) Expr {
	return func(Row, Params) rdfgraph.Term { return t }
}

// Str yields the lexical form of a variable as a plain literal.
func Str(name string) Expr {
	return func(r Row, _ Params) rdfgraph.Term {
		t := r[name]
		if t.IsZero() {
			return t
		}
		return rdfgraph.Literal(t.Value)
	}
}

// Coalesce yields the first non-zero value.
func Coalesce(exprs ...Expr) Expr {
	return func(r Row, p Params) rdfgraph.Term {
		for _, e := range exprs {
			if t := e(r, p); !t.IsZero() {
				return t
			}
		}
		return rdfgraph.Term{}
	}
}

// If yields then when cond holds, and the zero Term otherwise.
func If(cond Cond, then Expr) Expr {
	return func(r Row, p Params) rdfgraph.Term {
		if cond(r, p) {
			return then(r, p)
		}
		return rdfgraph.Term{}
	}
}

// Bound holds when name has a binding.
func Bound(name string) Cond {
	return func(r Row, _ Params) bool { return r.Bound(name) }
}

// Unbound holds when name has no binding.
func Unbound(name string) Cond {
	return func(r Row, _ Params) bool { return !r.Bound(name) }
}

// Equals holds when name is bound to the given IRI.
func Equals(name, iri string) Cond {
	want := rdfgraph.IRI(iri)
	return func(r Row, _ Params) bool { return r[name] == want }
}

// All holds when every cond holds.
func All(conds ...Cond) Cond {
	return func(r Row, p Params) bool {
		for _, c := range conds {
			if !c(r, p) {
				return false
			}
		}
		return true
	}
}

// NotBlank holds when name is unbound or bound to a non-blank term.
func NotBlank(name string) Cond {
	return func(r Row, _ Params) bool { return !r[name].IsBlank() }
}

// LangOK holds when name is unbound, is an untagged value, or carries a
// language tag matching Params.Language.
func LangOK(name string) Cond {
	return func(r Row, p Params) bool {
		t := r[name]
		if t.IsZero() || t.Lang == "" {
			return true
		}
		return LangMatches(t.Lang, p.Language)
	}
}

// LangMatches reports whether a language tag falls within a language range.
// "*" matches any non-empty tag. Otherwise the tag matches when it equals
// the range or when the range is one of its ancestors, so "en" matches
// "en-US" and "en-GB", and "zh-Hant" matches "zh-TW" (whose parent is
// zh-Hant).
func LangMatches(tag, rng string) bool {
	if tag == "" || rng == "" {
		return false
	}
	if rng == "*" {
		return true
	}

	// RFC 4647 basic filtering on subtags.
	lt, lr := strings.ToLower(tag), strings.ToLower(rng)
	if lt == lr || strings.HasPrefix(lt, lr+"-") {
		return true
	}

	t, errT := language.Parse(tag)
	want, errR := language.Parse(rng)
	if errT != nil || errR != nil {
		return false
	}
	target := want.String()
	for {
		if t.String() == target {
			return true
		}
		if t.IsRoot() {
			return false
		}
		t = t.Parent()
	}
}
