// Package query evaluates precompiled graph patterns against an
// rdfgraph.Graph.
//
// A Query is a Group of patterns applied left to right to a set of partial
// solutions, starting from a single empty solution. The algebra covers what
// the IMF queries need: triple patterns with property paths, inline VALUES,
// OPTIONAL, UNION, BIND and FILTER. Parameters such as the language tag are
// passed at evaluation time rather than spliced into query text.
package query

import (
	"iter"
	"maps"

	"github.com/agentic-research/imfimport/internal/rdfgraph"
)

// Row maps variable names to bound terms. Absent keys are unbound.
type Row map[string]rdfgraph.Term

// Get returns the binding for name, or the zero Term when unbound.
func (r Row) Get(name string) rdfgraph.Term { return r[name] }

// Bound reports whether name has a binding.
func (r Row) Bound(name string) bool { return !r[name].IsZero() }

func (r Row) with(name string, t rdfgraph.Term) Row {
	out := maps.Clone(r)
	if out == nil {
		out = Row{}
	}
	out[name] = t
	return out
}

// Params are the named parameters of a query evaluation.
type Params struct {
	Language string
}

// Pattern transforms a set of solutions.
type Pattern interface {
	apply(g *rdfgraph.Graph, p Params, in []Row) []Row
}

// Group applies its patterns in sequence.
type Group []Pattern

func (grp Group) apply(g *rdfgraph.Graph, p Params, in []Row) []Row {
	rows := in
	for _, pat := range grp {
		if len(rows) == 0 {
			return nil
		}
		rows = pat.apply(g, p, rows)
	}
	return rows
}

// Query is a precompiled, named query.
type Query struct {
	Name   string
	Select []string
	Where  Group
}

// Rows evaluates the query and yields projected rows. Evaluation happens on
// first iteration; each call to the returned sequence re-evaluates.
func (q *Query) Rows(g *rdfgraph.Graph, p Params) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, sol := range q.Where.apply(g, p, []Row{{}}) {
			row := make(Row, len(q.Select))
			for _, name := range q.Select {
				if t, ok := sol[name]; ok && !t.IsZero() {
					row[name] = t
				}
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Node is a triple pattern position: a variable or a constant term.
type Node struct {
	name  string
	value rdfgraph.Term
}

// V is a variable node.
func V(name string) Node { return Node{name: name} }

// T is a constant node.
func T(t rdfgraph.Term) Node { return Node{value: t} }

// I is a constant IRI node.
func I(iri string) Node { return T(rdfgraph.IRI(iri)) }

func (n Node) resolve(r Row) rdfgraph.Term {
	if n.name == "" {
		return n.value
	}
	return r[n.name]
}

// bind extends r so that n matches t. It reports false on a conflict.
func (n Node) bind(r Row, t rdfgraph.Term) (Row, bool) {
	if n.name == "" {
		return r, n.value == t
	}
	if cur, ok := r[n.name]; ok && !cur.IsZero() {
		return r, cur == t
	}
	return r.with(n.name, t), true
}

// Path is a property path between two nodes.
type Path interface {
	// pairs yields (subject, object) pairs; zero terms are wildcards.
	pairs(g *rdfgraph.Graph, s, o rdfgraph.Term) iter.Seq2[rdfgraph.Term, rdfgraph.Term]
}

type predPath rdfgraph.Term

// Pred is a single-predicate path.
func Pred(iri string) Path { return predPath(rdfgraph.IRI(iri)) }

func (pp predPath) pairs(g *rdfgraph.Graph, s, o rdfgraph.Term) iter.Seq2[rdfgraph.Term, rdfgraph.Term] {
	return func(yield func(rdfgraph.Term, rdfgraph.Term) bool) {
		for t := range g.Match(s, rdfgraph.Term(pp), o) {
			if !yield(t.S, t.O) {
				return
			}
		}
	}
}

type altPath []Path

// Alt matches any of the given paths (p1|p2).
func Alt(paths ...Path) Path { return altPath(paths) }

func (ap altPath) pairs(g *rdfgraph.Graph, s, o rdfgraph.Term) iter.Seq2[rdfgraph.Term, rdfgraph.Term] {
	return func(yield func(rdfgraph.Term, rdfgraph.Term) bool) {
		for _, p := range ap {
			for x, y := range p.pairs(g, s, o) {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}

type seqPath [2]Path

// Seq matches first then second (p1/p2).
func Seq(first, second Path) Path { return seqPath{first, second} }

func (sp seqPath) pairs(g *rdfgraph.Graph, s, o rdfgraph.Term) iter.Seq2[rdfgraph.Term, rdfgraph.Term] {
	return func(yield func(rdfgraph.Term, rdfgraph.Term) bool) {
		for x, mid := range sp[0].pairs(g, s, rdfgraph.Term{}) {
			for _, y := range sp[1].pairs(g, mid, o) {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}

type triplePattern struct {
	s    Node
	path Path
	o    Node
}

// Triple matches s path o.
func Triple(s Node, path Path, o Node) Pattern {
	return triplePattern{s: s, path: path, o: o}
}

func (tp triplePattern) apply(g *rdfgraph.Graph, _ Params, in []Row) []Row {
	var out []Row
	for _, r := range in {
		for subj, obj := range tp.path.pairs(g, tp.s.resolve(r), tp.o.resolve(r)) {
			next, ok := tp.s.bind(r, subj)
			if !ok {
				continue
			}
			if next, ok = tp.o.bind(next, obj); ok {
				out = append(out, next)
			}
		}
	}
	return out
}

type valuesPattern struct {
	name  string
	terms []rdfgraph.Term
}

// Values binds name to each of the given IRIs in turn.
func Values(name string, iris ...string) Pattern {
	terms := make([]rdfgraph.Term, len(iris))
	for i, iri := range iris {
		terms[i] = rdfgraph.IRI(iri)
	}
	return valuesPattern{name: name, terms: terms}
}

func (vp valuesPattern) apply(_ *rdfgraph.Graph, _ Params, in []Row) []Row {
	var out []Row
	for _, t := range vp.terms {
		for _, r := range in {
			if next, ok := V(vp.name).bind(r, t); ok {
				out = append(out, next)
			}
		}
	}
	return out
}

type optionalPattern Group

// Optional extends each solution with the group's matches, or keeps it
// unchanged when the group has none.
func Optional(patterns ...Pattern) Pattern { return optionalPattern(patterns) }

func (op optionalPattern) apply(g *rdfgraph.Graph, p Params, in []Row) []Row {
	var out []Row
	for _, r := range in {
		ext := Group(op).apply(g, p, []Row{r})
		if len(ext) == 0 {
			out = append(out, r)
			continue
		}
		out = append(out, ext...)
	}
	return out
}

type unionPattern []Group

// Union concatenates the solutions of each branch.
func Union(branches ...Group) Pattern { return unionPattern(branches) }

func (up unionPattern) apply(g *rdfgraph.Graph, p Params, in []Row) []Row {
	var out []Row
	for _, branch := range up {
		out = append(out, branch.apply(g, p, in)...)
	}
	return out
}

type bindPattern struct {
	name string
	expr Expr
}

// Bind assigns the value of expr to name. A zero result leaves name unbound.
// Solutions where name is already bound are passed through.
func Bind(name string, expr Expr) Pattern { return bindPattern{name: name, expr: expr} }

func (bp bindPattern) apply(_ *rdfgraph.Graph, p Params, in []Row) []Row {
	out := make([]Row, 0, len(in))
	for _, r := range in {
		if r.Bound(bp.name) {
			out = append(out, r)
			continue
		}
		if t := bp.expr(r, p); !t.IsZero() {
			r = r.with(bp.name, t)
		}
		out = append(out, r)
	}
	return out
}

type filterPattern Cond

// Filter keeps solutions for which cond holds.
func Filter(cond Cond) Pattern { return filterPattern(cond) }

func (fp filterPattern) apply(_ *rdfgraph.Graph, p Params, in []Row) []Row {
	var out []Row
	for _, r := range in {
		if fp(r, p) {
			out = append(out, r)
		}
	}
	return out
}
