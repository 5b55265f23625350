package rdfgraph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agentic-research/imfimport/internal/vocab"
	billy "github.com/go-git/go-billy/v5"
	"github.com/knakk/rdf"
)

var ErrUnsupportedFormat = errors.New("unsupported rdf format")

// FormatFor picks a decoder format from a file extension.
func FormatFor(path string) (rdf.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".turtle":
		return rdf.Turtle, nil
	case ".nt", ".ntriples":
		return rdf.NTriples, nil
	case ".rdf", ".owl", ".xml":
		return rdf.RDFXML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode reads every triple from r into a new graph.
func Decode(r io.Reader, format rdf.Format) (*Graph, error) {
	if format == rdf.Turtle {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(spaceAfterNumbers(src))
	}

	g := New()
	dec := rdf.NewTripleDecoder(r, format)
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode triple %d: %w", g.Len()+1, err)
		}
		if err := g.Add(fromRDF(tr.Subj), fromRDF(tr.Pred), fromRDF(tr.Obj)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadFile parses the file at path on fsys and binds the default IMF
// prefixes on the result.
func LoadFile(fsys billy.Filesystem, path string) (*Graph, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // read-only

	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for prefix, ns := range vocab.DefaultPrefixes() {
		g.Bind(prefix, ns)
	}
	return g, nil
}

func fromRDF(t rdf.Term) Term {
	switch v := t.(type) {
	case rdf.IRI:
		return IRI(v.String())
	case rdf.Blank:
		return Blank(v.String())
	case rdf.Literal:
		lit := Term{Kind: KindLiteral, Value: v.String(), Lang: v.Lang()}
		if lit.Lang == "" {
			lit.Datatype = v.DataType.String()
		}
		return lit
	default:
		return Term{}
	}
}

// spaceAfterNumbers inserts a space between a digit and a following tab or
// line break outside IRIs, strings and comments. The Turtle lexer only ends
// a bare numeric literal at a space or punctuation, so "sh:maxCount 1\n ]"
// would otherwise fail to parse.
func spaceAfterNumbers(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/64)
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '<':
			end := bytes.IndexByte(src[i:], '>')
			if end < 0 {
				return append(out, src[i:]...)
			}
			out = append(out, src[i:i+end+1]...)
			i += end
		case '#':
			end := bytes.IndexByte(src[i:], '\n')
			if end < 0 {
				return append(out, src[i:]...)
			}
			out = append(out, src[i:i+end]...)
			i += end - 1
		case '"', '\'':
			end := stringEnd(src, i)
			out = append(out, src[i:end]...)
			i = end - 1
		default:
			out = append(out, c)
			if c >= '0' && c <= '9' && i+1 < len(src) {
				switch src[i+1] {
				case '\n', '\r', '\t':
					out = append(out, ' ')
				}
			}
		}
	}
	return out
}

// stringEnd returns the index just past the string literal starting at
// src[start]. Unterminated literals run to the end of their line, or of the
// input for long literals, and are left for the decoder to reject.
func stringEnd(src []byte, start int) int {
	q := src[start]
	long := []byte{q, q, q}
	if bytes.HasPrefix(src[start:], long) {
		for j := start + 3; j < len(src); j++ {
			switch {
			case src[j] == '\\':
				j++
			case bytes.HasPrefix(src[j:], long):
				end := j + 3
				for end < len(src) && src[end] == q {
					end++
				}
				return end
			}
		}
		return len(src)
	}
	for j := start + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}
