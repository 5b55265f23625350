// Package issues collects the warnings and errors of a single import run.
//
// A List is append-only while extraction runs. Only the top-level caller
// triages it: Errors decides whether the run failed, TriggerWarnings hands
// the advisory issues to a Reporter.
package issues

import (
	"errors"
	"fmt"
	"strings"
)

// Severity separates fatal issues from advisory ones.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one entry of a List.
type Issue interface {
	error
	Severity() Severity
}

// ResourceRetrievalWarning reports a row that was dropped because a linked
// resource could not be resolved.
type ResourceRetrievalWarning struct {
	Identifier   string
	ResourceType string
	Reason       string
}

func (w *ResourceRetrievalWarning) Error() string {
	return fmt.Sprintf("failed to retrieve %s %q: %s", w.ResourceType, w.Identifier, w.Reason)
}

func (w *ResourceRetrievalWarning) Severity() Severity { return SeverityWarning }

// ResourceRedefinedWarning reports a descriptive field that was defined again
// with a different value. The first value is kept.
type ResourceRedefinedWarning struct {
	Identifier   string
	ResourceType string
	Feature      string
	CurrentValue any
	NewValue     any
}

func (w *ResourceRedefinedWarning) Error() string {
	return fmt.Sprintf("%s %q redefines %s: keeping %v, ignoring %v",
		w.ResourceType, w.Identifier, w.Feature, w.CurrentValue, w.NewValue)
}

func (w *ResourceRedefinedWarning) Severity() Severity { return SeverityWarning }

// FileReadError reports a source that could not be read or parsed.
type FileReadError struct {
	Path   string
	Reason string
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %s", e.Path, e.Reason)
}

func (e *FileReadError) Severity() Severity { return SeverityError }

// ValueError reports an invalid value or an empty extraction result.
type ValueError struct {
	Message string
}

func (e *ValueError) Error() string { return e.Message }

func (e *ValueError) Severity() Severity { return SeverityError }

// List is an ordered collection of issues.
type List struct {
	Title string
	items []Issue
}

func NewList(title string) *List {
	return &List{Title: title}
}

// Append adds issues in order. Nil issues are ignored.
func (l *List) Append(issues ...Issue) {
	for _, is := range issues {
		if is != nil {
			l.items = append(l.items, is)
		}
	}
}

// Len returns the number of issues.
func (l *List) Len() int { return len(l.items) }

// All returns a copy of every issue in append order.
func (l *List) All() []Issue {
	return append([]Issue(nil), l.items...)
}

func (l *List) HasErrors() bool {
	for _, is := range l.items {
		if is.Severity() == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the fatal issues in append order.
func (l *List) Errors() []Issue { return l.filter(SeverityError) }

// Warnings returns the advisory issues in append order.
func (l *List) Warnings() []Issue { return l.filter(SeverityWarning) }

func (l *List) filter(sev Severity) []Issue {
	var out []Issue
	for _, is := range l.items {
		if is.Severity() == sev {
			out = append(out, is)
		}
	}
	return out
}

// TriggerWarnings hands every warning to r. A nil Reporter discards them.
func (l *List) TriggerWarnings(r Reporter) {
	if r == nil {
		return
	}
	if ws := l.Warnings(); len(ws) > 0 {
		r.Report(l.Title, ws)
	}
}

// AsError returns a *MultiValueError with every error of the list, or nil
// when the list has none.
func (l *List) AsError() error {
	errs := l.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &MultiValueError{Title: l.Title, Issues: errs}
}

// MultiValueError carries every fatal issue of a failed run.
type MultiValueError struct {
	Title  string
	Issues []Issue
}

func (e *MultiValueError) Error() string {
	var b strings.Builder
	if e.Title != "" {
		b.WriteString(e.Title)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d error(s)", len(e.Issues))
	for _, is := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(is.Error())
	}
	return b.String()
}

// Unwrap exposes the individual issues to errors.Is and errors.As.
func (e *MultiValueError) Unwrap() []error {
	out := make([]error, len(e.Issues))
	for i, is := range e.Issues {
		out[i] = is
	}
	return out
}

// IsMultiValue reports whether err wraps a *MultiValueError.
func IsMultiValue(err error) bool {
	var mv *MultiValueError
	return errors.As(err, &mv)
}
