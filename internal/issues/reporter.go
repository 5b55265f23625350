package issues

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Reporter receives the warnings of a successful (or failed) run once
// extraction is over.
type Reporter interface {
	Report(title string, warnings []Issue)
}

// LogReporter writes each warning as a structured log line.
type LogReporter struct {
	Logger *log.Logger
}

func (r *LogReporter) Report(title string, warnings []Issue) {
	r.Logger.Debug("reporting issues", "title", title, "count", len(warnings))
	for _, w := range warnings {
		r.Logger.Warn(w.Error(), kv(w)...)
	}
}

func kv(is Issue) []any {
	switch w := is.(type) {
	case *ResourceRedefinedWarning:
		return []any{"kind", "redefined", "type", w.ResourceType, "id", w.Identifier, "feature", w.Feature}
	case *ResourceRetrievalWarning:
		return []any{"kind", "retrieval", "type", w.ResourceType, "id", w.Identifier}
	default:
		return []any{"kind", fmt.Sprintf("%T", is)}
	}
}

// Collector keeps reported warnings in memory.
type Collector struct {
	Warnings []Issue
}

func (c *Collector) Report(_ string, warnings []Issue) {
	c.Warnings = append(c.Warnings, warnings...)
}
