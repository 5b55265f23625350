// Package store persists produced models.
//
// Two sinks implement api.Submitter: a JSON document written through a
// billy.Filesystem, and a SQLite database. Open picks one by file extension.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/imfimport/api"
)

// JSONWriter writes a model as an indented JSON document.
type JSONWriter struct {
	fsys billy.Filesystem
	path string
}

func NewJSONWriter(fsys billy.Filesystem, path string) *JSONWriter {
	return &JSONWriter{fsys: fsys, path: path}
}

func (w *JSONWriter) Submit(m *api.UnverifiedConceptualModel) error {
	if m == nil {
		return ErrNoModel
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := w.fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(w.fsys, w.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}

// ReadJSON loads a model written by a JSONWriter.
func ReadJSON(fsys billy.Filesystem, path string) (*api.UnverifiedConceptualModel, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var m api.UnverifiedConceptualModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &m, nil
}

// IsSQLite reports whether path names a SQLite database.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Open returns the sink for path: SQLite for .db, .sqlite and .sqlite3,
// JSON otherwise. SQLite databases are opened on the host filesystem.
func Open(fsys billy.Filesystem, path string) api.Submitter {
	if IsSQLite(path) {
		return NewSQLiteWriter(path)
	}
	return NewJSONWriter(fsys, path)
}

// Read loads a model from either sink format.
func Read(fsys billy.Filesystem, path string) (*api.UnverifiedConceptualModel, error) {
	if IsSQLite(path) {
		return ReadSQLite(path)
	}
	return ReadJSON(fsys, path)
}

var _ api.Submitter = (*JSONWriter)(nil)
