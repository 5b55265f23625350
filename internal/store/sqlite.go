package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/imfimport/api"
)

// ErrNoModel is returned when a database holds no model.
var ErrNoModel = errors.New("store: no model")

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	space TEXT NOT NULL,
	external_id TEXT NOT NULL,
	version TEXT NOT NULL,
	role TEXT NOT NULL,
	created TEXT NOT NULL,
	updated TEXT NOT NULL,
	name TEXT,
	description TEXT,
	creator TEXT
);

CREATE TABLE IF NOT EXISTS concepts (
	concept TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT,
	description TEXT,
	implements JSON,
	instance_source TEXT
);

CREATE TABLE IF NOT EXISTS properties (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	concept TEXT NOT NULL,
	property TEXT NOT NULL,
	name TEXT,
	description TEXT,
	value_type TEXT NOT NULL,
	min_count INTEGER,
	max_count INTEGER,
	default_value JSON
);
CREATE INDEX IF NOT EXISTS idx_properties_concept ON properties(concept);
`

// SQLiteWriter stores a model in a SQLite database, one row per concept and
// property. Submitting replaces whatever model the database held.
type SQLiteWriter struct {
	path string
}

func NewSQLiteWriter(dbPath string) *SQLiteWriter {
	return &SQLiteWriter{path: dbPath}
}

func (w *SQLiteWriter) Submit(m *api.UnverifiedConceptualModel) error {
	if m == nil {
		return ErrNoModel
	}
	db, err := sql.Open("sqlite", w.path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", w.path, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return err
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := writeModel(tx, m); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeModel(tx *sql.Tx, m *api.UnverifiedConceptualModel) error {
	for _, table := range []string{"metadata", "concepts", "properties"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	md := m.Metadata
	_, err := tx.Exec(`
		INSERT INTO metadata (space, external_id, version, role, created, updated, name, description, creator)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		md.Space, md.ExternalID, md.Version, md.Role,
		md.Created.Format(time.RFC3339), md.Updated.Format(time.RFC3339),
		md.Name, md.Description, md.Creator,
	)
	if err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}

	stmtConcept, err := tx.Prepare(`
		INSERT INTO concepts (concept, position, name, description, implements, instance_source)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmtConcept.Close() }()

	for i, c := range m.Concepts {
		impl, err := json.Marshal(c.Implements)
		if err != nil {
			return err
		}
		if _, err := stmtConcept.Exec(c.Concept, i, c.Name, c.Description, string(impl), c.InstanceSource); err != nil {
			return fmt.Errorf("insert concept %s: %w", c.Concept, err)
		}
	}

	stmtProp, err := tx.Prepare(`
		INSERT INTO properties (id, position, concept, property, name, description, value_type, min_count, max_count, default_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmtProp.Close() }()

	for i, p := range m.Properties {
		var def any
		if p.Default != nil {
			raw, err := json.Marshal(p.Default)
			if err != nil {
				return fmt.Errorf("encode default of %s: %w", p.ID(), err)
			}
			def = string(raw)
		}
		_, err := stmtProp.Exec(p.ID(), i, p.Concept, p.Property, p.Name, p.Description,
			p.ValueType, p.MinCount, p.MaxCount, def)
		if err != nil {
			return fmt.Errorf("insert property %s: %w", p.ID(), err)
		}
	}
	return nil
}

// ReadSQLite loads the model stored by a SQLiteWriter. Defaults come back
// with JSON types, so numbers are float64.
func ReadSQLite(dbPath string) (*api.UnverifiedConceptualModel, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	m := &api.UnverifiedConceptualModel{
		Concepts:   []api.Concept{},
		Properties: []api.Property{},
	}
	if err := readMetadata(db, &m.Metadata); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT concept, name, description, implements, instance_source
		FROM concepts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query concepts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var c api.Concept
		var name, desc, impl, source sql.NullString
		if err := rows.Scan(&c.Concept, &name, &desc, &impl, &source); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		c.Name, c.Description, c.InstanceSource = name.String, desc.String, source.String
		if impl.Valid {
			if err := json.Unmarshal([]byte(impl.String), &c.Implements); err != nil {
				return nil, fmt.Errorf("decode implements of %s: %w", c.Concept, err)
			}
		}
		m.Concepts = append(m.Concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	props, err := db.Query(`
		SELECT concept, property, name, description, value_type, min_count, max_count, default_value
		FROM properties ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer func() { _ = props.Close() }()
	for props.Next() {
		var p api.Property
		var name, desc, def sql.NullString
		var minCount, maxCount sql.NullInt64
		if err := props.Scan(&p.Concept, &p.Property, &name, &desc, &p.ValueType, &minCount, &maxCount, &def); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		p.Name, p.Description = name.String, desc.String
		p.MinCount, p.MaxCount = intPtr(minCount), intPtr(maxCount)
		if def.Valid {
			if err := json.Unmarshal([]byte(def.String), &p.Default); err != nil {
				return nil, fmt.Errorf("decode default of %s: %w", p.ID(), err)
			}
		}
		m.Properties = append(m.Properties, p)
	}
	return m, props.Err()
}

func readMetadata(db *sql.DB, md *api.Metadata) error {
	var created, updated string
	var name, desc, creator sql.NullString
	err := db.QueryRow(`
		SELECT space, external_id, version, role, created, updated, name, description, creator
		FROM metadata LIMIT 1`).
		Scan(&md.Space, &md.ExternalID, &md.Version, &md.Role, &created, &updated, &name, &desc, &creator)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoModel
	}
	if err != nil {
		return fmt.Errorf("query metadata: %w", err)
	}

	if md.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return fmt.Errorf("parse created: %w", err)
	}
	if md.Updated, err = time.Parse(time.RFC3339, updated); err != nil {
		return fmt.Errorf("parse updated: %w", err)
	}
	if name.Valid {
		md.Name = &name.String
	}
	md.Description, md.Creator = desc.String, creator.String
	return nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

var _ api.Submitter = (*SQLiteWriter)(nil)
