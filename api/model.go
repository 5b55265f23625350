package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// UnverifiedConceptualModel is the document handed to the host's
// unverified conceptual data model loader. Field names are the wire
// contract and must not change.
type UnverifiedConceptualModel struct {
	Metadata   Metadata   `json:"Metadata"`
	Concepts   []Concept  `json:"Concepts"`
	Properties []Property `json:"Properties"`
}

// Metadata identifies the imported data model.
type Metadata struct {
	Role        string    `json:"role"`
	Space       string    `json:"space"`
	ExternalID  string    `json:"external_id"`
	Version     string    `json:"version"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Name        *string   `json:"name"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
}

// Concept is a class-like model element. Every key is always written; an
// empty text field is written as null.
type Concept struct {
	// Concept is the normalized identifier, unique within a model.
	Concept     string `json:"concept"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Implements lists parent concepts in first-seen order.
	Implements Implements `json:"implements"`
	// InstanceSource is the URI the concept was extracted from.
	InstanceSource string `json:"instance_source"`
}

func (c Concept) MarshalJSON() ([]byte, error) {
	type plain Concept
	return json.Marshal(struct {
		plain
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		InstanceSource *string `json:"instance_source"`
	}{
		plain:          plain(c),
		Name:           nullable(c.Name),
		Description:    nullable(c.Description),
		InstanceSource: nullable(c.InstanceSource),
	})
}

// Property is an attribute or relation scoped to a concept. Like Concept,
// every key is always written and unset fields are null.
type Property struct {
	Concept     string `json:"concept"`
	Property    string `json:"property_"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ValueType joins every observed value type with ", ".
	ValueType string `json:"value_type"`
	MinCount  *int   `json:"min_count"`
	MaxCount  *int   `json:"max_count"`
	Default   any    `json:"default"`
}

func (p Property) MarshalJSON() ([]byte, error) {
	type plain Property
	return json.Marshal(struct {
		plain
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}{
		plain:       plain(p),
		Name:        nullable(p.Name),
		Description: nullable(p.Description),
	})
}

// ID is the composite key of a property.
func (p Property) ID() string { return p.Concept + "." + p.Property }

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Implements encodes as null when empty, as a single string for one parent
// and as a list once there are several.
type Implements []string

func (im Implements) MarshalJSON() ([]byte, error) {
	switch len(im) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(im[0])
	default:
		return json.Marshal([]string(im))
	}
}

func (im *Implements) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*im = nil
	case string:
		*im = Implements{v}
	case []any:
		out := make(Implements, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("implements: unexpected element %T", e)
			}
			out = append(out, s)
		}
		*im = out
	default:
		return fmt.Errorf("implements: unexpected value %T", raw)
	}
	return nil
}

// Submitter receives an assembled model, e.g. to validate, persist or
// forward it.
type Submitter interface {
	Submit(m *UnverifiedConceptualModel) error
}
