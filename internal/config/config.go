// Package config loads import settings from an optional HCL file.
//
// A file looks like:
//
//	language               = "en"
//	variant                = "shape"
//	identifier_policy      = "uuid"
//	non_existing_node_type = "anyURI"
//
//	data_model {
//	  space       = "imf_space"
//	  external_id = "IMFDataModel"
//	  version     = "v1"
//	}
//
// Every attribute is optional; unset values keep their defaults.
package config

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"golang.org/x/text/language"

	"github.com/agentic-research/imfimport/internal/compliance"
	"github.com/agentic-research/imfimport/internal/extract"
	"github.com/agentic-research/imfimport/internal/importer"
	"github.com/agentic-research/imfimport/internal/issues"
	"github.com/agentic-research/imfimport/internal/query"
)

// Config holds the settings of an import.
type Config struct {
	Language    string
	Variant     query.Variant
	Policy      compliance.Policy
	UnknownType string
	DataModel   importer.DataModelID
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Language:    importer.DefaultLanguage,
		Variant:     query.VariantShape,
		Policy:      compliance.PolicyUUID,
		UnknownType: extract.DefaultUnknownType,
		DataModel:   importer.DefaultDataModelID,
	}
}

type file struct {
	Language            string     `hcl:"language,optional"`
	Variant             string     `hcl:"variant,optional"`
	IdentifierPolicy    string     `hcl:"identifier_policy,optional"`
	NonExistingNodeType string     `hcl:"non_existing_node_type,optional"`
	DataModel           *dataModel `hcl:"data_model,block"`
}

type dataModel struct {
	Space      string `hcl:"space,optional"`
	ExternalID string `hcl:"external_id,optional"`
	Version    string `hcl:"version,optional"`
}

// Load reads an HCL file from fsys over the defaults and validates the
// result. The file name must end in .hcl.
func Load(fsys billy.Filesystem, path string) (Config, error) {
	src, err := util.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, src)
}

// Parse decodes HCL source over the defaults and validates the result.
// filename is used in diagnostics and selects the syntax.
func Parse(filename string, src []byte) (Config, error) {
	var f file
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	c := Default()
	set(&c.Language, f.Language)
	set((*string)(&c.Variant), f.Variant)
	set((*string)(&c.Policy), f.IdentifierPolicy)
	set(&c.UnknownType, f.NonExistingNodeType)
	if dm := f.DataModel; dm != nil {
		// A data_model block replaces the default id as a whole, so a
		// block without a version is rejected rather than completed.
		c.DataModel = importer.DataModelID{Space: dm.Space, ExternalID: dm.ExternalID, Version: dm.Version}
	}
	return c, c.Validate()
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate rejects settings the importer cannot run with.
func (c Config) Validate() error {
	if c.DataModel.Version == "" {
		return &issues.ValueError{Message: "Version is required when setting a Data Model ID"}
	}
	if _, err := query.ParseVariant(string(c.Variant)); err != nil {
		return err
	}
	if _, err := compliance.ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	if c.Language != "*" {
		if _, err := language.Parse(c.Language); err != nil {
			return fmt.Errorf("invalid language %q: %w", c.Language, err)
		}
	}
	return nil
}

// Importer converts the settings into an importer.Config.
func (c Config) Importer() importer.Config {
	return importer.Config{
		DataModelID: c.DataModel,
		Language:    c.Language,
		Variant:     c.Variant,
		Policy:      c.Policy,
		UnknownType: c.UnknownType,
	}
}
