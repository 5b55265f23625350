// Package importer turns an IMF graph into an unverified conceptual model.
//
// Load problems are queued on an issue list instead of being returned, so a
// caller always gets an Importer and sees every problem at once from
// ToDataModel. Each ToDataModel call starts a fresh list seeded with the
// load problems.
package importer

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"

	"github.com/agentic-research/imfimport/api"
	"github.com/agentic-research/imfimport/internal/compliance"
	"github.com/agentic-research/imfimport/internal/extract"
	"github.com/agentic-research/imfimport/internal/issues"
	"github.com/agentic-research/imfimport/internal/query"
	"github.com/agentic-research/imfimport/internal/rdfgraph"
	"github.com/agentic-research/imfimport/internal/vocab"
)

const (
	// Name identifies the importer in issue titles and model metadata.
	Name = "IMFImporter"

	DefaultLanguage = "en"

	roleInformationArchitect = "information architect"
	creator                  = "Neat"
)

// DataModelID names the produced model.
type DataModelID struct {
	Space      string
	ExternalID string
	Version    string
}

// DefaultDataModelID is used when Config.DataModelID is the zero value.
var DefaultDataModelID = DataModelID{Space: "imf_space", ExternalID: "IMFDataModel", Version: "v1"}

// Config controls one import.
type Config struct {
	DataModelID DataModelID
	// Language selects labels and descriptions. Empty means DefaultLanguage.
	Language string
	Variant  query.Variant
	Policy   compliance.Policy
	// UnknownType replaces value types without a local name. Empty means
	// extract.DefaultUnknownType.
	UnknownType string

	// Reporter receives the warnings once ToDataModel is done. Nil discards
	// them.
	Reporter issues.Reporter
	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
	// Now stamps the metadata. Nil means time.Now.
	Now func() time.Time
}

// Importer converts one graph.
type Importer struct {
	// loaded holds the issues queued before the first run.
	loaded *issues.List
	// issues is the list of the latest run, or loaded before any run.
	issues *issues.List
	graph  *rdfgraph.Graph
	cfg    Config
	logger *log.Logger
}

// New validates cfg and returns an Importer over g. Issues already on list,
// such as load failures, are reported by ToDataModel. A nil list starts
// empty. A data model id without a version is rejected with a
// *issues.ValueError, an unknown variant or identifier policy with the
// parse error.
func New(list *issues.List, g *rdfgraph.Graph, cfg Config) (*Importer, error) {
	if cfg.DataModelID == (DataModelID{}) {
		cfg.DataModelID = DefaultDataModelID
	}
	if cfg.DataModelID.Version == "" {
		return nil, &issues.ValueError{Message: "Version is required when setting a Data Model ID"}
	}
	variant, err := query.ParseVariant(string(cfg.Variant))
	if err != nil {
		return nil, err
	}
	cfg.Variant = variant
	policy, err := compliance.ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if list == nil {
		list = issues.NewList(Name + " issues")
	}
	if g == nil {
		g = rdfgraph.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{loaded: list, issues: list, graph: g, cfg: cfg, logger: logger}, nil
}

// FromFile loads path from fsys and returns an Importer over it. A file
// that cannot be read or parsed is queued as a *issues.FileReadError and the
// Importer runs over an empty graph; the error surfaces from ToDataModel.
func FromFile(fsys billy.Filesystem, path string, cfg Config) (*Importer, error) {
	list := issues.NewList(Name + " issues")
	g, err := rdfgraph.LoadFile(fsys, path)
	if err != nil {
		list.Append(&issues.FileReadError{Path: path, Reason: err.Error()})
		g = rdfgraph.New()
		for prefix, ns := range vocab.DefaultPrefixes() {
			g.Bind(prefix, ns)
		}
	}
	return New(list, g, cfg)
}

// Description is a human-readable summary of the importer.
func (im *Importer) Description() string {
	return "IMF Types importer as unverified conceptual data model"
}

// Issues returns the issue list of the latest ToDataModel call, or the load
// issues before the first call.
func (im *Importer) Issues() *issues.List { return im.issues }

// Graph returns the graph being imported.
func (im *Importer) Graph() *rdfgraph.Graph { return im.graph }

// ToDataModel extracts concepts and properties and assembles the model.
//
// Queued errors are checked before and after extraction. If there are any,
// warnings are still reported and a *issues.MultiValueError carrying every
// error is returned instead of a model. Every call reports only its own
// issues and the load issues.
func (im *Importer) ToDataModel() (*api.UnverifiedConceptualModel, error) {
	im.issues = issues.NewList(im.loaded.Title)
	im.issues.Append(im.loaded.All()...)
	if im.issues.HasErrors() {
		return nil, im.fail()
	}

	opts := extract.Options{
		Variant:     im.cfg.Variant,
		Language:    im.cfg.Language,
		Normalizer:  compliance.Normalizer{Policy: im.cfg.Policy},
		UnknownType: im.cfg.UnknownType,
	}
	concepts := extract.ParseConcepts(im.graph, opts, im.issues)
	properties := extract.ParseProperties(im.graph, opts, im.issues)
	im.logger.Debug("extracted",
		"concepts", concepts.Len(),
		"properties", properties.Len(),
		"issues", im.issues.Len(),
	)

	if im.issues.HasErrors() {
		return nil, im.fail()
	}

	model := &api.UnverifiedConceptualModel{
		Metadata:   im.metadata(),
		Concepts:   concepts.Values(),
		Properties: properties.Values(),
	}
	im.issues.TriggerWarnings(im.cfg.Reporter)
	return model, nil
}

func (im *Importer) fail() error {
	im.issues.TriggerWarnings(im.cfg.Reporter)
	return im.issues.AsError()
}

func (im *Importer) metadata() api.Metadata {
	now := im.cfg.Now().Truncate(time.Second)
	return api.Metadata{
		Role:        roleInformationArchitect,
		Space:       im.cfg.DataModelID.Space,
		ExternalID:  im.cfg.DataModelID.ExternalID,
		Version:     im.cfg.DataModelID.Version,
		Created:     now,
		Updated:     now,
		Description: "Data model imported using " + Name,
		Creator:     creator,
	}
}
