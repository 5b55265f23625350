package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/imfimport/api"
	"github.com/agentic-research/imfimport/internal/compliance"
	"github.com/agentic-research/imfimport/internal/config"
	"github.com/agentic-research/imfimport/internal/importer"
	"github.com/agentic-research/imfimport/internal/issues"
	"github.com/agentic-research/imfimport/internal/query"
)

// Version is reported by the MCP server.
var Version = "dev"

// options are the flags shared by every command.
type options struct {
	configPath string
	debug      bool

	language    string
	space       string
	externalID  string
	version     string
	variant     string
	policy      string
	unknownType string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "imfimport",
		Short:         "Import IMF types into an unverified conceptual data model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to an HCL config file")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVarP(&opts.language, "language", "l", importer.DefaultLanguage, "Language tag for names and descriptions")
	pf.StringVar(&opts.space, "space", importer.DefaultDataModelID.Space, "Data model space")
	pf.StringVar(&opts.externalID, "external-id", importer.DefaultDataModelID.ExternalID, "Data model external id")
	pf.StringVar(&opts.version, "model-version", importer.DefaultDataModelID.Version, "Data model version")
	pf.StringVar(&opts.variant, "variant", string(query.VariantShape), "Query variant: shape or subclass")
	pf.StringVar(&opts.policy, "identifier-policy", string(compliance.PolicyUUID), "Identifier policy: uuid or always")
	pf.StringVar(&opts.unknownType, "non-existing-node-type", "", "Value type used when a type has no local name")

	root.AddCommand(newConvertCmd(opts), newInspectCmd(opts), newServeCmd(opts))
	return root
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load resolves the configuration: defaults, then the config file, then
// flags that were set explicitly.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		fsys, path, err := hostPath(o.configPath)
		if err != nil {
			return cfg, err
		}
		if cfg, err = config.Load(fsys, path); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("language", &cfg.Language, o.language)
	override("space", &cfg.DataModel.Space, o.space)
	override("external-id", &cfg.DataModel.ExternalID, o.externalID)
	override("model-version", &cfg.DataModel.Version, o.version)
	override("variant", (*string)(&cfg.Variant), o.variant)
	override("identifier-policy", (*string)(&cfg.Policy), o.policy)
	override("non-existing-node-type", &cfg.UnknownType, o.unknownType)
	return cfg, cfg.Validate()
}

func (o *options) logger(cmd *cobra.Command) *log.Logger {
	level := log.InfoLevel
	if o.debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// convert loads an RDF file and runs the importer over it.
func convert(path string, cfg config.Config, logger *log.Logger) (*api.UnverifiedConceptualModel, error) {
	fsys, abs, err := hostPath(path)
	if err != nil {
		return nil, err
	}

	ic := cfg.Importer()
	ic.Logger = logger
	ic.Reporter = &issues.LogReporter{Logger: logger}

	im, err := importer.FromFile(fsys, abs, ic)
	if err != nil {
		return nil, err
	}
	logger.Debug("importing", "source", abs, "triples", im.Graph().Len(), "variant", cfg.Variant)
	return im.ToDataModel()
}

// hostPath returns the host filesystem and path as an absolute path in it.
func hostPath(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return osfs.New("/"), abs, nil
}
