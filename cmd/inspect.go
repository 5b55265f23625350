package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/imfimport/api"
	"github.com/agentic-research/imfimport/internal/inspect"
	"github.com/agentic-research/imfimport/internal/store"
)

func newInspectCmd(opts *options) *cobra.Command {
	var selector string
	c := &cobra.Command{
		Use:   "inspect [model.json|model.db|source.ttl]",
		Short: "Query a data model with JSONPath",
		Long: `Query a data model with JSONPath.

The argument is either a model written by convert (.json, .db, .sqlite) or an
RDF source (.ttl, .nt, .rdf, .owl, .xml), which is converted first.

Aliases: concepts, properties, implements, metadata, untyped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if selector == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), inspect.Summary(m))
				return err
			}
			values, err := inspect.Select(m, selector)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), inspect.Render(values))
			return err
		},
	}
	c.Flags().StringVarP(&selector, "select", "q", "", "JSONPath expression or alias")
	return c
}

func loadModel(cmd *cobra.Command, opts *options, path string) (*api.UnverifiedConceptualModel, error) {
	fsys, abs, err := hostPath(path)
	if err != nil {
		return nil, err
	}
	switch {
	case store.IsSQLite(abs), isJSON(abs):
		return store.Read(fsys, abs)
	default:
		cfg, err := opts.load(cmd)
		if err != nil {
			return nil, err
		}
		return convert(abs, cfg, opts.logger(cmd))
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
