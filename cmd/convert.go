package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/imfimport/internal/inspect"
	"github.com/agentic-research/imfimport/internal/store"
)

func newConvertCmd(opts *options) *cobra.Command {
	var out string
	c := &cobra.Command{
		Use:   "convert [source.ttl]",
		Short: "Convert an IMF types file into a data model (JSON or SQLite)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger := opts.logger(cmd)

			start := time.Now()
			m, err := convert(args[0], cfg, logger)
			if err != nil {
				return err
			}

			if out == "" {
				doc, err := inspect.Generic(m)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), inspect.Render([]any{doc}))
				return err
			}
			fsys, path, err := hostPath(out)
			if err != nil {
				return err
			}
			if err := store.Open(fsys, path).Submit(m); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logger.Info("converted", "model", inspect.Summary(m), "out", path, "took", time.Since(start))
			return nil
		},
	}
	c.Flags().StringVarP(&out, "out", "o", "", "Output file (.json, .db, .sqlite); stdout when empty")
	return c
}
