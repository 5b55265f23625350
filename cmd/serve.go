package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/agentic-research/imfimport/internal/config"
	"github.com/agentic-research/imfimport/internal/inspect"
	"github.com/agentic-research/imfimport/internal/query"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the importer as an MCP tool over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs go to stderr.
			logger := opts.logger(cmd)
			return server.ServeStdio(newMCPServer(cfg, logger))
		},
	}
}

func newMCPServer(cfg config.Config, logger *log.Logger) *server.MCPServer {
	s := server.NewMCPServer("imfimport", Version, server.WithToolCapabilities(false))

	tool := mcp.NewTool("imf_convert",
		mcp.WithDescription("Convert an IMF types file (Turtle, N-Triples or RDF/XML) into an unverified conceptual data model and return it as JSON, or the values selected by a JSONPath expression."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the RDF file")),
		mcp.WithString("language", mcp.Description("Language tag for names and descriptions")),
		mcp.WithString("variant", mcp.Description("Query variant: shape or subclass")),
		mcp.WithString("select", mcp.Description("Optional JSONPath expression or alias")),
	)
	s.AddTool(tool, convertHandler(cfg, logger))
	return s
}

// convertHandler runs a fresh import per call. Import failures, including
// every queued issue, are returned as tool errors.
func convertHandler(base config.Config, logger *log.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cfg := base
		cfg.Language = req.GetString("language", cfg.Language)
		if v := req.GetString("variant", ""); v != "" {
			cfg.Variant = query.Variant(v)
		}
		if err := cfg.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		m, err := convert(path, cfg, logger)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var values []any
		if sel := req.GetString("select", ""); sel != "" {
			if values, err = inspect.Select(m, sel); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		} else {
			doc, err := inspect.Generic(m)
			if err != nil {
				return nil, err
			}
			values = []any{doc}
		}
		return mcp.NewToolResultText(inspect.Render(values)), nil
	}
}
