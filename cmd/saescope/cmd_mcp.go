package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/saescope/internal/mcp"
	"github.com/nvandessel/saescope/internal/store"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve the feature database over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout that exposes the
SQLite feature table written by 'saescope analyze --format sqlite'.

Tools: feature_stats, feature_summary, classify_summary.
Resources: saescope://features/summary

Example MCP client configuration:
  {"command": "saescope", "args": ["mcp-server", "--output-dir", "/data/out"]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := outputDir(cmd, cfg)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "saescope",
				Version: version,
				DBPath:  store.DBPath(dir),
				Logger:  newLogger(cmd, cfg),
			})
			if err != nil {
				return fmt.Errorf("failed to start MCP server: %w", err)
			}
			defer server.Close()

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String("output-dir", "", "Directory holding feature_stats.db")

	return cmd
}
