package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol (MCP) server that exposes the analysis,
file-system, git, and command tools to LLM-powered coding assistants.

The server communicates via stdio (standard MCP transport); diagnostics
go to stderr.

Example:
  dev-kit-mcp-server serve --root /path/to/project`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(context.Background()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
