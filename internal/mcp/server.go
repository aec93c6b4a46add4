// Package mcp wires the analysis engine, scoped file operations, git
// porcelain, and predefined commands into an MCP server speaking the
// stdio transport.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/analysis"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/commands"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/config"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/fsops"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/gitops"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

// Server manages the MCP server lifecycle.
type Server struct {
	config *config.Config
	root   *workspace.Root
	mcp    *server.MCPServer
}

// NewServer creates an MCP server from the loaded configuration and
// registers every tool.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	root, err := workspace.New(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	runner, err := commands.NewRunner(root, cfg.Commands)
	if err != nil {
		return nil, fmt.Errorf("failed to configure commands: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"dev-kit-mcp-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddAnalysisTools(mcpServer, root, cfg.Analysis, parseOptions(cfg)...)
	AddFileTools(mcpServer, fsops.New(root))
	AddGitTools(mcpServer, gitops.NewService(root))
	AddCommandTool(mcpServer, runner)

	return &Server{
		config: cfg,
		root:   root,
		mcp:    mcpServer,
	}, nil
}

// parseOptions translates the configured decorator names into parser
// options.
func parseOptions(cfg *config.Config) []analysis.Option {
	var opts []analysis.Option
	if len(cfg.Analysis.AbstractDecorators) > 0 {
		opts = append(opts, analysis.WithAbstractDecorators(cfg.Analysis.AbstractDecorators...))
	}
	if len(cfg.Analysis.GetterDecorators) > 0 {
		opts = append(opts, analysis.WithPropertyDecorators(cfg.Analysis.GetterDecorators...))
	}
	return opts
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("root", s.root.Dir()).Msg("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Info().Msg("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
