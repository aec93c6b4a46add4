package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/commands"
)

// AddCommandTool registers run_command, which executes only the commands
// predefined in configuration.
func AddCommandTool(s *server.MCPServer, runner *commands.Runner) {
	description := "Run a predefined project command and return its exit code, stdout, and stderr. Only commands from the server configuration can be run."
	if names := runner.Names(); len(names) > 0 {
		description += " Configured commands: " + strings.Join(names, ", ") + "."
	}

	tool := mcp.NewTool(
		"run_command",
		mcp.WithDescription(description),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the configured command to run")),
	)
	s.AddTool(tool, createRunCommandHandler(runner))
}

func createRunCommandHandler(runner *commands.Runner) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := stringArg(argsMap, "name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := runner.Run(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	}
}
