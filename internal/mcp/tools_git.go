package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/gitops"
)

// AddGitTools registers git porcelain tools over the workspace
// repository.
func AddGitTools(s *server.MCPServer, svc *gitops.Service) {
	status := mcp.NewTool(
		"git_status",
		mcp.WithDescription("Report the current branch and the staged, unstaged, and untracked files of the workspace repository."),
	)
	s.AddTool(status, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := svc.Status()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	})

	add := mcp.NewTool(
		"git_add",
		mcp.WithDescription("Stage files in the workspace repository."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Workspace-relative paths to stage")),
	)
	s.AddTool(add, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		paths := arrayArg(argsMap, "paths")
		if err := svc.Add(paths); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"staged": paths})
	})

	commit := mcp.NewTool(
		"git_commit",
		mcp.WithDescription("Commit staged changes in the workspace repository."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Commit message")),
		mcp.WithBoolean("all",
			mcp.Description("Also stage modified and deleted tracked files first, like git commit -a")),
	)
	s.AddTool(commit, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		message, err := stringArg(argsMap, "message", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := svc.Commit(message, boolArg(argsMap, "all", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	})

	push := mcp.NewTool(
		"git_push",
		mcp.WithDescription("Push the current branch to its remote. Already up to date counts as success."),
	)
	s.AddTool(push, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.Push(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"pushed": true})
	})

	pull := mcp.NewTool(
		"git_pull",
		mcp.WithDescription("Fetch and merge the current branch from its remote. Already up to date counts as success."),
	)
	s.AddTool(pull, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.Pull(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"pulled": true})
	})

	checkout := mcp.NewTool(
		"git_checkout",
		mcp.WithDescription("Switch to a branch in the workspace repository, optionally creating it first."),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Branch name")),
		mcp.WithBoolean("create",
			mcp.Description("Create the branch at HEAD before switching")),
	)
	s.AddTool(checkout, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		branch, err := stringArg(argsMap, "branch", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Checkout(branch, boolArg(argsMap, "create", false)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"branch": branch})
	})
}
