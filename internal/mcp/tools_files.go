package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/fsops"
)

// AddFileTools registers the scoped file-system tools. Every path is
// validated against the workspace root before anything touches the disk.
func AddFileTools(s *server.MCPServer, ops *fsops.Ops) {
	createDir := mcp.NewTool(
		"create_dir",
		mcp.WithDescription("Create a new directory inside the workspace, including missing parents. Fails if the path already exists."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the directory to create")),
	)
	s.AddTool(createDir, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fileToolCall(request, func(argsMap map[string]any) (*fsops.Result, error) {
			path, err := stringArg(argsMap, "path", true)
			if err != nil {
				return nil, err
			}
			return ops.CreateDir(path)
		})
	})

	removePath := mcp.NewTool(
		"remove_path",
		mcp.WithDescription("Remove a file or directory tree inside the workspace. Fails if the path does not exist."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path to remove")),
	)
	s.AddTool(removePath, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fileToolCall(request, func(argsMap map[string]any) (*fsops.Result, error) {
			path, err := stringArg(argsMap, "path", true)
			if err != nil {
				return nil, err
			}
			return ops.Remove(path)
		})
	})

	renamePath := mcp.NewTool(
		"rename_path",
		mcp.WithDescription("Give a file or directory a new name in its current directory. Fails if the target name is taken."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path to rename")),
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("New base name (not a path)")),
	)
	s.AddTool(renamePath, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fileToolCall(request, func(argsMap map[string]any) (*fsops.Result, error) {
			path, err := stringArg(argsMap, "path", true)
			if err != nil {
				return nil, err
			}
			newName, err := stringArg(argsMap, "new_name", true)
			if err != nil {
				return nil, err
			}
			return ops.Rename(path, newName)
		})
	})

	movePath := mcp.NewTool(
		"move_path",
		mcp.WithDescription("Move a file or directory to a new workspace-relative path, creating missing parent directories. Fails if the destination exists."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Workspace-relative path to move")),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Workspace-relative destination path")),
	)
	s.AddTool(movePath, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fileToolCall(request, func(argsMap map[string]any) (*fsops.Result, error) {
			src, err := stringArg(argsMap, "source", true)
			if err != nil {
				return nil, err
			}
			dst, err := stringArg(argsMap, "destination", true)
			if err != nil {
				return nil, err
			}
			return ops.Move(src, dst)
		})
	})
}

// fileToolCall runs one file operation and maps its failures to tool
// errors: bad arguments and unmet preconditions are the caller's to fix,
// and I/O failures are equally actionable through the tool result.
func fileToolCall(request mcp.CallToolRequest, op func(map[string]any) (*fsops.Result, error)) (*mcp.CallToolResult, error) {
	argsMap, err := toolArgs(request.Params.Arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := op(argsMap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}
