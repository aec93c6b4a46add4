package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/analysis"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/config"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

const (
	defaultMaxTokens = 1000
	maxMaxTokens     = 20000
)

// AddAnalysisTools registers the source-analysis tools: tokenize,
// parse_module, summarize, analyze_repo, and resolve_dependencies.
func AddAnalysisTools(s *server.MCPServer, root *workspace.Root, cfg config.AnalysisConfig, opts ...analysis.Option) {
	sourceArgs := []mcp.ToolOption{
		mcp.WithString("source",
			mcp.Description("Python source text to analyze. Exactly one of source or path must be given.")),
		mcp.WithString("path",
			mcp.Description("Workspace-relative path of a Python file to analyze.")),
	}

	tokenize := mcp.NewTool(
		"tokenize",
		append([]mcp.ToolOption{
			mcp.WithDescription("Tokenize Python source into a position-ordered token stream (identifiers, keywords, literals, operators, NEWLINE/INDENT/DEDENT). A lexical error ends the stream with a terminal error token."),
			mcp.WithNumber("max_tokens",
				mcp.Description(fmt.Sprintf("Maximum number of tokens to return (1-%d, default: %d)", maxMaxTokens, defaultMaxTokens))),
		}, sourceArgs...)...,
	)
	s.AddTool(tokenize, createTokenizeHandler(root))

	parseModule := mcp.NewTool(
		"parse_module",
		append([]mcp.ToolOption{
			mcp.WithDescription("Parse Python source into its structural model: functions, classes, methods, properties, imports, and variable bindings. Parsing is all-or-nothing; the first syntax error is reported with line and column."),
		}, sourceArgs...)...,
	)
	s.AddTool(parseModule, createParseModuleHandler(root, opts))

	summarize := mcp.NewTool(
		"summarize",
		append([]mcp.ToolOption{
			mcp.WithDescription("Count functions, classes, imports, and variable bindings in Python source. Methods and nested definitions are included in the counts."),
		}, sourceArgs...)...,
	)
	s.AddTool(summarize, createSummarizeHandler(root, opts))

	analyzeRepo := mcp.NewTool(
		"analyze_repo",
		mcp.WithDescription("Analyze every Python file in the workspace: per-file declaration counts plus repository totals. Configured ignore patterns and the usual generated directories are skipped."),
	)
	s.AddTool(analyzeRepo, createAnalyzeRepoHandler(root, cfg, opts))

	resolveDeps := mcp.NewTool(
		"resolve_dependencies",
		mcp.WithDescription("Build the import dependency graph of the workspace's Python files. Imports of files in the workspace resolve to their paths; everything else is classified as unresolved (external)."),
	)
	s.AddTool(resolveDeps, createResolveDependenciesHandler(root, cfg, opts))
}

// loadSource returns the Python source addressed by the tool arguments,
// from the inline source argument or from a file under the root, plus the
// file's relative path ("<inline>" for inline source).
func loadSource(root *workspace.Root, argsMap map[string]any) (string, string, error) {
	source, err := stringArg(argsMap, "source", false)
	if err != nil {
		return "", "", err
	}
	path, err := stringArg(argsMap, "path", false)
	if err != nil {
		return "", "", err
	}
	switch {
	case source != "" && path != "":
		return "", "", fmt.Errorf("source and path are mutually exclusive")
	case source != "":
		return source, "<inline>", nil
	case path != "":
		data, err := root.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), path, nil
	default:
		return "", "", fmt.Errorf("either source or path is required")
	}
}

// syntaxErrorResult renders a parse failure as a tool error carrying the
// file, line, and column unchanged.
func syntaxErrorResult(file string, serr *analysis.SyntaxError) *mcp.CallToolResult {
	payload, err := json.Marshal(map[string]any{
		"file":    file,
		"line":    serr.Line,
		"column":  serr.Column,
		"message": serr.Message,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", file, serr.Error()))
	}
	return mcp.NewToolResultError(string(payload))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

type tokenizeResponse struct {
	File      string           `json:"file"`
	Tokens    []analysis.Token `json:"tokens"`
	Total     int              `json:"total"`
	Truncated bool             `json:"truncated"`
}

func createTokenizeHandler(root *workspace.Root) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, file, err := loadSource(root, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		maxTokens := clampedIntArg(argsMap, "max_tokens", defaultMaxTokens, 1, maxMaxTokens)

		tokens := analysis.Tokenize(source)
		response := &tokenizeResponse{
			File:   file,
			Tokens: tokens,
			Total:  len(tokens),
		}
		if len(tokens) > maxTokens {
			response.Tokens = tokens[:maxTokens]
			response.Truncated = true
		}
		return jsonResult(response)
	}
}

type parseModuleResponse struct {
	File   string           `json:"file"`
	Module *analysis.Module `json:"module"`
}

func createParseModuleHandler(root *workspace.Root, opts []analysis.Option) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, file, err := loadSource(root, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		mod, err := analysis.Parse(source, opts...)
		if err != nil {
			var serr *analysis.SyntaxError
			if errors.As(err, &serr) {
				return syntaxErrorResult(file, serr), nil
			}
			return nil, err
		}
		return jsonResult(&parseModuleResponse{File: file, Module: mod})
	}
}

type summarizeResponse struct {
	File   string          `json:"file"`
	Counts analysis.Counts `json:"counts"`
}

func createSummarizeHandler(root *workspace.Root, opts []analysis.Option) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, file, err := loadSource(root, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		mod, err := analysis.Parse(source, opts...)
		if err != nil {
			var serr *analysis.SyntaxError
			if errors.As(err, &serr) {
				return syntaxErrorResult(file, serr), nil
			}
			return nil, err
		}
		return jsonResult(&summarizeResponse{File: file, Counts: analysis.Summarize(mod)})
	}
}

type fileReport struct {
	Path   string          `json:"path"`
	Counts analysis.Counts `json:"counts"`
}

type analyzeRepoResponse struct {
	Files     []fileReport    `json:"files"`
	Totals    analysis.Counts `json:"totals"`
	FileCount int             `json:"file_count"`
}

// collectSources reads every discoverable Python file, enforcing the
// configured file limit.
func collectSources(root *workspace.Root, cfg config.AnalysisConfig) (map[string]string, []string, error) {
	paths, err := root.PythonFiles(cfg.Ignore)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MaxFiles > 0 && len(paths) > cfg.MaxFiles {
		return nil, nil, fmt.Errorf("workspace has %d Python files, exceeding the configured limit of %d", len(paths), cfg.MaxFiles)
	}
	sources := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := root.ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		sources[p] = string(data)
	}
	return sources, paths, nil
}

func createAnalyzeRepoHandler(root *workspace.Root, cfg config.AnalysisConfig, opts []analysis.Option) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sources, paths, err := collectSources(root, cfg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &analyzeRepoResponse{
			Files:     make([]fileReport, 0, len(paths)),
			FileCount: len(paths),
		}
		for _, p := range paths {
			mod, err := analysis.Parse(sources[p], opts...)
			if err != nil {
				var serr *analysis.SyntaxError
				if errors.As(err, &serr) {
					return syntaxErrorResult(p, serr), nil
				}
				return nil, err
			}
			counts := analysis.Summarize(mod)
			response.Files = append(response.Files, fileReport{Path: p, Counts: counts})
			response.Totals.FunctionCount += counts.FunctionCount
			response.Totals.ClassCount += counts.ClassCount
			response.Totals.ImportCount += counts.ImportCount
			response.Totals.VariableCount += counts.VariableCount
		}
		return jsonResult(response)
	}
}

type resolveDependenciesResponse struct {
	Edges     []analysis.Edge `json:"edges"`
	EdgeCount int             `json:"edge_count"`
	FileCount int             `json:"file_count"`
}

func createResolveDependenciesHandler(root *workspace.Root, cfg config.AnalysisConfig, opts []analysis.Option) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sources, paths, err := collectSources(root, cfg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		edges, err := analysis.ResolveSources(sources, opts...)
		if err != nil {
			var serr *analysis.SyntaxError
			if errors.As(err, &serr) {
				// ResolveSources wraps the error with the file path.
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}
		if edges == nil {
			edges = []analysis.Edge{}
		}
		return jsonResult(&resolveDependenciesResponse{
			Edges:     edges,
			EdgeCount: len(edges),
			FileCount: len(paths),
		})
	}
}
