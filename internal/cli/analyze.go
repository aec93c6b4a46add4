package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/analysis"
	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

var analyzeDeps bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the workspace's Python files and print JSON",
	Long: `Analyze every Python file in the workspace and print per-file declaration
counts plus repository totals as JSON. With --deps, print the import
dependency graph instead.

Example:
  dev-kit-mcp-server analyze --root /path/to/project
  dev-kit-mcp-server analyze --deps`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeDeps, "deps", false, "print the import dependency graph")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	root, err := workspace.New(cfg.Root)
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}

	paths, err := root.PythonFiles(cfg.Analysis.Ignore)
	if err != nil {
		return err
	}
	if cfg.Analysis.MaxFiles > 0 && len(paths) > cfg.Analysis.MaxFiles {
		return fmt.Errorf("workspace has %d Python files, exceeding the configured limit of %d", len(paths), cfg.Analysis.MaxFiles)
	}

	var opts []analysis.Option
	if len(cfg.Analysis.AbstractDecorators) > 0 {
		opts = append(opts, analysis.WithAbstractDecorators(cfg.Analysis.AbstractDecorators...))
	}
	if len(cfg.Analysis.GetterDecorators) > 0 {
		opts = append(opts, analysis.WithPropertyDecorators(cfg.Analysis.GetterDecorators...))
	}

	sources := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := root.ReadFile(p)
		if err != nil {
			return err
		}
		sources[p] = string(data)
	}

	if analyzeDeps {
		edges, err := analysis.ResolveSources(sources, opts...)
		if err != nil {
			return err
		}
		return printJSON(edges)
	}

	type fileCounts struct {
		Path   string          `json:"path"`
		Counts analysis.Counts `json:"counts"`
	}
	report := struct {
		Files  []fileCounts    `json:"files"`
		Totals analysis.Counts `json:"totals"`
	}{Files: make([]fileCounts, 0, len(paths))}

	for _, p := range paths {
		mod, err := analysis.Parse(sources[p], opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		counts := analysis.Summarize(mod)
		report.Files = append(report.Files, fileCounts{Path: p, Counts: counts})
		report.Totals.FunctionCount += counts.FunctionCount
		report.Totals.ClassCount += counts.ClassCount
		report.Totals.ImportCount += counts.ImportCount
		report.Totals.VariableCount += counts.VariableCount
	}
	return printJSON(report)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
