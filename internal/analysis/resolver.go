package analysis

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Edge is one directed dependency from an importing file to the file it
// imports, or to the dotted module path when the import does not match any
// file in the analyzed set. Unresolved is a classification, not an error:
// imports of external or standard-library modules are expected.
type Edge struct {
	ImportingFile string `json:"importing_file"`
	Imported      string `json:"imported"`
	Unresolved    bool   `json:"unresolved"`
}

// Resolve links every import in the supplied modules to the declaring file,
// using the dotted-module-path to file-path convention ("a/b.py" is module
// "a.b", "a/__init__.py" is package "a"). Relative imports resolve against
// the importing file's directory. The result depends only on the contents
// of the mapping: edges are deduplicated and sorted, so permuting map
// iteration order cannot change the output. Import cycles produce ordinary
// edges; no filesystem access is performed.
func Resolve(modules map[string]*Module) []Edge {
	index := buildModuleIndex(modules)

	seen := make(map[Edge]bool)
	var edges []Edge
	for file, mod := range modules {
		for _, imp := range mod.Imports {
			e := resolveImport(file, imp, index)
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].ImportingFile != edges[j].ImportingFile {
			return edges[i].ImportingFile < edges[j].ImportingFile
		}
		return edges[i].Imported < edges[j].Imported
	})
	return edges
}

// ResolveSources parses every file and resolves the resulting models.
// A syntax error in any member fails the whole call with that file's
// error; partial graphs are never returned. Files are parsed in path order
// so the reported error is deterministic.
func ResolveSources(files map[string]string, opts ...Option) ([]Edge, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	modules := make(map[string]*Module, len(files))
	for _, p := range paths {
		mod, err := Parse(files[p], opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		modules[p] = mod
	}
	return Resolve(modules), nil
}

// buildModuleIndex maps dotted module names to the file paths declaring
// them.
func buildModuleIndex(modules map[string]*Module) map[string]string {
	index := make(map[string]string, len(modules))
	for file := range modules {
		name := moduleName(file)
		if name != "" {
			index[name] = file
		}
	}
	return index
}

// moduleName converts a slash-separated file path to its dotted module
// name. Returns "" for paths outside the convention.
func moduleName(file string) string {
	cleaned := path.Clean(file)
	if !strings.HasSuffix(cleaned, ".py") {
		return ""
	}
	trimmed := strings.TrimSuffix(cleaned, ".py")
	trimmed = strings.TrimSuffix(trimmed, "/__init__")
	return strings.ReplaceAll(trimmed, "/", ".")
}

func resolveImport(file string, imp *Import, index map[string]string) Edge {
	target := imp.Module
	if imp.IsRelative {
		target = qualifyRelative(file, imp)
	}

	// exact module match, then longest declaring prefix: importing a.b.c
	// is satisfied by the file declaring a.b
	if target != "" {
		if match, ok := index[target]; ok {
			return Edge{ImportingFile: file, Imported: match}
		}
		rest := target
		for {
			i := strings.LastIndexByte(rest, '.')
			if i < 0 {
				break
			}
			rest = rest[:i]
			if match, ok := index[rest]; ok {
				return Edge{ImportingFile: file, Imported: match}
			}
		}
	}

	unresolvedName := imp.Module
	if imp.IsRelative {
		unresolvedName = strings.Repeat(".", imp.Dots) + imp.Module
	}
	return Edge{ImportingFile: file, Imported: unresolvedName, Unresolved: true}
}

// qualifyRelative turns a relative import into an absolute dotted module
// name using the importing file's directory: one dot is the containing
// package, each extra dot walks one package up.
func qualifyRelative(file string, imp *Import) string {
	dir := path.Dir(file)
	if dir == "." {
		dir = ""
	}
	parts := []string{}
	if dir != "" {
		parts = strings.Split(dir, "/")
	}
	up := imp.Dots - 1
	if up > len(parts) {
		return ""
	}
	parts = parts[:len(parts)-up]

	pkg := strings.Join(parts, ".")
	switch {
	case pkg == "":
		return imp.Module
	case imp.Module == "":
		return pkg
	default:
		return pkg + "." + imp.Module
	}
}
