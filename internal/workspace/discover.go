package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Directories never worth descending into, independent of configured
// ignore patterns.
var skippedDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
	".venv":        true,
}

// PythonFiles walks the root and returns the slash-separated relative paths
// of all .py files, sorted. Hidden directories and the usual generated
// trees are skipped, the root .gitignore is honored, and ignore holds
// additional glob patterns matched against the relative path
// (e.g. "build/**", "*_pb2.py").
func (r *Root) PythonFiles(ignore []string) ([]string, error) {
	globs := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	gitignore, err := r.gitignoreGlobs()
	if err != nil {
		return nil, err
	}
	globs = append(globs, gitignore...)

	var files []string
	err = filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == r.dir {
				return nil
			}
			name := d.Name()
			if skippedDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		rel := r.Rel(path)
		if matchesAny(globs, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk workspace: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// gitignoreGlobs reads the root's .gitignore, if any, and compiles its
// patterns for matching against slash-separated relative paths. The
// handling is deliberately simplified: comment and negation lines are
// skipped, a leading '/' anchors the pattern at the root, a trailing '/'
// names a directory whose contents are ignored, and a pattern without a
// slash matches at any depth, as git does.
func (r *Root) gitignoreGlobs() ([]glob.Glob, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	var globs []glob.Glob
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		anchored := strings.HasPrefix(line, "/")
		line = strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/")
		if line == "" {
			continue
		}

		variants := []string{line, line + "/**"}
		if !anchored && !strings.Contains(line, "/") {
			variants = append(variants, "**/"+line, "**/"+line+"/**")
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				// a malformed line ignores nothing, matching git's behavior
				continue
			}
			globs = append(globs, g)
		}
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
