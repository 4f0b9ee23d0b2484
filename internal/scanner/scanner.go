// Package scanner discovers Python source files for extraction.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Options controls which files a scan returns. Patterns are matched against
// the slash-separated path relative to the scan root and support ** across
// directories (e.g. "**/__pycache__/**").
type Options struct {
	// Include restricts results to paths matching at least one pattern.
	// Empty means everything is included.
	Include []string
	// Exclude drops paths matching any pattern.
	Exclude []string
}

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// matcher applies compiled include/exclude patterns.
type matcher struct {
	include []compiledPattern
	exclude []compiledPattern
}

func newMatcher(opts Options) (*matcher, error) {
	m := &matcher{}

	for _, pattern := range opts.Include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		m.include = append(m.include, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		m.exclude = append(m.exclude, compiledPattern{pattern: pattern, glob: g})
	}

	return m, nil
}

// matches applies include then exclude patterns against the slash-separated
// relative path.
func (m *matcher) matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	if len(m.include) > 0 && !matchesAnyPattern(relPath, m.include) {
		return false
	}
	return !matchesAnyPattern(relPath, m.exclude)
}

// matchesAnyPattern checks if a path matches any of the given patterns. A
// pattern with a leading **/ is also tried without it so "**/foo/**" matches
// "foo/bar.py" at the root, and a pattern without a slash is also tried
// against the base name so "test_*.py" matches at any depth.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	base := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		base = path[idx+1:]
	}

	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if strings.HasPrefix(cp.pattern, "**/") {
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
				if simplifiedGlob.Match(path) {
					return true
				}
			}
		}
		if !strings.Contains(cp.pattern, "/") && cp.glob.Match(base) {
			return true
		}
	}
	return false
}

// IsPythonFile reports whether path names a Python source file.
func IsPythonFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

// Scan resolves root to a list of Python files. A root that is itself a file
// is returned as-is when it is a Python file; a directory is walked
// recursively and patterns are matched against paths relative to it. Results
// come back in walk order (lexical within each directory).
func Scan(root string, opts Options) ([]string, error) {
	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	if !info.IsDir() {
		if !IsPythonFile(root) || !m.matches(filepath.Base(root)) {
			return nil, nil
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// hidden directories (.git, .venv, ...) are never source trees
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPythonFile(path) {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if m.matches(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
