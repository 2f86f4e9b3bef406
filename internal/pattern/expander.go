package pattern

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expander resolves user-supplied path patterns into concrete files with a
// supported extension. Patterns are processed in input order and results are
// deduplicated keeping the first occurrence, so one submission maps to a
// deterministic job list.
type Expander struct {
	extensions map[string]bool
}

// NewExpander creates an expander accepting the given file extensions.
// Extensions are matched case-insensitively and may be given with or without
// the leading dot.
func NewExpander(extensions []string) *Expander {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}
	return &Expander{extensions: exts}
}

// Expand resolves patterns into an ordered, deduplicated list of files plus
// the patterns that matched nothing. A zero-match pattern is reported, not an
// error; matched files with an unsupported extension are silently dropped.
func (e *Expander) Expand(patterns []string) (files []string, unmatched []string) {
	files = []string{}
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		matched, matchedAny := e.expandOne(pattern)
		if !matchedAny {
			unmatched = append(unmatched, pattern)
			continue
		}
		for _, path := range matched {
			if seen[path] {
				continue
			}
			seen[path] = true
			files = append(files, path)
		}
	}
	return files, unmatched
}

// expandOne resolves a single pattern: a glob expression, a literal file or a
// literal directory (supported files directly inside it, non-recursive).
// matchedAny reports whether the pattern matched anything on the filesystem
// at all; a pattern whose matches were all unsupported still counts as
// matched and is not reported back to the caller.
func (e *Expander) expandOne(pattern string) (files []string, matchedAny bool) {
	if strings.ContainsAny(pattern, "*?[") {
		return e.glob(pattern)
	}

	info, err := os.Stat(pattern)
	if err != nil {
		return nil, false
	}
	if info.IsDir() {
		return e.listDir(pattern)
	}
	if info.Mode().IsRegular() && e.supported(pattern) {
		return []string{pattern}, true
	}
	return nil, true
}

// glob expands a wildcard pattern against the filesystem. Recursive ** is
// handled by doublestar, which plain filepath.Glob does not support.
func (e *Expander) glob(pattern string) ([]string, bool) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil || len(matches) == 0 {
		return nil, false
	}

	var out []string
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if e.supported(path) {
			out = append(out, path)
		}
	}
	return out, true
}

// listDir returns the supported regular files directly inside dir
func (e *Expander) listDir(dir string) ([]string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !e.supported(entry.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	return out, true
}

func (e *Expander) supported(path string) bool {
	return e.extensions[strings.ToLower(filepath.Ext(path))]
}
