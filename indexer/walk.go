// Package indexer is the external driver: it walks a source tree, calls
// localscope.Index per file, and assembles a scip.Index. None of this
// package's concerns (file discovery, caching, watching) are part of the
// resolver's correctness surface; they live here specifically so the
// localscope package stays free of file-system and os dependencies.
package indexer

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// WalkResult is one discovered source file, paired with the value
// languageForExt returned for its extension (the extension itself, in
// Discover's own callers — kept opaque here so Discover has no dependency
// on the languages registry's naming).
type WalkResult struct {
	Path     string
	Language string
}

// Discover walks root, returning every file whose extension languageForExt
// accepts and that matches include (when non-empty) and does not match
// exclude.
func Discover(root string, include, exclude []string, languageForExt func(ext string) (string, bool)) ([]WalkResult, error) {
	var results []WalkResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if len(exclude) > 0 && matchesAny(exclude, rel) {
			return nil
		}
		if len(include) > 0 && !matchesAny(include, rel) {
			return nil
		}

		lang, ok := languageForExt(filepath.Ext(path))
		if !ok {
			return nil
		}

		results = append(results, WalkResult{Path: path, Language: lang})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
