package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourcegraph/scip-semantic/languages"
	"github.com/sourcegraph/scip-semantic/localscope"
	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// IndexFile parses path with cfg's grammar, resolves its
// locals with localscope.Index, and returns a scip.Document. relativePath
// is recorded on the document as-is; callers own path normalization.
func IndexFile(ctx context.Context, cfg *localscope.Configuration, path, relativePath string) (*scip.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("indexer: reading %s: %w", path, err)
	}
	return indexSource(ctx, cfg, source, path, relativePath)
}

// IndexFileCached behaves like IndexFile, but consults cache first keyed by
// the file's content hash and populates cache on a miss. cache may be nil,
// in which case it behaves exactly like IndexFile. A cache hit still gets
// relativePath stamped onto the returned document, since the cache key is
// content-only and the same content can be indexed under different relative
// paths across runs.
func IndexFileCached(ctx context.Context, cfg *localscope.Configuration, cache *Cache, path, relativePath string) (*scip.Document, error) {
	if cache == nil {
		return IndexFile(ctx, cfg, path, relativePath)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("indexer: reading %s: %w", path, err)
	}

	hash := ContentHash(source)
	if doc, ok, err := cache.Lookup(ctx, hash); err != nil {
		return nil, err
	} else if ok {
		doc.RelativePath = relativePath
		return doc, nil
	}

	doc, err := indexSource(ctx, cfg, source, path, relativePath)
	if err != nil {
		return nil, err
	}
	if err := cache.Store(ctx, hash, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func indexSource(ctx context.Context, cfg *localscope.Configuration, source []byte, path, relativePath string) (*scip.Document, error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(cfg.Language); err != nil {
		return nil, fmt.Errorf("indexer: setting language for %s: %w", path, err)
	}

	tree := parser.ParseCtx(ctx, source, nil)
	if tree == nil {
		return nil, fmt.Errorf("indexer: parsing %s produced no tree", path)
	}

	occurrences, err := localscope.Index(ctx, cfg, tree, source)
	if err != nil {
		return nil, fmt.Errorf("indexer: resolving locals in %s: %w", path, err)
	}

	return &scip.Document{
		RelativePath: relativePath,
		Language:     cfg.LanguageName,
		Occurrences:  occurrences,
	}, nil
}

// IndexTree discovers source files under root and indexes each, returning
// a scip.Index containing one Document per file. A file that fails to
// index is skipped with its error recorded in errs rather than aborting
// the whole run, since one malformed file should not block indexing the
// rest of a tree. cache may be nil to index without consulting a cache.
func IndexTree(ctx context.Context, root string, include, exclude []string, cache *Cache) (*scip.Index, []error) {
	files, err := Discover(root, include, exclude, func(ext string) (string, bool) {
		_, ok, _ := languages.ForExtension(ext)
		return ext, ok
	})
	if err != nil {
		return nil, []error{err}
	}

	index := &scip.Index{
		Metadata: &scip.Metadata{
			ToolInfo: &scip.ToolInfo{Name: "localscope-index"},
		},
	}

	var errs []error
	for _, f := range files {
		select {
		case <-ctx.Done():
			return index, append(errs, ctx.Err())
		default:
		}

		cfg, ok, err := languages.ForExtension(f.Language)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		doc, err := IndexFileCached(ctx, cfg, cache, f.Path, rel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		index.Documents = append(index.Documents, doc)
	}

	return index, errs
}
