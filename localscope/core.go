// Package localscope resolves local-variable bindings within a single
// parsed document into SCIP occurrences, given a per-language locals
// query. It has no notion of files, projects, or cross-document symbols:
// callers own parsing, document identity, and aggregation (spec.md §1).
package localscope

import (
	"context"
	"sort"

	"github.com/sourcegraph/scip/bindings/go/scip"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Index resolves every local binding in parsed against cfg's locals
// query and returns one scip.Occurrence per definition and per reference
// that resolves to a definition visible from its position (spec.md §3,
// §4). It never returns a partial result alongside a non-nil error.
func Index(ctx context.Context, cfg *Configuration, parsed *tree_sitter.Tree, source []byte) ([]*scip.Occurrence, error) {
	scopes, definitions, references, err := classify(ctx, cfg, parsed, source)
	if err != nil {
		return nil, err
	}

	root, rest, err := rootScope(parsed, scopes)
	if err != nil {
		return nil, err
	}

	t := newTree(root)

	// Widest-range-first so each scope attaches beneath its true lexical
	// parent rather than beneath a sibling that merely happens to be
	// inserted earlier (spec.md §4.3).
	sort.Slice(rest, func(i, j int) bool { return rest[i].Range.Width() > rest[j].Range.Width() })
	for _, s := range rest {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := t.insertScope(s); err != nil {
			return nil, err
		}
	}

	for _, d := range definitions {
		if err := t.insertDefinition(d); err != nil {
			return nil, err
		}
	}
	for _, r := range references {
		if err := t.insertReference(r); err != nil {
			return nil, err
		}
	}

	if err := t.freeze(); err != nil {
		return nil, err
	}
	return t.emit()
}

// rootScope picks the widest captured scope as the document root and
// returns the remaining scopes to be inserted beneath it. A locals query
// is expected to capture a scope spanning the whole document (typically
// the source_file / translation_unit node); if none does, Index
// synthesizes one from the parse tree's root node so that every
// definition and reference still has somewhere to land (spec.md §4.1
// requires at least one applicable capture per match, but says nothing
// about a document-spanning scope existing by construction).
func rootScope(parsed *tree_sitter.Tree, scopes []*Scope) (*Scope, []*Scope, error) {
	if len(scopes) == 0 {
		return newScope(newSyntaxNode(parsed.RootNode())), nil, nil
	}

	rootIdx := 0
	for i, s := range scopes {
		if s.Range.Width() > scopes[rootIdx].Range.Width() {
			rootIdx = i
		}
	}

	root := scopes[rootIdx]
	if !root.Range.Contains(newSyntaxNode(parsed.RootNode()).Range()) {
		return newScope(newSyntaxNode(parsed.RootNode())), scopes, nil
	}

	rest := make([]*Scope, 0, len(scopes)-1)
	for i, s := range scopes {
		if i != rootIdx {
			rest = append(rest, s)
		}
	}
	return root, rest, nil
}
