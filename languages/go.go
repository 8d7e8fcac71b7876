// Package languages wires a concrete grammar and its locals query into a
// localscope.Configuration. It is the only place in the repo that depends
// on a specific tree-sitter grammar binding; the core package
// (localscope) never imports one directly (spec.md §1).
package languages

import (
	_ "embed"

	"github.com/sourcegraph/scip-semantic/localscope"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

//go:embed queries/go/locals.scm
var goLocalsQuery []byte

// Go returns the locals Configuration for the Go grammar.
func Go() (*localscope.Configuration, error) {
	lang := tree_sitter.NewLanguage(tree_sitter_go.Language())
	return localscope.NewConfiguration(lang, "go", goLocalsQuery)
}
