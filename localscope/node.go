package localscope

import (
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// SyntaxNode is the read-only handle the core receives for every captured
// position. It exposes exactly what the resolver needs from the external
// parser: a byte range, node identity, and UTF-8 text extraction (spec.md
// §3). The core never inspects the underlying tree-sitter node any other
// way.
type SyntaxNode struct {
	node tree_sitter.Node
}

func newSyntaxNode(n tree_sitter.Node) SyntaxNode {
	return SyntaxNode{node: n}
}

// Range returns n's byte range within the source buffer.
func (n SyntaxNode) Range() ByteRange {
	return ByteRange{Start: n.node.StartByte(), End: n.node.EndByte()}
}

// Equals reports whether n and other refer to the same syntax-tree node.
// Used to detect that a reference's node is in fact the identifier node of
// a definition (spec.md §4.2).
func (n SyntaxNode) Equals(other SyntaxNode) bool {
	return n.node.Equals(other.node)
}

// Text extracts n's UTF-8 text from source. It fails with InvalidSourceError
// if the captured byte range does not decode as valid UTF-8 (spec.md §4.1,
// §7).
func (n SyntaxNode) Text(source []byte) (string, error) {
	text := n.node.Utf8Text(source)
	if !utf8.ValidString(text) {
		return "", &InvalidSourceError{Range: n.Range()}
	}
	return text, nil
}

// ScipRange converts n's start/end position into the [start_line,
// start_col, end_line, end_col] tuple spec.md §6 specifies for
// Occurrence.Range.
func (n SyntaxNode) ScipRange() []int32 {
	start := n.node.StartPosition()
	end := n.node.EndPosition()
	return []int32{int32(start.Row), int32(start.Column), int32(end.Row), int32(end.Column)}
}
