package localscope

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Configuration is the compiled form of a per-language locals query: the
// "query exposing capture_names and per-pattern property_settings"
// spec.md §6 names as the core's entire configuration surface. It mirrors
// the teacher's highlight.Configuration, reduced to what a locals-only
// query needs — the core has no notion of highlights or injections.
type Configuration struct {
	Language     *tree_sitter.Language
	LanguageName string
	Query        *tree_sitter.Query
}

// NewConfiguration compiles localsQuery against lang. Capture names are
// read directly off the compiled query at classification time (classify.go);
// the core never resolves fixed capture indices up front the way a
// highlighter does, because classification here is driven entirely by the
// scope/definition/reference prefix convention (spec.md §4.1), which is
// insensitive to capture order or index.
func NewConfiguration(lang *tree_sitter.Language, languageName string, localsQuery []byte) (*Configuration, error) {
	query, err := tree_sitter.NewQuery(lang, string(localsQuery))
	if err != nil {
		return nil, fmt.Errorf("localscope: error compiling locals query for %s: %w", languageName, err)
	}

	return &Configuration{
		Language:     lang,
		LanguageName: languageName,
		Query:        query,
	}, nil
}

// CaptureNames returns the capture names declared by the compiled query, in
// declaration order.
func (c *Configuration) CaptureNames() []string {
	return c.Query.CaptureNames()
}
