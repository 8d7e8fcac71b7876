package localscope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_MixedCaptureCategoriesIsFatal(t *testing.T) {
	cfg := goConfig(t)

	badQuery := `
(source_file) @scope
(function_declaration
  name: (identifier) @definition.function
  body: (block) @reference)
`
	badCfg, err := NewConfiguration(cfg.Language, "go", []byte(badQuery))
	require.NoError(t, err)

	tree := parseGo(t, "package p\n\nfunc f() {}\n")

	_, _, _, err = classify(context.Background(), badCfg, tree, []byte("package p\n\nfunc f() {}\n"))
	require.Error(t, err)

	var malformed *MalformedQueryError
	require.ErrorAs(t, err, &malformed)
}

func TestClassify_UnknownScopePropertyIsFatal(t *testing.T) {
	badQuery := `
(source_file) @scope
(function_declaration
  name: (identifier) @definition.function
  (#set! scope nonsense))
`
	lang := goConfig(t).Language
	badCfg, err := NewConfiguration(lang, "go", []byte(badQuery))
	require.NoError(t, err)

	source := "package p\n\nfunc f() {}\n"
	tree := parseGo(t, source)

	_, _, _, err = classify(context.Background(), badCfg, tree, []byte(source))
	require.Error(t, err)

	var malformed *MalformedQueryError
	require.ErrorAs(t, err, &malformed)
}
