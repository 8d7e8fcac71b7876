// Package snapshottest provides plain golden-file comparison for the
// localscope package's end-to-end tests, in place of a snapshot-testing
// dependency the rest of the corpus does not otherwise pull in for Go.
package snapshottest

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update snapshot golden files instead of comparing against them")

// Match compares got against the contents of testdata/<name>.golden. Run
// tests with -update to (re)write the golden file from got instead of
// comparing.
func Match(t *testing.T, name string, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
		return
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("snapshot %s does not exist; run tests with -update to create it", path)
	}
	require.NoError(t, err)
	require.Equal(t, string(want), got, "snapshot %s mismatch", path)
}
