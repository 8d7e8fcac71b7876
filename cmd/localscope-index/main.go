// Command localscope-index walks a source tree, resolves local-variable
// bindings in every recognized file, and emits a SCIP index.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
