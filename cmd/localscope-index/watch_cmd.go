package main

import (
	"fmt"
	"path/filepath"

	"github.com/sourcegraph/scip-semantic/indexer"
	"github.com/sourcegraph/scip-semantic/languages"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Watch a directory tree and re-index files as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			changes := make(chan string)
			ctx := cmd.Context()

			go func() {
				for path := range changes {
					rel, err := filepath.Rel(root, path)
					if err != nil {
						rel = path
					}

					cfg, ok, err := languages.ForExtension(filepath.Ext(path))
					if err != nil || !ok {
						continue
					}

					doc, err := indexer.IndexFile(ctx, cfg, path, rel)
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "localscope-index:", err)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "reindexed %s: %d occurrence(s)\n", rel, len(doc.Occurrences))
				}
			}()

			err := indexer.WatchTree(ctx, root, func(ext string) (string, bool) {
				_, ok, _ := languages.ForExtension(ext)
				return ext, ok
			}, changes)
			close(changes)
			return err
		},
	}

	return cmd
}
