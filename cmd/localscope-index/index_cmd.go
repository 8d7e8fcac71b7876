package main

import (
	"fmt"
	"os"

	"github.com/sourcegraph/scip-semantic/indexer"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
)

func newIndexCmd() *cobra.Command {
	var (
		output    string
		include   []string
		exclude   []string
		cachePath string
	)

	cmd := &cobra.Command{
		Use:   "index [root]",
		Short: "Index a directory tree and write a SCIP index.scip file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			var cache *indexer.Cache
			if cachePath != "" {
				var err error
				cache, err = indexer.OpenCache(cachePath)
				if err != nil {
					return fmt.Errorf("opening cache: %w", err)
				}
				defer cache.Close()
			}

			index, errs := indexer.IndexTree(cmd.Context(), root, include, exclude, cache)
			for _, err := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), "localscope-index:", err)
			}

			encoded, err := proto.Marshal(index)
			if err != nil {
				return fmt.Errorf("encoding index: %w", err)
			}

			if err := os.WriteFile(output, encoded, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d document(s) into %s\n", len(index.Documents), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "index.scip", "path to write the SCIP index to")
	cmd.Flags().StringSliceVar(&include, "include", nil, "only index paths matching these glob patterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "skip paths matching these glob patterns")
	cmd.Flags().StringVar(&cachePath, "cache", "", "path to a sqlite cache file; reuses results for unchanged file content across runs")

	return cmd
}
