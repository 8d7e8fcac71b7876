package main

import (
	"fmt"

	"github.com/sourcegraph/scip-semantic/languages"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "localscope-index",
		Short: "Resolve local-variable scopes and emit a SCIP index",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath == "" {
				return nil
			}
			if _, err := languages.LoadManifest(manifestPath); err != nil {
				return fmt.Errorf("loading language manifest: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&manifestPath, "languages", "", "path to a YAML manifest routing extra file extensions to known languages")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newWatchCmd())
	return cmd
}
