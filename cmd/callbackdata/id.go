package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gramiojs/callback-data/pkg/callbackdata"
	"github.com/gramiojs/callback-data/pkg/schema"
)

func newIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "id <name>...",
		Short: "Print the current and legacy identifiers of schema names",
		Example: `  callbackdata id orders
  callbackdata id orders menu`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			empty := schema.NewBuilder().MustBuild()
			for _, name := range args {
				cd, err := callbackdata.New(name, empty)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", cd.Name(), cd.ID(), cd.LegacyID())
			}
			return nil
		},
	}
}
