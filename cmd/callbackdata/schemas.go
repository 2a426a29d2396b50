package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gramiojs/callback-data/pkg/schema"
)

func newSchemasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "schemas",
		Short:   "List configured schemas with their identifiers",
		Example: `  callbackdata schemas -c callbackdata.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := a.cfg.BuildAll()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tID\tLEGACY\tFIELDS")
			for _, cd := range all {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cd.Name(), cd.ID(), cd.LegacyID(), describeFields(cd.Schema()))
			}
			return w.Flush()
		},
	}
}

// describeFields 输出形如 id:number,status?:enum 的字段摘要，'?' 表示可选字段。
func describeFields(s *schema.Schema) string {
	parts := make([]string, 0, s.Len())
	for _, f := range s.Required() {
		parts = append(parts, f.Key+":"+f.Type.String())
	}
	for _, f := range s.Optional() {
		parts = append(parts, f.Key+"?:"+f.Type.String())
	}
	return strings.Join(parts, ",")
}
