package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List compiled functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "FUNCTION\tMETHOD\tURL\tARGS")
				for _, name := range a.registry.Names() {
					fn := a.registry.MustFunction(name).Spec()
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, fn.Operation().Method(), fn.Operation().URL(), strings.Join(fn.Args(), ", "))
				}
				return w.Flush()
			})
		},
	}
}
