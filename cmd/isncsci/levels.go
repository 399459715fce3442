package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/isncsci-mcp-server/internal/domain"
)

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the neurological levels from C1 to S4_5",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ORDINAL\tLEVEL\tKEY MUSCLE\tREGION")
			for _, l := range domain.ChainLevels() {
				region := ""
				if l.KeyMuscle {
					region = "upper"
					if l.LowerMuscle {
						region = "lower"
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", l.Ordinal, l.Name, l.KeyMuscle, region)
			}
			return w.Flush()
		},
	}
}
