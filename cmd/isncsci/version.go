package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isncsci-mcp-server/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "isncsci", version.Version)
		},
	}
}
