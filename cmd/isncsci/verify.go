package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/isncsci-mcp-server/internal/loader"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <case.xml>...",
		Short: "Check XML test cases against their expected totals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				tc, err := loader.LoadTestCase(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				result, err := loader.RunCase(tc)
				if err != nil {
					return err
				}

				logger.WithFields(logrus.Fields{
					"case":       result.Name,
					"mismatches": len(result.Mismatches),
				}).Debug("Test case evaluated")

				if result.Passed() {
					fmt.Fprintf(out, "PASS  %s\n", result.Name)
					continue
				}

				failed++
				fmt.Fprintf(out, "FAIL  %s\n", result.Name)
				for _, m := range result.Mismatches {
					fmt.Fprintf(out, "      %s\n", m)
				}
			}

			fmt.Fprintf(out, "%d passed, %d failed\n", len(args)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d test cases failed", failed, len(args))
			}
			return nil
		},
	}
}
