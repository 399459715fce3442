package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/isncsci-mcp-server/internal/config"
	"github.com/isncsci-mcp-server/internal/domain"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "isncsci",
		Short:        "Classify spinal cord injury exams",
		Long:         "isncsci computes ISNCSCI classifications (ASIA Impairment Scale, neurological levels, zones of partial preservation and totals) from exam documents.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newLevelsCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// newLogger logs to stderr in text form so stdout only carries results
func newLogger(cmd *cobra.Command) *logrus.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return config.NewLogger(domain.LoggingConfig{Level: level, Format: "text", Output: "stderr"})
}
