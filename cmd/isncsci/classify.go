package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/internal/loader"
	"github.com/isncsci-mcp-server/internal/service"
	"github.com/isncsci-mcp-server/pkg/isncsci"
)

type classifyOutput struct {
	Summary isncsci.Summary   `json:"summary" yaml:"summary"`
	Totals  domain.TotalsView `json:"totals" yaml:"totals"`
}

func newClassifyCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "classify <exam-file>",
		Short: "Classify an exam document (json, yaml or xml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f loader.Format
			if format != "" {
				var err error
				if f, err = loader.ParseFormat(format); err != nil {
					return err
				}
			}

			req, err := loader.ReadFile(args[0], f)
			if err != nil {
				return err
			}

			classifier, err := service.NewClassifierService(newLogger(cmd), domain.CacheConfig{})
			if err != nil {
				return err
			}

			resp, err := classifier.Classify(cmd.Context(), req)
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), output, classifyOutput{Summary: resp.Summary, Totals: resp.Totals})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json, yaml or xml (default: from file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func writeResult(w io.Writer, output string, out classifyOutput) error {
	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return writeWorksheet(w, out.Summary)
	}
	return fmt.Errorf("unknown output format %q", output)
}

// writeWorksheet prints the summary laid out like the paper worksheet
func writeWorksheet(w io.Writer, s isncsci.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ASIA Impairment Scale\t%s\n", s.AsiaImpairmentScale)
	fmt.Fprintf(tw, "Completeness\t%s\n", s.Completeness)
	fmt.Fprintf(tw, "Neurological level of injury\t%s\n", s.NeurologicalLevelOfInjury)
	fmt.Fprintln(tw)

	rows := [][3]string{
		{"Sensory level", s.RightSensory, s.LeftSensory},
		{"Motor level", s.RightMotor, s.LeftMotor},
		{"Sensory ZPP", s.RightSensoryZPP, s.LeftSensoryZPP},
		{"Motor ZPP", s.RightMotorZPP, s.LeftMotorZPP},
		{"Light touch", s.RightTouchTotal, s.LeftTouchTotal},
		{"Pin prick", s.RightPrickTotal, s.LeftPrickTotal},
		{"Upper motor", s.RightUpperMotorTotal, s.LeftUpperMotorTotal},
		{"Lower motor", s.RightLowerMotorTotal, s.LeftLowerMotorTotal},
		{"Motor", s.RightMotorTotal, s.LeftMotorTotal},
	}
	fmt.Fprintln(tw, "\tRIGHT\tLEFT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r[0], r[1], r[2])
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Touch total\t%s\n", s.TouchTotal)
	fmt.Fprintf(tw, "Prick total\t%s\n", s.PrickTotal)
	fmt.Fprintf(tw, "Upper motor total\t%s\n", s.UpperMotorTotal)
	fmt.Fprintf(tw, "Lower motor total\t%s\n", s.LowerMotorTotal)

	return tw.Flush()
}
