package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/reporter"
)

func newReportCmd() *cobra.Command {
	var inputPath string
	var outputPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render a findings artifact as markdown or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			switch format {
			case "md":
				if outputPath == "" {
					list, err := reporter.ReadJSONL(inputPath)
					if err != nil {
						return err
					}
					fmt.Fprint(cmd.OutOrStdout(), reporter.RenderMarkdown(list, time.Now().UTC()))
					return nil
				}
				return reporter.RenderReport(inputPath, outputPath)
			case "json":
				list, err := reporter.ReadJSONL(inputPath)
				if err != nil {
					return err
				}
				data, err := reporter.RenderJSON(list, time.Now().UTC())
				if err != nil {
					return err
				}
				if outputPath == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
					return nil
				}
				return os.WriteFile(outputPath, append(data, '\n'), 0o644)
			default:
				return fmt.Errorf("unsupported report format %q (expected md or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Findings JSONL file produced by scan")
	cmd.Flags().StringVar(&outputPath, "output", "", "Destination file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "md", "Report format: md or json")

	return cmd
}
