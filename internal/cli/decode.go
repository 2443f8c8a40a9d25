package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/codec"
)

func newDecodeCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "decode [data]",
		Short: "Detect and decode a single piece of encoded data",
		Long: "Runs the detection engine over the given argument, the --input file,\n" +
			"or stdin, and prints what was recovered.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, origin, err := decodeInput(cmd, args, inputPath)
			if err != nil {
				return err
			}

			detector := codec.NewDetector(nil)
			det, ok := detector.Detect(codec.Blob{Origin: origin, Data: data})
			if !ok {
				return errors.New("no hidden encoding detected")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "codec: %s\n", det.Kind)
			if det.Kind == codec.KindCaesar {
				fmt.Fprintf(out, "shift: %d\n", det.Shift)
			}
			fmt.Fprintf(out, "plausibility: %s (%.2f)\n", det.Plausibility, det.Confidence)
			fmt.Fprintf(out, "decoded: %s\n", strings.TrimRight(string(det.Decoded), "\n"))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Read the data from a file instead of the argument")

	return cmd
}

func decodeInput(cmd *cobra.Command, args []string, inputPath string) ([]byte, string, error) {
	switch {
	case inputPath != "":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, "", err
		}
		return data, inputPath, nil
	case len(args) == 1:
		return []byte(args[0]), "arg", nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", err
		}
		if len(data) == 0 {
			return nil, "", errors.New("no input: pass data as an argument, via --input, or on stdin")
		}
		return data, "stdin", nil
	}
}
