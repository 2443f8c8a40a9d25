package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/config"
)

// runtimeFlagSet tracks scan flags before they are converted into config
// overrides.
type runtimeFlagSet struct {
	auto        bool
	workers     int
	maxFileSize int64
	formats     string
	outputDir   string
	keywords    string
	extensions  string
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().BoolVar(&flags.auto, "auto", false, "Also scan common hiding spots for this OS")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Number of concurrent inspection workers (0 = NumCPU)")
	cmd.Flags().Int64Var(&flags.maxFileSize, "max-file-size", 0, "Largest file content read for decoding, in bytes")
	cmd.Flags().StringVar(&flags.formats, "formats", "", "Comma-separated output formats (console,json,jsonl,md)")
	cmd.Flags().StringVar(&flags.outputDir, "out", "", "Directory for report artifacts")
	cmd.Flags().StringVar(&flags.keywords, "keywords", "", "Comma-separated filename keywords to flag")
	cmd.Flags().StringVar(&flags.extensions, "extensions", "", "Comma-separated filename extensions to flag")
}

func (f runtimeFlagSet) toOverrides(cmd *cobra.Command, roots []string) config.Overrides {
	ov := config.Overrides{Roots: roots}
	if cmd.Flags().Changed("auto") {
		ov.Auto = &f.auto
	}
	if cmd.Flags().Changed("workers") {
		ov.Workers = f.workers
		ov.WorkersSet = true
	}
	if cmd.Flags().Changed("max-file-size") {
		ov.MaxFileSize = f.maxFileSize
		ov.MaxFileSizeSet = true
	}
	if cmd.Flags().Changed("formats") {
		ov.Formats = splitList(f.formats)
	}
	if cmd.Flags().Changed("out") {
		ov.OutputDir = f.outputDir
	}
	if cmd.Flags().Changed("keywords") {
		ov.Keywords = splitList(f.keywords)
	}
	if cmd.Flags().Changed("extensions") {
		ov.Extensions = splitList(f.extensions)
	}
	return ov
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
