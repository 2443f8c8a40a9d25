package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/config"
	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
	"github.com/sumit756492/Hidden-File-Detector/internal/logging"
	"github.com/sumit756492/Hidden-File-Detector/internal/reporter"
	"github.com/sumit756492/Hidden-File-Detector/internal/scanner"
)

func newScanCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "scan [directory...]",
		Short: "Scan directories for hidden files and encoded content",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := flags.toOverrides(cmd, args)
			cfg, err := loader.Load(overrides)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := ensureOutputDir(cfg.OutputDir); err != nil {
				return err
			}

			roots := append([]string(nil), cfg.Roots...)
			if cfg.Auto {
				roots = append(roots, scanner.CommonHidingSpots()...)
			}

			auditOpts := []logging.Option{
				logging.WithFile(filepath.Join(cfg.OutputDir, "audit.jsonl")),
			}
			if !verbose {
				auditOpts = append(auditOpts, logging.WithoutStderr())
			}
			audit, err := logging.NewAuditLogger("scanner", auditOpts...)
			if err != nil {
				return err
			}
			defer audit.Close()

			now := time.Now().UTC()
			timestamp := now.Format("20060102_150405")

			// Findings stream over the bus as workers emit them; the JSONL
			// artifact is written live from a subscription rather than
			// after the fact.
			bus := findings.NewBus()
			subCtx, cancelSub := context.WithCancel(cmd.Context())
			defer cancelSub()
			var jsonlPath string
			var jsonlErr error
			var drained sync.WaitGroup
			if hasFormat(cfg.Formats, "jsonl") {
				jsonlPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("scan_%s.jsonl", timestamp))
				w := reporter.NewJSONL(jsonlPath)
				ch := bus.Subscribe(subCtx)
				drained.Add(1)
				go func() {
					defer drained.Done()
					for f := range ch {
						if err := w.Write(f); err != nil && jsonlErr == nil {
							jsonlErr = err
						}
					}
					if err := w.Close(); err != nil && jsonlErr == nil {
						jsonlErr = err
					}
				}()
			}

			sc := scanner.New(scanner.Options{
				Roots:       roots,
				MaxFileSize: cfg.MaxFileSize,
				Workers:     cfg.Workers,
				Keywords:    cfg.Keywords,
				Extensions:  cfg.Extensions,
			}, nil, bus, audit)

			summary, err := sc.Run(cmd.Context())
			cancelSub()
			drained.Wait()
			if err != nil {
				return err
			}
			if jsonlErr != nil {
				return jsonlErr
			}

			for _, format := range cfg.Formats {
				format = strings.ToLower(strings.TrimSpace(format))
				switch format {
				case "console":
					reporter.NewConsole(cmd.OutOrStdout()).Render(summary.Findings)
				case "json":
					path := filepath.Join(cfg.OutputDir, fmt.Sprintf("scan_%s.json", timestamp))
					if err := writeJSONArtifact(path, summary.Findings, now); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				case "jsonl":
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", jsonlPath)
				case "md":
					path := filepath.Join(cfg.OutputDir, fmt.Sprintf("scan_%s.md", timestamp))
					content := reporter.RenderMarkdown(summary.Findings, now)
					if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d files and %d dirs in %s: %d findings (%d skipped)\n",
				summary.Files, summary.Dirs, summary.Elapsed.Round(time.Millisecond), len(summary.Findings), summary.Skipped)
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Mirror the audit trail to stderr")

	return cmd
}

func writeJSONArtifact(path string, list []findings.Finding, now time.Time) error {
	data, err := reporter.RenderJSON(list, now)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func hasFormat(formats []string, want string) bool {
	for _, format := range formats {
		if strings.EqualFold(strings.TrimSpace(format), want) {
			return true
		}
	}
	return false
}
