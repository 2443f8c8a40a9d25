package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
)

// RenderReport loads findings from inputPath and writes a markdown summary
// to outputPath.
func RenderReport(inputPath, outputPath string) error {
	list, err := ReadJSONL(inputPath)
	if err != nil {
		return err
	}

	content := RenderMarkdown(list, time.Now())
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown converts a slice of findings into a markdown report.
func RenderMarkdown(list []findings.Finding, now time.Time) string {
	summary := BuildSummary(list, now)

	var b strings.Builder
	b.WriteString("# Hidden File Scan Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", summary.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total findings: **%d**\n\n", summary.Total)

	b.WriteString("## Findings by type\n\n")
	b.WriteString("| Type | Count |\n| --- | ---: |\n")
	for _, entry := range typeOrder {
		fmt.Fprintf(&b, "| %s | %d |\n", entry.label, summary.ByType[entry.key])
	}
	b.WriteString("\n")

	if len(summary.ByCodec) > 0 {
		b.WriteString("## Recovered encodings\n\n")
		b.WriteString("| Codec | Count |\n| --- | ---: |\n")
		for _, name := range summary.sortedCodecs() {
			fmt.Fprintf(&b, "| %s | %d |\n", name, summary.ByCodec[name])
		}
		b.WriteString("\n")
	}

	if summary.Total == 0 {
		b.WriteString("No hidden files or suspicious items found.\n")
		return b.String()
	}

	b.WriteString("## Details\n\n")
	for _, f := range list {
		switch f.Type {
		case findings.TypeEncodedContent:
			fmt.Fprintf(&b, "- `%s` — %s (%s", f.Path, f.Codec, f.Plausibility)
			if f.Codec == "caesar" {
				fmt.Fprintf(&b, ", shift %d", f.Shift)
			}
			fmt.Fprintf(&b, "): %s\n", excerpt(f.Decoded))
		case findings.TypeHiddenDir:
			fmt.Fprintf(&b, "- `%s` — hidden directory\n", f.Path)
		case findings.TypeHiddenFile:
			fmt.Fprintf(&b, "- `%s` — hidden file (%s)\n", f.Path, humanSize(f.Size))
		case findings.TypePotentialFlag:
			fmt.Fprintf(&b, "- `%s` — suspicious filename (%s)\n", f.Path, humanSize(f.Size))
		}
	}

	return b.String()
}

func humanSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
