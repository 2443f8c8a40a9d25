package scanner

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sumit756492/Hidden-File-Detector/internal/codec"
	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
	"github.com/sumit756492/Hidden-File-Detector/internal/logging"
)

const plausibleText = "the flag is hidden in the admin password file"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runScan(t *testing.T, opts Options) Summary {
	t.Helper()
	s := New(opts, codec.NewDetector(nil), nil, nil)
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return summary
}

func findingsOfType(list []findings.Finding, t findings.DetectionType) []findings.Finding {
	var out []findings.Finding
	for _, f := range list {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

func TestScanFindsHiddenAndFlagFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".stash"), base64.StdEncoding.EncodeToString([]byte(plausibleText)))
	writeFile(t, filepath.Join(root, "password.bak"), "nothing encoded here, just a note")
	writeFile(t, filepath.Join(root, "readme.txt"), "ordinary file, nothing hidden")
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	summary := runScan(t, Options{Roots: []string{root}})

	if got := findingsOfType(summary.Findings, findings.TypeHiddenFile); len(got) != 1 {
		t.Fatalf("hidden file findings = %d, want 1", len(got))
	}
	if got := findingsOfType(summary.Findings, findings.TypeHiddenDir); len(got) != 1 {
		t.Fatalf("hidden dir findings = %d, want 1", len(got))
	}
	if got := findingsOfType(summary.Findings, findings.TypePotentialFlag); len(got) != 1 {
		t.Fatalf("potential flag findings = %d, want 1", len(got))
	}

	encoded := findingsOfType(summary.Findings, findings.TypeEncodedContent)
	if len(encoded) != 1 {
		t.Fatalf("encoded content findings = %d, want 1", len(encoded))
	}
	if encoded[0].Codec != codec.KindBase64.String() {
		t.Errorf("codec = %q", encoded[0].Codec)
	}
	if encoded[0].Decoded != plausibleText {
		t.Errorf("decoded = %q", encoded[0].Decoded)
	}

	for _, f := range summary.Findings {
		if err := f.Validate(); err != nil {
			t.Errorf("invalid finding for %s: %v", f.Path, err)
		}
	}
}

func TestScanFindsEncodedLineInsideFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.config.bak")
	payload := base64.StdEncoding.EncodeToString([]byte(plausibleText))
	writeFile(t, path, "x=1\n"+payload+"\ny=2\n")

	summary := runScan(t, Options{Roots: []string{root}})

	encoded := findingsOfType(summary.Findings, findings.TypeEncodedContent)
	if len(encoded) != 1 {
		t.Fatalf("encoded content findings = %d, want 1", len(encoded))
	}
	if want := path + ":2"; encoded[0].Path != want {
		t.Errorf("path = %q, want %q", encoded[0].Path, want)
	}
	if encoded[0].Decoded != plausibleText {
		t.Errorf("decoded = %q", encoded[0].Decoded)
	}
}

func TestScanFindsEncodedContentInOrdinaryFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	writeFile(t, path, base64.StdEncoding.EncodeToString([]byte(plausibleText)))

	summary := runScan(t, Options{Roots: []string{root}})

	// The innocuous name earns no structural finding, but the content is
	// still inspected.
	if got := len(summary.Findings); got != 1 {
		t.Fatalf("findings = %d, want 1", got)
	}
	f := summary.Findings[0]
	if f.Type != findings.TypeEncodedContent {
		t.Fatalf("type = %s, want %s", f.Type, findings.TypeEncodedContent)
	}
	if f.Path != path {
		t.Errorf("path = %q, want %q", f.Path, path)
	}
	if f.Decoded != plausibleText {
		t.Errorf("decoded = %q", f.Decoded)
	}
}

func TestScanHandlesEmptyAndBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".empty"), "")
	if err := os.WriteFile(filepath.Join(root, ".blob"), []byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01, 0xff}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	summary := runScan(t, Options{Roots: []string{root}})

	if got := findingsOfType(summary.Findings, findings.TypeEncodedContent); len(got) != 0 {
		t.Fatalf("encoded content findings = %d, want 0", len(got))
	}
	if got := findingsOfType(summary.Findings, findings.TypeHiddenFile); len(got) != 2 {
		t.Fatalf("hidden file findings = %d, want 2", len(got))
	}
}

func TestScanSkipsOversizedContent(t *testing.T) {
	root := t.TempDir()
	payload := base64.StdEncoding.EncodeToString([]byte(plausibleText))
	writeFile(t, filepath.Join(root, ".stash"), payload)

	summary := runScan(t, Options{Roots: []string{root}, MaxFileSize: 4})

	if got := findingsOfType(summary.Findings, findings.TypeEncodedContent); len(got) != 0 {
		t.Fatalf("encoded content findings = %d, want 0", len(got))
	}
}

func TestScanCapturesPreviewForSmallFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".note"), "short secret note")

	summary := runScan(t, Options{Roots: []string{root}})

	hidden := findingsOfType(summary.Findings, findings.TypeHiddenFile)
	if len(hidden) != 1 {
		t.Fatalf("hidden file findings = %d, want 1", len(hidden))
	}
	if hidden[0].Preview != "short secret note" {
		t.Errorf("preview = %q", hidden[0].Preview)
	}
}

func TestScanFindingsAreSortedByPath(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{".zeta", ".alpha", ".mid"} {
		writeFile(t, filepath.Join(root, name), "x")
	}

	summary := runScan(t, Options{Roots: []string{root}, Workers: 4})

	paths := make([]string, 0, len(summary.Findings))
	for _, f := range summary.Findings {
		paths = append(paths, f.Path)
	}
	if !sort.StringsAreSorted(paths) {
		t.Fatalf("findings are not sorted: %v", paths)
	}
}

func TestScanMissingRootFails(t *testing.T) {
	s := New(Options{Roots: []string{filepath.Join(t.TempDir(), "nope")}}, nil, nil, nil)
	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected an error when no root is available")
	}
}

func TestScanMixedRootsSucceed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".a"), "x")

	summary := runScan(t, Options{Roots: []string{filepath.Join(root, "missing"), root}})
	if len(summary.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(summary.Findings))
	}
}

func TestScanEmitsFindingsOnBus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".stash"), base64.StdEncoding.EncodeToString([]byte(plausibleText)))

	bus := findings.NewBus()
	subCtx, cancel := context.WithCancel(context.Background())
	ch := bus.Subscribe(subCtx)

	s := New(Options{Roots: []string{root}}, nil, bus, nil)
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	cancel()

	var streamed []findings.Finding
	for f := range ch {
		streamed = append(streamed, f)
	}
	if len(streamed) != len(summary.Findings) {
		t.Fatalf("streamed %d findings, summary has %d", len(streamed), len(summary.Findings))
	}
}

func TestScanAuditsRejectedContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".junk")
	writeFile(t, path, "zq xv jk qq ww")

	var buf bytes.Buffer
	audit, err := logging.NewAuditLogger("scanner",
		logging.WithWriter(&buf), logging.WithoutStderr())
	if err != nil {
		t.Fatalf("audit logger: %v", err)
	}

	s := New(Options{Roots: []string{root}}, nil, nil, audit)
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if !strings.Contains(buf.String(), string(logging.EventFindingRejected)) {
		t.Fatalf("audit trail missing rejection for %s: %s", path, buf.String())
	}
}

func TestScanHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".a"), "x")

	s := New(Options{Roots: []string{root}}, nil, nil, nil)
	if _, err := s.Run(ctx); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestIsPotentialFlag(t *testing.T) {
	keywords := DefaultKeywords()
	extensions := DefaultExtensions()

	tests := []struct {
		name string
		want bool
	}{
		{name: "flag.txt", want: true},
		{name: "MySecretNotes.md", want: true},
		{name: "db_PASSWORD.yml", want: true},
		{name: "settings.orig", want: true},
		{name: "data.swp", want: true},
		{name: "report.pdf", want: false},
		{name: "main.go", want: false},
	}
	for _, tt := range tests {
		if got := IsPotentialFlag(tt.name, keywords, extensions); got != tt.want {
			t.Errorf("IsPotentialFlag(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
