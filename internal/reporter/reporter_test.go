package reporter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/sumit756492/Hidden-File-Detector/internal/codec"
	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
)

func sampleFindings() []findings.Finding {
	ts := findings.NewTimestamp(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	return []findings.Finding{
		{
			Version:    findings.SchemaVersion,
			ID:         findings.NewID(),
			Type:       findings.TypeHiddenDir,
			Path:       "/srv/app/.git",
			DetectedAt: ts,
		},
		{
			Version:    findings.SchemaVersion,
			ID:         findings.NewID(),
			Type:       findings.TypeHiddenFile,
			Path:       "/srv/app/.env",
			Size:       120,
			Preview:    "DB_PASSWORD=hunter2",
			DetectedAt: ts,
		},
		{
			Version:      findings.SchemaVersion,
			ID:           findings.NewID(),
			Type:         findings.TypeEncodedContent,
			Path:         "/srv/app/.stash",
			Size:         64,
			Codec:        codec.KindCaesar.String(),
			Shift:        7,
			Decoded:      "the flag is hidden in the admin password file",
			Plausibility: findings.PlausibilityStrong,
			DetectedAt:   ts,
		},
	}
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary(sampleFindings(), time.Now())
	if s.Total != 3 {
		t.Fatalf("total = %d", s.Total)
	}
	if s.ByType[findings.TypeHiddenFile] != 1 || s.ByType[findings.TypeHiddenDir] != 1 {
		t.Errorf("type counts = %v", s.ByType)
	}
	if s.ByCodec["caesar"] != 1 {
		t.Errorf("codec counts = %v", s.ByCodec)
	}
	if s.ByLevel[findings.PlausibilityStrong] != 1 {
		t.Errorf("level counts = %v", s.ByLevel)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleFindings(), time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Version != findings.SchemaVersion {
		t.Errorf("version = %q", doc.Version)
	}
	if len(doc.Findings) != 3 {
		t.Errorf("findings = %d", len(doc.Findings))
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(sampleFindings(), time.Now())

	for _, want := range []string{
		"# Hidden File Scan Report",
		"| Encoded content | 1 |",
		"| caesar | 1 |",
		"shift 7",
		"/srv/app/.env",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown is missing %q", want)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	out := RenderMarkdown(nil, time.Now())
	if !strings.Contains(out, "No hidden files or suspicious items found.") {
		t.Fatalf("unexpected empty report:\n%s", out)
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.jsonl")
	w := NewJSONL(path)
	list := sampleFindings()
	for _, f := range list {
		if err := w.Write(f); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(list) {
		t.Fatalf("got %d findings, want %d", len(got), len(list))
	}
	if got[2].Decoded != list[2].Decoded || got[2].Shift != 7 {
		t.Errorf("decoded finding did not survive: %+v", got[2])
	}
}

func TestConsoleRender(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	NewConsole(&buf).Render(sampleFindings())
	out := buf.String()

	for _, want := range []string{
		"[DIR]", "[HIDDEN]", "[DECODED]",
		"caesar shift=7",
		"DB_PASSWORD=hunter2",
		"Found 3 suspicious items",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output is missing %q\n%s", want, out)
		}
	}
}

func TestConsoleRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Render(nil)
	if !strings.Contains(buf.String(), "No hidden files") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestExcerptBoundsLongText(t *testing.T) {
	long := strings.Repeat("a", excerptLimit+50)
	got := excerpt(long)
	if len([]rune(got)) > excerptLimit+3 {
		t.Fatalf("excerpt too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("excerpt %q is not truncated", got)
	}
}
