// Package reporter renders scan findings for people and machines: colored
// console output, JSON and JSONL documents, and a markdown report.
package reporter

import (
	"sort"
	"strings"
	"time"

	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
)

const excerptLimit = 160

// Summary aggregates a finding list for report headers.
type Summary struct {
	GeneratedAt time.Time                      `json:"generated_at"`
	Total       int                            `json:"total"`
	ByType      map[findings.DetectionType]int `json:"by_type"`
	ByCodec     map[string]int                 `json:"by_codec,omitempty"`
	ByLevel     map[findings.Plausibility]int  `json:"by_plausibility,omitempty"`
}

// BuildSummary counts findings per detection type, codec, and plausibility
// level.
func BuildSummary(list []findings.Finding, now time.Time) Summary {
	s := Summary{
		GeneratedAt: now.UTC(),
		Total:       len(list),
		ByType:      make(map[findings.DetectionType]int),
	}
	for _, f := range list {
		s.ByType[f.Type]++
		if f.Type != findings.TypeEncodedContent {
			continue
		}
		if s.ByCodec == nil {
			s.ByCodec = make(map[string]int)
		}
		if s.ByLevel == nil {
			s.ByLevel = make(map[findings.Plausibility]int)
		}
		s.ByCodec[f.Codec]++
		s.ByLevel[f.Plausibility]++
	}
	return s
}

// typeOrder fixes how detection types are listed in reports.
var typeOrder = []struct {
	key   findings.DetectionType
	label string
}{
	{key: findings.TypeEncodedContent, label: "Encoded content"},
	{key: findings.TypeHiddenFile, label: "Hidden files"},
	{key: findings.TypeHiddenDir, label: "Hidden directories"},
	{key: findings.TypePotentialFlag, label: "Potential flags"},
}

// sortedCodecs returns codec names with non-zero counts in a stable order.
func (s Summary) sortedCodecs() []string {
	out := make([]string, 0, len(s.ByCodec))
	for name := range s.ByCodec {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// excerpt collapses whitespace and bounds the decoded text shown in reports.
func excerpt(raw string) string {
	raw = strings.ReplaceAll(raw, "\r", " ")
	raw = strings.ReplaceAll(raw, "\n", " ")
	raw = strings.Join(strings.Fields(raw), " ")
	runes := []rune(raw)
	if len(runes) > excerptLimit {
		raw = strings.TrimSpace(string(runes[:excerptLimit])) + "..."
	}
	if raw == "" {
		return "(empty)"
	}
	return raw
}
