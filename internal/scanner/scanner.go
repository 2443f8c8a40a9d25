// Package scanner walks filesystem roots looking for hidden files,
// suspicious filenames, and file content that hides encoded data. It is the
// candidate supplier for the detection engine: it reads candidate bytes in
// full and hands them to codec.Detector, which has no filesystem knowledge.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sumit756492/Hidden-File-Detector/internal/codec"
	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
	"github.com/sumit756492/Hidden-File-Detector/internal/logging"
)

const (
	// DefaultMaxFileSize caps how much file content is read for encoding
	// detection.
	DefaultMaxFileSize = 1 << 20
	// previewSizeLimit matches the small-file preview behaviour: only files
	// under this size get a content preview on their finding.
	previewSizeLimit = 500
	previewLength    = 100
	// maxLineScan bounds the per-line fallback pass over multi-line files.
	maxLineScan = 256
)

// Options configures a scan run.
type Options struct {
	Roots       []string
	MaxFileSize int64
	Workers     int
	Keywords    []string
	Extensions  []string
}

// Summary reports what a scan covered alongside the findings it produced.
type Summary struct {
	Roots    []string
	Files    int
	Dirs     int
	Skipped  int
	Findings []findings.Finding
	Elapsed  time.Duration
}

// Scanner drives one or more scan runs with a fixed configuration.
type Scanner struct {
	opts     Options
	detector *codec.Detector
	bus      *findings.Bus
	audit    *logging.AuditLogger
	now      func() time.Time
}

// New builds a scanner. The bus and audit logger may be nil, in which case
// findings are only returned in the summary and no audit trail is written.
func New(opts Options, detector *codec.Detector, bus *findings.Bus, audit *logging.AuditLogger) *Scanner {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = DefaultKeywords()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions()
	}
	if detector == nil {
		detector = codec.NewDetector(nil)
	}
	return &Scanner{
		opts:     opts,
		detector: detector,
		bus:      bus,
		audit:    audit,
		now:      time.Now,
	}
}

// candidate is one filesystem entry selected for inspection.
type candidate struct {
	path   string
	size   int64
	dir    bool
	hidden bool
	flaggy bool
}

// Run walks every configured root and returns the combined summary. Findings
// are sorted by path for stable reporting; detection order across workers is
// not meaningful. Run fails only when no root could be opened at all.
func (s *Scanner) Run(ctx context.Context) (Summary, error) {
	start := s.now()
	summary := Summary{Roots: s.opts.Roots}

	s.auditEvent(logging.AuditEvent{
		EventType: logging.EventScanStart,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"roots": s.opts.Roots, "workers": s.opts.Workers},
	})

	candidates := make(chan candidate)
	var mu sync.Mutex
	var walkStats struct {
		files, dirs, skipped, usable int
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(candidates)
		for _, root := range s.opts.Roots {
			info, err := os.Stat(root)
			if err != nil || !info.IsDir() {
				s.auditEvent(logging.AuditEvent{
					EventType: logging.EventRootUnavailable,
					Path:      root,
					Decision:  logging.DecisionDeny,
					Reason:    rootFailure(err, info),
				})
				continue
			}
			mu.Lock()
			walkStats.usable++
			mu.Unlock()
			if err := s.walkRoot(gctx, root, candidates, &mu, &walkStats.files, &walkStats.dirs, &walkStats.skipped); err != nil {
				return err
			}
		}
		return nil
	})

	var results []findings.Finding
	var resultsMu sync.Mutex
	for i := 0; i < s.opts.Workers; i++ {
		g.Go(func() error {
			for cand := range candidates {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, f := range s.inspect(cand) {
					resultsMu.Lock()
					results = append(results, f)
					resultsMu.Unlock()
					s.emit(f)
				}
			}
			return nil
		})
	}

	err := g.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Path == results[j].Path {
			return results[i].Type < results[j].Type
		}
		return results[i].Path < results[j].Path
	})

	summary.Files = walkStats.files
	summary.Dirs = walkStats.dirs
	summary.Skipped = walkStats.skipped
	summary.Findings = results
	summary.Elapsed = s.now().Sub(start)

	s.auditEvent(logging.AuditEvent{
		EventType: logging.EventScanComplete,
		Decision:  logging.DecisionInfo,
		Metadata: map[string]any{
			"files":    summary.Files,
			"dirs":     summary.Dirs,
			"skipped":  summary.Skipped,
			"findings": len(results),
			"elapsed":  summary.Elapsed.String(),
		},
	})

	if err != nil {
		return summary, err
	}
	if walkStats.usable == 0 {
		return summary, fmt.Errorf("no scan root available (tried %d)", len(s.opts.Roots))
	}
	return summary, nil
}

func (s *Scanner) walkRoot(ctx context.Context, root string, out chan<- candidate, mu *sync.Mutex, files, dirs, skipped *int) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			mu.Lock()
			*skipped++
			mu.Unlock()
			s.auditEvent(logging.AuditEvent{
				EventType: logging.EventCandidateSkipped,
				Path:      path,
				Decision:  logging.DecisionDeny,
				Reason:    err.Error(),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		hidden := isHidden(path, d.Name())
		if d.IsDir() {
			mu.Lock()
			*dirs++
			mu.Unlock()
			if hidden {
				select {
				case out <- candidate{path: path, dir: true, hidden: true}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		mu.Lock()
		*files++
		mu.Unlock()

		var size int64
		if info, infoErr := d.Info(); infoErr == nil {
			size = info.Size()
		}
		// Every regular file is a candidate: ordinary-named files get no
		// structural finding, but their content is still checked so a
		// payload smuggled into an innocuous file is found.
		flaggy := IsPotentialFlag(d.Name(), s.opts.Keywords, s.opts.Extensions)
		select {
		case out <- candidate{path: path, size: size, hidden: hidden, flaggy: flaggy}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

// inspect turns one candidate into zero or more findings: the structural
// finding for how the path was flagged, plus an encoded-content finding when
// the detection engine recovers something from the file body.
func (s *Scanner) inspect(cand candidate) []findings.Finding {
	now := s.now()
	var out []findings.Finding

	switch {
	case cand.dir:
		out = append(out, s.pathFinding(findings.TypeHiddenDir, cand, now))
		return out
	case cand.hidden:
		out = append(out, s.pathFinding(findings.TypeHiddenFile, cand, now))
	case cand.flaggy:
		out = append(out, s.pathFinding(findings.TypePotentialFlag, cand, now))
	}

	if cand.size == 0 || cand.size > s.opts.MaxFileSize {
		return out
	}
	data, err := os.ReadFile(cand.path)
	if err != nil {
		s.auditEvent(logging.AuditEvent{
			EventType: logging.EventCandidateSkipped,
			Path:      cand.path,
			Decision:  logging.DecisionDeny,
			Reason:    fmt.Sprintf("read content: %v", err),
		})
		return out
	}

	if det, ok := s.detectContent(cand.path, data); ok {
		out = append(out, findings.FromDetection(det, cand.size, now))
	} else {
		s.auditEvent(logging.AuditEvent{
			EventType: logging.EventFindingRejected,
			Path:      cand.path,
			Decision:  logging.DecisionDeny,
			Reason:    "no plausible decode",
		})
	}
	if len(out) > 0 && cand.size > 0 && cand.size < previewSizeLimit {
		out[0].Preview = preview(data)
	}
	return out
}

// detectContent runs the engine over the whole file first, then falls back
// to individual lines so a single encoded line smuggled into an ordinary
// file is still found. The first line-level hit wins.
func (s *Scanner) detectContent(path string, data []byte) (codec.Detection, bool) {
	if det, ok := s.detector.Detect(codec.Blob{Origin: path, Data: data}); ok {
		return det, true
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return codec.Detection{}, false
	}
	if len(lines) > maxLineScan {
		lines = lines[:maxLineScan]
	}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if det, ok := s.detector.Detect(codec.Blob{Origin: fmt.Sprintf("%s:%d", path, i+1), Data: []byte(line)}); ok {
			return det, true
		}
	}
	return codec.Detection{}, false
}

func (s *Scanner) pathFinding(t findings.DetectionType, cand candidate, now time.Time) findings.Finding {
	return findings.Finding{
		Version:    findings.SchemaVersion,
		ID:         findings.NewID(),
		Type:       t,
		Path:       cand.path,
		Size:       cand.size,
		DetectedAt: findings.NewTimestamp(now),
	}
}

func (s *Scanner) emit(f findings.Finding) {
	if s.bus != nil {
		s.bus.Emit(f)
	}
	s.auditEvent(logging.AuditEvent{
		EventType: logging.EventFindingEmitted,
		Path:      f.Path,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"type": string(f.Type), "codec": f.Codec},
	})
}

func (s *Scanner) auditEvent(event logging.AuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(event)
}

// preview extracts the printable head of small file content for display.
func preview(data []byte) string {
	if len(data) > previewLength {
		data = data[:previewLength]
	}
	var b strings.Builder
	for _, r := range string(data) {
		if r == '\n' || r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func rootFailure(err error, info os.FileInfo) string {
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "directory not found"
		}
		return err.Error()
	}
	if info != nil && !info.IsDir() {
		return "not a directory"
	}
	return "unavailable"
}
