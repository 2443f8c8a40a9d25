package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
)

// JSONL handles persisting findings to a JSON Lines file.
type JSONL struct {
	path   string
	writer *findings.Writer
	mu     sync.Mutex
}

// NewJSONL creates a reporter that appends findings to the provided path.
func NewJSONL(path string, opts ...findings.WriterOption) *JSONL {
	writer := findings.NewWriter(path, opts...)
	return &JSONL{path: writer.Path(), writer: writer}
}

// Path returns the destination file.
func (j *JSONL) Path() string {
	return j.path
}

// Write appends the given finding to the JSONL file.
func (j *JSONL) Write(f findings.Finding) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.writer.Write(f)
}

// Close flushes buffered output.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.writer.Close()
}

// ReadJSONL loads findings back from a JSON Lines file, validating each
// line. Blank lines are ignored; a malformed line fails the load with its
// line number.
func ReadJSONL(path string) ([]findings.Finding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open findings file: %w", err)
	}
	defer file.Close()

	var out []findings.Finding
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var f findings.Finding
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("parse findings line %d: %w", line, err)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("invalid finding at line %d: %w", line, err)
		}
		out = append(out, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read findings file: %w", err)
	}
	return out, nil
}
