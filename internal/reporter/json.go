package reporter

import (
	"encoding/json"
	"time"

	"github.com/sumit756492/Hidden-File-Detector/internal/findings"
)

// Document is the full JSON report payload.
type Document struct {
	Version  string             `json:"version"`
	Summary  Summary            `json:"summary"`
	Findings []findings.Finding `json:"findings"`
}

// RenderJSON converts a slice of findings into an indented report document.
func RenderJSON(list []findings.Finding, now time.Time) ([]byte, error) {
	doc := Document{
		Version:  findings.SchemaVersion,
		Summary:  BuildSummary(list, now),
		Findings: list,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')
	return data, nil
}
