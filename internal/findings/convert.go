package findings

import (
	"time"

	"github.com/sumit756492/Hidden-File-Detector/internal/codec"
)

// FromDetection converts an engine detection into a persistable finding.
// Decoded output is truncated to a bounded excerpt so that a large decoded
// payload cannot balloon the findings log; the full content remains on disk
// at the origin path.
func FromDetection(det codec.Detection, size int64, now time.Time) Finding {
	return Finding{
		Version:      SchemaVersion,
		ID:           NewID(),
		Type:         TypeEncodedContent,
		Path:         det.Origin,
		Size:         size,
		Codec:        det.Kind.String(),
		Shift:        det.Shift,
		Decoded:      excerpt(det.Decoded, maxDecodedBytes),
		Plausibility: PlausibilityFromScore(det.Plausibility),
		DetectedAt:   NewTimestamp(now),
	}
}

// maxDecodedBytes bounds how much recovered text is carried on a finding.
const maxDecodedBytes = 4096

func excerpt(data []byte, limit int) string {
	if limit > 0 && len(data) > limit {
		data = data[:limit]
	}
	return string(data)
}
