package findings

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sumit756492/Hidden-File-Detector/internal/codec"
)

// DetectionType categorises what a finding reports about a path.
type DetectionType string

const (
	// TypeHiddenFile marks a file hidden by naming convention or attribute.
	TypeHiddenFile DetectionType = "hidden_file"
	// TypeHiddenDir marks a hidden directory.
	TypeHiddenDir DetectionType = "hidden_dir"
	// TypePotentialFlag marks a filename that suggests CTF or credential
	// material (keywords, backup extensions).
	TypePotentialFlag DetectionType = "potential_flag"
	// TypeEncodedContent marks file content that decoded to plausible text
	// under one of the supported encodings.
	TypeEncodedContent DetectionType = "encoded_content"
)

var typeSet = map[DetectionType]struct{}{
	TypeHiddenFile:     {},
	TypeHiddenDir:      {},
	TypePotentialFlag:  {},
	TypeEncodedContent: {},
}

// Plausibility captures the allowed plausibility levels persisted with
// encoded-content findings. Values are normalised to lowercase short codes
// for stable JSON encoding.
type Plausibility string

const (
	PlausibilityNone   Plausibility = ""
	PlausibilityWeak   Plausibility = "weak"
	PlausibilityStrong Plausibility = "strong"
)

// SchemaVersion captures the findings schema version persisted to disk.
const SchemaVersion = "1.0"

// MarshalJSON ensures plausibility levels are always emitted as quoted
// strings.
func (p Plausibility) MarshalJSON() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON performs strict validation so we catch typos during testing
// and when loading persisted findings.
func (p *Plausibility) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := Plausibility(strings.ToLower(strings.TrimSpace(raw)))
	if err := parsed.validate(); err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Plausibility) validate() error {
	switch p {
	case PlausibilityNone, PlausibilityWeak, PlausibilityStrong:
		return nil
	default:
		return fmt.Errorf("invalid plausibility: %q", p)
	}
}

// PlausibilityFromScore converts the engine's ordered score to the persisted
// representation. Rejected scores map to none; they are never persisted.
func PlausibilityFromScore(s codec.Score) Plausibility {
	switch s {
	case codec.ScoreStrong:
		return PlausibilityStrong
	case codec.ScoreWeak:
		return PlausibilityWeak
	default:
		return PlausibilityNone
	}
}

// Timestamp enforces RFC3339 timestamps when encoding findings to disk.
type Timestamp time.Time

// NewTimestamp normalises the input time before persisting it.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp(t.UTC().Truncate(time.Second))
}

// Time exposes the underlying time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero reports whether the timestamp has been initialised.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// MarshalJSON renders the timestamp using time.RFC3339. Zero values encode
// as an empty string so Validate can flag missing timestamps explicitly.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(tt.UTC().Format(time.RFC3339))
}

// UnmarshalJSON enforces RFC3339 timestamps when reading persisted findings.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid ts timestamp: %w", err)
	}
	*t = NewTimestamp(parsed)
	return nil
}

// NewID generates a new ULID suitable for persisting as a finding identifier.
func NewID() string {
	buf := make([]byte, 16)
	ts := uint64(time.Now().UTC().UnixMilli())
	for i := 5; i >= 0; i-- {
		buf[i] = byte(ts & 0xFF)
		ts >>= 8
	}
	if _, err := io.ReadFull(rand.Reader, buf[6:]); err != nil {
		// Fall back to deterministic bytes derived from the current time to
		// avoid panicking in restricted environments.
		nano := uint64(time.Now().UTC().UnixNano())
		for i := 6; i < len(buf); i++ {
			buf[i] = byte(nano & 0xFF)
			nano >>= 8
		}
	}
	return crockford.EncodeToString(buf)
}

// Finding is a single suspicious item surfaced by a scan: a hidden path, a
// suspicious filename, or recovered encoded content. It is immutable once
// emitted.
type Finding struct {
	Version      string            `json:"version"`
	ID           string            `json:"id"`
	Type         DetectionType     `json:"type"`
	Path         string            `json:"path"`
	Size         int64             `json:"size,omitempty"`
	Codec        string            `json:"codec,omitempty"`
	Shift        int               `json:"shift,omitempty"`
	Decoded      string            `json:"decoded,omitempty"`
	Plausibility Plausibility      `json:"plausibility,omitempty"`
	Preview      string            `json:"preview,omitempty"`
	DetectedAt   Timestamp         `json:"ts"`
	Metadata     map[string]string `json:"meta,omitempty"`
}

// Validate performs sanity checks before a finding is persisted or
// broadcast.
func (f Finding) Validate() error {
	if strings.TrimSpace(f.Version) == "" {
		return errors.New("version is required")
	}
	if strings.TrimSpace(f.Version) != SchemaVersion {
		return fmt.Errorf("unsupported version %q", f.Version)
	}
	if strings.TrimSpace(f.ID) == "" {
		return errors.New("finding id is required")
	}
	if _, err := decodeULID(strings.TrimSpace(f.ID)); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	if _, ok := typeSet[f.Type]; !ok {
		return fmt.Errorf("invalid type: %q", f.Type)
	}
	if strings.TrimSpace(f.Path) == "" {
		return errors.New("path is required")
	}
	if err := f.Plausibility.validate(); err != nil {
		return err
	}
	if f.Type == TypeEncodedContent {
		if !codec.Kind(f.Codec).Valid() {
			return fmt.Errorf("invalid codec: %q", f.Codec)
		}
		if f.Plausibility == PlausibilityNone {
			return errors.New("encoded content requires a plausibility level")
		}
		if f.Shift < 0 || f.Shift > 25 {
			return fmt.Errorf("shift %d out of range", f.Shift)
		}
	}
	if f.DetectedAt.IsZero() {
		return errors.New("ts is required")
	}
	return nil
}

// Clone returns a deep copy of the finding to avoid accidental mutation when
// broadcasting to subscribers.
func (f Finding) Clone() Finding {
	copied := f
	if len(f.Metadata) > 0 {
		copied.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			copied.Metadata[k] = v
		}
	}
	return copied
}

// Timestamp returns the detection timestamp in UTC to simplify reporting
// code.
func (f Finding) Timestamp() time.Time {
	return f.DetectedAt.Time().UTC()
}

var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

func decodeULID(id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("ulid is empty")
	}
	if len(id) != 26 {
		return nil, fmt.Errorf("ulid must be 26 characters, got %d", len(id))
	}
	upper := strings.ToUpper(id)
	if upper != id {
		return nil, errors.New("ulid must be upper-case")
	}
	decoded, err := crockford.DecodeString(upper)
	if err != nil {
		return nil, fmt.Errorf("decode ulid: %w", err)
	}
	if len(decoded) != 16 {
		return nil, fmt.Errorf("decoded ulid length %d", len(decoded))
	}
	return decoded, nil
}
