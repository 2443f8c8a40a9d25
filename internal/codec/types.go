// Package codec implements detection and recovery of encoded data hidden
// inside otherwise-ordinary file content.
package codec

import "fmt"

// Kind identifies one of the supported encodings. The set is closed: adding
// an encoding means adding a new Kind plus a strategy, never modifying the
// existing ones.
type Kind string

const (
	KindBase64 Kind = "base64"
	KindHex    Kind = "hex"
	KindROT13  Kind = "rot13"
	KindCaesar Kind = "caesar"
)

var kindSet = map[Kind]struct{}{
	KindBase64: {},
	KindHex:    {},
	KindROT13:  {},
	KindCaesar: {},
}

// Valid reports whether k is one of the supported encodings.
func (k Kind) Valid() bool {
	_, ok := kindSet[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// Kinds returns the supported encodings in detection priority order:
// structural codecs first, then the fixed substitution, then the exhaustive
// shift search.
func Kinds() []Kind {
	return []Kind{KindBase64, KindHex, KindROT13, KindCaesar}
}

// Blob is a named byte sequence under inspection. It is treated as immutable
// input: no strategy mutates Data.
type Blob struct {
	Origin string
	Data   []byte
}

// Attempt is the structural result of trying one codec on one blob. Decoded
// is only meaningful when OK is true. Shift carries the recovered shift for
// KindCaesar and is zero otherwise.
type Attempt struct {
	Kind    Kind
	OK      bool
	Decoded []byte
	Shift   int
}

// Score is the ordered plausibility judgment of decoded output.
type Score int

const (
	ScoreReject Score = iota
	ScoreWeak
	ScoreStrong
)

func (s Score) String() string {
	switch s {
	case ScoreReject:
		return "reject"
	case ScoreWeak:
		return "weak"
	case ScoreStrong:
		return "strong"
	default:
		return fmt.Sprintf("score(%d)", int(s))
	}
}

// Detection is the orchestrator's final output for one blob: the winning
// codec, the recovered content, and how plausible the recovery looks.
// Confidence is the raw validator rating underlying Plausibility.
type Detection struct {
	Origin       string
	Kind         Kind
	Decoded      []byte
	Shift        int
	Plausibility Score
	Confidence   float64
}
