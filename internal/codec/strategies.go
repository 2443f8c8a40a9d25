package codec

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Strategy attempts to decode a blob's content under one encoding. All
// strategies are deterministic and stateless; the validator argument is only
// consulted by the Caesar strategy, which needs it to rank its 26 candidate
// shifts. The other strategies ignore it.
type Strategy func(data []byte, v *Validator) Attempt

var strategies = map[Kind]Strategy{
	KindBase64: attemptBase64,
	KindHex:    attemptHex,
	KindROT13:  attemptROT13,
	KindCaesar: attemptCaesar,
}

// StrategyFor returns the strategy implementing the given encoding.
func StrategyFor(k Kind) (Strategy, bool) {
	s, ok := strategies[k]
	return s, ok
}

// attemptBase64 decodes standard Base64. Surrounding and embedded whitespace
// is stripped first; after that the input must be drawn entirely from the
// standard alphabet, carry well-formed '=' padding, and have a length that
// is a multiple of four. Strict decoding rejects non-canonical trailing
// bits, so invalid tails fail the attempt instead of being truncated.
func attemptBase64(data []byte, _ *Validator) Attempt {
	att := Attempt{Kind: KindBase64}
	s := stripSpace(string(data))
	if s == "" || len(s)%4 != 0 {
		return att
	}
	body := strings.TrimRight(s, "=")
	if len(s)-len(body) > 2 {
		return att
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/':
		default:
			return att
		}
	}
	decoded, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return att
	}
	att.OK = true
	att.Decoded = decoded
	return att
}

// attemptHex decodes hexadecimal text. Separating whitespace is removed
// first; the remainder must be hex digits of even length.
func attemptHex(data []byte, _ *Validator) Attempt {
	att := Attempt{Kind: KindHex}
	s := stripSpace(string(data))
	if s == "" || len(s)%2 != 0 {
		return att
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return att
	}
	att.OK = true
	att.Decoded = decoded
	return att
}

// attemptROT13 applies the fixed shift-13 substitution. ROT13 is total over
// its input, so the attempt always succeeds structurally on non-empty input;
// whether the result means anything is the validator's call, made by the
// orchestrator rather than here.
func attemptROT13(data []byte, _ *Validator) Attempt {
	att := Attempt{Kind: KindROT13}
	if len(data) == 0 {
		return att
	}
	att.OK = true
	att.Decoded = shiftLetters(data, 13)
	return att
}

// A shift sweep over fewer letters than this is pure noise: with only a
// word or two of material some rotation always lands a passable vowel
// distribution.
const minCaesarLetters = 12

// A winning shift must recover this much recognizable-word material. A wrong
// shift over a longer input can still stumble into a lone short stopword
// ("go" rotates onto "we"); real shifted English carries far more.
const minCaesarWordRatio = 0.2

// attemptCaesar searches all 26 shifts for the one whose decode rates best.
// This is the documented exception to strategy independence: ranking the
// candidate decodes requires the validator as a subroutine. The attempt
// succeeds only when the input holds enough letters to rank, the best-rated
// shift clears the weak threshold, and the winner shows real word structure.
// Shift reports the shift that was applied to produce the input (so shifting
// the plaintext by Shift reproduces the blob). Ties keep the lowest shift.
func attemptCaesar(data []byte, v *Validator) Attempt {
	att := Attempt{Kind: KindCaesar}
	if countLetters(data) < minCaesarLetters {
		return att
	}
	var best []byte
	bestShift := 0
	bestRating := -1.0
	for shift := 0; shift < 26; shift++ {
		candidate := shiftLetters(data, 26-shift)
		rating := v.Confidence(candidate)
		if rating > bestRating {
			best = candidate
			bestShift = shift
			bestRating = rating
		}
	}
	if v.Score(best) < ScoreWeak || wordRatio(best) < minCaesarWordRatio {
		return att
	}
	att.OK = true
	att.Decoded = best
	att.Shift = bestShift
	return att
}

func countLetters(data []byte) int {
	n := 0
	for _, b := range data {
		lower := b | 0x20
		if lower >= 'a' && lower <= 'z' {
			n++
		}
	}
	return n
}

// shiftLetters rotates A-Z and a-z forward by shift positions, passing every
// other byte through unchanged.
func shiftLetters(data []byte, shift int) []byte {
	shift %= 26
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = shiftByte(b, shift)
	}
	return out
}

func shiftByte(b byte, shift int) byte {
	var base byte
	switch {
	case b >= 'a' && b <= 'z':
		base = 'a'
	case b >= 'A' && b <= 'Z':
		base = 'A'
	default:
		return b
	}
	return base + (b-base+byte(shift))%26
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
