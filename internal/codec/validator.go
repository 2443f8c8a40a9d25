package codec

import "strings"

// Plausibility thresholds. Decoded output rating at least weakThreshold is
// worth surfacing; strongThreshold marks output that reads like real prose.
// The cutoffs were tuned against the fixtures in detector_test.go; they are
// heuristic and both false negatives and false positives remain possible.
const (
	weakThreshold   = 0.70
	strongThreshold = 0.85
)

// Control bytes beyond this share of the input mark the content as binary.
const maxControlRatio = 0.10

// Inputs with fewer letters than this carry no signal at all: a one- or
// two-letter blob can always be shifted onto a stopword, so it rates zero
// rather than letting the word term dominate.
const minLetters = 3

// Above this many letters the frequency histogram is trustworthy and the
// coarse vowel/common-letter floor switches off (see letterFit).
const coarseFitMaxLetters = 20

// englishFreq holds relative letter frequencies for English prose, indexed
// a through z.
var englishFreq = [26]float64{
	0.082, 0.015, 0.028, 0.043, 0.127, 0.022, 0.020, 0.061, 0.070,
	0.002, 0.008, 0.040, 0.024, 0.067, 0.075, 0.019, 0.001, 0.060,
	0.063, 0.091, 0.028, 0.010, 0.024, 0.002, 0.020, 0.001,
}

// commonLetters are the twelve most frequent English letters; they account
// for roughly 80% of letters in running prose.
const commonLetters = "etaoinshrdlu"

// commonWords is a small stopword list used to detect word boundaries in
// decoded output. It includes a few terms frequent in CTF artifacts.
var commonWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {}, "a": {}, "in": {},
	"that": {}, "have": {}, "i": {}, "it": {}, "for": {}, "not": {},
	"on": {}, "with": {}, "he": {}, "as": {}, "you": {}, "do": {},
	"at": {}, "this": {}, "but": {}, "his": {}, "by": {}, "from": {},
	"they": {}, "we": {}, "say": {}, "her": {}, "she": {}, "or": {},
	"an": {}, "will": {}, "my": {}, "one": {}, "all": {}, "would": {},
	"there": {}, "their": {}, "what": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "flag": {}, "secret": {}, "password": {}, "key": {},
	"token": {}, "admin": {}, "hidden": {}, "file": {},
}

// Validator scores whether decoded output looks like meaningful recovered
// text rather than byte-accidental noise. It is pure and stateless: the same
// input always produces the same rating. Callers that need fine-grained
// ranking (the Caesar shift sweep) use Confidence; callers that only gate on
// plausibility use Score.
type Validator struct{}

// NewValidator returns the shared plausibility validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Score maps the confidence rating onto the ordered plausibility scale.
func (v *Validator) Score(data []byte) Score {
	c := v.Confidence(data)
	switch {
	case c >= strongThreshold:
		return ScoreStrong
	case c >= weakThreshold:
		return ScoreWeak
	default:
		return ScoreReject
	}
}

// Confidence rates decoded output in [0,1]. Inputs dominated by control
// bytes rate 0 immediately: they are likely genuine binary, not hidden text.
// Printable inputs are rated on character distribution: printable share,
// letter/space share, how closely letter frequencies match English, and the
// presence of recognizable words.
func (v *Validator) Confidence(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var printable, control, letters, vowels, common, textlike int
	var freq [26]int
	for _, b := range data {
		switch {
		case b >= 0x20 && b <= 0x7e:
			printable++
		case b == '\n' || b == '\r' || b == '\t':
			printable++
		default:
			control++
		}

		lower := b | 0x20
		isLetter := lower >= 'a' && lower <= 'z'
		if isLetter {
			letters++
			freq[lower-'a']++
			if strings.IndexByte("aeiou", lower) >= 0 {
				vowels++
			}
			if strings.IndexByte(commonLetters, lower) >= 0 {
				common++
			}
		}
		if isLetter || b == ' ' || b == '\n' || b == '\t' {
			textlike++
		}
	}

	total := float64(len(data))
	if float64(control)/total > maxControlRatio {
		return 0
	}
	if letters < minLetters {
		return 0
	}

	printRatio := float64(printable) / total
	textRatio := float64(textlike) / total

	return 0.25*printRatio +
		0.20*textRatio +
		0.35*letterFit(freq, letters, vowels, common) +
		0.20*wordRatio(data)
}

// letterFit rates how English-like the letter distribution is. Histogram
// intersection against englishFreq is the sharp signal on longer samples but
// collapses on very short ones, so the coarse vowel/common-letter ratios act
// as a damped floor for inputs of a few words. Past coarseFitMaxLetters the
// histogram is reliable and the floor switches off entirely: letter soup can
// land near-English vowel ratios by accident, and on long inputs that floor
// would outvote the histogram that correctly rejects it.
func letterFit(freq [26]int, letters, vowels, common int) float64 {
	if letters == 0 {
		return 0
	}

	var intersection float64
	for i, count := range freq {
		observed := float64(count) / float64(letters)
		if observed < englishFreq[i] {
			intersection += observed
		} else {
			intersection += englishFreq[i]
		}
	}
	if letters > coarseFitMaxLetters {
		return intersection
	}

	// English prose runs ~40% vowels and ~80% common letters.
	coarse := 0.9 * (closeness(float64(vowels)/float64(letters), 0.40) +
		closeness(float64(common)/float64(letters), 0.80)) / 2

	if coarse > intersection {
		return coarse
	}
	return intersection
}

// closeness rates how near ratio is to the expected value, linearly falling
// to zero once the deviation reaches the expectation itself.
func closeness(ratio, expected float64) float64 {
	dev := ratio - expected
	if dev < 0 {
		dev = -dev
	}
	fit := 1 - dev/expected
	if fit < 0 {
		return 0
	}
	return fit
}

// wordRatio tokenizes on non-letters and reports the share of token letters
// belonging to recognizable common words. Weighting by length instead of
// counting tokens keeps an accidental one-letter hit ("a", "i") next to a
// long unbroken soup run from moving the rating. Letter soup from a wrong
// shift scores near zero here, which is the main signal separating a correct
// Caesar or ROT13 decode from a structurally identical wrong one.
func wordRatio(data []byte) float64 {
	var tokenLetters, hitLetters int
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tokenLetters += cur.Len()
		if _, ok := commonWords[cur.String()]; ok {
			hitLetters += cur.Len()
		}
		cur.Reset()
	}
	for _, b := range data {
		lower := b | 0x20
		if lower >= 'a' && lower <= 'z' {
			cur.WriteByte(lower)
			continue
		}
		flush()
	}
	flush()
	if tokenLetters == 0 {
		return 0
	}
	return float64(hitLetters) / float64(tokenLetters)
}
