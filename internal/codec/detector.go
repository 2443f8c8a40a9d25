package codec

// Detector orchestrates the codec strategies over a single blob and resolves
// ambiguity between them. The priority order is fixed policy: structural
// codecs (Base64, then Hex) outrank the statistical ones, and the fixed
// substitution (ROT13) is tried before the exhaustive shift search it is a
// special case of. The first codec whose decode clears the weak plausibility
// threshold wins, so a blob yields at most one detection.
type Detector struct {
	validator *Validator
}

// NewDetector returns a detector using the given validator, or the default
// validator when nil is passed.
func NewDetector(v *Validator) *Detector {
	if v == nil {
		v = NewValidator()
	}
	return &Detector{validator: v}
}

// Detect inspects one blob and reports whether any of the supported
// encodings plausibly hides text inside it. Detection is pure and total: it
// never fails, and empty or malformed input simply reports false. A Caesar
// result with shift 0 is suppressed as well, since recovering the input
// unchanged means nothing was hidden.
func (d *Detector) Detect(blob Blob) (Detection, bool) {
	if len(blob.Data) == 0 {
		return Detection{}, false
	}

	for _, kind := range Kinds() {
		strategy, ok := StrategyFor(kind)
		if !ok {
			continue
		}
		att := strategy(blob.Data, d.validator)
		if !att.OK {
			continue
		}
		score := d.validator.Score(att.Decoded)
		if score < ScoreWeak {
			continue
		}
		if att.Kind == KindCaesar && att.Shift == 0 {
			continue
		}
		return Detection{
			Origin:       blob.Origin,
			Kind:         att.Kind,
			Decoded:      att.Decoded,
			Shift:        att.Shift,
			Plausibility: score,
			Confidence:   d.validator.Confidence(att.Decoded),
		}, true
	}
	return Detection{}, false
}
