package codec

import "testing"

func TestScoreOrdering(t *testing.T) {
	if !(ScoreReject < ScoreWeak && ScoreWeak < ScoreStrong) {
		t.Fatal("plausibility scores are not ordered")
	}
}

func TestValidatorScore(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input string
		want  Score
	}{
		{
			name:  "real prose scores strong",
			input: "the secret password is hidden in the admin file and the key is there",
			want:  ScoreStrong,
		},
		{
			name:  "short word scores at least weak",
			input: "Hello",
			want:  ScoreWeak,
		},
		{
			name:  "rot13 letter soup rejected",
			input: "gur frperg cnffjbeq vf uvqqra va gur nqzva svyr",
			want:  ScoreReject,
		},
		{
			// A lone letter can always be shifted onto a stopword; it
			// carries no signal and must not rate as recovered text.
			name:  "single stopword letter rejected",
			input: "i",
			want:  ScoreReject,
		},
		{
			name:  "two letters rejected",
			input: "it",
			want:  ScoreReject,
		},
		{
			// A stray article next to a long soup run must not lift the
			// word term: the hit is weighted by its single letter.
			name:  "soup run with stray article rejected",
			input: "z=1\nfIjnKIBuAYeicZOicUnlZQjoYZSuZKhuZQjoYnuc\na=2\n",
			want:  ScoreReject,
		},
		{
			name:  "digits rejected",
			input: "1234567890",
			want:  ScoreReject,
		},
		{
			name:  "empty rejected",
			input: "",
			want:  ScoreReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Score([]byte(tt.input))
			if tt.name == "short word scores at least weak" {
				if got < ScoreWeak {
					t.Errorf("score = %s, want at least %s", got, ScoreWeak)
				}
				return
			}
			if got != tt.want {
				t.Errorf("score = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidatorRejectsControlBytes(t *testing.T) {
	v := NewValidator()

	// 20% control bytes crosses the binary cutoff.
	input := []byte("the flag")
	input = append(input, 0x00, 0x01)
	if got := v.Score(input); got != ScoreReject {
		t.Fatalf("score = %s, want %s", got, ScoreReject)
	}

	// An occasional control byte in a long text does not.
	long := []byte("the secret password is hidden in the admin file and the key is there")
	long = append(long, 0x00)
	if got := v.Score(long); got < ScoreWeak {
		t.Fatalf("score = %s, want at least %s", got, ScoreWeak)
	}
}

func TestValidatorIsStable(t *testing.T) {
	v := NewValidator()
	inputs := [][]byte{
		[]byte("the flag is hidden here"),
		[]byte("gur synt"),
		{0xde, 0xad, 0xbe, 0xef},
		nil,
	}
	for _, input := range inputs {
		first := v.Confidence(input)
		for i := 0; i < 5; i++ {
			if again := v.Confidence(input); again != first {
				t.Fatalf("confidence for %q changed between calls: %v vs %v", input, first, again)
			}
		}
	}
}
