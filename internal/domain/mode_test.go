package domain

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"classical", ModeClassical, false},
		{"quantum", ModeQuantum, false},
		{"", ModeQuantum, false},
		{"Quantum", "", true},
		{"hybrid", "", true},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutcomeRoundTrip(t *testing.T) {
	score := 0.91
	match := "ref.mp4"
	r := &AnalysisResult{}

	for _, m := range Modes {
		r.SetOutcome(m, ModeOutcome{
			Fingerprint: Vector{0.6, 0.8},
			Status:      StatusSimilar,
			Score:       &score,
			Matched:     &match,
		})
	}

	for _, m := range Modes {
		o := r.Outcome(m)
		if o.Status != StatusSimilar {
			t.Errorf("%s Status = %s, want Similar", m, o.Status)
		}
		if o.Score == nil || *o.Score != score {
			t.Errorf("%s Score = %v, want %v", m, o.Score, score)
		}
		if o.Matched == nil || *o.Matched != match {
			t.Errorf("%s Matched = %v, want %v", m, o.Matched, match)
		}
	}
}
