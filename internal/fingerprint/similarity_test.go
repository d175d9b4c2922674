package fingerprint

import (
	"math"
	"testing"

	"github.com/timmy/vidguard/internal/domain"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0.95},
		{9, 0.95},
		{10, 0.92},
		{49, 0.92},
		{50, 0.90},
		{199, 0.90},
		{200, 0.88},
		{1000, 0.88},
	}

	for _, tt := range tests {
		if got := Threshold(tt.n); got != tt.want {
			t.Errorf("Threshold(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestCheckEmptyCandidates(t *testing.T) {
	engine := NewEngine(nil)
	res := engine.Check(domain.Vector{1, 0}, nil)

	if res.Duplicate {
		t.Error("empty candidate set reported a duplicate")
	}
	if res.Score != nil {
		t.Errorf("Score = %v, want nil for empty candidate set", *res.Score)
	}
	if res.MatchedVideo != nil {
		t.Errorf("MatchedVideo = %v, want nil", *res.MatchedVideo)
	}
}

// candidateAt returns a unit vector whose cosine similarity to (1, 0) is s.
func candidateAt(s float64) domain.Vector {
	return domain.Vector{s, math.Sqrt(1 - s*s)}
}

func TestCheckAdaptiveThreshold(t *testing.T) {
	engine := NewEngine(nil)
	query := domain.Vector{1, 0}
	near := candidateAt(0.89)

	// 0.89 against a small population sits under the 0.95 cutoff
	small := []domain.ReferenceRecord{
		{VideoName: "a.mp4", Fingerprint: near},
		{VideoName: "b.mp4", Fingerprint: domain.Vector{0, 1}},
		{VideoName: "c.mp4", Fingerprint: domain.Vector{0, 1}},
		{VideoName: "d.mp4", Fingerprint: domain.Vector{0, 1}},
		{VideoName: "e.mp4", Fingerprint: domain.Vector{0, 1}},
	}
	res := engine.Check(query, small)
	if res.Duplicate {
		t.Errorf("score 0.89 at population 5 flagged duplicate against threshold %v", Threshold(5))
	}
	if res.Score == nil || math.Abs(*res.Score-0.89) > 1e-9 {
		t.Errorf("Score = %v, want 0.89", res.Score)
	}
	if res.MatchedVideo != nil {
		t.Errorf("non-duplicate surfaced a match name: %v", *res.MatchedVideo)
	}

	// the same score against a large population clears the 0.88 cutoff
	large := make([]domain.ReferenceRecord, 0, 300)
	large = append(large, domain.ReferenceRecord{VideoName: "a.mp4", Fingerprint: near})
	for i := 1; i < 300; i++ {
		large = append(large, domain.ReferenceRecord{VideoName: "filler.mp4", Fingerprint: domain.Vector{0, 1}})
	}
	res = engine.Check(query, large)
	if !res.Duplicate {
		t.Errorf("score 0.89 at population 300 not flagged against threshold %v", Threshold(300))
	}
	if res.MatchedVideo == nil || *res.MatchedVideo != "a.mp4" {
		t.Errorf("MatchedVideo = %v, want a.mp4", res.MatchedVideo)
	}
}

func TestCheckTieBreakKeepsEarliest(t *testing.T) {
	engine := NewEngine(nil)
	query := domain.Vector{1, 0}
	same := candidateAt(0.97)

	candidates := []domain.ReferenceRecord{
		{VideoName: "first.mp4", Fingerprint: same},
		{VideoName: "second.mp4", Fingerprint: same.Clone()},
	}

	res := engine.Check(query, candidates)
	if !res.Duplicate {
		t.Fatal("expected duplicate verdict")
	}
	if *res.MatchedVideo != "first.mp4" {
		t.Errorf("MatchedVideo = %q, want the earliest candidate", *res.MatchedVideo)
	}
}

func TestCheckSkipsMismatchedDimensions(t *testing.T) {
	engine := NewEngine(nil)
	query := domain.Vector{1, 0}

	candidates := []domain.ReferenceRecord{
		{VideoName: "stale.mp4", Fingerprint: domain.Vector{1, 0, 0}},
		{VideoName: "valid.mp4", Fingerprint: candidateAt(0.99)},
	}

	res := engine.Check(query, candidates)
	if !res.Duplicate {
		t.Fatal("expected duplicate verdict from the valid candidate")
	}
	if *res.MatchedVideo != "valid.mp4" {
		t.Errorf("MatchedVideo = %q, want valid.mp4", *res.MatchedVideo)
	}
}

func TestCheckExactMatch(t *testing.T) {
	engine := NewEngine(nil)
	query := Normalize(domain.Vector{0.3, -0.8, 0.5})

	candidates := []domain.ReferenceRecord{
		{VideoName: "other.mp4", Fingerprint: Normalize(domain.Vector{1, 1, 1})},
		{VideoName: "same.mp4", Fingerprint: query.Clone()},
	}

	res := engine.Check(query, candidates)
	if !res.Duplicate {
		t.Fatal("identical fingerprint not flagged as duplicate")
	}
	if math.Abs(*res.Score-1) > 1e-9 {
		t.Errorf("Score = %v, want 1", *res.Score)
	}
	if *res.MatchedVideo != "same.mp4" {
		t.Errorf("MatchedVideo = %q, want same.mp4", *res.MatchedVideo)
	}
}
