package encryption

import (
	"math"
	"sync"
	"testing"

	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/fingerprint"
)

// scorePrecision is the tolerance for CKKS approximation error on a single
// dot product at the default parameters.
const scorePrecision = 1e-3

var (
	testCtxOnce sync.Once
	testCtx     *Context
	testCtxErr  error
)

// sharedContext builds one CKKS context for the whole test binary; key
// generation is too slow to repeat per test.
func sharedContext(t *testing.T) *Context {
	t.Helper()
	testCtxOnce.Do(func() {
		testCtx, testCtxErr = NewContext(DefaultParams(), 4, 8)
	})
	if testCtxErr != nil {
		t.Fatalf("NewContext() error = %v", testCtxErr)
	}
	return testCtx
}

func TestNewContextRejectsBadDims(t *testing.T) {
	tests := []struct {
		name string
		dims []int
	}{
		{"no dims", nil},
		{"zero dim", []int{0}},
		{"dim over slot count", []int{1 << 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContext(DefaultParams(), tt.dims...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if _, ok := err.(*ContextError); !ok {
				t.Errorf("error type = %T, want *ContextError", err)
			}
		})
	}
}

func TestEncryptRejectsUndeclaredDims(t *testing.T) {
	ctx := sharedContext(t)

	if _, err := ctx.Encrypt(domain.Vector{1, 2, 3}); err == nil {
		t.Error("expected error for undeclared dimensionality 3")
	}
}

func TestEncryptedDotMatchesPlaintext(t *testing.T) {
	ctx := sharedContext(t)

	tests := []struct {
		name string
		a, b domain.Vector
	}{
		{"unit pair", fingerprint.Normalize(domain.Vector{0.3, -0.8, 0.5, 0.1}), fingerprint.Normalize(domain.Vector{0.2, -0.7, 0.6, 0.0})},
		{"orthogonal", domain.Vector{1, 0, 0, 0}, domain.Vector{0, 1, 0, 0}},
		{"identical", fingerprint.Normalize(domain.Vector{1, 2, 3, 4}), fingerprint.Normalize(domain.Vector{1, 2, 3, 4})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := fingerprint.Dot(tt.a, tt.b)

			act, err := ctx.Encrypt(tt.a)
			if err != nil {
				t.Fatalf("Encrypt(a) error = %v", err)
			}
			bct, err := ctx.Encrypt(tt.b)
			if err != nil {
				t.Fatalf("Encrypt(b) error = %v", err)
			}
			dot, err := ctx.Dot(act, bct, len(tt.a))
			if err != nil {
				t.Fatalf("Dot() error = %v", err)
			}
			got, err := ctx.Decrypt(dot)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}

			if math.Abs(got-want) > scorePrecision {
				t.Errorf("encrypted dot = %v, plaintext dot = %v", got, want)
			}
		})
	}
}

func TestCompareMatchesPlaintextEngine(t *testing.T) {
	ctx := sharedContext(t)
	encrypted := NewEngine(ctx, nil)
	plain := fingerprint.NewEngine(nil)

	query := fingerprint.Normalize(domain.Vector{0.4, -0.1, 0.7, 0.2})
	candidates := []domain.ReferenceRecord{
		{VideoName: "far.mp4", Fingerprint: fingerprint.Normalize(domain.Vector{-0.5, 0.9, -0.2, 0.1})},
		{VideoName: "near.mp4", Fingerprint: fingerprint.Normalize(domain.Vector{0.41, -0.1, 0.69, 0.21})},
	}

	wantRes := plain.Check(query, candidates)
	gotRes, err := encrypted.Compare(query, candidates)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if gotRes.Duplicate != wantRes.Duplicate {
		t.Errorf("Duplicate = %v, plaintext engine says %v", gotRes.Duplicate, wantRes.Duplicate)
	}
	if math.Abs(*gotRes.Score-*wantRes.Score) > scorePrecision {
		t.Errorf("Score = %v, plaintext engine says %v", *gotRes.Score, *wantRes.Score)
	}
	if wantRes.Duplicate && *gotRes.MatchedVideo != *wantRes.MatchedVideo {
		t.Errorf("MatchedVideo = %q, plaintext engine says %q", *gotRes.MatchedVideo, *wantRes.MatchedVideo)
	}
}

func TestCompareEmptyCandidates(t *testing.T) {
	ctx := sharedContext(t)
	engine := NewEngine(ctx, nil)

	res, err := engine.Compare(domain.Vector{1, 0, 0, 0}, nil)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Duplicate || res.Score != nil || res.MatchedVideo != nil {
		t.Errorf("empty candidate set produced %+v, want zero result", res)
	}
}

func TestCheckEncryptedSkipsMismatchedDimensions(t *testing.T) {
	ctx := sharedContext(t)
	engine := NewEngine(ctx, nil)

	query := fingerprint.Normalize(domain.Vector{0.4, -0.1, 0.7, 0.2})
	candidates := []domain.ReferenceRecord{
		{VideoName: "stale.mp4", Fingerprint: fingerprint.Normalize(domain.Vector{1, 0, 0, 0, 0, 0, 0, 0})},
		{VideoName: "match.mp4", Fingerprint: query.Clone()},
	}

	res, err := engine.Compare(query, candidates)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !res.Duplicate {
		t.Fatal("expected duplicate verdict from the matching candidate")
	}
	if *res.MatchedVideo != "match.mp4" {
		t.Errorf("MatchedVideo = %q, want match.mp4", *res.MatchedVideo)
	}
}
