package repository

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/vidguard/internal/config"
	"github.com/timmy/vidguard/internal/domain"
)

func newTestRepo(t *testing.T) *AnalysisRepository {
	t.Helper()

	db, err := InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	return NewAnalysisRepository(db)
}

func floatPtr(f float64) *float64 { return &f }

// seedResult inserts one record with a fixed created_at so ordering is
// deterministic across test runs.
func seedResult(t *testing.T, repo *AnalysisRepository, name string, isRef bool, createdAt time.Time, classicalScore *float64) *domain.AnalysisResult {
	t.Helper()

	status := domain.StatusUnique
	if !isRef {
		status = domain.StatusSimilar
	}
	result := &domain.AnalysisResult{
		ID:                   uuid.New().String(),
		VideoName:            name,
		ClassicalFingerprint: domain.Vector{0.6, 0.8},
		ClassicalStatus:      status,
		ClassicalScore:       classicalScore,
		QuantumFingerprint:   domain.Vector{0.5, 0.5, 0.5, 0.5},
		QuantumStatus:        status,
		IsReference:          isRef,
		CreatedAt:            createdAt,
	}
	if err := repo.Create(context.Background(), result); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return result
}

func TestFetchReferencesOrderAndProjection(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// inserted out of order; fetch must come back created_at ascending
	seedResult(t, repo, "second.mp4", true, base.Add(time.Hour), nil)
	seedResult(t, repo, "first.mp4", true, base, nil)
	seedResult(t, repo, "dup.mp4", false, base.Add(2*time.Hour), floatPtr(0.97))

	refs, err := repo.FetchReferences(context.Background(), domain.ModeClassical)
	if err != nil {
		t.Fatalf("FetchReferences() error = %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2 (non-references excluded)", len(refs))
	}
	if refs[0].VideoName != "first.mp4" || refs[1].VideoName != "second.mp4" {
		t.Errorf("order = [%s %s], want created_at ascending", refs[0].VideoName, refs[1].VideoName)
	}
	if len(refs[0].Fingerprint) != 2 {
		t.Errorf("classical fingerprint dims = %d, want 2", len(refs[0].Fingerprint))
	}
}

func TestFetchReferencesModeColumn(t *testing.T) {
	repo := newTestRepo(t)
	seedResult(t, repo, "ref.mp4", true, time.Now().UTC(), nil)

	refs, err := repo.FetchReferences(context.Background(), domain.ModeQuantum)
	if err != nil {
		t.Fatalf("FetchReferences() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("len = %d, want 1", len(refs))
	}
	if len(refs[0].Fingerprint) != 4 {
		t.Errorf("quantum fingerprint dims = %d, want 4", len(refs[0].Fingerprint))
	}
}

func TestSummary(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().UTC()

	seedResult(t, repo, "a.mp4", true, base, floatPtr(0.5))
	seedResult(t, repo, "b.mp4", true, base.Add(time.Minute), nil)
	seedResult(t, repo, "c.mp4", false, base.Add(2*time.Minute), floatPtr(0.9))

	summary, err := repo.Summary(context.Background(), domain.ModeClassical)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.TotalVideos != 3 {
		t.Errorf("TotalVideos = %d, want 3", summary.TotalVideos)
	}
	if summary.UniqueVideos != 2 {
		t.Errorf("UniqueVideos = %d, want 2", summary.UniqueVideos)
	}
	if summary.DuplicateVideos != 1 {
		t.Errorf("DuplicateVideos = %d, want 1", summary.DuplicateVideos)
	}
	if summary.AvgSimilarity == nil {
		t.Fatal("AvgSimilarity = nil, want average over non-null scores")
	}
	if math.Abs(*summary.AvgSimilarity-0.7) > 1e-9 {
		t.Errorf("AvgSimilarity = %v, want 0.7", *summary.AvgSimilarity)
	}
}

func TestSummaryEmptyLedger(t *testing.T) {
	repo := newTestRepo(t)

	summary, err := repo.Summary(context.Background(), domain.ModeQuantum)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalVideos != 0 || summary.UniqueVideos != 0 || summary.DuplicateVideos != 0 {
		t.Errorf("counts = %+v, want all zero", summary)
	}
	if summary.AvgSimilarity != nil {
		t.Errorf("AvgSimilarity = %v, want nil with no scores", *summary.AvgSimilarity)
	}
}

func TestRecent(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	seedResult(t, repo, "old.mp4", true, base, nil)
	seedResult(t, repo, "mid.mp4", true, base.Add(time.Hour), nil)
	seedResult(t, repo, "new.mp4", false, base.Add(2*time.Hour), floatPtr(0.96))

	recent, err := repo.Recent(context.Background(), domain.ModeClassical, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Name != "new.mp4" || recent[1].Name != "mid.mp4" {
		t.Errorf("order = [%s %s], want newest first", recent[0].Name, recent[1].Name)
	}
	if recent[0].ID != 1 || recent[1].ID != 2 {
		t.Errorf("ids = [%d %d], want 1-based positions", recent[0].ID, recent[1].ID)
	}
	if recent[0].Status != domain.StatusSimilar {
		t.Errorf("Status = %s, want Similar", recent[0].Status)
	}
	if recent[0].Date != "2026-08-10" {
		t.Errorf("Date = %q, want 2026-08-10", recent[0].Date)
	}
}

func TestRecentDefaultLimit(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().UTC()
	for i := 0; i < 15; i++ {
		seedResult(t, repo, "v.mp4", true, base.Add(time.Duration(i)*time.Second), nil)
	}

	recent, err := repo.Recent(context.Background(), domain.ModeClassical, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 10 {
		t.Errorf("len = %d, want default limit 10", len(recent))
	}
}
