package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/timmy/vidguard/internal/domain"
	"gorm.io/gorm"
)

// AnalysisRepository persists dual-mode analysis results and serves the
// derived reference ledger.
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new AnalysisRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *AnalysisRepository: repository instance bound to db.
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create inserts a new analysis result. Records are immutable after insert.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - result: dual-mode analysis record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *AnalysisRepository) Create(ctx context.Context, result *domain.AnalysisResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to persist analysis result: %w", err)
	}
	return nil
}

// FetchReferences returns the reference ledger for one mode: every record
// promoted as a reference, projected to its name and that mode's fingerprint,
// in created_at ascending order. That order is the engines' documented
// tie-break order, so it is part of the contract, not a display choice.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mode: comparison mode whose fingerprints are needed.
// Returns:
//   - []domain.ReferenceRecord: ledger snapshot for the mode.
//   - error: non-nil if the query fails.
func (r *AnalysisRepository) FetchReferences(ctx context.Context, mode domain.Mode) ([]domain.ReferenceRecord, error) {
	fpColumn := "classical_fingerprint"
	if mode == domain.ModeQuantum {
		fpColumn = "quantum_fingerprint"
	}

	var rows []struct {
		VideoName   string
		Fingerprint domain.Vector
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.AnalysisResult{}).
		Select("video_name", fpColumn+" AS fingerprint").
		Where("is_reference = ?", true).
		Order("created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch %s references: %w", mode, err)
	}

	refs := make([]domain.ReferenceRecord, len(rows))
	for i, row := range rows {
		refs[i] = domain.ReferenceRecord{
			VideoName:   row.VideoName,
			Fingerprint: row.Fingerprint,
		}
	}
	return refs, nil
}

// Summary computes the dashboard aggregates for one mode, over all stored
// results (every row carries both modes' outcomes).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mode: comparison mode to aggregate.
// Returns:
//   - *domain.DashboardSummary: counts and average similarity.
//   - error: non-nil if a query fails.
func (r *AnalysisRepository) Summary(ctx context.Context, mode domain.Mode) (*domain.DashboardSummary, error) {
	statusColumn := "classical_status"
	scoreColumn := "classical_score"
	if mode == domain.ModeQuantum {
		statusColumn = "quantum_status"
		scoreColumn = "quantum_score"
	}

	summary := &domain.DashboardSummary{}
	model := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.AnalysisResult{})
	}

	if err := model().Count(&summary.TotalVideos).Error; err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}
	if err := model().Where(statusColumn+" = ?", domain.StatusUnique).Count(&summary.UniqueVideos).Error; err != nil {
		return nil, fmt.Errorf("failed to count unique analyses: %w", err)
	}
	if err := model().Where(statusColumn+" = ?", domain.StatusSimilar).Count(&summary.DuplicateVideos).Error; err != nil {
		return nil, fmt.Errorf("failed to count duplicate analyses: %w", err)
	}

	var avg sql.NullFloat64
	if err := model().
		Where(scoreColumn + " IS NOT NULL").
		Select("AVG(" + scoreColumn + ")").
		Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("failed to average similarity: %w", err)
	}
	if avg.Valid {
		summary.AvgSimilarity = &avg.Float64
	}

	return summary, nil
}

// Recent returns the most recent analyses for one mode, newest first,
// formatted for the dashboard list.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mode: comparison mode whose outcome is reported.
//   - limit: maximum number of rows; non-positive uses 10.
// Returns:
//   - []domain.RecentAnalysis: formatted rows with 1-based ids.
//   - error: non-nil if the query fails.
func (r *AnalysisRepository) Recent(ctx context.Context, mode domain.Mode, limit int) ([]domain.RecentAnalysis, error) {
	if limit <= 0 {
		limit = 10
	}

	var results []domain.AnalysisResult
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent analyses: %w", err)
	}

	recent := make([]domain.RecentAnalysis, len(results))
	for i := range results {
		outcome := results[i].Outcome(mode)
		recent[i] = domain.RecentAnalysis{
			ID:     i + 1,
			Name:   results[i].VideoName,
			Status: outcome.Status,
			Score:  outcome.Score,
			Date:   results[i].CreatedAt.Format("2006-01-02"),
		}
	}
	return recent, nil
}
