package service

import (
	"context"

	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/logger"
	"github.com/timmy/vidguard/internal/repository"
)

// DashboardService serves the aggregate and recent-analysis views, filtered
// by mode and computed from the stored dual-mode results.
type DashboardService struct {
	repo   *repository.AnalysisRepository
	logger *logger.Logger
}

// NewDashboardService creates a dashboard service.
// Parameters:
//   - repo: analysis repository.
//   - log: logger instance.
// Returns:
//   - *DashboardService: initialized service.
func NewDashboardService(repo *repository.AnalysisRepository, log *logger.Logger) *DashboardService {
	if log == nil {
		log = logger.GetDefault()
	}
	return &DashboardService{repo: repo, logger: log}
}

// Summary returns aggregate counts and average similarity for one mode.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mode: comparison mode to aggregate.
// Returns:
//   - *domain.DashboardSummary: aggregate values.
//   - error: non-nil if the underlying queries fail.
func (s *DashboardService) Summary(ctx context.Context, mode domain.Mode) (*domain.DashboardSummary, error) {
	return s.repo.Summary(ctx, mode)
}

// Recent returns the most recent analyses for one mode, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mode: comparison mode whose outcomes are reported.
//   - limit: maximum number of rows.
// Returns:
//   - []domain.RecentAnalysis: formatted dashboard rows.
//   - error: non-nil if the query fails.
func (s *DashboardService) Recent(ctx context.Context, mode domain.Mode, limit int) ([]domain.RecentAnalysis, error) {
	return s.repo.Recent(ctx, mode, limit)
}
