package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/extractor"
	"github.com/timmy/vidguard/internal/fingerprint"
	"github.com/timmy/vidguard/internal/logger"
	"github.com/timmy/vidguard/internal/storage"
)

// LedgerStore is the storage collaborator for the reference ledger: persist
// one dual-mode result, fetch the reference-only candidate set per mode.
type LedgerStore interface {
	Create(ctx context.Context, result *domain.AnalysisResult) error
	FetchReferences(ctx context.Context, mode domain.Mode) ([]domain.ReferenceRecord, error)
}

// Comparer decides whether a query fingerprint duplicates one of the
// candidates. The plaintext and encrypted engines both satisfy it and must
// produce the same verdict for the same vectors, up to scheme precision.
type Comparer interface {
	Compare(query domain.Vector, candidates []domain.ReferenceRecord) (fingerprint.Result, error)
}

// AnalyzerConfig holds configuration for the analyzer.
type AnalyzerConfig struct {
	Alpha float64 // phase-encoding coefficient for the feature map
}

// Analyzer coordinates the analysis pipeline: extract, map, compare in both
// modes, decide reference status, persist, respond.
type Analyzer struct {
	store     LedgerStore
	extractor extractor.Extractor
	comparer  Comparer
	archive   storage.ObjectStorage // optional; nil disables archival
	logger    *logger.Logger
	alpha     float64

	// mu serializes the ledger snapshot -> decide -> persist sequence across
	// concurrent uploads. Without it, two mutually similar uploads could both
	// read the ledger before either persists, and both would be promoted as
	// references. Extraction and mapping stay outside the critical section.
	mu sync.Mutex
}

// NewAnalyzer creates the analysis orchestrator.
// Parameters:
//   - store: reference ledger storage collaborator.
//   - ext: feature extractor collaborator.
//   - comparer: similarity engine (plaintext or encrypted).
//   - archive: object storage for analyzed uploads; nil disables archival.
//   - log: logger instance.
//   - cfg: analyzer configuration; nil alpha defaults to fingerprint.DefaultAlpha.
// Returns:
//   - *Analyzer: initialized orchestrator.
func NewAnalyzer(
	store LedgerStore,
	ext extractor.Extractor,
	comparer Comparer,
	archive storage.ObjectStorage,
	log *logger.Logger,
	cfg *AnalyzerConfig,
) *Analyzer {
	alpha := fingerprint.DefaultAlpha
	if cfg != nil && cfg.Alpha != 0 {
		alpha = cfg.Alpha
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Analyzer{
		store:     store,
		extractor: ext,
		comparer:  comparer,
		archive:   archive,
		logger:    log,
		alpha:     alpha,
	}
}

// log returns a logger from context if available, otherwise the service logger.
func (a *Analyzer) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return a.logger
}

// AnalyzeResponse is the caller-facing outcome for the requested mode.
type AnalyzeResponse struct {
	Status  string      `json:"status"` // "Unique" or "Duplicate"
	Score   *float64    `json:"score"`
	Matched *string     `json:"matched"`
	Mode    domain.Mode `json:"mode"`
}

// Analyze runs the full pipeline for one uploaded video. Both modes are
// always evaluated and persisted in a single record; the response carries
// only the requested mode's outcome. Any failure aborts before persistence:
// no partial result is ever written and the ledger never grows on error.
// Parameters:
//   - ctx: request context; cancellation before persistence leaves no state.
//   - videoPath: local path of the uploaded video file.
//   - mode: comparison mode to report in the response.
// Returns:
//   - *AnalyzeResponse: outcome for the requested mode.
//   - error: extraction, comparison, or storage failure.
func (a *Analyzer) Analyze(ctx context.Context, videoPath string, mode domain.Mode) (*AnalyzeResponse, error) {
	videoName := filepath.Base(videoPath)
	start := time.Now()

	classical, quantum, err := a.fingerprints(ctx, videoPath, videoName)
	if err != nil {
		return nil, err
	}

	record, err := a.decide(ctx, videoName, classical, quantum)
	if err != nil {
		return nil, err
	}

	a.log(ctx).WithFields(logger.Fields{
		logger.FieldVideo:      videoName,
		logger.FieldMode:       string(mode),
		logger.FieldStatus:     string(record.Outcome(mode).Status),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"is_reference":         record.IsReference,
	}).Info("Analysis completed")

	a.archiveUpload(ctx, record.ID, videoPath, videoName)

	return responseFor(record, mode), nil
}

// fingerprints extracts the base embedding and derives both mode vectors.
// Normalization is applied exactly once per stage: once on the raw embedding,
// once after the feature map.
func (a *Analyzer) fingerprints(ctx context.Context, videoPath, videoName string) (classical, quantum domain.Vector, err error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload %q: %w", videoName, err)
	}
	defer f.Close()

	base, err := a.extractor.Extract(ctx, f, videoName)
	if err != nil {
		return nil, nil, err
	}

	classical = fingerprint.Normalize(base)
	quantum = fingerprint.Normalize(fingerprint.FeatureMap(classical, a.alpha))
	return classical, quantum, nil
}

// decide holds the race-critical section: snapshot the ledger, run the exact
// identity check and both similarity checks, decide reference status, and
// persist — all under the mutex so concurrent uploads serialize here.
// Every early return releases the lock with nothing persisted.
func (a *Analyzer) decide(ctx context.Context, videoName string, classical, quantum domain.Vector) (*domain.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	classicalRefs, err := a.store.FetchReferences(ctx, domain.ModeClassical)
	if err != nil {
		return nil, err
	}
	quantumRefs, err := a.store.FetchReferences(ctx, domain.ModeQuantum)
	if err != nil {
		return nil, err
	}

	record := &domain.AnalysisResult{
		ID:        uuid.New().String(),
		VideoName: videoName,
		CreatedAt: time.Now().UTC(),
	}

	// Exact-identity check: a re-upload under its original name is a
	// duplicate of itself in both modes, regardless of engine results.
	if hasReferenceNamed(classicalRefs, videoName) {
		one := 1.0
		self := videoName
		for _, m := range domain.Modes {
			fp := classical
			if m == domain.ModeQuantum {
				fp = quantum
			}
			record.SetOutcome(m, domain.ModeOutcome{
				Fingerprint: fp,
				Status:      domain.StatusSimilar,
				Score:       &one,
				Matched:     &self,
			})
		}
		record.IsReference = false
	} else {
		classicalRes, err := a.comparer.Compare(classical, classicalRefs)
		if err != nil {
			return nil, fmt.Errorf("classical comparison: %w", err)
		}
		quantumRes, err := a.comparer.Compare(quantum, quantumRefs)
		if err != nil {
			return nil, fmt.Errorf("quantum comparison: %w", err)
		}

		record.SetOutcome(domain.ModeClassical, outcomeFrom(classical, classicalRes))
		record.SetOutcome(domain.ModeQuantum, outcomeFrom(quantum, quantumRes))

		// A video is a reference only if neither mode flagged it.
		record.IsReference = !(classicalRes.Duplicate || quantumRes.Duplicate)
	}

	// An aborted request must leave no ledger mutation behind.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.store.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// archiveUpload copies an analyzed upload to object storage. Archival is
// best-effort: the analysis result is already persisted, so failures are
// logged, not returned.
func (a *Analyzer) archiveUpload(ctx context.Context, analysisID, videoPath, videoName string) {
	if a.archive == nil {
		return
	}

	f, err := os.Open(videoPath)
	if err != nil {
		a.log(ctx).WithError(err).WithField(logger.FieldVideo, videoName).Warn("Failed to open upload for archival")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		a.log(ctx).WithError(err).WithField(logger.FieldVideo, videoName).Warn("Failed to stat upload for archival")
		return
	}

	key := fmt.Sprintf("uploads/%s/%s", analysisID, videoName)
	if err := a.archive.Upload(ctx, key, f, info.Size(), "video/mp4"); err != nil {
		a.log(ctx).WithError(err).WithField(logger.FieldVideo, videoName).Warn("Failed to archive upload")
		return
	}
	a.log(ctx).WithField(logger.FieldVideo, videoName).Debugf("Archived upload to %s", key)
}

// hasReferenceNamed reports whether any ledger record carries the exact name.
func hasReferenceNamed(refs []domain.ReferenceRecord, name string) bool {
	for i := range refs {
		if refs[i].VideoName == name {
			return true
		}
	}
	return false
}

// outcomeFrom converts an engine result into a stored mode outcome.
func outcomeFrom(fp domain.Vector, res fingerprint.Result) domain.ModeOutcome {
	status := domain.StatusUnique
	if res.Duplicate {
		status = domain.StatusSimilar
	}
	return domain.ModeOutcome{
		Fingerprint: fp,
		Status:      status,
		Score:       res.Score,
		Matched:     res.MatchedVideo,
	}
}

// responseFor projects a persisted record to the caller-requested mode.
func responseFor(record *domain.AnalysisResult, mode domain.Mode) *AnalyzeResponse {
	outcome := record.Outcome(mode)
	status := "Unique"
	if outcome.Status == domain.StatusSimilar {
		status = "Duplicate"
	}
	return &AnalyzeResponse{
		Status:  status,
		Score:   outcome.Score,
		Matched: outcome.Matched,
		Mode:    mode,
	}
}
