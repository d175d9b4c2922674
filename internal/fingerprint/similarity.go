package fingerprint

import (
	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/logger"
)

// Result is the outcome of matching one query against a candidate set.
// Score is surfaced even on a non-duplicate verdict for observability;
// MatchedVideo is only set when the verdict is Duplicate.
type Result struct {
	Duplicate    bool
	Score        *float64
	MatchedVideo *string
}

// Threshold returns the similarity cutoff for a candidate set of size n.
// The cutoff tightens as the reference population (and collision risk) grows.
// Parameters:
//   - n: number of reference candidates.
// Returns:
//   - float64: duplicate threshold for that population size.
func Threshold(n int) float64 {
	switch {
	case n < 10:
		return 0.95
	case n < 50:
		return 0.92
	case n < 200:
		return 0.90
	default:
		return 0.88
	}
}

// Engine is the plaintext similarity engine.
type Engine struct {
	log *logger.Logger
}

// NewEngine creates a plaintext similarity engine.
// Parameters:
//   - log: logger; nil uses the process default.
// Returns:
//   - *Engine: initialized engine.
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Engine{log: log}
}

// Check scans candidates in order and decides whether query duplicates one of
// them. The best score is tracked with a strict greater-than comparison, so
// ties keep the earliest candidate in iteration order; that tie-break is part
// of the contract, not an accident of the loop.
//
// Candidates whose dimensionality differs from the query are skipped, not
// treated as errors; a mismatch is logged as a data-integrity signal.
// Parameters:
//   - query: unit-normalized query fingerprint.
//   - candidates: reference records in ledger order (created_at ascending).
// Returns:
//   - Result: duplicate verdict, best score, and matched name when duplicate.
func (e *Engine) Check(query domain.Vector, candidates []domain.ReferenceRecord) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	threshold := Threshold(len(candidates))
	bestScore := 0.0
	var bestMatch *string

	for i := range candidates {
		c := &candidates[i]
		if len(c.Fingerprint) != len(query) {
			e.log.WithFields(logger.Fields{
				logger.FieldVideo: c.VideoName,
				"candidate_dims":  len(c.Fingerprint),
				"query_dims":      len(query),
			}).Warn("Skipping reference with mismatched dimensions")
			continue
		}

		score := Cosine(query, c.Fingerprint)
		if score > bestScore {
			bestScore = score
			bestMatch = &c.VideoName
		}
	}

	if bestScore >= threshold {
		return Result{Duplicate: true, Score: &bestScore, MatchedVideo: bestMatch}
	}
	return Result{Duplicate: false, Score: &bestScore}
}

// Compare satisfies the orchestrator's comparer contract. The plaintext
// engine never fails; the error return exists for parity with the encrypted
// engine.
func (e *Engine) Compare(query domain.Vector, candidates []domain.ReferenceRecord) (Result, error) {
	return e.Check(query, candidates), nil
}
