package encryption

import (
	"fmt"

	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/fingerprint"
	"github.com/timmy/vidguard/internal/logger"
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
)

// CandidateCiphertext is one encrypted reference fingerprint, as handed over
// by whichever party holds the ledger.
type CandidateCiphertext struct {
	VideoName  string
	Dims       int
	Ciphertext *rlwe.Ciphertext
}

// Engine decides duplicates over encrypted fingerprints. Only the pairwise
// scalar score is ever decrypted; candidate vectors stay ciphertext
// throughout, so the matching decision can be made even when the reference
// ledger is held by an untrusted party.
type Engine struct {
	ctx *Context
	log *logger.Logger
}

// NewEngine creates an encrypted similarity engine.
// Parameters:
//   - ctx: process-wide CKKS context.
//   - log: logger; nil uses the process default.
// Returns:
//   - *Engine: initialized engine.
func NewEngine(ctx *Context, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Engine{ctx: ctx, log: log}
}

// CheckEncrypted runs the duplicate decision over ciphertexts. The fold is
// the same as the plaintext engine's: strict greater-than best tracking with
// the earliest candidate winning ties, dimension mismatches skipped. Each
// pairwise score is decrypted immediately after comparison.
// Parameters:
//   - query: encrypted query fingerprint.
//   - queryDims: plaintext dimensionality of the query.
//   - candidates: encrypted reference fingerprints in ledger order.
//   - threshold: duplicate cutoff for this candidate population.
// Returns:
//   - fingerprint.Result: verdict, best score, matched name when duplicate.
//   - error: non-nil if a homomorphic operation fails.
func (e *Engine) CheckEncrypted(query *rlwe.Ciphertext, queryDims int, candidates []CandidateCiphertext, threshold float64) (fingerprint.Result, error) {
	if len(candidates) == 0 {
		return fingerprint.Result{}, nil
	}

	bestScore := 0.0
	var bestMatch *string

	for i := range candidates {
		c := &candidates[i]
		if c.Dims != queryDims {
			e.log.WithFields(logger.Fields{
				logger.FieldVideo: c.VideoName,
				"candidate_dims":  c.Dims,
				"query_dims":      queryDims,
			}).Warn("Skipping encrypted reference with mismatched dimensions")
			continue
		}

		enc, err := e.ctx.Dot(query, c.Ciphertext, queryDims)
		if err != nil {
			return fingerprint.Result{}, fmt.Errorf("encrypted dot with %q: %w", c.VideoName, err)
		}
		score, err := e.ctx.Decrypt(enc)
		if err != nil {
			return fingerprint.Result{}, fmt.Errorf("decrypt score for %q: %w", c.VideoName, err)
		}

		if score > bestScore {
			bestScore = score
			bestMatch = &c.VideoName
		}
	}

	if bestScore >= threshold {
		return fingerprint.Result{Duplicate: true, Score: &bestScore, MatchedVideo: bestMatch}, nil
	}
	return fingerprint.Result{Duplicate: false, Score: &bestScore}, nil
}

// Compare runs the encrypted decision over a plaintext candidate snapshot,
// encrypting both sides first. This is the trusted-deployment entry point
// used by the orchestrator when the encrypted path is enabled; the adaptive
// threshold is derived from the full candidate-set size, exactly as in the
// plaintext engine.
// Parameters:
//   - query: unit-normalized query fingerprint.
//   - candidates: reference records in ledger order.
// Returns:
//   - fingerprint.Result: same triple the plaintext comparison would produce,
//     up to scheme precision.
//   - error: non-nil if encryption or evaluation fails.
func (e *Engine) Compare(query domain.Vector, candidates []domain.ReferenceRecord) (fingerprint.Result, error) {
	if len(candidates) == 0 {
		return fingerprint.Result{}, nil
	}

	threshold := fingerprint.Threshold(len(candidates))

	qct, err := e.ctx.Encrypt(query)
	if err != nil {
		return fingerprint.Result{}, fmt.Errorf("encrypt query: %w", err)
	}

	encrypted := make([]CandidateCiphertext, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if len(c.Fingerprint) != len(query) {
			// Mismatches still count toward the threshold population but are
			// never compared; flag them like the plaintext engine does.
			e.log.WithFields(logger.Fields{
				logger.FieldVideo: c.VideoName,
				"candidate_dims":  len(c.Fingerprint),
				"query_dims":      len(query),
			}).Warn("Skipping reference with mismatched dimensions")
			continue
		}
		cct, err := e.ctx.Encrypt(c.Fingerprint)
		if err != nil {
			return fingerprint.Result{}, fmt.Errorf("encrypt candidate %q: %w", c.VideoName, err)
		}
		encrypted = append(encrypted, CandidateCiphertext{
			VideoName:  c.VideoName,
			Dims:       len(c.Fingerprint),
			Ciphertext: cct,
		})
	}

	return e.CheckEncrypted(qct, len(query), encrypted, threshold)
}
