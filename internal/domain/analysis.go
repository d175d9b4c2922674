package domain

import "time"

// AnalysisResult is the dual-mode record persisted once per upload. Both
// comparison strategies are always evaluated and stored together so dashboard
// and audit queries can report on either mode from the same row.
//
// The reference ledger is derived from this table: rows with IsReference true,
// projected to the fingerprint of the queried mode.
type AnalysisResult struct {
	ID        string `gorm:"type:text;primaryKey" json:"id"`
	VideoName string `gorm:"type:text;not null;index:idx_analysis_video_name" json:"video_name"`

	ClassicalFingerprint Vector        `gorm:"type:text" json:"classical_fingerprint"`
	ClassicalStatus      OutcomeStatus `gorm:"type:text;not null" json:"classical_status"`
	ClassicalScore       *float64      `json:"classical_score"`
	ClassicalMatched     *string       `gorm:"type:text" json:"classical_matched"`

	QuantumFingerprint Vector        `gorm:"type:text" json:"quantum_fingerprint"`
	QuantumStatus      OutcomeStatus `gorm:"type:text;not null" json:"quantum_status"`
	QuantumScore       *float64      `json:"quantum_score"`
	QuantumMatched     *string       `gorm:"type:text" json:"quantum_matched"`

	IsReference bool      `gorm:"index:idx_analysis_reference" json:"is_reference"`
	CreatedAt   time.Time `gorm:"index:idx_analysis_created" json:"created_at"`
}

// TableName returns the database table name for AnalysisResult.
func (AnalysisResult) TableName() string {
	return "analysis_results"
}

// ModeOutcome is one mode's slice of an analysis result.
type ModeOutcome struct {
	Fingerprint Vector        `json:"fingerprint"`
	Status      OutcomeStatus `json:"status"`
	Score       *float64      `json:"score"`
	Matched     *string       `json:"matched"`
}

// Outcome projects the result to the outcome of a single mode.
// Parameters:
//   - m: comparison mode to project.
// Returns:
//   - ModeOutcome: that mode's fingerprint, status, score and match.
func (r *AnalysisResult) Outcome(m Mode) ModeOutcome {
	if m == ModeClassical {
		return ModeOutcome{
			Fingerprint: r.ClassicalFingerprint,
			Status:      r.ClassicalStatus,
			Score:       r.ClassicalScore,
			Matched:     r.ClassicalMatched,
		}
	}
	return ModeOutcome{
		Fingerprint: r.QuantumFingerprint,
		Status:      r.QuantumStatus,
		Score:       r.QuantumScore,
		Matched:     r.QuantumMatched,
	}
}

// SetOutcome writes one mode's outcome back into the result.
// Parameters:
//   - m: comparison mode to set.
//   - o: outcome values for that mode.
// Returns: none.
func (r *AnalysisResult) SetOutcome(m Mode, o ModeOutcome) {
	if m == ModeClassical {
		r.ClassicalFingerprint = o.Fingerprint
		r.ClassicalStatus = o.Status
		r.ClassicalScore = o.Score
		r.ClassicalMatched = o.Matched
		return
	}
	r.QuantumFingerprint = o.Fingerprint
	r.QuantumStatus = o.Status
	r.QuantumScore = o.Score
	r.QuantumMatched = o.Matched
}

// ReferenceRecord is a canonical fingerprint eligible for future comparisons,
// as served by the ledger for one mode. Records are never mutated or deleted.
type ReferenceRecord struct {
	VideoName   string `json:"video_name"`
	Fingerprint Vector `json:"fingerprint"`
}

// DashboardSummary holds the aggregate counts for one mode.
type DashboardSummary struct {
	TotalVideos     int64    `json:"totalVideos"`
	UniqueVideos    int64    `json:"uniqueVideos"`
	DuplicateVideos int64    `json:"duplicateVideos"`
	AvgSimilarity   *float64 `json:"avgSimilarity"`
}

// RecentAnalysis is one row of the most-recent-N dashboard list.
type RecentAnalysis struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Status OutcomeStatus `json:"status"`
	Score  *float64      `json:"score"`
	Date   string        `json:"date"`
}
