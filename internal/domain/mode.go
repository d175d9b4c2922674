package domain

import "fmt"

// Mode identifies which fingerprint representation a comparison runs against.
// Every analysis evaluates both modes; the caller only picks which outcome is
// returned in the response.
type Mode string

const (
	// ModeClassical compares the base embedding vector as extracted.
	ModeClassical Mode = "classical"

	// ModeQuantum compares the amplitude+phase mapped representation.
	ModeQuantum Mode = "quantum"
)

// Modes lists all comparison modes in evaluation order.
var Modes = []Mode{ModeClassical, ModeQuantum}

// ParseMode validates a mode string from the API. An empty string defaults
// to quantum, matching the upload endpoint contract.
// Parameters:
//   - s: raw mode string from the request.
// Returns:
//   - Mode: parsed mode.
//   - error: non-nil if the string names no known mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClassical:
		return ModeClassical, nil
	case ModeQuantum, "":
		return ModeQuantum, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// OutcomeStatus is the per-mode verdict stored with an analysis.
type OutcomeStatus string

const (
	StatusUnique  OutcomeStatus = "Unique"
	StatusSimilar OutcomeStatus = "Similar"
)
