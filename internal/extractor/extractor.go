// Package extractor defines the feature-extractor collaborator boundary:
// turning raw video bytes into a fixed-dimension embedding vector.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/timmy/vidguard/internal/domain"
)

// Extractor produces a fixed-dimension embedding for a video.
type Extractor interface {
	// Extract reads the video content and returns its base embedding.
	Extract(ctx context.Context, video io.Reader, videoName string) (domain.Vector, error)

	// Dimensions returns the embedding dimensionality D the extractor emits.
	Dimensions() int
}

// ExtractionError reports that a video yielded no usable signal (for example
// zero decodable frames). It is fatal for the request: the analysis aborts
// before anything is persisted, so the ledger never absorbs a meaningless
// fingerprint.
type ExtractionError struct {
	VideoName string
	Reason    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %s", e.VideoName, e.Reason)
}

// IsExtractionError reports whether err is (or wraps) an ExtractionError.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
