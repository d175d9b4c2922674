package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/vidguard/internal/domain"
)

// RemoteConfig holds configuration for the remote extractor client.
type RemoteConfig struct {
	BaseURL    string
	APIKey     string
	Dimensions int
	Timeout    time.Duration
}

// RemoteExtractor calls an embedding inference service that decodes video
// frames, runs them through a pretrained vision backbone, and mean-pools the
// per-frame embeddings into one vector.
type RemoteExtractor struct {
	client *resty.Client
	dims   int
}

// NewRemoteExtractor creates a remote extractor client.
// Parameters:
//   - cfg: client configuration including endpoint and expected dimensions.
// Returns:
//   - *RemoteExtractor: initialized client.
func NewRemoteExtractor(cfg *RemoteConfig) *RemoteExtractor {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &RemoteExtractor{
		client: client,
		dims:   cfg.Dimensions,
	}
}

// Dimensions returns the embedding dimensionality the service is configured for.
func (e *RemoteExtractor) Dimensions() int {
	return e.dims
}

// extractResponse is the inference service's reply.
type extractResponse struct {
	Embedding []float64 `json:"embedding"`
	Frames    int       `json:"frames"`
	Detail    string    `json:"detail,omitempty"`
}

// Extract sends the video to the inference service and returns the embedding.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - video: video content reader.
//   - videoName: original file name, used for multipart metadata and errors.
// Returns:
//   - domain.Vector: base embedding of length Dimensions().
//   - error: *ExtractionError if no frames were decodable, otherwise a
//     transport or contract error.
func (e *RemoteExtractor) Extract(ctx context.Context, video io.Reader, videoName string) (domain.Vector, error) {
	var result extractResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetFileReader("video", videoName, video).
		SetResult(&result).
		SetError(&result).
		Post("/v1/embeddings/video")
	if err != nil {
		return nil, fmt.Errorf("extractor request: %w", err)
	}

	if resp.StatusCode() == http.StatusUnprocessableEntity {
		reason := result.Detail
		if reason == "" {
			reason = "no decodable frames"
		}
		return nil, &ExtractionError{VideoName: videoName, Reason: reason}
	}
	if resp.IsError() {
		return nil, fmt.Errorf("extractor returned %d: %s", resp.StatusCode(), result.Detail)
	}

	if result.Frames == 0 || len(result.Embedding) == 0 {
		return nil, &ExtractionError{VideoName: videoName, Reason: "no decodable frames"}
	}
	if len(result.Embedding) != e.dims {
		return nil, fmt.Errorf("extractor returned %d dimensions, want %d", len(result.Embedding), e.dims)
	}

	return domain.Vector(result.Embedding), nil
}
