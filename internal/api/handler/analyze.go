package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/timmy/vidguard/internal/domain"
	"github.com/timmy/vidguard/internal/extractor"
	"github.com/timmy/vidguard/internal/service"
)

// AnalyzeHandler handles the video upload/analysis endpoint.
type AnalyzeHandler struct {
	analyzer  *service.Analyzer
	uploadDir string
}

// NewAnalyzeHandler creates a new analyze handler.
// Parameters:
//   - analyzer: analysis orchestrator.
//   - uploadDir: directory for temporary upload files.
// Returns:
//   - *AnalyzeHandler: initialized handler.
func NewAnalyzeHandler(analyzer *service.Analyzer, uploadDir string) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:  analyzer,
		uploadDir: uploadDir,
	}
}

// Analyze handles POST /analyze. It accepts a multipart video payload and a
// mode selector (classical|quantum, default quantum), runs the full dual-mode
// pipeline, and responds with the requested mode's outcome. The upload is
// written to a temp file for the duration of the analysis and removed on
// every exit path.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file provided"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty filename"})
		return
	}

	mode, err := domain.ParseMode(c.DefaultPostForm("mode", string(domain.ModeQuantum)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	videoPath := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, videoPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload: " + err.Error()})
		return
	}
	defer os.Remove(videoPath)

	result, err := h.analyzer.Analyze(c.Request.Context(), videoPath, mode)
	if err != nil {
		var extractionErr *extractor.ExtractionError
		if errors.As(err, &extractionErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": extractionErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
