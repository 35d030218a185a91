package handler

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"

	"mailstats/internal/logger"
	"mailstats/internal/model"
	"mailstats/internal/report"
	"mailstats/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	stats     *service.StatsService
	uploadDir string
}

func NewUploadHandler(stats *service.StatsService, uploadDir string) *UploadHandler {
	return &UploadHandler{stats: stats, uploadDir: uploadDir}
}

// Upload handles POST /api/upload  body: {"file": "<base64>", "filename": "..."}
func (h *UploadHandler) Upload(c *gin.Context) {
	var req model.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file and filename are required"})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.File)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not valid base64", "details": err.Error()})
		return
	}

	h.archive(req.Filename, raw)

	records := report.Parse(string(raw), req.Filename)
	logger.Info("upload parsed", "file", req.Filename, "records", len(records))

	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "no valid data found in CSV file",
			"message": "the CSV file appears to be empty or improperly formatted",
		})
		return
	}

	sum := h.stats.SaveRecords(c.Request.Context(), records)

	c.JSON(http.StatusOK, model.UploadResponse{
		Success:       true,
		Message:       "CSV uploaded and processed successfully",
		InsertedCount: sum.InsertedCount,
		SkippedCount:  sum.SkippedCount,
		TotalRecords:  sum.TotalRecords,
		Errors:        sum.Errors,
	})
}

// archive keeps a copy of the raw upload on disk for audit. Failure only
// warns; ingestion proceeds from the in-memory bytes.
func (h *UploadHandler) archive(filename string, raw []byte) {
	if h.uploadDir == "" {
		return
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.Warn("upload dir create failed", "dir", h.uploadDir, "err", err)
		return
	}
	path := filepath.Join(h.uploadDir, filepath.Base(filename))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		logger.Warn("upload archive failed", "path", path, "err", err)
	}
}
