package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ready4uni/advisor-go/internal/buildinfo"
	"github.com/ready4uni/advisor-go/internal/chat"
	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/ctxutil"
	"github.com/ready4uni/advisor-go/internal/extract"
	"github.com/ready4uni/advisor-go/internal/router"
)

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Message       string                `json:"message" binding:"required"`
	History       []router.Message      `json:"history"`
	UploadedFiles []router.UploadedFile `json:"uploaded_files"`
	SessionID     string                `json:"session_id"`
	UserID        string                `json:"user_id"`
}

func (a *Application) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.metrics.RecordHTTPError("bad_request", "/api/chat")
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ChatProcessing)
	defer cancel()
	if req.SessionID != "" {
		ctx = ctxutil.WithSessionID(ctx, req.SessionID)
	}
	if req.UserID != "" {
		ctx = ctxutil.WithUserID(ctx, req.UserID)
	}

	resp := a.chat.ProcessMessage(ctx, chat.Request{
		Message:       req.Message,
		History:       req.History,
		UploadedFiles: req.UploadedFiles,
		SessionID:     req.SessionID,
		UserID:        req.UserID,
	})

	c.JSON(http.StatusOK, resp)
}

// handleUpload stores a transcript file under the upload directory and
// returns the name/path pair the chat endpoint expects in uploaded_files.
func (a *Application) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		a.metrics.RecordHTTPError("bad_request", "/api/upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".txt", ".md":
	default:
		a.metrics.RecordHTTPError("unsupported_type", "/api/upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q", ext)})
		return
	}
	if file.Size > extract.MaxFileSize {
		a.metrics.RecordHTTPError("too_large", "/api/upload")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 50MB limit"})
		return
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		a.metrics.RecordHTTPError("storage", "/api/upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	// Stored name is opaque; the original name survives only in the response.
	stored := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(a.cfg.UploadDir, stored)); err != nil {
		a.logger.WithError(err).Error("Upload save failed")
		a.metrics.RecordHTTPError("storage", "/api/upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": filepath.Base(file.Filename),
		"path": stored,
		"size": file.Size,
	})
}

func (a *Application) serviceInfo(c *gin.Context) {
	body := gin.H{
		"service": "advisor-go",
		"status":  "ok",
	}
	if buildinfo.Version != "" {
		body["version"] = buildinfo.Version
	}
	if buildinfo.Commit != "" {
		body["commit"] = buildinfo.Commit
	}
	c.JSON(http.StatusOK, body)
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	body := gin.H{
		"status": "ready",
		"majors": a.majors,
		"llm":    a.llm.Provider(),
	}

	if a.db == nil {
		body["sessions"] = "disabled"
		c.JSON(http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.SQLiteBusyTimeout)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: database unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	if count, err := a.db.SessionCount(ctx); err == nil {
		body["sessions"] = count
	}
	c.JSON(http.StatusOK, body)
}
