package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadHandler handles download-related HTTP requests
type DownloadHandler struct {
	downloads *app.DownloadService
	logger    *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(downloads *app.DownloadService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		downloads: downloads,
		logger:    logger,
	}
}

// StartDownloadRequest represents a request to download audio
type StartDownloadRequest struct {
	ID     string `json:"id,omitempty"`
	URL    string `json:"url" binding:"required"`
	Format string `json:"format,omitempty"`
}

// InfoRequest represents a request for video metadata
type InfoRequest struct {
	URL string `json:"url" binding:"required"`
}

// StartDownload handles POST /api/v1/downloads. The response is sent when the
// download finishes; progress is streamed over /api/v1/events.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req StartDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.downloads.StartDownload(c.Request.Context(), domain.DownloadRequest{
		ID:     req.ID,
		URL:    req.URL,
		Format: domain.AudioFormat(req.Format),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ActiveDownloads handles GET /api/v1/downloads/active
func (h *DownloadHandler) ActiveDownloads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ids": h.downloads.ActiveDownloads()})
}

// CancelDownload handles POST /api/v1/downloads/:id/cancel
func (h *DownloadHandler) CancelDownload(c *gin.Context) {
	id := c.Param("id")

	if err := h.downloads.Cancel(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "download cancelled"})
}

// GetInfo handles POST /api/v1/info
func (h *DownloadHandler) GetInfo(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.downloads.GetVideoInfo(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Warn("Failed to fetch video info", zap.String("url", req.URL), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
