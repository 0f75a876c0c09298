package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/yt-audio-go/internal/app"
)

// Version is the application version reported by /health
var Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	downloads *app.DownloadService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(downloads *app.DownloadService) *HealthHandler {
	return &HealthHandler{
		downloads: downloads,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
	Active  int    `json:"active"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Backend: h.downloads.BackendName(),
		Active:  len(h.downloads.ActiveDownloads()),
	})
}
