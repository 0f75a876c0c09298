package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"go.uber.org/zap"
)

// SidecarHandler handles the helper binaries and the backend's yt-dlp
type SidecarHandler struct {
	sidecars  *infrastructure.SidecarManager
	downloads *app.DownloadService
	logger    *zap.Logger
}

// NewSidecarHandler creates a new sidecar handler
func NewSidecarHandler(sidecars *infrastructure.SidecarManager, downloads *app.DownloadService, logger *zap.Logger) *SidecarHandler {
	return &SidecarHandler{
		sidecars:  sidecars,
		downloads: downloads,
		logger:    logger,
	}
}

// UpdateRequest selects the yt-dlp release channel
type UpdateRequest struct {
	Channel string `json:"channel"`
}

// Status handles GET /api/v1/sidecars
func (h *SidecarHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.downloads.SidecarStatus(c.Request.Context()))
}

// Install handles POST /api/v1/sidecars/install. Progress is streamed as
// setup-progress events.
func (h *SidecarHandler) Install(c *gin.Context) {
	if err := h.sidecars.InstallAll(c.Request.Context()); err != nil {
		h.logger.Error("Sidecar install failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.sidecars.Status(c.Request.Context()))
}

// Version handles GET /api/v1/backend/version
func (h *SidecarHandler) Version(c *gin.Context) {
	version, err := h.downloads.Version(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"version": version})
}

// Update handles POST /api/v1/backend/update
func (h *SidecarHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.downloads.Update(c.Request.Context(), req.Channel)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
