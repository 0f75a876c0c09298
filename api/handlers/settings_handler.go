package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// maxProxyListSize caps the body accepted by the proxy import endpoint
const maxProxyListSize = 1 << 20

// SettingsHandler handles the safety gate, proxy, anti-ban and download path
type SettingsHandler struct {
	gate     *app.SafetyGateService
	settings *app.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(gate *app.SafetyGateService, settings *app.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		gate:     gate,
		settings: settings,
		logger:   logger,
	}
}

// BypassRequest toggles the safety gate bypass
type BypassRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// DownloadPathRequest sets the download directory
type DownloadPathRequest struct {
	Path string `json:"path" binding:"required"`
}

// GetSafetyGate handles GET /api/v1/safety-gate
func (h *SettingsHandler) GetSafetyGate(c *gin.Context) {
	c.JSON(http.StatusOK, h.gate.Snapshot())
}

// SetBypass handles PUT /api/v1/safety-gate/bypass
func (h *SettingsHandler) SetBypass(c *gin.Context) {
	var req BypassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gate.SetBypass(*req.Enabled); err != nil {
		h.logger.Error("Failed to save bypass", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.gate.Snapshot())
}

// GetProxy handles GET /api/v1/proxy
func (h *SettingsHandler) GetProxy(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.LoadProxyConfig())
}

// SaveProxy handles PUT /api/v1/proxy
func (h *SettingsHandler) SaveProxy(c *gin.Context) {
	var cfg domain.ProxyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cfg.ProxyType != "" && !cfg.ProxyType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown proxy type: " + string(cfg.ProxyType)})
		return
	}

	if err := h.settings.SaveProxyConfig(cfg); err != nil {
		h.logger.Error("Failed to save proxy config", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.settings.LoadProxyConfig())
}

// ImportProxies handles POST /api/v1/proxy/import with a plain-text list body
func (h *SettingsHandler) ImportProxies(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProxyListSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proxies := h.settings.ImportProxies(string(body))
	if proxies == nil {
		proxies = []domain.ProxyConfig{}
	}
	c.JSON(http.StatusOK, proxies)
}

// GetAntiBan handles GET /api/v1/anti-ban
func (h *SettingsHandler) GetAntiBan(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.LoadAntiBanConfig())
}

// SaveAntiBan handles PUT /api/v1/anti-ban
func (h *SettingsHandler) SaveAntiBan(c *gin.Context) {
	var cfg domain.AntiBanConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.SaveAntiBanConfig(cfg); err != nil {
		h.logger.Error("Failed to save anti-ban config", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// GetDownloadPath handles GET /api/v1/download-path
func (h *SettingsHandler) GetDownloadPath(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"path": h.settings.ResolveDownloadDir()})
}

// SetDownloadPath handles PUT /api/v1/download-path
func (h *SettingsHandler) SetDownloadPath(c *gin.Context) {
	var req DownloadPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.SetDownloadPath(req.Path); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": h.settings.ResolveDownloadDir()})
}
