package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/yt-audio-go/api/handlers"
	"github.com/yourusername/yt-audio-go/api/middleware"
	"github.com/yourusername/yt-audio-go/internal/app"
)

// SetupRouter sets up the HTTP router over the application container
func SetupRouter(c *app.Container) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(c.Logger))
	router.Use(middleware.Recovery(c.Logger))
	router.Use(middleware.CORS())

	// Health endpoint
	healthHandler := handlers.NewHealthHandler(c.Downloads)
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		// Download endpoints
		downloadHandler := handlers.NewDownloadHandler(c.Downloads, c.Logger)
		downloads := v1.Group("/downloads")
		{
			downloads.POST("", downloadHandler.StartDownload)
			downloads.GET("/active", downloadHandler.ActiveDownloads)
			downloads.POST("/:id/cancel", downloadHandler.CancelDownload)
		}
		v1.POST("/info", downloadHandler.GetInfo)

		// Settings endpoints
		settingsHandler := handlers.NewSettingsHandler(c.Gate, c.Settings, c.Logger)
		v1.GET("/safety-gate", settingsHandler.GetSafetyGate)
		v1.PUT("/safety-gate/bypass", settingsHandler.SetBypass)
		v1.GET("/proxy", settingsHandler.GetProxy)
		v1.PUT("/proxy", settingsHandler.SaveProxy)
		v1.POST("/proxy/import", settingsHandler.ImportProxies)
		v1.GET("/anti-ban", settingsHandler.GetAntiBan)
		v1.PUT("/anti-ban", settingsHandler.SaveAntiBan)
		v1.GET("/download-path", settingsHandler.GetDownloadPath)
		v1.PUT("/download-path", settingsHandler.SetDownloadPath)

		// Sidecar and backend endpoints
		sidecarHandler := handlers.NewSidecarHandler(c.Sidecars, c.Downloads, c.Logger)
		v1.GET("/sidecars", sidecarHandler.Status)
		v1.POST("/sidecars/install", sidecarHandler.Install)
		v1.GET("/backend/version", sidecarHandler.Version)
		v1.POST("/backend/update", sidecarHandler.Update)

		// Event stream
		eventsHandler := handlers.NewEventsHandler(c.Events, c.Logger)
		v1.GET("/events", eventsHandler.HandleWebSocket)
	}

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
