package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

// statusForKind maps a domain error kind to an HTTP status code
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidURL:
		return http.StatusBadRequest
	case domain.KindGateLocked:
		return http.StatusLocked
	case domain.KindSidecarNotFound, domain.KindSidecarError, domain.KindUnsupportedPlatform:
		return http.StatusServiceUnavailable
	case domain.KindDownloadFailed:
		return http.StatusBadGateway
	case domain.KindCancelled:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "kind"} with a status derived from
// its kind. Untyped errors are a plain 500.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(statusForKind(kind), gin.H{
		"error": err.Error(),
		"kind":  kind,
	})
}
