package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/apperr"
)

// respondError translates a service error into a JSON response. The original
// API is inconsistent about its error field name, so the caller picks it.
// Internal failures are logged and collapsed to a stable message.
func respondError(c *gin.Context, logger *zap.Logger, err error, field string) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path))
	}
	c.JSON(status, gin.H{field: apperr.Message(err)})
}
