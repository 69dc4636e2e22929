package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError logs a warning and writes a JSON error response.
func respondError(c *gin.Context, logger *zap.Logger, status int, msg string, err error) {
	if err != nil {
		logger.Warn(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
	c.JSON(status, gin.H{"error": msg})
}
