package http

import (
	"context"
	"net/http"
	"time"

	"github.com/auction-service/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	failed := gin.H{}
	for _, check := range h.health {
		if err := check.Check(ctx); err != nil {
			logger.FromContext(ctx).Warn("health check failed", zap.String("check", check.Name), zap.Error(err))
			failed[check.Name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
