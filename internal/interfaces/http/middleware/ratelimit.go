package middleware

import (
	"context"
	"time"

	"hp-adventure-api/internal/config"
	"hp-adventure-api/internal/interfaces/http/dto"
	apperrors "hp-adventure-api/pkg/errors"
	"hp-adventure-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RateLimiter is the admission gate the middleware consults.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit rejects turns beyond the per-client budget with 429. Keys are
// client IPs; a failing limiter fails open so the game stays playable.
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP(), cfg.TurnsPerWindow, cfg.Window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejectedTotal.Inc()
			appErr := apperrors.ErrTooManyRequests
			c.AbortWithStatusJSON(appErr.HTTPStatus, dto.ErrorResponse{
				Error: dto.ErrorDetail{
					Code:    string(appErr.Code),
					Message: appErr.Message,
				},
				RequestID: c.GetString("request_id"),
			})
			return
		}

		c.Next()
	}
}
