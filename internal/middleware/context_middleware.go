package middleware

import (
	"go-planillas/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		uid := c.GetString("usuario_id")

		// Scoped logger carrying the request metadata for the whole request
		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("usuario_id", uid),
		)

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		ctx = contextutil.WithUserID(ctx, uid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
