package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crew-hub/internal/pkg/logger"
)

// LoggerMiddleware 访问日志中间件, 认证通过的请求会带上操作人ID
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("cost", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		// 认证中间件在 Next 里已执行, 此处能取到操作人
		if userID := c.GetInt64(ContextUserID); userID > 0 {
			fields = append(fields, zap.Int64("user_id", userID))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		logger.Info("HTTP请求", fields...)
	}
}
