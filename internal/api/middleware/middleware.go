package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	apierrors "github.com/ds8/tip-allowance/internal/api/shared/errors"
	"github.com/ds8/tip-allowance/internal/logger"
)

// REQUEST_ID_HEADER carries the request id in and out
const REQUEST_ID_HEADER = "X-Request-ID"

// RequestID assigns a ULID to every request unless the caller sent one,
// and attaches it to the request context for logging
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(REQUEST_ID_HEADER)
		if requestID == "" || len(requestID) > 128 {
			requestID = ulid.Make().String()
		}

		c.Header(REQUEST_ID_HEADER, requestID)
		ctx := logger.WithRequest(c.Request.Context(), logger.RequestInfo{RequestID: requestID})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logger returns a gin middleware for structured logging using zap
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.InfoCtx(c.Request.Context(), "API request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// Recovery returns a gin middleware for panic recovery with logging
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorCtx(c.Request.Context(), fmt.Errorf("panic recovered: %v", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apierrors.Envelope(apierrors.NewInternalError("Internal server error")))
			}
		}()
		c.Next()
	}
}
