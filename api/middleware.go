package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"trendmoni/auth"
	"trendmoni/utils"
)

const identityKey = "identity"

// RequestLogging logs every request with its status and latency.
func RequestLogging(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		msg := "[api] %s %s → %d (%v)"
		switch {
		case status >= 500:
			logger.Error(msg, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
		case status >= 400:
			logger.Warn(msg, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
		default:
			logger.Info(msg, c.Request.Method, c.Request.URL.Path, status, time.Since(start))
		}
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity on the context.
func RequireAuth(authority *auth.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := authority.VerifyToken(c.GetHeader("Authorization"))
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func identityFrom(c *gin.Context) auth.Identity {
	id, _ := c.MustGet(identityKey).(auth.Identity)
	return id
}
