package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// metricsAuthMiddleware protects /metrics with Basic Auth. An empty password
// leaves the endpoint open, which is the default for local development.
func metricsAuthMiddleware(username, password string) gin.HandlerFunc {
	unauthorized := func(c *gin.Context) {
		c.Header("WWW-Authenticate", `Basic realm="metrics"`)
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	return func(c *gin.Context) {
		if password == "" {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c)
			return
		}

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
			unauthorized(c)
			return
		}

		c.Next()
	}
}
