package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request through logrus
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := log.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"requestId": requestid.Get(c),
			"clientIp":  c.ClientIP(),
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.WithFields(fields).Error("HTTP request")
		case c.Writer.Status() >= http.StatusBadRequest:
			log.WithFields(fields).Warn("HTTP request")
		default:
			log.WithFields(fields).Info("HTTP request")
		}
	}
}

// AdminAuth requires "Authorization: Bearer <token>". An empty token disables the check.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
				Success: false,
				Error:   "Unauthorized",
			})
			return
		}

		c.Next()
	}
}
