// Package httpx holds the gin middleware shared by the checkout endpoints.
package httpx

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ridKey    = "rid"
	tenantKey = "tenant"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ridKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Tenant resolves the tenant for the request from the X-Tenant-ID header and
// rejects requests that carry none. Every checkout route is tenant-scoped.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := c.GetHeader("X-Tenant-ID")
		if t == "" {
			c.AbortWithStatusJSON(400, gin.H{"error": "missing X-Tenant-ID header"})
			return
		}
		c.Set(tenantKey, t)
		c.Next()
	}
}

// TenantID returns the tenant set by the Tenant middleware, empty when the
// route is not tenant-scoped.
func TenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid := c.GetString(ridKey)
		log.Printf("[http] rid=%s tenant=%s %s %s status=%d dur=%s",
			rid, c.GetString(tenantKey), c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}
