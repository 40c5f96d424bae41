package middleware

import (
	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware sets Cache-Control for served photo and avatar
// files. Stored filenames are random, so long-lived immutable caching is
// safe.
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Next()
	}
}
