package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// activeCache caches the per-user active flag to keep the per-request
// database lookup off the hot path.
var activeCache sync.Map

const activeCacheTTL = 1 * time.Minute

type cachedActive struct {
	Active    bool
	ExpiresAt time.Time
}

// ClearUserActiveCache drops the cached state after block/unblock.
func ClearUserActiveCache(userID uint) {
	activeCache.Delete(userID)
}

// JWTAuth verifies the Bearer login token and stores the caller identity
// in the request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			c.Abort()
			return
		}

		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("id", claims.ID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// UserActiveCheck rejects requests from blocked accounts whose login
// token is still valid.
func UserActiveCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		uid, ok := userID.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			c.Abort()
			return
		}

		var (
			active bool
			found  bool
		)
		if val, ok := activeCache.Load(uid); ok {
			if cached, typeOk := val.(cachedActive); typeOk {
				if time.Now().Before(cached.ExpiresAt) {
					active = cached.Active
					found = true
				} else {
					activeCache.Delete(uid)
				}
			}
		}

		if !found {
			var user model.User
			if err := db.DB.Select("active").First(&user, uid).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				c.Abort()
				return
			}
			active = user.Active
			activeCache.Store(uid, cachedActive{Active: active, ExpiresAt: time.Now().Add(activeCacheTTL)})
		}

		if !active {
			c.JSON(http.StatusForbidden, gin.H{"error": "this account has been blocked"})
			c.Abort()
			return
		}
		c.Next()
	}
}
