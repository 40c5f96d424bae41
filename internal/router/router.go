package router

import (
	"album-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter registers every API route under /api. Auth endpoints carry a
// tighter rate limit than the rest of the surface.
func InitRouter(r *gin.Engine) {
	api := r.Group("/api")

	authLimiter := middleware.RateLimitMiddleware(5, 5)

	registerPublicRoutes(api)
	registerAuthRoutes(api, authLimiter)
	registerUserRoutes(api)
	registerPhotoRoutes(api)
	registerNotificationRoutes(api)
	registerAdminRoutes(api)
}

// authenticated wraps a group with the login middleware chain.
func authenticated(group *gin.RouterGroup) *gin.RouterGroup {
	group.Use(middleware.JWTAuth())
	group.Use(middleware.UserActiveCheck())
	return group
}
