package router

import (
	"album-server/internal/handler"
	"album-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc) {
	api.POST("/register", authLimiter, handler.Register)
	api.POST("/login", authLimiter, handler.Login)
	api.POST("/auth/password/forget", authLimiter, handler.ForgetPassword)
	api.POST("/auth/password/reset", handler.ResetPassword)

	auth := authenticated(api.Group("/auth"))
	auth.POST("/confirm/resend", middleware.RateLimitMiddleware(1, 2), handler.ResendConfirmation)
	auth.POST("/confirm/:token", handler.Confirm)
}
