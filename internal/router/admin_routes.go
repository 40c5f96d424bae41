package router

import (
	"album-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(api *gin.RouterGroup) {
	admin := authenticated(api.Group("/admin"))
	admin.POST("/users/:username/lock", handler.LockUser)
	admin.DELETE("/users/:username/lock", handler.UnlockUser)
	admin.POST("/users/:username/block", handler.BlockUser)
	admin.DELETE("/users/:username/block", handler.UnblockUser)
	admin.PATCH("/users/:username/role", handler.SetUserRole)
}
