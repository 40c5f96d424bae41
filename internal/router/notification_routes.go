package router

import (
	"album-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerNotificationRoutes(api *gin.RouterGroup) {
	notifications := authenticated(api.Group("/notifications"))
	notifications.GET("", handler.ListNotifications)
	notifications.GET("/unread-count", handler.UnreadNotificationCount)
	notifications.POST("/:id/read", handler.MarkNotificationRead)
	notifications.POST("/read-all", handler.MarkAllNotificationsRead)
}
