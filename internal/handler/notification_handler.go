package handler

import (
	"net/http"

	"album-server/internal/config"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

// ListNotifications lists the caller's notifications newest first.
// ?filter=unread restricts to unread ones.
func ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("filter") == "unread"
	notifications, err := service.Notifications(user, unreadOnly, pageParam(c), config.Get().App.NotificationPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to load notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadNotificationCount returns the caller's unread badge count.
func UnreadNotificationCount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := service.UnreadNotificationCount(user)
	if err != nil {
		WriteServiceError(c, err, "failed to count notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	notification, err := service.GetNotificationByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load notification")
		return
	}
	if err := service.MarkNotificationRead(user, notification); err != nil {
		WriteServiceError(c, err, "failed to update notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification read"})
}

// MarkAllNotificationsRead clears the caller's unread set.
func MarkAllNotificationsRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := service.MarkAllNotificationsRead(user); err != nil {
		WriteServiceError(c, err, "failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications read"})
}
