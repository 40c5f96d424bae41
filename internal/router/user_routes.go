package router

import (
	"album-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(api *gin.RouterGroup) {
	me := authenticated(api.Group("/me"))
	me.GET("", handler.GetSelfProfile)
	me.PATCH("/profile", handler.UpdateSelfProfile)
	me.PATCH("/password", handler.UpdateSelfPassword)
	me.PATCH("/settings/notifications", handler.UpdateNotificationSettings)
	me.PATCH("/settings/privacy", handler.UpdatePrivacySettings)
	me.POST("/avatar", handler.UploadAvatar)
	me.POST("/avatar/crop", handler.CropAvatar)
	me.POST("/email/change", handler.RequestEmailChange)
	me.POST("/email/change/:token", handler.ChangeEmail)
	me.DELETE("", handler.DeleteSelfAccount)
	me.GET("/feed", handler.HomeFeed)

	users := api.Group("/users")
	users.GET("/:username", handler.GetUserProfile)
	users.GET("/:username/photos", handler.ListUserPhotos)
	users.GET("/:username/followers", handler.ListFollowers)
	users.GET("/:username/following", handler.ListFollowing)
	users.GET("/:username/collections", handler.ListUserCollections)

	follow := authenticated(api.Group("/users/:username"))
	follow.POST("/follow", handler.FollowUser)
	follow.DELETE("/follow", handler.UnfollowUser)
}
