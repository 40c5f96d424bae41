package router

import (
	"album-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerPhotoRoutes(api *gin.RouterGroup) {
	api.GET("/explore", handler.ExplorePhotos)
	api.GET("/photos/:id", handler.GetPhoto)
	api.GET("/photos/:id/next", handler.NextPhoto)
	api.GET("/photos/:id/previous", handler.PreviousPhoto)
	api.GET("/photos/:id/comments", handler.ListComments)
	api.GET("/photos/:id/collectors", handler.ListCollectors)
	api.GET("/tags/:id/photos", handler.ListPhotosByTag)

	photos := authenticated(api.Group("/photos"))
	photos.POST("", handler.UploadPhoto)
	photos.DELETE("/:id", handler.DeletePhoto)
	photos.POST("/:id/report", handler.ReportPhoto)
	photos.PATCH("/:id/description", handler.UpdatePhotoDescription)
	photos.POST("/:id/comment-toggle", handler.ToggleCommentable)
	photos.POST("/:id/collect", handler.CollectPhoto)
	photos.DELETE("/:id/collect", handler.UncollectPhoto)
	photos.POST("/:id/comments", handler.AddComment)
	photos.POST("/:id/tags", handler.AddTags)
	photos.DELETE("/:id/tags/:tag_id", handler.RemoveTag)

	comments := authenticated(api.Group("/comments"))
	comments.DELETE("/:id", handler.DeleteComment)
	comments.POST("/:id/report", handler.ReportComment)
}
