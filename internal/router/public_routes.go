package router

import (
	"album-server/internal/consts"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(api *gin.RouterGroup) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	api.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{"name": consts.ApplicationName, "version": consts.ApplicationVersion})
	})
}
