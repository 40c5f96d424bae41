package handler

import (
	"net/http"
	"strconv"

	"album-server/internal/model"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

// WriteServiceError writes a standardized HTTP error response for
// service-layer errors.
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := service.AsServiceError(err); ok {
		c.JSON(serviceErrorStatus(serviceErr.Code), gin.H{"error": serviceErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMessage})
}

func serviceErrorStatus(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeValidation:
		return http.StatusBadRequest
	case service.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorCodeForbidden:
		return http.StatusForbidden
	case service.ErrorCodeConflict:
		return http.StatusConflict
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// currentUser resolves the authenticated caller set by the JWT
// middleware. Writes the error response itself when resolution fails.
func currentUser(c *gin.Context) (*model.User, bool) {
	id, exists := c.Get("id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	uid, ok := id.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
		return nil, false
	}
	user, err := service.GetUserByID(uid)
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return nil, false
	}
	return user, true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
