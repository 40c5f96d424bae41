package handler

import (
	"net/http"

	"album-server/internal/config"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

// AddComment posts a comment, optionally replying to another comment on
// the same photo.
func AddComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Body      string `json:"body" binding:"required"`
		RepliedID *uint  `json:"replied_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	comment, err := service.AddComment(user, photo, req.Body, req.RepliedID)
	if err != nil {
		WriteServiceError(c, err, "failed to post comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments lists a photo's comments oldest first.
func ListComments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	comments, err := service.CommentsForPhoto(photo, pageParam(c), config.Get().App.CommentPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to load comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment removes a comment; its replies survive with the parent
// reference cleared.
func DeleteComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	comment, err := service.GetCommentByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load comment")
		return
	}
	if err := service.DeleteComment(user, comment); err != nil {
		WriteServiceError(c, err, "failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// ReportComment bumps the comment's flag counter.
func ReportComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	comment, err := service.GetCommentByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load comment")
		return
	}
	if err := service.ReportComment(user, comment); err != nil {
		WriteServiceError(c, err, "failed to report comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment reported"})
}
