package handler

import (
	"io"
	"net/http"

	"album-server/internal/config"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single photo upload.
const maxUploadBytes = 20 << 20

// UploadPhoto accepts a multipart upload and stores the photo with its
// resized variants.
func UploadPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a file field is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	photo, err := service.UploadPhoto(user, fileHeader.Filename, data, c.PostForm("description"))
	if err != nil {
		WriteServiceError(c, err, "upload failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

// GetPhoto returns one photo with its tags and collect/comment context.
func GetPhoto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	tags, err := service.TagsForPhoto(photo)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": photo, "tags": tags})
}

// DeletePhoto removes a photo with everything hanging off it.
func DeletePhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if err := service.DeletePhoto(user, photo); err != nil {
		WriteServiceError(c, err, "failed to delete photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo deleted"})
}

// ReportPhoto bumps the photo's flag counter.
func ReportPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if err := service.ReportPhoto(user, photo); err != nil {
		WriteServiceError(c, err, "failed to report photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo reported"})
}

// ToggleCommentable flips whether a photo accepts comments.
func ToggleCommentable(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if err := service.ToggleCommentable(user, photo); err != nil {
		WriteServiceError(c, err, "failed to update comment settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_comment": photo.CanComment})
}

// UpdatePhotoDescription edits the caption.
func UpdatePhotoDescription(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Description string `json:"description"`
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
	if err := service.UpdateDescription(user, photo, req.Description); err != nil {
		WriteServiceError(c, err, "failed to update description")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": photo})
}

// NextPhoto steps to the author's next older photo.
func NextPhoto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	next, err := service.NextPhoto(photo)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if next == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "this is the last photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": next})
}

// PreviousPhoto steps to the author's next newer photo.
func PreviousPhoto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	prev, err := service.PreviousPhoto(photo)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if prev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "this is the first photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": prev})
}

// CollectPhoto adds the photo to the caller's collection.
func CollectPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if err := service.CollectPhoto(user, photo); err != nil {
		WriteServiceError(c, err, "failed to collect photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo collected"})
}

// UncollectPhoto removes the photo from the caller's collection.
func UncollectPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	if err := service.UncollectPhoto(user, photo); err != nil {
		WriteServiceError(c, err, "failed to uncollect photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo uncollected"})
}

// ListCollectors lists users who collected the photo.
func ListCollectors(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	users, err := service.Collectors(photo, pageParam(c), config.Get().App.UserPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to list collectors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AddTags attaches whitespace-separated tag names to the photo.
func AddTags(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Tags string `json:"tags" binding:"required"`
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
	if err := service.AddTags(user, photo, req.Tags); err != nil {
		WriteServiceError(c, err, "failed to add tags")
		return
	}
	tags, err := service.TagsForPhoto(photo)
	if err != nil {
		WriteServiceError(c, err, "failed to add tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// RemoveTag detaches one tag from the photo.
func RemoveTag(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := idParam(c, "tag_id")
	if !ok {
		return
	}

	photo, err := service.GetPhotoByID(id)
	if err != nil {
		WriteServiceError(c, err, "failed to load photo")
		return
	}
	tag, err := service.GetTagByID(tagID)
	if err != nil {
		WriteServiceError(c, err, "failed to load tag")
		return
	}
	if err := service.RemoveTag(user, photo, tag); err != nil {
		WriteServiceError(c, err, "failed to remove tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag removed"})
}

// ListPhotosByTag lists the photos carrying a tag, ordered by time or by
// collect count per the order query parameter.
func ListPhotosByTag(c *gin.Context) {
	tagID, ok := idParam(c, "id")
	if !ok {
		return
	}
	tag, err := service.GetTagByID(tagID)
	if err != nil {
		WriteServiceError(c, err, "failed to load tag")
		return
	}
	order := c.DefaultQuery("order", service.TagOrderByTime)
	photos, err := service.PhotosByTag(tag, order, pageParam(c), config.Get().App.PhotoPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to list photos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "photos": photos})
}

// ExplorePhotos returns a random page-sized sample of all photos.
func ExplorePhotos(c *gin.Context) {
	photos, err := service.ExplorePhotos(config.Get().App.PhotoPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to load photos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// HomeFeed lists photos by everyone the caller follows.
func HomeFeed(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	photos, err := service.HomeFeed(user, pageParam(c), config.Get().App.PhotoPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to load feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}
