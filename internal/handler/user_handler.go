package handler

import (
	"io"
	"net/http"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/middleware"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 3 << 20

// GetSelfProfile returns the caller's own account.
func GetSelfProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserProfile returns a public profile by username.
func GetUserProfile(c *gin.Context) {
	user, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSelfProfile edits the caller's display fields.
func UpdateSelfProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Username string `json:"username" binding:"required"`
		Bio      string `json:"bio"`
		Website  string `json:"website"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := service.UpdateProfile(user, req.Name, req.Username, req.Bio, req.Website, req.Location); err != nil {
		WriteServiceError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// UpdateSelfPassword verifies the old password and stores a new one.
func UpdateSelfPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !service.ValidateUserPassword(user, req.OldPassword) {
		c.JSON(http.StatusForbidden, gin.H{"error": "wrong password"})
		return
	}
	if err := service.SetPassword(user, req.NewPassword); err != nil {
		WriteServiceError(c, err, "failed to update password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// UpdateNotificationSettings stores the caller's fanout opt-ins.
func UpdateNotificationSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		ReceiveCommentNotification bool `json:"receive_comment_notification"`
		ReceiveFollowNotification  bool `json:"receive_follow_notification"`
		ReceiveCollectNotification bool `json:"receive_collect_notification"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := service.UpdateNotificationSettings(user,
		req.ReceiveCommentNotification, req.ReceiveFollowNotification, req.ReceiveCollectNotification)
	if err != nil {
		WriteServiceError(c, err, "failed to update notification settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification settings updated"})
}

// UpdatePrivacySettings stores the caller's visibility flags.
func UpdatePrivacySettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		PublicCollections bool `json:"public_collections"`
		PublicFollowers   bool `json:"public_followers"`
		PublicFollowing   bool `json:"public_following"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := service.UpdatePrivacySettings(user, req.PublicCollections, req.PublicFollowers, req.PublicFollowing)
	if err != nil {
		WriteServiceError(c, err, "failed to update privacy settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "privacy settings updated"})
}

// UploadAvatar stores a raw avatar image for the caller to crop.
func UploadAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}

	if err := service.UploadRawAvatar(user, fileHeader.Filename, data); err != nil {
		WriteServiceError(c, err, "failed to upload avatar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "avatar uploaded, crop it to finish"})
}

// CropAvatar re-renders the caller's avatar variants from a crop box.
func CropAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width" binding:"required"`
		Height int `json:"height" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := service.CropAvatar(user, req.X, req.Y, req.Width, req.Height); err != nil {
		WriteServiceError(c, err, "failed to crop avatar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "avatar updated"})
}

// RequestEmailChange mails a change-email token to the new address.
func RequestEmailChange(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := service.RequestEmailChange(user, req.Email); err != nil {
		WriteServiceError(c, err, "failed to request email change")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "confirmation email sent to the new address"})
}

// ChangeEmail validates a change-email token and commits the new address.
func ChangeEmail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !service.ValidateToken(user, c.Param("token"), consts.OperationChangeEmail, "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email updated"})
}

// DeleteSelfAccount hard-deletes the caller after a password check.
func DeleteSelfAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !service.ValidateUserPassword(user, req.Password) {
		c.JSON(http.StatusForbidden, gin.H{"error": "wrong password"})
		return
	}

	if err := service.DeleteAccount(user); err != nil {
		WriteServiceError(c, err, "failed to delete account")
		return
	}
	middleware.ClearUserActiveCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// FollowUser creates a follow edge toward the named user.
func FollowUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	if err := service.Follow(user, target); err != nil {
		WriteServiceError(c, err, "failed to follow user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user followed"})
}

// UnfollowUser removes the follow edge toward the named user.
func UnfollowUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	if err := service.Unfollow(user, target); err != nil {
		WriteServiceError(c, err, "failed to unfollow user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user unfollowed"})
}

// ListFollowers lists who follows the named user.
func ListFollowers(c *gin.Context) {
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	if !target.PublicFollowers {
		c.JSON(http.StatusForbidden, gin.H{"error": "this user's followers are private"})
		return
	}
	users, err := service.Followers(target, pageParam(c), config.Get().App.UserPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to list followers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListFollowing lists who the named user follows.
func ListFollowing(c *gin.Context) {
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	if !target.PublicFollowing {
		c.JSON(http.StatusForbidden, gin.H{"error": "this user's following list is private"})
		return
	}
	users, err := service.Following(target, pageParam(c), config.Get().App.UserPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to list following")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListUserPhotos lists the named user's photos.
func ListUserPhotos(c *gin.Context) {
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	photos, err := service.PhotosByUser(target, pageParam(c), config.Get().App.PhotoPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to list photos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// ListUserCollections lists what the named user collected.
func ListUserCollections(c *gin.Context) {
	target, err := service.GetUserByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "failed to load user")
		return
	}
	if !target.PublicCollections {
		c.JSON(http.StatusForbidden, gin.H{"error": "this user's collections are private"})
		return
	}
	photos, err := service.Collections(target, pageParam(c), config.Get().App.PhotoPerPage)
	if err != nil {
		WriteServiceError(c, err, "failed to list collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}
