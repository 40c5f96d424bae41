package service

import (
	"errors"
	"log"

	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func logFileRemovalError(path string, err error) {
	log.Printf("failed to remove file %q: %v", path, err)
}

func GetUserByID(id uint) (*model.User, error) {
	var user model.User
	err := db.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to load user")
	}
	return &user, nil
}

func GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := db.DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to load user")
	}
	return &user, nil
}

func GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	err := db.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to load user")
	}
	return &user, nil
}

// UpdateProfile edits the caller's display fields. A changed username is
// revalidated and re-checked for uniqueness.
func UpdateProfile(user *model.User, name, username, bio, website, location string) error {
	if username != user.Username {
		if ok, msg := utils.ValidateUsername(username); !ok {
			return NewValidationError(msg)
		}
		var count int64
		if err := db.DB.Model(&model.User{}).
			Where("username = ? AND id != ?", username, user.ID).
			Count(&count).Error; err != nil {
			return NewInternalError("failed to update profile")
		}
		if count > 0 {
			return NewValidationError("username is already taken")
		}
	}

	updates := map[string]interface{}{
		"name":     name,
		"username": username,
		"bio":      bio,
		"website":  website,
		"location": location,
	}
	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		return NewInternalError("failed to update profile")
	}
	return nil
}

// SetPassword stores a new bcrypt hash for the user.
func SetPassword(user *model.User, newPassword string) error {
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return NewValidationError(msg)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewInternalError("failed to update password")
	}
	if err := db.DB.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return NewInternalError("failed to update password")
	}
	user.PasswordHash = string(hash)
	return nil
}

// ValidateUserPassword verifies a candidate password against the stored hash.
func ValidateUserPassword(user *model.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}

// UpdateNotificationSettings stores the user's fanout opt-ins.
func UpdateNotificationSettings(user *model.User, comment, follow, collect bool) error {
	updates := map[string]interface{}{
		"receive_comment_notification": comment,
		"receive_follow_notification":  follow,
		"receive_collect_notification": collect,
	}
	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		return NewInternalError("failed to update notification settings")
	}
	user.ReceiveCommentNotification = comment
	user.ReceiveFollowNotification = follow
	user.ReceiveCollectNotification = collect
	return nil
}

// UpdatePrivacySettings stores the user's visibility flags.
func UpdatePrivacySettings(user *model.User, publicCollections, publicFollowers, publicFollowing bool) error {
	updates := map[string]interface{}{
		"public_collections": publicCollections,
		"public_followers":   publicFollowers,
		"public_following":   publicFollowing,
	}
	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		return NewInternalError("failed to update privacy settings")
	}
	user.PublicCollections = publicCollections
	user.PublicFollowers = publicFollowers
	user.PublicFollowing = publicFollowing
	return nil
}

// LockUser demotes a user to the Locked role. Locking does not block
// login; the reduced permission set is the restriction.
func LockUser(actor *model.User, target *model.User) error {
	if !Can(actor, consts.PermissionModerate) {
		return NewForbiddenError("moderation permission required")
	}
	return setLockState(target, true, consts.RoleLocked)
}

// UnlockUser restores a locked user to the User role.
func UnlockUser(actor *model.User, target *model.User) error {
	if !Can(actor, consts.PermissionModerate) {
		return NewForbiddenError("moderation permission required")
	}
	return setLockState(target, false, consts.RoleUser)
}

func setLockState(target *model.User, locked bool, roleName string) error {
	role, err := findRoleByName(db.DB, roleName)
	if err != nil {
		return NewInternalError("failed to update lock state")
	}
	updates := map[string]interface{}{
		"locked":  locked,
		"role_id": role.ID,
	}
	if err := db.DB.Model(target).Updates(updates).Error; err != nil {
		return NewInternalError("failed to update lock state")
	}
	target.Locked = locked
	target.RoleID = role.ID
	return nil
}

// BlockUser clears the active flag; a blocked account cannot log in.
func BlockUser(actor *model.User, target *model.User) error {
	if !Can(actor, consts.PermissionModerate) {
		return NewForbiddenError("moderation permission required")
	}
	return setActiveState(target, false)
}

func UnblockUser(actor *model.User, target *model.User) error {
	if !Can(actor, consts.PermissionModerate) {
		return NewForbiddenError("moderation permission required")
	}
	return setActiveState(target, true)
}

func setActiveState(target *model.User, active bool) error {
	if err := db.DB.Model(target).Update("active", active).Error; err != nil {
		return NewInternalError("failed to update account state")
	}
	target.Active = active
	return nil
}

// SetUserRole reassigns a user's role by name. Administrator-only.
func SetUserRole(actor *model.User, target *model.User, roleName string) error {
	if !Can(actor, consts.PermissionAdminister) {
		return NewForbiddenError("administrator permission required")
	}
	role, err := findRoleByName(db.DB, roleName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewValidationError("unknown role")
	}
	if err != nil {
		return NewInternalError("failed to update role")
	}
	if err := db.DB.Model(target).Update("role_id", role.ID).Error; err != nil {
		return NewInternalError("failed to update role")
	}
	target.RoleID = role.ID
	return nil
}

// DeleteAccount hard-deletes a user and everything hanging off it: owned
// photos (with their stored files), comments, collect edges, follow edges
// in both directions and notifications. Row deletes commit as one
// transaction; file removal runs after the commit point.
func DeleteAccount(user *model.User) error {
	var filePaths []string

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var photos []model.Photo
		if err := tx.Where("author_id = ?", user.ID).Find(&photos).Error; err != nil {
			return err
		}

		for i := range photos {
			paths, err := deletePhotoRows(tx, &photos[i])
			if err != nil {
				return err
			}
			filePaths = append(filePaths, paths...)
		}

		// Replies to this user's comments keep existing with a cleared
		// parent reference.
		authored := tx.Model(&model.Comment{}).Select("id").Where("author_id = ?", user.ID)
		if err := tx.Model(&model.Comment{}).
			Where("replied_id IN (?)", authored).
			Update("replied_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("collector_id = ?", user.ID).Delete(&model.Collect{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("receiver_id = ?", user.ID).Delete(&model.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, user.ID).Error
	})
	if err != nil {
		return NewInternalError("failed to delete account")
	}

	filePaths = append(filePaths, avatarFilePaths(user)...)
	removeFiles(filePaths)
	return nil
}
