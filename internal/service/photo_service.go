package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/utils"

	"github.com/disintegration/imaging"
	"gorm.io/gorm"
)

// UploadPhoto stores an uploaded image under a random name, renders the
// small and medium variants (downscale only, aspect preserved) and
// creates the Photo row. Requires a confirmed account with UPLOAD.
func UploadPhoto(actor *model.User, originalFilename string, data []byte, description string) (*model.Photo, error) {
	if err := requireConfirmedPermission(actor, consts.PermissionUpload); err != nil {
		return nil, err
	}
	if len(description) > 500 {
		return nil, NewValidationError("description must be at most 500 characters")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewValidationError("unsupported or corrupt image file")
	}

	cfg := config.Get()
	if err := os.MkdirAll(cfg.Upload.Path, 0755); err != nil {
		return nil, NewInternalError("failed to store photo")
	}

	filename := utils.RandomFilename(originalFilename)
	filenameS := utils.VariantFilename(filename, "_s")
	filenameM := utils.VariantFilename(filename, "_m")

	written := []string{}
	cleanup := func() { removeFiles(written) }

	originalPath := filepath.Join(cfg.Upload.Path, filename)
	if err := os.WriteFile(originalPath, data, 0644); err != nil {
		return nil, NewInternalError("failed to store photo")
	}
	written = append(written, originalPath)

	variants := []struct {
		name  string
		width int
	}{
		{filenameS, cfg.Upload.PhotoSizeSmall},
		{filenameM, cfg.Upload.PhotoSizeMedium},
	}
	for _, v := range variants {
		path := filepath.Join(cfg.Upload.Path, v.name)
		if err := imaging.Save(utils.ResizeToWidth(img, v.width), path); err != nil {
			cleanup()
			return nil, NewInternalError("failed to store photo")
		}
		written = append(written, path)
	}

	photo := model.Photo{
		Description: description,
		Filename:    filename,
		FilenameS:   filenameS,
		FilenameM:   filenameM,
		CanComment:  true,
		AuthorID:    actor.ID,
	}
	if err := db.DB.Create(&photo).Error; err != nil {
		cleanup()
		return nil, NewInternalError("failed to store photo")
	}
	return &photo, nil
}

func GetPhotoByID(id uint) (*model.Photo, error) {
	var photo model.Photo
	err := db.DB.First(&photo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("photo not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to load photo")
	}
	return &photo, nil
}

func canModifyPhoto(actor *model.User, photo *model.Photo) bool {
	if actor == nil {
		return false
	}
	return actor.ID == photo.AuthorID || Can(actor, consts.PermissionModerate)
}

// DeletePhoto removes a photo, its comments, its collect edges and its
// tag associations (dropping tags that become orphaned), then deletes the
// three stored files. Authorized for the author or a moderator.
func DeletePhoto(actor *model.User, photo *model.Photo) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !canModifyPhoto(actor, photo) {
		return NewForbiddenError("only the author or a moderator may delete a photo")
	}

	var filePaths []string
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		paths, err := deletePhotoRows(tx, photo)
		if err != nil {
			return err
		}
		filePaths = paths
		return nil
	})
	if err != nil {
		return NewInternalError("failed to delete photo")
	}

	removeFiles(filePaths)
	return nil
}

// deletePhotoRows deletes everything a photo owns inside the supplied
// transaction and returns the stored file paths for post-commit removal.
func deletePhotoRows(tx *gorm.DB, photo *model.Photo) ([]string, error) {
	if err := tx.Where("photo_id = ?", photo.ID).Delete(&model.Comment{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("collected_id = ?", photo.ID).Delete(&model.Collect{}).Error; err != nil {
		return nil, err
	}

	var tagIDs []uint
	if err := tx.Table("photo_tags").Where("photo_id = ?", photo.ID).
		Pluck("tag_id", &tagIDs).Error; err != nil {
		return nil, err
	}
	if err := tx.Exec("DELETE FROM photo_tags WHERE photo_id = ?", photo.ID).Error; err != nil {
		return nil, err
	}
	if err := deleteOrphanTags(tx, tagIDs); err != nil {
		return nil, err
	}

	if err := tx.Delete(&model.Photo{}, photo.ID).Error; err != nil {
		return nil, err
	}

	dir := config.Get().Upload.Path
	return []string{
		filepath.Join(dir, photo.Filename),
		filepath.Join(dir, photo.FilenameS),
		filepath.Join(dir, photo.FilenameM),
	}, nil
}

// ReportPhoto bumps the flag counter. Reporting needs a confirmed,
// logged-in caller; no further relationship to the photo is required.
func ReportPhoto(actor *model.User, photo *model.Photo) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !actor.Confirmed {
		return NewForbiddenError("account confirmation required")
	}
	err := db.DB.Model(&model.Photo{}).Where("id = ?", photo.ID).
		UpdateColumn("flag", gorm.Expr("flag + 1")).Error
	if err != nil {
		return NewInternalError("failed to report photo")
	}
	return nil
}

// ToggleCommentable flips can_comment. Author only.
func ToggleCommentable(actor *model.User, photo *model.Photo) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if actor.ID != photo.AuthorID {
		return NewForbiddenError("only the author may change comment settings")
	}
	if err := db.DB.Model(photo).Update("can_comment", !photo.CanComment).Error; err != nil {
		return NewInternalError("failed to update comment settings")
	}
	photo.CanComment = !photo.CanComment
	return nil
}

// UpdateDescription edits the caption. Author or moderator.
func UpdateDescription(actor *model.User, photo *model.Photo, description string) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !canModifyPhoto(actor, photo) {
		return NewForbiddenError("only the author or a moderator may edit the description")
	}
	if len(description) > 500 {
		return NewValidationError("description must be at most 500 characters")
	}
	if err := db.DB.Model(photo).Update("description", description).Error; err != nil {
		return NewInternalError("failed to update description")
	}
	photo.Description = description
	return nil
}

// NextPhoto returns the author's photo with the highest id strictly below
// the current one, or nil when the current photo is the last.
func NextPhoto(photo *model.Photo) (*model.Photo, error) {
	var next model.Photo
	err := db.DB.Where("author_id = ? AND id < ?", photo.AuthorID, photo.ID).
		Order("id desc").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewInternalError("failed to load photo")
	}
	return &next, nil
}

// PreviousPhoto returns the author's photo with the lowest id strictly
// above the current one, or nil when the current photo is the first.
func PreviousPhoto(photo *model.Photo) (*model.Photo, error) {
	var prev model.Photo
	err := db.DB.Where("author_id = ? AND id > ?", photo.AuthorID, photo.ID).
		Order("id asc").First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewInternalError("failed to load photo")
	}
	return &prev, nil
}

// HomeFeed lists photos by everyone the user follows, newest first. The
// self-follow edge written at registration makes the user's own photos
// part of the feed with no special case.
func HomeFeed(user *model.User, page, perPage int) ([]model.Photo, error) {
	var photos []model.Photo
	err := db.DB.
		Joins("JOIN follows ON follows.followed_id = photos.author_id").
		Where("follows.follower_id = ?", user.ID).
		Order("photos.timestamp desc").
		Scopes(paginate(page, perPage)).
		Find(&photos).Error
	if err != nil {
		return nil, NewInternalError("failed to load feed")
	}
	return photos, nil
}

// ExplorePhotos returns a random sample of photos for the explore page.
func ExplorePhotos(limit int) ([]model.Photo, error) {
	order := "RANDOM()"
	if db.DB.Dialector.Name() == "mysql" {
		order = "RAND()"
	}
	var photos []model.Photo
	if err := db.DB.Order(order).Limit(limit).Find(&photos).Error; err != nil {
		return nil, NewInternalError("failed to load photos")
	}
	return photos, nil
}

// PhotosByUser lists a user's own photos, newest first.
func PhotosByUser(u *model.User, page, perPage int) ([]model.Photo, error) {
	var photos []model.Photo
	err := db.DB.Where("author_id = ?", u.ID).
		Order("timestamp desc").
		Scopes(paginate(page, perPage)).
		Find(&photos).Error
	if err != nil {
		return nil, NewInternalError("failed to load photos")
	}
	return photos, nil
}
