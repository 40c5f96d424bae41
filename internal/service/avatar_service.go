package service

import (
	"bytes"
	"image"
	"os"
	"path/filepath"

	"album-server/internal/config"
	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/utils"

	"github.com/disintegration/imaging"
)

// SaveIdenticonAvatars renders and stores the three identicon variants
// for a username.
func SaveIdenticonAvatars(username, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, size := range utils.AvatarSizes {
		img := utils.GenerateIdenticon(username, size)
		path := filepath.Join(dir, utils.AvatarFilename(username, utils.AvatarSuffixes[i]))
		if err := imaging.Save(img, path); err != nil {
			return err
		}
	}
	return nil
}

// UploadRawAvatar stores a user-provided avatar image for later cropping.
// The previous raw upload, if any, is replaced.
func UploadRawAvatar(actor *model.User, originalFilename string, data []byte) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !actor.Confirmed {
		return NewForbiddenError("account confirmation required")
	}

	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return NewValidationError("unsupported or corrupt image file")
	}

	dir := config.Get().Upload.AvatarPath
	if err := os.MkdirAll(dir, 0755); err != nil {
		return NewInternalError("failed to store avatar")
	}

	filename := utils.VariantFilename(utils.RandomFilename(originalFilename), "_raw")
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return NewInternalError("failed to store avatar")
	}

	old := actor.AvatarRaw
	if err := db.DB.Model(actor).Update("avatar_raw", filename).Error; err != nil {
		removeFiles([]string{filepath.Join(dir, filename)})
		return NewInternalError("failed to store avatar")
	}
	actor.AvatarRaw = filename

	if old != "" {
		removeFiles([]string{filepath.Join(dir, old)})
	}
	return nil
}

// CropAvatar renders the three stored avatar variants from a crop box on
// the raw upload. The variants get fresh random names so long-lived
// caches of the old files never serve a stale avatar.
func CropAvatar(actor *model.User, x, y, w, h int) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !actor.Confirmed {
		return NewForbiddenError("account confirmation required")
	}
	if actor.AvatarRaw == "" {
		return NewValidationError("upload an avatar image first")
	}

	dir := config.Get().Upload.AvatarPath
	img, err := imaging.Open(filepath.Join(dir, actor.AvatarRaw))
	if err != nil {
		return NewInternalError("failed to load uploaded avatar")
	}

	bounds := img.Bounds()
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > bounds.Dx() || y+h > bounds.Dy() {
		return NewValidationError("crop box must lie inside the image")
	}
	cropped := imaging.Crop(img, image.Rect(x, y, x+w, y+h))

	base := utils.RandomFilename("avatar.png")
	var written []string
	names := make([]string, len(utils.AvatarSizes))
	for i, size := range utils.AvatarSizes {
		variant := imaging.Resize(cropped, size, size, imaging.Lanczos)
		names[i] = utils.VariantFilename(base, utils.AvatarSuffixes[i])
		path := filepath.Join(dir, names[i])
		if err := imaging.Save(variant, path); err != nil {
			removeFiles(written)
			return NewInternalError("failed to store avatar")
		}
		written = append(written, path)
	}

	old := []string{actor.AvatarS, actor.AvatarM, actor.AvatarL}
	updates := map[string]interface{}{
		"avatar_s": names[0],
		"avatar_m": names[1],
		"avatar_l": names[2],
	}
	if err := db.DB.Model(actor).Updates(updates).Error; err != nil {
		removeFiles(written)
		return NewInternalError("failed to store avatar")
	}
	actor.AvatarS, actor.AvatarM, actor.AvatarL = names[0], names[1], names[2]

	oldPaths := make([]string, 0, len(old))
	for _, name := range old {
		if name != "" {
			oldPaths = append(oldPaths, filepath.Join(dir, name))
		}
	}
	removeFiles(oldPaths)
	return nil
}

// avatarFilePaths lists the stored avatar files of a user, skipping unset
// variants.
func avatarFilePaths(user *model.User) []string {
	dir := config.Get().Upload.AvatarPath
	var paths []string
	for _, name := range []string{user.AvatarS, user.AvatarM, user.AvatarL, user.AvatarRaw} {
		if name != "" {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// removeFiles deletes stored files, ignoring ones already gone.
func removeFiles(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logFileRemovalError(path, err)
		}
	}
}
