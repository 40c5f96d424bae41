package service

import (
	"errors"

	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"

	"gorm.io/gorm"
)

// CollectPhoto adds photo to the actor's collection. Collecting an
// already collected photo is a no-op, not an error.
func CollectPhoto(actor *model.User, photo *model.Photo) error {
	if err := requireConfirmedPermission(actor, consts.PermissionCollect); err != nil {
		return err
	}
	if IsCollecting(actor, photo) {
		return nil
	}

	err := db.DB.Create(&model.Collect{CollectorID: actor.ID, CollectedID: photo.ID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return NewInternalError("failed to collect photo")
	}

	if photo.AuthorID != actor.ID {
		author, err := GetUserByID(photo.AuthorID)
		if err == nil && author.ReceiveCollectNotification {
			PushCollectNotification(actor, photo.ID, author)
		}
	}
	return nil
}

// UncollectPhoto removes the edge; absent edges are a no-op.
func UncollectPhoto(actor *model.User, photo *model.Photo) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	err := db.DB.Where("collector_id = ? AND collected_id = ?", actor.ID, photo.ID).
		Delete(&model.Collect{}).Error
	if err != nil {
		return NewInternalError("failed to uncollect photo")
	}
	return nil
}

// IsCollecting reports whether actor has collected photo.
func IsCollecting(actor *model.User, photo *model.Photo) bool {
	if actor == nil || photo == nil || photo.ID == 0 {
		return false
	}
	var count int64
	if err := db.DB.Model(&model.Collect{}).
		Where("collector_id = ? AND collected_id = ?", actor.ID, photo.ID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// Collectors lists the users who collected a photo, oldest edge first.
func Collectors(photo *model.Photo, page, perPage int) ([]model.User, error) {
	var users []model.User
	err := db.DB.
		Joins("JOIN collects ON collects.collector_id = users.id").
		Where("collects.collected_id = ?", photo.ID).
		Order("collects.timestamp asc").
		Scopes(paginate(page, perPage)).
		Find(&users).Error
	if err != nil {
		return nil, NewInternalError("failed to list collectors")
	}
	return users, nil
}

// Collections lists the photos a user collected, most recent first.
func Collections(u *model.User, page, perPage int) ([]model.Photo, error) {
	var photos []model.Photo
	err := db.DB.
		Joins("JOIN collects ON collects.collected_id = photos.id").
		Where("collects.collector_id = ?", u.ID).
		Order("collects.timestamp desc").
		Scopes(paginate(page, perPage)).
		Find(&photos).Error
	if err != nil {
		return nil, NewInternalError("failed to list collections")
	}
	return photos, nil
}
