package service

import (
	"errors"
	"strings"

	"album-server/internal/db"
	"album-server/internal/model"

	"gorm.io/gorm"
)

// AddTags splits raw input on whitespace and attaches each name to the
// photo, creating missing tags. Runs as one transaction: on failure no
// tag or attachment survives. Author or moderator only.
func AddTags(actor *model.User, photo *model.Photo, raw string) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !canModifyPhoto(actor, photo) {
		return NewForbiddenError("only the author or a moderator may tag a photo")
	}

	names := strings.Fields(raw)
	if len(names) == 0 {
		return NewValidationError("at least one tag name is required")
	}
	for _, name := range names {
		if len(name) > 64 {
			return NewValidationError("tag names must be at most 64 characters")
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			tag, err := getOrCreateTag(tx, name)
			if err != nil {
				return err
			}

			var count int64
			if err := tx.Table("photo_tags").
				Where("photo_id = ? AND tag_id = ?", photo.ID, tag.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Exec("INSERT INTO photo_tags (photo_id, tag_id) VALUES (?, ?)",
					photo.ID, tag.ID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return NewInternalError("failed to add tags")
	}
	return nil
}

// getOrCreateTag inserts first and falls back to a lookup on a unique
// violation, so two concurrent requests creating the same name cannot
// both fail.
func getOrCreateTag(tx *gorm.DB, name string) (*model.Tag, error) {
	tag := model.Tag{Name: name}
	err := tx.Create(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var existing model.Tag
	if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// RemoveTag detaches a tag from a photo and deletes the tag entirely when
// no other photo still references it. Author or moderator only.
func RemoveTag(actor *model.User, photo *model.Photo, tag *model.Tag) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !canModifyPhoto(actor, photo) {
		return NewForbiddenError("only the author or a moderator may remove a tag")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM photo_tags WHERE photo_id = ? AND tag_id = ?",
			photo.ID, tag.ID).Error; err != nil {
			return err
		}
		return deleteOrphanTags(tx, []uint{tag.ID})
	})
	if err != nil {
		return NewInternalError("failed to remove tag")
	}
	return nil
}

// deleteOrphanTags drops every candidate tag that no longer has a photo
// association.
func deleteOrphanTags(tx *gorm.DB, tagIDs []uint) error {
	for _, tagID := range tagIDs {
		var count int64
		if err := tx.Table("photo_tags").Where("tag_id = ?", tagID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Delete(&model.Tag{}, tagID).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func GetTagByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	err := db.DB.First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("tag not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to load tag")
	}
	return &tag, nil
}

// TagsForPhoto lists a photo's tags.
func TagsForPhoto(photo *model.Photo) ([]model.Tag, error) {
	var tags []model.Tag
	err := db.DB.
		Joins("JOIN photo_tags ON photo_tags.tag_id = tags.id").
		Where("photo_tags.photo_id = ?", photo.ID).
		Order("tags.name asc").
		Find(&tags).Error
	if err != nil {
		return nil, NewInternalError("failed to load tags")
	}
	return tags, nil
}

const (
	TagOrderByTime     = "by_time"
	TagOrderByCollects = "by_collects"
)

// PhotosByTag lists the photos carrying a tag. Order is by_time (newest
// first, the default for any unrecognized value) or by_collects (most
// collected first).
func PhotosByTag(tag *model.Tag, order string, page, perPage int) ([]model.Photo, error) {
	query := db.DB.
		Joins("JOIN photo_tags ON photo_tags.photo_id = photos.id").
		Where("photo_tags.tag_id = ?", tag.ID)
	if order == TagOrderByCollects {
		query = query.
			Joins("LEFT JOIN collects ON collects.collected_id = photos.id").
			Group("photos.id").
			Order("COUNT(collects.collected_id) desc")
	} else {
		query = query.Order("photos.timestamp desc")
	}

	var photos []model.Photo
	if err := query.Scopes(paginate(page, perPage)).Find(&photos).Error; err != nil {
		return nil, NewInternalError("failed to load photos")
	}
	return photos, nil
}
