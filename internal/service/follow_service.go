package service

import (
	"errors"

	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"

	"gorm.io/gorm"
)

// Follow creates a follower edge from actor to target. Following someone
// already followed is a no-op, not an error; self-follows are valid.
func Follow(actor *model.User, target *model.User) error {
	if err := requireConfirmedPermission(actor, consts.PermissionFollow); err != nil {
		return err
	}
	if IsFollowing(actor, target) {
		return nil
	}

	err := db.DB.Create(&model.Follow{FollowerID: actor.ID, FollowedID: target.ID}).Error
	if err != nil {
		// A concurrent request may have written the edge first; the
		// composite key makes that the same outcome.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return NewInternalError("failed to follow user")
	}

	if target.ID != actor.ID && target.ReceiveFollowNotification {
		PushFollowNotification(actor, target)
	}
	return nil
}

// Unfollow removes the edge; absent edges are a no-op.
func Unfollow(actor *model.User, target *model.User) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	err := db.DB.Where("follower_id = ? AND followed_id = ?", actor.ID, target.ID).
		Delete(&model.Follow{}).Error
	if err != nil {
		return NewInternalError("failed to unfollow user")
	}
	return nil
}

// IsFollowing reports whether an edge actor->target exists. A target that
// has not been persisted yet is never followed; this avoids a spurious
// lookup during account construction.
func IsFollowing(actor *model.User, target *model.User) bool {
	if actor == nil || target == nil || target.ID == 0 {
		return false
	}
	var count int64
	if err := db.DB.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", actor.ID, target.ID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// Followers lists the users following u, oldest edge first.
func Followers(u *model.User, page, perPage int) ([]model.User, error) {
	var users []model.User
	err := db.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", u.ID).
		Order("follows.timestamp asc").
		Scopes(paginate(page, perPage)).
		Find(&users).Error
	if err != nil {
		return nil, NewInternalError("failed to list followers")
	}
	return users, nil
}

// Following lists the users u follows, oldest edge first.
func Following(u *model.User, page, perPage int) ([]model.User, error) {
	var users []model.User
	err := db.DB.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", u.ID).
		Order("follows.timestamp asc").
		Scopes(paginate(page, perPage)).
		Find(&users).Error
	if err != nil {
		return nil, NewInternalError("failed to list following")
	}
	return users, nil
}

func paginate(page, perPage int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if perPage <= 0 {
			return tx
		}
		if page < 1 {
			page = 1
		}
		return tx.Offset((page - 1) * perPage).Limit(perPage)
	}
}
