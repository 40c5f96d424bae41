package service

import (
	"errors"
	"strings"

	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"

	"gorm.io/gorm"
)

// AddComment posts a comment on a photo, optionally as a reply to an
// existing comment. Fanout: the parent comment's author and the photo's
// author are each notified when they opted in; both notifications may
// fire for the same comment.
func AddComment(actor *model.User, photo *model.Photo, body string, repliedID *uint) (*model.Comment, error) {
	if err := requireConfirmedPermission(actor, consts.PermissionComment); err != nil {
		return nil, err
	}
	if !photo.CanComment {
		return nil, NewForbiddenError("comments are disabled for this photo")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, NewValidationError("comment body is required")
	}

	comment := model.Comment{
		Body:     body,
		AuthorID: actor.ID,
		PhotoID:  photo.ID,
	}

	var parentAuthor *model.User
	if repliedID != nil {
		var parent model.Comment
		err := db.DB.First(&parent, *repliedID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("comment not found")
		}
		if err != nil {
			return nil, NewInternalError("failed to post comment")
		}
		if parent.PhotoID != photo.ID {
			return nil, NewValidationError("reply must target a comment on the same photo")
		}
		comment.RepliedID = &parent.ID

		author, err := GetUserByID(parent.AuthorID)
		if err == nil && author.ReceiveCommentNotification {
			parentAuthor = author
		}
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, NewInternalError("failed to post comment")
	}

	if parentAuthor != nil {
		PushCommentNotification(photo.ID, parentAuthor)
	}
	if photo.AuthorID != actor.ID {
		author, err := GetUserByID(photo.AuthorID)
		if err == nil && author.ReceiveCommentNotification {
			PushCommentNotification(photo.ID, author)
		}
	}

	return &comment, nil
}

func GetCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := db.DB.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError("comment not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to load comment")
	}
	return &comment, nil
}

// DeleteComment removes a comment. Authorized for the comment author, the
// photo author or a moderator. Replies to the deleted comment stay and
// have their parent reference cleared.
func DeleteComment(actor *model.User, comment *model.Comment) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}

	photo, err := GetPhotoByID(comment.PhotoID)
	if err != nil {
		return err
	}
	if actor.ID != comment.AuthorID && actor.ID != photo.AuthorID && !Can(actor, consts.PermissionModerate) {
		return NewForbiddenError("not allowed to delete this comment")
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Comment{}).
			Where("replied_id = ?", comment.ID).
			Update("replied_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Comment{}, comment.ID).Error
	})
	if err != nil {
		return NewInternalError("failed to delete comment")
	}
	return nil
}

// ReportComment bumps the flag counter; needs a confirmed, logged-in caller.
func ReportComment(actor *model.User, comment *model.Comment) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !actor.Confirmed {
		return NewForbiddenError("account confirmation required")
	}
	err := db.DB.Model(&model.Comment{}).Where("id = ?", comment.ID).
		UpdateColumn("flag", gorm.Expr("flag + 1")).Error
	if err != nil {
		return NewInternalError("failed to report comment")
	}
	return nil
}

// CommentsForPhoto lists a photo's comments in chronological order.
func CommentsForPhoto(photo *model.Photo, page, perPage int) ([]model.Comment, error) {
	var comments []model.Comment
	err := db.DB.Where("photo_id = ?", photo.ID).
		Order("timestamp asc").
		Scopes(paginate(page, perPage)).
		Find(&comments).Error
	if err != nil {
		return nil, NewInternalError("failed to load comments")
	}
	return comments, nil
}
