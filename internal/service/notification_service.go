package service

import (
	"fmt"
	"log"

	"album-server/internal/db"
	"album-server/internal/model"
)

// Notification fanout. These are pure producers: callers decide whether
// the receiver opted in, producers only build the message and persist the
// row. Failures are logged, never surfaced — a lost notification must not
// fail the operation that caused it.

func PushFollowNotification(follower *model.User, receiver *model.User) {
	message := fmt.Sprintf("User <a href=\"/user/%s\">%s</a> followed you.", follower.Username, follower.Username)
	push(message, receiver.ID)
}

func PushCommentNotification(photoID uint, receiver *model.User) {
	message := fmt.Sprintf("<a href=\"/photo/%d#comments\">This photo</a> has new comment/reply.", photoID)
	push(message, receiver.ID)
}

func PushCollectNotification(collector *model.User, photoID uint, receiver *model.User) {
	message := fmt.Sprintf("User <a href=\"/user/%s\">%s</a> collected your <a href=\"/photo/%d\">photo</a>.",
		collector.Username, collector.Username, photoID)
	push(message, receiver.ID)
}

func push(message string, receiverID uint) {
	notification := model.Notification{Message: message, ReceiverID: receiverID}
	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", receiverID, err)
	}
}

// MarkNotificationRead flips is_read. Only the receiver may read its own
// notifications.
func MarkNotificationRead(actor *model.User, notification *model.Notification) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if notification.ReceiverID != actor.ID {
		return NewForbiddenError("not your notification")
	}
	if err := db.DB.Model(notification).Update("is_read", true).Error; err != nil {
		return NewInternalError("failed to update notification")
	}
	notification.IsRead = true
	return nil
}

// MarkAllNotificationsRead flips is_read on everything the user has.
func MarkAllNotificationsRead(user *model.User) error {
	err := db.DB.Model(&model.Notification{}).
		Where("receiver_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true).Error
	if err != nil {
		return NewInternalError("failed to update notifications")
	}
	return nil
}

func GetNotificationByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	err := db.DB.First(&notification, id).Error
	if err != nil {
		return nil, NewNotFoundError("notification not found")
	}
	return &notification, nil
}

// Notifications lists a user's notifications newest first, optionally
// only unread ones.
func Notifications(user *model.User, unreadOnly bool, page, perPage int) ([]model.Notification, error) {
	query := db.DB.Where("receiver_id = ?", user.ID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var notifications []model.Notification
	err := query.Order("timestamp desc").
		Scopes(paginate(page, perPage)).
		Find(&notifications).Error
	if err != nil {
		return nil, NewInternalError("failed to load notifications")
	}
	return notifications, nil
}

// UnreadNotificationCount counts the user's unread notifications.
func UnreadNotificationCount(user *model.User) (int64, error) {
	var count int64
	err := db.DB.Model(&model.Notification{}).
		Where("receiver_id = ? AND is_read = ?", user.ID, false).
		Count(&count).Error
	if err != nil {
		return 0, NewInternalError("failed to count notifications")
	}
	return count, nil
}
