package service_test

import (
	"testing"

	"album-server/internal/service"
)

func TestMarkNotificationReadReceiverOnly(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)

	if err := service.Follow(alice, bob); err != nil {
		t.Fatalf("follow: %v", err)
	}
	notifications, err := service.Notifications(bob, false, 1, 10)
	if err != nil || len(notifications) != 1 {
		t.Fatalf("notifications: %v (%v)", notifications, err)
	}
	n := &notifications[0]

	if err := service.MarkNotificationRead(alice, n); err == nil {
		t.Fatal("non-receiver marked another user's notification")
	}
	if err := service.MarkNotificationRead(bob, n); err != nil {
		t.Fatalf("receiver mark read: %v", err)
	}

	count, _ := service.UnreadNotificationCount(bob)
	if count != 0 {
		t.Fatalf("unread count = %d, want 0", count)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	carol := newUser(t)

	if err := service.Follow(alice, carol); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := service.Follow(bob, carol); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := service.MarkAllNotificationsRead(carol); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	count, _ := service.UnreadNotificationCount(carol)
	if count != 0 {
		t.Fatalf("unread count = %d, want 0", count)
	}

	all, err := service.Notifications(carol, false, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("total notifications = %d, want 2", len(all))
	}
}

func TestNotificationsUnreadFilter(t *testing.T) {
	setup(t)
	alice := newUser(t)
	bob := newUser(t)
	carol := newUser(t)

	if err := service.Follow(alice, carol); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := service.Follow(bob, carol); err != nil {
		t.Fatalf("follow: %v", err)
	}

	all, err := service.Notifications(carol, false, 1, 10)
	if err != nil || len(all) != 2 {
		t.Fatalf("all: %v (%v)", all, err)
	}
	if err := service.MarkNotificationRead(carol, &all[0]); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := service.Notifications(carol, true, 1, 10)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("unread count = %d, want 1", len(unread))
	}
}
