package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/internal/repository/testutil"
	"github.com/answerhub/community-api/pkg/apperror"
)

func TestMarkAsReadScopedToRecipient(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	recipient := testutil.SeedUser(t, ctx, tx, "notif_recipient")
	other := testutil.SeedUser(t, ctx, tx, "notif_other")

	repo := repository.NewNotificationRepository(tx)

	notification := &model.Notification{
		UserID:  recipient.ID,
		Type:    model.NotificationNewFollower,
		Title:   "New follower",
		Message: "someone followed you",
	}
	if err := repo.Create(ctx, notification); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another user cannot mark it read
	err := repo.MarkAsRead(ctx, notification.ID, other.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("foreign MarkAsRead = %v, want ErrNotFound", err)
	}

	if err := repo.MarkAsRead(ctx, notification.ID, recipient.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}

	count, err := repo.CountUnread(ctx, recipient.ID)
	if err != nil || count != 0 {
		t.Errorf("unread after read = %d, %v, want 0", count, err)
	}
}

func TestCreateForAllUsers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	a := testutil.SeedUser(t, ctx, tx, "broadcast_a")
	b := testutil.SeedUser(t, ctx, tx, "broadcast_b")

	repo := repository.NewNotificationRepository(tx)
	alert := &model.Notification{
		Type:    model.NotificationSystemAlert,
		Title:   "Maintenance",
		Message: "Down at midnight",
	}
	if err := repo.CreateForAllUsers(ctx, alert); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, user := range []*model.User{a, b} {
		count, err := repo.CountUnread(ctx, user.ID)
		if err != nil {
			t.Fatalf("count unread: %v", err)
		}
		if count != 1 {
			t.Errorf("unread for %s = %d, want 1", user.Username, count)
		}
	}
}
