package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	Broadcast(ctx context.Context, title, message string) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// notificationChannel is the redis pub/sub channel the websocket handler
// subscribes to per recipient.
func notificationChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

// payloadJSON marshals an opaque notification payload. Marshalling a map of
// printable values cannot fail, so errors are ignored.
func payloadJSON(fields map[string]any) datatypes.JSON {
	raw, _ := json.Marshal(fields)
	return datatypes.JSON(raw)
}

func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(notification); err == nil {
			s.redisClient.Publish(ctx, notificationChannel(notification.UserID), payload)
		}
	}

	return nil
}

func (s *notificationService) Broadcast(ctx context.Context, title, message string) error {
	notification := &model.Notification{
		Type:    model.NotificationSystemAlert,
		Title:   title,
		Message: message,
	}
	return s.repo.CreateForAllUsers(ctx, notification)
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
