package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// NotificationService exposes a user's in-app notifications.
type NotificationService struct {
	notifications notificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications notificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's most recent notifications.
func (s *NotificationService) List(ctx context.Context, userID, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifications.ListByReceiver(ctx, userID, limit)
}

// MarkRead flags one of the user's own notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}
