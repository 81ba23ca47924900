package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/room-reservation/internal/persistence"
)

// NotificationService exposes a user's notification feed.
type NotificationService struct {
	notifications persistence.NotificationRepository
	logger        *slog.Logger
}

// NewNotificationService wires dependencies for notification operations.
func NewNotificationService(notifications persistence.NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		logger:        defaultLogger(logger),
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]persistence.Notification, error) {
	notifications, err := s.notifications.ListNotificationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications for user %d: %w", userID, err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. Marking an already-read
// notification is a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, id string, userID int64) error {
	logger := serviceLogger(ctx, s.logger, "notification", "mark_read", "notification_id", id, "user_id", userID)

	notification, err := s.notifications.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "notification lookup failed", "error", err)
		return fmt.Errorf("looking up notification %s: %w", id, err)
	}
	if notification.UserID != userID {
		return ErrNotFound
	}
	if notification.Read {
		return nil
	}

	notification.Read = true
	if err := s.notifications.UpdateNotification(ctx, notification); err != nil {
		logger.ErrorContext(ctx, "notification update failed", "error", err)
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}
