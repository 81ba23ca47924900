package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// NotificationRepository implements persistence.NotificationRepository using SQLite.
type NotificationRepository struct {
	pool *ConnectionPool
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(pool *ConnectionPool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateNotification inserts a notification.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notification persistence.Notification) error {
	read := 0
	if notification.Read {
		read = 1
	}
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, room_id, message, timestamp, read, date, start_minute)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		notification.ID,
		notification.UserID,
		notification.RoomID,
		notification.Message,
		notification.Timestamp.UTC().Format(time.RFC3339Nano),
		read,
		notification.Date,
		notification.StartMinute,
	)
	return mapError(err)
}

// GetNotification retrieves a notification by ID.
func (r *NotificationRepository) GetNotification(ctx context.Context, id string) (persistence.Notification, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, user_id, room_id, message, timestamp, read, date, start_minute
		FROM notifications
		WHERE id = ?
	`, id)

	notification, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Notification{}, persistence.ErrNotFound
		}
		return persistence.Notification{}, err
	}
	return notification, nil
}

// UpdateNotification rewrites a notification's row.
func (r *NotificationRepository) UpdateNotification(ctx context.Context, notification persistence.Notification) error {
	read := 0
	if notification.Read {
		read = 1
	}
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE notifications
		SET user_id = ?, room_id = ?, message = ?, timestamp = ?, read = ?, date = ?, start_minute = ?
		WHERE id = ?
	`,
		notification.UserID,
		notification.RoomID,
		notification.Message,
		notification.Timestamp.UTC().Format(time.RFC3339Nano),
		read,
		notification.Date,
		notification.StartMinute,
		notification.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListNotificationsForUser lists a user's notifications, newest first.
func (r *NotificationRepository) ListNotificationsForUser(ctx context.Context, userID int64) ([]persistence.Notification, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, user_id, room_id, message, timestamp, read, date, start_minute
		FROM notifications
		WHERE user_id = ?
		ORDER BY timestamp DESC, id ASC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var notifications []persistence.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return notifications, nil
}

// ReminderExists checks the structured reminder key.
func (r *NotificationRepository) ReminderExists(ctx context.Context, userID, roomID int64, date string, startMinute int) (bool, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = ? AND room_id = ? AND date = ? AND start_minute = ?
	`, userID, roomID, date, startMinute).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func scanNotification(row rowScanner) (persistence.Notification, error) {
	var notification persistence.Notification
	var timestampStr string
	var read int

	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.RoomID,
		&notification.Message,
		&timestampStr,
		&read,
		&notification.Date,
		&notification.StartMinute,
	)
	if err != nil {
		return persistence.Notification{}, err
	}

	notification.Read = read != 0
	if notification.Timestamp, err = time.Parse(time.RFC3339Nano, timestampStr); err != nil {
		return persistence.Notification{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return notification, nil
}
