package http

import "context"

type contextKey string

const (
	reservationIDContextKey  contextKey = "reservation_id"
	entryIDContextKey        contextKey = "entry_id"
	notificationIDContextKey contextKey = "notification_id"
	userIDContextKey         contextKey = "user_id"
	roomIDContextKey         contextKey = "room_id"
)

// ContextWithReservationID injects the reservation identifier resolved from the request path.
func ContextWithReservationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reservationIDContextKey, id)
}

// ReservationIDFromContext extracts a reservation identifier previously associated with the context.
func ReservationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reservationIDContextKey).(string)
	return id, ok
}

// ContextWithEntryID injects the waitlist entry identifier resolved from the request path.
func ContextWithEntryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, entryIDContextKey, id)
}

// EntryIDFromContext extracts a waitlist entry identifier previously associated with the context.
func EntryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entryIDContextKey).(string)
	return id, ok
}

// ContextWithNotificationID injects the notification identifier resolved from the request path.
func ContextWithNotificationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, notificationIDContextKey, id)
}

// NotificationIDFromContext extracts a notification identifier previously associated with the context.
func NotificationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(notificationIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, roomIDContextKey, id)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(roomIDContextKey).(int64)
	return id, ok
}
