package persistence

import "context"

// ReservationFilter narrows reservation queries. Nil fields match
// everything. InvolvedUserID matches reservations where the user is the
// owner or appears as a member participant.
type ReservationFilter struct {
	RoomID         *int64
	Date           *string
	Status         *ReservationStatus
	InvolvedUserID *int64
}

// ReservationRepository stores reservation records. Cancellation is an
// in-place update; records are never removed.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) error
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
}

// WaitlistFilter narrows waitlist queries. Nil fields match everything.
type WaitlistFilter struct {
	UserID      *int64
	RoomID      *int64
	Date        *string
	StartMinute *int
}

// WaitlistRepository stores waitlist entries.
type WaitlistRepository interface {
	CreateEntry(ctx context.Context, entry WaitlistEntry) error
	GetEntry(ctx context.Context, id string) (WaitlistEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, filter WaitlistFilter) ([]WaitlistEntry, error)
}

// NotificationRepository stores user notifications. ReminderExists checks
// the structured reminder key so the scheduler never emits a duplicate for
// the same reservation start.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification Notification) error
	GetNotification(ctx context.Context, id string) (Notification, error)
	UpdateNotification(ctx context.Context, notification Notification) error
	ListNotificationsForUser(ctx context.Context, userID int64) ([]Notification, error)
	ReminderExists(ctx context.Context, userID, roomID int64, date string, startMinute int) (bool, error)
}

// RoomCatalog exposes read-only room lookups. Catalog maintenance belongs
// to an external system.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// UserDirectory exposes read-only user lookups owned by an external
// identity system.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (User, error)
}
