package persistence

import "time"

// ReservationStatus tracks the lifecycle of a reservation. Cancellation is
// terminal; records are never deleted so usage history stays intact.
type ReservationStatus string

const (
	// ReservationConfirmed marks an active reservation holding its slot.
	ReservationConfirmed ReservationStatus = "confirmed"
	// ReservationCancelled marks a reservation released by its owner.
	ReservationCancelled ReservationStatus = "cancelled"
)

// Participant is one entry of a reservation's participant list. Members are
// identified by a user ID and count against quotas; non-members carry a
// free-text label (a student number, a guest name) and do not.
type Participant struct {
	UserID int64
	Label  string
}

// Member reports whether the participant is a registered user.
func (p Participant) Member() bool {
	return p.UserID != 0
}

// Reservation is a confirmed or cancelled booking of a room for a
// half-open minute window on one calendar date.
type Reservation struct {
	ID           string
	RoomID       int64
	OwnerID      int64
	Date         string
	StartMinute  int
	EndMinute    int
	Purpose      string
	Location     string
	Participants []Participant
	Status       ReservationStatus
	CreatedAt    time.Time
	CancelledAt  *time.Time
}

// WaitlistEntry queues a user for a slot currently held by a confirmed
// reservation. Entries are always waiting; removal is the only exit.
type WaitlistEntry struct {
	ID          string
	UserID      int64
	RoomID      int64
	Date        string
	StartMinute int
	EndMinute   int
	CreatedAt   time.Time
}

// Notification is a message delivered to a user. Date and StartMinute form
// the idempotency key for reservation reminders; they are zero for other
// notification kinds.
type Notification struct {
	ID          string
	UserID      int64
	RoomID      int64
	Message     string
	Timestamp   time.Time
	Read        bool
	Date        string
	StartMinute int
}

// Room is a catalog entry. The catalog is read-only from this service's
// perspective; an external system owns its contents.
type Room struct {
	ID        int64
	Name      string
	Location  string
	Capacity  int
	Equipment []string
	Available bool
}

// User is a directory entry owned by an external identity system.
type User struct {
	ID    int64
	Name  string
	Email string
	Role  string
}
