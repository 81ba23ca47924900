package booking

import (
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

// HasConflict reports whether the requested window collides with any
// confirmed reservation of the same room on the same date. It is a pure
// predicate over the supplied snapshot; the caller is responsible for
// holding the room's critical section between this check and any write.
func HasConflict(roomID int64, window timeslot.Window, reservations []persistence.Reservation) bool {
	for _, r := range reservations {
		if r.RoomID != roomID || r.Status != persistence.ReservationConfirmed {
			continue
		}
		existing := timeslot.Window{Date: r.Date, Start: r.StartMinute, End: r.EndMinute}
		if window.Overlaps(existing) {
			return true
		}
	}
	return false
}
