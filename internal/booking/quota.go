package booking

import (
	"time"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

const (
	// MaxFutureReservations caps the confirmed future reservations a user
	// may hold at once, whether as owner or member participant.
	MaxFutureReservations = 3
	// MaxWaitingEntries caps the waitlist entries a user may hold at once.
	MaxWaitingEntries = 3
	// HorizonDays is the inclusive booking horizon: today through
	// today+HorizonDays-1.
	HorizonDays = 7
)

// FutureActiveCount counts confirmed reservations involving the user whose
// start lies strictly after asOf. A reservation involves the user when they
// are its owner or appear in its participant list as a member; a single
// reservation counts against every member involved, the creator included.
//
// The result is valid only for the instant of the check. Callers deciding
// an admission must hold the relevant critical section between this count
// and the write it gates.
func FutureActiveCount(userID int64, asOf time.Time, reservations []persistence.Reservation) int {
	asOfDate := timeslot.DateOf(asOf)
	asOfMinute := timeslot.MinuteOfDay(asOf)

	count := 0
	for _, r := range reservations {
		if r.Status != persistence.ReservationConfirmed {
			continue
		}
		if !Involves(r, userID) {
			continue
		}
		if r.Date > asOfDate || (r.Date == asOfDate && r.StartMinute > asOfMinute) {
			count++
		}
	}
	return count
}

// Involves reports whether the user owns the reservation or is listed as a
// member participant.
func Involves(r persistence.Reservation, userID int64) bool {
	if r.OwnerID == userID {
		return true
	}
	for _, p := range r.Participants {
		if p.Member() && p.UserID == userID {
			return true
		}
	}
	return false
}

// WaitingCount counts the user's waitlist entries in the snapshot.
func WaitingCount(userID int64, entries []persistence.WaitlistEntry) int {
	count := 0
	for _, e := range entries {
		if e.UserID == userID {
			count++
		}
	}
	return count
}
