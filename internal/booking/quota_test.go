package booking

import (
	"testing"
	"time"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

func confirmedAt(id string, owner int64, date string, startMinute int) persistence.Reservation {
	return persistence.Reservation{
		ID:          id,
		RoomID:      1,
		OwnerID:     owner,
		Date:        date,
		StartMinute: startMinute,
		EndMinute:   startMinute + 60,
		Status:      persistence.ReservationConfirmed,
	}
}

func TestFutureActiveCount_CountsOwnerAndMemberRoles(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	asMember := confirmedAt("r3", 99, "2025-06-04", 9*60)
	asMember.Participants = []persistence.Participant{{UserID: 7}, {Label: "guest-2218"}}

	reservations := []persistence.Reservation{
		confirmedAt("r1", 7, "2025-06-03", 10*60),
		confirmedAt("r2", 7, "2025-06-02", 14*60),
		asMember,
	}

	if got := FutureActiveCount(7, asOf, reservations); got != 3 {
		t.Fatalf("FutureActiveCount = %d, want 3", got)
	}
}

func TestFutureActiveCount_ExcludesPastAndCancelled(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	cancelled := confirmedAt("r1", 7, "2025-06-05", 10*60)
	cancelled.Status = persistence.ReservationCancelled

	reservations := []persistence.Reservation{
		cancelled,
		confirmedAt("r2", 7, "2025-06-01", 10*60),  // yesterday
		confirmedAt("r3", 7, "2025-06-02", 12*60),  // today, start == asOf minute
		confirmedAt("r4", 7, "2025-06-02", 9*60),   // today, already started
		confirmedAt("r5", 99, "2025-06-05", 10*60), // someone else
	}

	if got := FutureActiveCount(7, asOf, reservations); got != 0 {
		t.Fatalf("FutureActiveCount = %d, want 0", got)
	}
}

func TestFutureActiveCount_SameDayLaterStartCounts(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	reservations := []persistence.Reservation{
		confirmedAt("r1", 7, "2025-06-02", 12*60+1),
	}

	if got := FutureActiveCount(7, asOf, reservations); got != 1 {
		t.Fatalf("FutureActiveCount = %d, want 1", got)
	}
}

func TestFutureActiveCount_NonMemberLabelsDoNotCount(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	r := confirmedAt("r1", 99, "2025-06-03", 10*60)
	r.Participants = []persistence.Participant{{Label: "7"}}

	// The label happens to read like user 7's ID but is a non-member entry.
	if got := FutureActiveCount(7, asOf, []persistence.Reservation{r}); got != 0 {
		t.Fatalf("FutureActiveCount = %d, want 0", got)
	}
}

func TestWaitingCount(t *testing.T) {
	t.Parallel()

	entries := []persistence.WaitlistEntry{
		{ID: "w1", UserID: 7},
		{ID: "w2", UserID: 7},
		{ID: "w3", UserID: 9},
	}

	if got := WaitingCount(7, entries); got != 2 {
		t.Fatalf("WaitingCount = %d, want 2", got)
	}
}

func TestHasConflict(t *testing.T) {
	t.Parallel()

	window, err := timeslot.New("2025-06-03", "10:00", "11:00")
	if err != nil {
		t.Fatalf("failed to build window: %v", err)
	}

	cancelled := confirmedAt("r2", 8, "2025-06-03", 10*60)
	cancelled.Status = persistence.ReservationCancelled

	cases := []struct {
		name         string
		reservations []persistence.Reservation
		want         bool
	}{
		{"empty", nil, false},
		{"overlapping confirmed", []persistence.Reservation{confirmedAt("r1", 8, "2025-06-03", 10*60+30)}, true},
		{"overlapping cancelled", []persistence.Reservation{cancelled}, false},
		{"other date", []persistence.Reservation{confirmedAt("r3", 8, "2025-06-04", 10*60)}, false},
		{"back to back", []persistence.Reservation{confirmedAt("r4", 8, "2025-06-03", 11*60)}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := HasConflict(1, window, tc.reservations); got != tc.want {
				t.Errorf("HasConflict = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasConflict_IgnoresOtherRooms(t *testing.T) {
	t.Parallel()

	window, err := timeslot.New("2025-06-03", "10:00", "11:00")
	if err != nil {
		t.Fatalf("failed to build window: %v", err)
	}

	other := confirmedAt("r1", 8, "2025-06-03", 10*60)
	other.RoomID = 2

	if HasConflict(1, window, []persistence.Reservation{other}) {
		t.Error("reservation in another room must not conflict")
	}
}
