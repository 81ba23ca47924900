package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

func validJoinInput() JoinWaitlistInput {
	return JoinWaitlistInput{
		RoomID:    1,
		UserID:    11,
		Date:      "2026-03-15",
		StartTime: "10:00",
		EndTime:   "11:00",
	}
}

func occupySlot(t *testing.T, h *serviceHarness) persistence.Reservation {
	t.Helper()
	created, err := h.reservations.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}
	return created
}

func TestWaitlistService_Join_RequiresFields(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	_, err := h.waitlist.Join(context.Background(), JoinWaitlistInput{})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestWaitlistService_Join_RejectsOpenSlot(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	if _, err := h.waitlist.Join(context.Background(), validJoinInput()); !errors.Is(err, ErrSlotOpen) {
		t.Fatalf("expected ErrSlotOpen for unoccupied slot, got %v", err)
	}
}

func TestWaitlistService_Join_QueuesForOccupiedSlot(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()
	occupySlot(t, h)

	entry, err := h.waitlist.Join(ctx, validJoinInput())
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if entry.UserID != 11 || entry.StartMinute != 600 || entry.EndMinute != 660 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if _, err := h.waitlist.Join(ctx, validJoinInput()); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry on repeat join, got %v", err)
	}
}

func TestWaitlistService_Join_NoUpperDateBound(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()

	// An occupied slot far beyond the booking horizon can still be waited
	// on; only reservations are horizon-bound.
	h.store.CreateReservation(ctx, persistence.Reservation{
		ID: "far", RoomID: 1, OwnerID: 10, Date: "2026-06-01",
		StartMinute: 600, EndMinute: 660,
		Status: persistence.ReservationConfirmed, CreatedAt: fixedNow(),
	})

	input := validJoinInput()
	input.Date = "2026-06-01"
	if _, err := h.waitlist.Join(ctx, input); err != nil {
		t.Fatalf("expected far-future join to succeed, got %v", err)
	}
}

func TestWaitlistService_Join_RejectsPastDate(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)

	input := validJoinInput()
	input.Date = "2026-03-13"
	if _, err := h.waitlist.Join(context.Background(), input); !errors.Is(err, ErrPastTime) {
		t.Fatalf("expected ErrPastTime for yesterday, got %v", err)
	}
}

func TestWaitlistService_Join_AllowsElapsedSlotToday(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()

	// Only the date is checked against the clock: a slot earlier today
	// can still be waited on.
	h.store.CreateReservation(ctx, persistence.Reservation{
		ID: "earlier", RoomID: 1, OwnerID: 10, Date: "2026-03-14",
		StartMinute: 480, EndMinute: 540,
		Status: persistence.ReservationConfirmed, CreatedAt: fixedNow(),
	})

	input := validJoinInput()
	input.Date = "2026-03-14"
	input.StartTime = "08:00"
	input.EndTime = "09:00"
	if _, err := h.waitlist.Join(ctx, input); err != nil {
		t.Fatalf("expected same-day elapsed-slot join to succeed, got %v", err)
	}
}

func TestWaitlistService_Join_UnknownRoom(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)

	input := validJoinInput()
	input.RoomID = 99
	if _, err := h.waitlist.Join(context.Background(), input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}
}

func TestWaitlistService_Join_RejectsOverQuotaUser(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()
	occupySlot(t, h)

	// User 11 is at the future-reservation cap in another room.
	for hour := 10; hour < 13; hour++ {
		input := validCreateInput()
		input.RoomID = 2
		input.OwnerID = 11
		input.StartTime = clockAt(hour)
		input.EndTime = clockAt(hour + 1)
		if _, err := h.reservations.Create(ctx, input); err != nil {
			t.Fatalf("create %d failed: %v", hour, err)
		}
	}

	if _, err := h.waitlist.Join(ctx, validJoinInput()); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded for occupied slot, got %v", err)
	}

	// The quota failure also wins over the occupancy check: the open
	// 14:00 slot still reports the quota error, not ErrSlotOpen.
	open := validJoinInput()
	open.StartTime = "14:00"
	open.EndTime = "15:00"
	if _, err := h.waitlist.Join(ctx, open); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded before the occupancy check, got %v", err)
	}
}

func TestWaitlistService_Join_OpenSlotWinsOverWaitingCap(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()
	occupySlot(t, h)

	for i := 0; i < 3; i++ {
		h.store.CreateEntry(ctx, persistence.WaitlistEntry{
			ID: fmt.Sprintf("seed-%d", i), UserID: 11, RoomID: 2,
			Date: "2026-03-16", StartMinute: 600 + i*60, EndMinute: 660 + i*60,
			CreatedAt: fixedNow(),
		})
	}

	// The waiting cap is reached, but the occupancy check runs first: an
	// open slot reports ErrSlotOpen, an occupied one ErrWaitlistFull.
	open := validJoinInput()
	open.RoomID = 2
	open.StartTime = "14:00"
	open.EndTime = "15:00"
	if _, err := h.waitlist.Join(ctx, open); !errors.Is(err, ErrSlotOpen) {
		t.Fatalf("expected ErrSlotOpen for open slot at waiting cap, got %v", err)
	}
	if _, err := h.waitlist.Join(ctx, validJoinInput()); !errors.Is(err, ErrWaitlistFull) {
		t.Fatalf("expected ErrWaitlistFull for occupied slot at waiting cap, got %v", err)
	}
}

func TestWaitlistService_Cancel_OwnedEntryOnly(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()
	occupySlot(t, h)

	entry, err := h.waitlist.Join(ctx, validJoinInput())
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := h.waitlist.Cancel(ctx, entry.ID, 12); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign entry, got %v", err)
	}
	if err := h.waitlist.Cancel(ctx, entry.ID, 11); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := h.waitlist.Cancel(ctx, entry.ID, 11); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat cancel, got %v", err)
	}
}

func TestWaitlistService_ListForUser_NewestSlotFirst(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(t)
	ctx := context.Background()

	h.store.CreateEntry(ctx, persistence.WaitlistEntry{
		ID: "early", UserID: 11, RoomID: 1, Date: "2026-03-15",
		StartMinute: 600, EndMinute: 660, CreatedAt: fixedNow(),
	})
	h.store.CreateEntry(ctx, persistence.WaitlistEntry{
		ID: "late", UserID: 11, RoomID: 1, Date: "2026-03-16",
		StartMinute: 540, EndMinute: 600, CreatedAt: fixedNow().Add(time.Minute),
	})
	h.store.CreateEntry(ctx, persistence.WaitlistEntry{
		ID: "later-same-day", UserID: 11, RoomID: 2, Date: "2026-03-15",
		StartMinute: 720, EndMinute: 780, CreatedAt: fixedNow().Add(2 * time.Minute),
	})

	entries, err := h.waitlist.ListForUser(ctx, 11)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID != "late" || entries[1].ID != "later-same-day" || entries[2].ID != "early" {
		t.Errorf("expected newest slot first, got %s, %s, %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}

	empty, err := h.waitlist.ListForUser(ctx, 12)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no entries for user 12, got %d", len(empty))
	}
}
