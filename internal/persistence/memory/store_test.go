package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

func ptr[T any](v T) *T { return &v }

func baseTime() time.Time {
	return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
}

func TestStore_ReservationLifecycle(t *testing.T) {
	t.Parallel()

	store := Open()
	ctx := context.Background()

	reservation := persistence.Reservation{
		ID:          "res-1",
		RoomID:      3,
		OwnerID:     7,
		Date:        "2025-06-03",
		StartMinute: 10 * 60,
		EndMinute:   11 * 60,
		Status:      persistence.ReservationConfirmed,
		CreatedAt:   baseTime(),
	}

	if err := store.CreateReservation(ctx, reservation); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if err := store.CreateReservation(ctx, reservation); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := store.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation failed: %v", err)
	}
	if got.OwnerID != 7 || got.Status != persistence.ReservationConfirmed {
		t.Fatalf("unexpected record: %+v", got)
	}

	cancelledAt := baseTime().Add(time.Hour)
	got.Status = persistence.ReservationCancelled
	got.CancelledAt = &cancelledAt
	if err := store.UpdateReservation(ctx, got); err != nil {
		t.Fatalf("UpdateReservation failed: %v", err)
	}

	updated, err := store.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation after update failed: %v", err)
	}
	if updated.Status != persistence.ReservationCancelled || updated.CancelledAt == nil {
		t.Fatalf("cancellation not persisted: %+v", updated)
	}

	if _, err := store.GetReservation(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListReservationsFilters(t *testing.T) {
	t.Parallel()

	store := Open()
	ctx := context.Background()

	records := []persistence.Reservation{
		{ID: "a", RoomID: 1, OwnerID: 7, Date: "2025-06-03", StartMinute: 600, EndMinute: 660, Status: persistence.ReservationConfirmed, CreatedAt: baseTime()},
		{ID: "b", RoomID: 1, OwnerID: 8, Date: "2025-06-03", StartMinute: 660, EndMinute: 720, Status: persistence.ReservationCancelled, CreatedAt: baseTime().Add(time.Minute)},
		{ID: "c", RoomID: 2, OwnerID: 8, Date: "2025-06-04", StartMinute: 600, EndMinute: 660, Status: persistence.ReservationConfirmed, CreatedAt: baseTime().Add(2 * time.Minute),
			Participants: []persistence.Participant{{UserID: 7}}},
	}
	for _, r := range records {
		if err := store.CreateReservation(ctx, r); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	confirmed := persistence.ReservationConfirmed
	byRoom, err := store.ListReservations(ctx, persistence.ReservationFilter{RoomID: ptr(int64(1)), Status: &confirmed})
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(byRoom) != 1 || byRoom[0].ID != "a" {
		t.Fatalf("unexpected room filter result: %+v", byRoom)
	}

	involved, err := store.ListReservations(ctx, persistence.ReservationFilter{InvolvedUserID: ptr(int64(7))})
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(involved) != 2 || involved[0].ID != "a" || involved[1].ID != "c" {
		t.Fatalf("expected owner and participant matches in creation order, got %+v", involved)
	}
}

func TestStore_WaitlistOrderingAndRemoval(t *testing.T) {
	t.Parallel()

	store := Open()
	ctx := context.Background()

	// Insert out of order; the list must come back FIFO by CreatedAt.
	entries := []persistence.WaitlistEntry{
		{ID: "w2", UserID: 8, RoomID: 1, Date: "2025-06-03", StartMinute: 600, EndMinute: 660, CreatedAt: baseTime().Add(time.Minute)},
		{ID: "w1", UserID: 7, RoomID: 1, Date: "2025-06-03", StartMinute: 600, EndMinute: 660, CreatedAt: baseTime()},
		{ID: "w3", UserID: 9, RoomID: 1, Date: "2025-06-03", StartMinute: 720, EndMinute: 780, CreatedAt: baseTime()},
	}
	for _, e := range entries {
		if err := store.CreateEntry(ctx, e); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	matching, err := store.ListEntries(ctx, persistence.WaitlistFilter{
		RoomID:      ptr(int64(1)),
		Date:        ptr("2025-06-03"),
		StartMinute: ptr(600),
	})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(matching) != 2 || matching[0].ID != "w1" || matching[1].ID != "w2" {
		t.Fatalf("expected FIFO order [w1 w2], got %+v", matching)
	}

	if err := store.DeleteEntry(ctx, "w1"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if err := store.DeleteEntry(ctx, "w1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestStore_NotificationReminderKey(t *testing.T) {
	t.Parallel()

	store := Open()
	ctx := context.Background()

	notification := persistence.Notification{
		ID:          "n1",
		UserID:      7,
		RoomID:      3,
		Message:     "Reminder: your reservation starts at 10:00.",
		Timestamp:   baseTime(),
		Date:        "2025-06-02",
		StartMinute: 600,
	}
	if err := store.CreateNotification(ctx, notification); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	exists, err := store.ReminderExists(ctx, 7, 3, "2025-06-02", 600)
	if err != nil {
		t.Fatalf("ReminderExists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected reminder to be found by its structured key")
	}

	exists, err = store.ReminderExists(ctx, 7, 3, "2025-06-02", 660)
	if err != nil {
		t.Fatalf("ReminderExists failed: %v", err)
	}
	if exists {
		t.Fatal("different start minute must not match")
	}

	notification.Read = true
	if err := store.UpdateNotification(ctx, notification); err != nil {
		t.Fatalf("UpdateNotification failed: %v", err)
	}
	got, err := store.GetNotification(ctx, "n1")
	if err != nil {
		t.Fatalf("GetNotification failed: %v", err)
	}
	if !got.Read {
		t.Fatal("read flag not persisted")
	}
}

func TestStore_NotificationsNewestFirst(t *testing.T) {
	t.Parallel()

	store := Open()
	ctx := context.Background()

	for i, id := range []string{"n1", "n2", "n3"} {
		n := persistence.Notification{
			ID:        id,
			UserID:    7,
			Timestamp: baseTime().Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateNotification(ctx, n); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	list, err := store.ListNotificationsForUser(ctx, 7)
	if err != nil {
		t.Fatalf("ListNotificationsForUser failed: %v", err)
	}
	if len(list) != 3 || list[0].ID != "n3" || list[2].ID != "n1" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestStore_CatalogLookups(t *testing.T) {
	t.Parallel()

	store := Open()
	ctx := context.Background()

	store.SeedRooms(persistence.DefaultRooms())
	store.SeedUsers([]persistence.User{{ID: 7, Name: "Dana Kim", Email: "dana@example.edu"}})

	room, err := store.GetRoom(ctx, 1)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room.Capacity != 50 || !room.Available {
		t.Fatalf("unexpected room: %+v", room)
	}

	rooms, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(rooms) != 18 || rooms[0].ID != 1 || rooms[17].ID != 18 {
		t.Fatalf("expected 18 rooms ordered by ID, got %d", len(rooms))
	}

	if _, err := store.GetUser(ctx, 7); err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if _, err := store.GetUser(ctx, 99); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
