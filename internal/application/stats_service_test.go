package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/memory"
)

func TestStatsService_PopularRooms(t *testing.T) {
	t.Parallel()

	store := memory.Open()
	store.SeedRooms(persistence.DefaultRooms())
	svc := NewStatsService(store, store)
	ctx := context.Background()

	counts := map[int64]int{1: 2, 2: 5, 3: 1, 4: 4, 5: 3, 6: 3}
	id := 0
	for roomID, n := range counts {
		for i := 0; i < n; i++ {
			id++
			status := persistence.ReservationConfirmed
			if i == 0 {
				// Cancelled reservations still count toward demand.
				status = persistence.ReservationCancelled
			}
			store.CreateReservation(ctx, persistence.Reservation{
				ID: fmt.Sprintf("r-%d", id), RoomID: roomID, OwnerID: 10,
				Date: "2026-03-15", StartMinute: 600 + id*10, EndMinute: 605 + id*10,
				Status: status, CreatedAt: fixedNow(),
			})
		}
	}

	usage, err := svc.PopularRooms(ctx)
	if err != nil {
		t.Fatalf("ranking failed: %v", err)
	}
	if len(usage) != 5 {
		t.Fatalf("expected ranking capped at 5, got %d", len(usage))
	}

	wantRooms := []int64{2, 4, 5, 6, 1}
	wantCounts := []int{5, 4, 3, 3, 2}
	for i := range wantRooms {
		if usage[i].Room.ID != wantRooms[i] || usage[i].Count != wantCounts[i] {
			t.Errorf("rank %d: expected room %d with %d, got room %d with %d",
				i, wantRooms[i], wantCounts[i], usage[i].Room.ID, usage[i].Count)
		}
	}
	if usage[0].Room.Name == "" {
		t.Error("expected catalog attributes on ranked rooms")
	}
}

func TestStatsService_PopularRooms_Empty(t *testing.T) {
	t.Parallel()

	store := memory.Open()
	store.SeedRooms(persistence.DefaultRooms())
	svc := NewStatsService(store, store)

	usage, err := svc.PopularRooms(context.Background())
	if err != nil {
		t.Fatalf("ranking failed: %v", err)
	}
	if len(usage) != 0 {
		t.Fatalf("expected empty ranking, got %d", len(usage))
	}
}
