package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/room-reservation/internal/persistence"
)

// popularRoomLimit caps the popularity ranking length.
const popularRoomLimit = 5

// RoomUsage pairs a room with its all-time reservation count.
type RoomUsage struct {
	Room  persistence.Room
	Count int
}

// StatsService derives usage statistics from reservation history.
type StatsService struct {
	reservations persistence.ReservationRepository
	rooms        persistence.RoomCatalog
}

// NewStatsService wires dependencies for statistics queries.
func NewStatsService(reservations persistence.ReservationRepository, rooms persistence.RoomCatalog) *StatsService {
	return &StatsService{reservations: reservations, rooms: rooms}
}

// PopularRooms ranks rooms by total reservation count, cancelled ones
// included since they still reflect demand. Ties break on room ID so the
// ranking is stable. Rooms never reserved are omitted.
func (s *StatsService) PopularRooms(ctx context.Context) ([]RoomUsage, error) {
	reservations, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	counts := make(map[int64]int)
	for _, r := range reservations {
		counts[r.RoomID]++
	}
	if len(counts) == 0 {
		return nil, nil
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	usage := make([]RoomUsage, 0, len(counts))
	for _, room := range rooms {
		if count, ok := counts[room.ID]; ok {
			usage = append(usage, RoomUsage{Room: room, Count: count})
		}
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Room.ID < usage[j].Room.ID
	})

	if len(usage) > popularRoomLimit {
		usage = usage[:popularRoomLimit]
	}
	return usage, nil
}
