package booking

import "sync"

// RoomLocks serialises read-then-write sequences on the reservation and
// waitlist collections per room. Two concurrent admissions for the same
// room take turns; admissions for different rooms proceed in parallel.
type RoomLocks struct {
	mu    sync.Mutex
	rooms map[int64]*sync.Mutex
}

// NewRoomLocks returns an empty lock table.
func NewRoomLocks() *RoomLocks {
	return &RoomLocks{rooms: make(map[int64]*sync.Mutex)}
}

// Lock acquires the critical section for a room, creating it on first use.
func (l *RoomLocks) Lock(roomID int64) {
	l.forRoom(roomID).Lock()
}

// Unlock releases the critical section for a room.
func (l *RoomLocks) Unlock(roomID int64) {
	l.forRoom(roomID).Unlock()
}

func (l *RoomLocks) forRoom(roomID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[roomID] = m
	}
	return m
}
