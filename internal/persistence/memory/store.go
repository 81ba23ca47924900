package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/example/room-reservation/internal/persistence"
)

// Store is a map-backed implementation of every persistence interface,
// guarded by a single RWMutex. It serves tests and zero-config deployments;
// production installs use the SQLite store.
type Store struct {
	mu            sync.RWMutex
	reservations  map[string]persistence.Reservation
	waitlist      map[string]persistence.WaitlistEntry
	notifications map[string]persistence.Notification
	rooms         map[int64]persistence.Room
	users         map[int64]persistence.User
}

// Open returns an empty store.
func Open() *Store {
	return &Store{
		reservations:  make(map[string]persistence.Reservation),
		waitlist:      make(map[string]persistence.WaitlistEntry),
		notifications: make(map[string]persistence.Notification),
		rooms:         make(map[int64]persistence.Room),
		users:         make(map[int64]persistence.User),
	}
}

// SeedRooms installs catalog entries, replacing any with the same ID.
func (s *Store) SeedRooms(rooms []persistence.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range rooms {
		s.rooms[room.ID] = cloneRoom(room)
	}
}

// SeedUsers installs directory entries, replacing any with the same ID.
func (s *Store) SeedUsers(users []persistence.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range users {
		s.users[user.ID] = user
	}
}

// --- ReservationRepository ---

// CreateReservation stores a new reservation record.
func (s *Store) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[reservation.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

// GetReservation retrieves a reservation by ID.
func (s *Store) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	return cloneReservation(r), nil
}

// UpdateReservation replaces an existing reservation in place.
func (s *Store) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[reservation.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

// ListReservations returns matching reservations ordered by CreatedAt
// ascending, with ID as the tie-break.
func (s *Store) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if filter.RoomID != nil && r.RoomID != *filter.RoomID {
			continue
		}
		if filter.Date != nil && r.Date != *filter.Date {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.InvolvedUserID != nil && !involves(r, *filter.InvolvedUserID) {
			continue
		}
		out = append(out, cloneReservation(r))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func involves(r persistence.Reservation, userID int64) bool {
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

// --- WaitlistRepository ---

// CreateEntry stores a new waitlist entry.
func (s *Store) CreateEntry(ctx context.Context, entry persistence.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.waitlist[entry.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.waitlist[entry.ID] = entry
	return nil
}

// GetEntry retrieves a waitlist entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (persistence.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.waitlist[id]
	if !ok {
		return persistence.WaitlistEntry{}, persistence.ErrNotFound
	}
	return e, nil
}

// DeleteEntry removes a waitlist entry by ID.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.waitlist[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.waitlist, id)
	return nil
}

// ListEntries returns matching entries ordered by CreatedAt ascending,
// with ID as the tie-break.
func (s *Store) ListEntries(ctx context.Context, filter persistence.WaitlistFilter) ([]persistence.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.WaitlistEntry, 0, len(s.waitlist))
	for _, e := range s.waitlist {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.RoomID != nil && e.RoomID != *filter.RoomID {
			continue
		}
		if filter.Date != nil && e.Date != *filter.Date {
			continue
		}
		if filter.StartMinute != nil && e.StartMinute != *filter.StartMinute {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// --- NotificationRepository ---

// CreateNotification stores a new notification.
func (s *Store) CreateNotification(ctx context.Context, notification persistence.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[notification.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.notifications[notification.ID] = notification
	return nil
}

// GetNotification retrieves a notification by ID.
func (s *Store) GetNotification(ctx context.Context, id string) (persistence.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return persistence.Notification{}, persistence.ErrNotFound
	}
	return n, nil
}

// UpdateNotification replaces an existing notification in place.
func (s *Store) UpdateNotification(ctx context.Context, notification persistence.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[notification.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.notifications[notification.ID] = notification
	return nil
}

// ListNotificationsForUser returns the user's notifications ordered by
// Timestamp descending, newest first.
func (s *Store) ListNotificationsForUser(ctx context.Context, userID int64) ([]persistence.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	return out, nil
}

// ReminderExists reports whether a reminder with the structured key has
// already been recorded.
func (s *Store) ReminderExists(ctx context.Context, userID, roomID int64, date string, startMinute int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications {
		if n.UserID == userID && n.RoomID == roomID && n.Date == date && n.StartMinute == startMinute {
			return true, nil
		}
	}
	return false, nil
}

// --- RoomCatalog / UserDirectory ---

// GetRoom retrieves a catalog entry by ID.
func (s *Store) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return cloneRoom(room), nil
}

// ListRooms returns all catalog entries ordered by ID.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, cloneRoom(room))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// GetUser retrieves a directory entry by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func cloneReservation(r persistence.Reservation) persistence.Reservation {
	out := r
	if r.Participants != nil {
		out.Participants = make([]persistence.Participant, len(r.Participants))
		copy(out.Participants, r.Participants)
	}
	if r.CancelledAt != nil {
		at := *r.CancelledAt
		out.CancelledAt = &at
	}
	return out
}

func cloneRoom(room persistence.Room) persistence.Room {
	out := room
	if room.Equipment != nil {
		out.Equipment = make([]string, len(room.Equipment))
		copy(out.Equipment, room.Equipment)
	}
	return out
}
