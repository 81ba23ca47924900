// Package testfixtures provides deterministic builders, clocks and storage
// harnesses shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	reservationCounter uint64
	entryCounter       uint64
)

var referenceTime = time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// Fixture dates fall inside the booking horizon relative to it.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the calendar date one day after ReferenceTime, the
// default slot date for fixtures.
func ReferenceDate() string {
	return referenceTime.AddDate(0, 0, 1).Format("2006-01-02")
}

// UserOption configures a generated user record.
type UserOption func(*persistence.User)

// NewUser returns a deterministic directory entry with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := persistence.User{
		ID:    int64(idx),
		Name:  fmt.Sprintf("User %03d", idx),
		Email: fmt.Sprintf("user-%03d@example.edu", idx),
		Role:  "student",
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the user's identifier.
func WithUserID(id int64) UserOption {
	return func(u *persistence.User) { u.ID = id }
}

// WithUserRole overrides the user's role.
func WithUserRole(role string) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// RoomOption configures a generated room record.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic catalog entry with optional overrides.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := persistence.Room{
		ID:        int64(idx),
		Name:      fmt.Sprintf("Room %03d", idx),
		Location:  fmt.Sprintf("Building %d", (idx%4)+1),
		Capacity:  10,
		Available: true,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the room's identifier.
func WithRoomID(id int64) RoomOption {
	return func(r *persistence.Room) { r.ID = id }
}

// WithCapacity overrides the room's capacity.
func WithCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) { r.Capacity = capacity }
}

// Unavailable marks the room as closed for booking.
func Unavailable() RoomOption {
	return func(r *persistence.Room) { r.Available = false }
}

// ReservationOption configures a generated reservation record.
type ReservationOption func(*persistence.Reservation)

// NewReservation returns a deterministic confirmed reservation on
// ReferenceDate with optional overrides. Successive fixtures occupy
// successive hour slots so they never clash by accident.
func NewReservation(opts ...ReservationOption) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	start := 540 + int(idx%12)*60
	reservation := persistence.Reservation{
		ID:          fmt.Sprintf("reservation-%03d", idx),
		RoomID:      1,
		OwnerID:     1,
		Date:        ReferenceDate(),
		StartMinute: start,
		EndMinute:   start + 60,
		Purpose:     fmt.Sprintf("Meeting %03d", idx),
		Status:      persistence.ReservationConfirmed,
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}

// ForRoom places the reservation in the given room.
func ForRoom(roomID int64) ReservationOption {
	return func(r *persistence.Reservation) { r.RoomID = roomID }
}

// OwnedBy sets the reservation owner.
func OwnedBy(userID int64) ReservationOption {
	return func(r *persistence.Reservation) { r.OwnerID = userID }
}

// OnDate places the reservation on the given calendar date.
func OnDate(date string) ReservationOption {
	return func(r *persistence.Reservation) { r.Date = date }
}

// InSlot places the reservation in the given minute window.
func InSlot(startMinute, endMinute int) ReservationOption {
	return func(r *persistence.Reservation) {
		r.StartMinute = startMinute
		r.EndMinute = endMinute
	}
}

// WithParticipants sets the participant list.
func WithParticipants(participants ...persistence.Participant) ReservationOption {
	return func(r *persistence.Reservation) { r.Participants = participants }
}

// Cancelled marks the reservation cancelled at the given instant.
func Cancelled(at time.Time) ReservationOption {
	return func(r *persistence.Reservation) {
		r.Status = persistence.ReservationCancelled
		r.CancelledAt = &at
	}
}

// EntryOption configures a generated waitlist entry.
type EntryOption func(*persistence.WaitlistEntry)

// NewWaitlistEntry returns a deterministic waitlist entry on ReferenceDate
// with optional overrides.
func NewWaitlistEntry(opts ...EntryOption) persistence.WaitlistEntry {
	idx := atomic.AddUint64(&entryCounter, 1)
	entry := persistence.WaitlistEntry{
		ID:          fmt.Sprintf("entry-%03d", idx),
		UserID:      1,
		RoomID:      1,
		Date:        ReferenceDate(),
		StartMinute: 540,
		EndMinute:   600,
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Second),
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// EntryForRoom places the entry in the given room.
func EntryForRoom(roomID int64) EntryOption {
	return func(e *persistence.WaitlistEntry) { e.RoomID = roomID }
}

// EntryForUser sets the waiting user.
func EntryForUser(userID int64) EntryOption {
	return func(e *persistence.WaitlistEntry) { e.UserID = userID }
}

// EntryInSlot places the entry in the given minute window.
func EntryInSlot(startMinute, endMinute int) EntryOption {
	return func(e *persistence.WaitlistEntry) {
		e.StartMinute = startMinute
		e.EndMinute = endMinute
	}
}

// EntryCreatedAt overrides the entry's creation instant.
func EntryCreatedAt(at time.Time) EntryOption {
	return func(e *persistence.WaitlistEntry) { e.CreatedAt = at }
}
