package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/events"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

// CreateReservationInput captures caller provided reservation fields.
// Participants mix registered user IDs (numeric values) with free-text
// identifiers for guests.
type CreateReservationInput struct {
	RoomID       int64
	OwnerID      int64
	Date         string
	StartTime    string
	EndTime      string
	Purpose      string
	Participants []string
}

// ReservationWithOwner enriches a reservation with the owner's directory
// attributes for room timeline views.
type ReservationWithOwner struct {
	persistence.Reservation
	OwnerName  string
	OwnerEmail string
}

// ReservationService orchestrates reservation admission and cancellation,
// including the promotion sweep that follows a cancellation.
type ReservationService struct {
	reservations persistence.ReservationRepository
	waitlist     *WaitlistService
	rooms        persistence.RoomCatalog
	users        persistence.UserDirectory
	sink         events.Sink
	locks        *booking.RoomLocks
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations. The
// lock table must be the same instance handed to the waitlist service so
// both mutate a room's collections under one critical section.
func NewReservationService(
	reservations persistence.ReservationRepository,
	waitlist *WaitlistService,
	rooms persistence.RoomCatalog,
	users persistence.UserDirectory,
	sink events.Sink,
	locks *booking.RoomLocks,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *ReservationService {
	if sink == nil {
		sink = events.NopSink{}
	}
	if locks == nil {
		locks = booking.NewRoomLocks()
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		waitlist:     waitlist,
		rooms:        rooms,
		users:        users,
		sink:         sink,
		locks:        locks,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// Create admits a new reservation. Preconditions are checked in a fixed
// order and the first failure wins; the conflict and quota checks plus the
// append run under the room's critical section.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (persistence.Reservation, error) {
	logger := serviceLogger(ctx, s.logger, "reservation", "create", "room_id", input.RoomID, "owner_id", input.OwnerID)

	window, err := validateSlotFields(input.RoomID, input.OwnerID, input.Date, input.StartTime, input.EndTime)
	if err != nil {
		return persistence.Reservation{}, err
	}

	now := s.now()
	today := timeslot.DateOf(now)
	horizon := timeslot.DateOf(now.AddDate(0, 0, booking.HorizonDays-1))
	if input.Date < today || input.Date > horizon {
		return persistence.Reservation{}, ErrOutOfWindow
	}
	if input.Date == today && window.Start <= timeslot.MinuteOfDay(now) {
		return persistence.Reservation{}, ErrPastTime
	}

	room, err := s.rooms.GetRoom(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Reservation{}, ErrNotFound
		}
		logger.ErrorContext(ctx, "room lookup failed", "error", err)
		return persistence.Reservation{}, fmt.Errorf("looking up room %d: %w", input.RoomID, err)
	}
	if !room.Available {
		return persistence.Reservation{}, ErrRoomUnavailable
	}

	participants := normalizeParticipants(input.Participants)
	if 1+len(participants) > room.Capacity {
		return persistence.Reservation{}, ErrCapacityExceeded
	}

	s.locks.Lock(input.RoomID)
	reservation, err := s.createLocked(ctx, logger, input, window, room, participants, now)
	s.locks.Unlock(input.RoomID)
	if err != nil {
		return persistence.Reservation{}, err
	}

	s.publish(ctx, logger, events.SlotUpdate{
		RoomID:    input.RoomID,
		Date:      input.Date,
		StartTime: window.StartClock(),
		EndTime:   window.EndClock(),
		Status:    events.SlotReserved,
	})

	logger.InfoContext(ctx, "reservation created", "reservation_id", reservation.ID)
	return reservation, nil
}

func (s *ReservationService) createLocked(
	ctx context.Context,
	logger *slog.Logger,
	input CreateReservationInput,
	window timeslot.Window,
	room persistence.Room,
	participants []persistence.Participant,
	now time.Time,
) (persistence.Reservation, error) {
	confirmed := persistence.ReservationConfirmed
	roomSnapshot, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{
		RoomID: &input.RoomID,
		Date:   &input.Date,
		Status: &confirmed,
	})
	if err != nil {
		logger.ErrorContext(ctx, "reservation snapshot failed", "error", err)
		return persistence.Reservation{}, fmt.Errorf("listing reservations: %w", err)
	}
	if booking.HasConflict(input.RoomID, window, roomSnapshot) {
		return persistence.Reservation{}, ErrSlotTaken
	}

	if err := s.checkQuota(ctx, logger, input.OwnerID, now); err != nil {
		return persistence.Reservation{}, err
	}

	// Every member participant is checked against the pre-creation
	// snapshot; one over-quota member rejects the whole reservation.
	for _, p := range participants {
		if !p.Member() {
			continue
		}
		if _, err := s.users.GetUser(ctx, p.UserID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return persistence.Reservation{}, ErrNotFound
			}
			logger.ErrorContext(ctx, "participant lookup failed", "participant_id", p.UserID, "error", err)
			return persistence.Reservation{}, fmt.Errorf("looking up participant %d: %w", p.UserID, err)
		}
		if err := s.checkQuota(ctx, logger, p.UserID, now); err != nil {
			return persistence.Reservation{}, err
		}
	}

	reservation := persistence.Reservation{
		ID:           s.idGenerator(),
		RoomID:       input.RoomID,
		OwnerID:      input.OwnerID,
		Date:         input.Date,
		StartMinute:  window.Start,
		EndMinute:    window.End,
		Purpose:      strings.TrimSpace(input.Purpose),
		Location:     room.Location,
		Participants: participants,
		Status:       persistence.ReservationConfirmed,
		CreatedAt:    now,
	}

	if err := s.reservations.CreateReservation(ctx, reservation); err != nil {
		logger.ErrorContext(ctx, "reservation append failed", "error", err)
		return persistence.Reservation{}, fmt.Errorf("storing reservation: %w", err)
	}
	return reservation, nil
}

func (s *ReservationService) checkQuota(ctx context.Context, logger *slog.Logger, userID int64, now time.Time) error {
	confirmed := persistence.ReservationConfirmed
	snapshot, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{
		InvolvedUserID: &userID,
		Status:         &confirmed,
	})
	if err != nil {
		logger.ErrorContext(ctx, "quota snapshot failed", "user_id", userID, "error", err)
		return fmt.Errorf("listing reservations for user %d: %w", userID, err)
	}
	if booking.FutureActiveCount(userID, now, snapshot) >= booking.MaxFutureReservations {
		return ErrQuotaExceeded
	}
	return nil
}

// Cancel releases a reservation and synchronously runs the waitlist
// promotion sweep for the freed slot. Cancelling a reservation that is
// absent or already terminal yields ErrNotFound with no side effects, so a
// repeated cancel can never promote twice.
func (s *ReservationService) Cancel(ctx context.Context, id string) error {
	logger := serviceLogger(ctx, s.logger, "reservation", "cancel", "reservation_id", id)

	// Resolve the room outside the lock, then re-read inside it.
	peek, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "reservation lookup failed", "error", err)
		return fmt.Errorf("looking up reservation %s: %w", id, err)
	}

	s.locks.Lock(peek.RoomID)
	cancelled, err := s.cancelLocked(ctx, logger, id)
	s.locks.Unlock(peek.RoomID)
	if err != nil {
		return err
	}

	// The freed-slot event fires whether or not anyone was promoted.
	s.publish(ctx, logger, events.SlotUpdate{
		RoomID:    cancelled.RoomID,
		Date:      cancelled.Date,
		StartTime: timeslot.FormatClock(cancelled.StartMinute),
		EndTime:   timeslot.FormatClock(cancelled.EndMinute),
		Status:    events.SlotAvailable,
	})

	logger.InfoContext(ctx, "reservation cancelled", "room_id", cancelled.RoomID, "date", cancelled.Date)
	return nil
}

func (s *ReservationService) cancelLocked(ctx context.Context, logger *slog.Logger, id string) (persistence.Reservation, error) {
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Reservation{}, ErrNotFound
		}
		logger.ErrorContext(ctx, "reservation lookup failed", "error", err)
		return persistence.Reservation{}, fmt.Errorf("looking up reservation %s: %w", id, err)
	}
	if reservation.Status != persistence.ReservationConfirmed {
		return persistence.Reservation{}, ErrNotFound
	}

	cancelledAt := s.now()
	reservation.Status = persistence.ReservationCancelled
	reservation.CancelledAt = &cancelledAt
	if err := s.reservations.UpdateReservation(ctx, reservation); err != nil {
		logger.ErrorContext(ctx, "reservation update failed", "error", err)
		return persistence.Reservation{}, fmt.Errorf("cancelling reservation %s: %w", id, err)
	}

	if s.waitlist != nil {
		if err := s.waitlist.promoteLocked(ctx, reservation); err != nil {
			// The slot is already freed; a failed sweep drops at worst a
			// waitlister, never a confirmed reservation.
			logger.ErrorContext(ctx, "promotion sweep failed", "error", err)
		}
	}

	return reservation, nil
}

// ListForUser returns every reservation the user owns or participates in,
// cancelled ones included, newest slot first.
func (s *ReservationService) ListForUser(ctx context.Context, userID int64) ([]persistence.Reservation, error) {
	reservations, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{InvolvedUserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("listing reservations for user %d: %w", userID, err)
	}

	sort.SliceStable(reservations, func(i, j int) bool {
		if reservations[i].Date != reservations[j].Date {
			return reservations[i].Date > reservations[j].Date
		}
		return reservations[i].StartMinute > reservations[j].StartMinute
	})

	return reservations, nil
}

// ListForRoom returns the room's confirmed reservations, optionally for a
// single date, earliest slot first, enriched with the owner's directory
// attributes.
func (s *ReservationService) ListForRoom(ctx context.Context, roomID int64, date string) ([]ReservationWithOwner, error) {
	if date != "" {
		if err := timeslot.ValidateDate(date); err != nil {
			vErr := &ValidationError{}
			vErr.add("date", "date must be YYYY-MM-DD")
			return nil, vErr
		}
	}

	confirmed := persistence.ReservationConfirmed
	filter := persistence.ReservationFilter{RoomID: &roomID, Status: &confirmed}
	if date != "" {
		filter.Date = &date
	}
	reservations, err := s.reservations.ListReservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing reservations for room %d: %w", roomID, err)
	}

	sort.SliceStable(reservations, func(i, j int) bool {
		if reservations[i].Date != reservations[j].Date {
			return reservations[i].Date < reservations[j].Date
		}
		return reservations[i].StartMinute < reservations[j].StartMinute
	})

	enriched := make([]ReservationWithOwner, 0, len(reservations))
	for _, r := range reservations {
		entry := ReservationWithOwner{Reservation: r}
		if owner, err := s.users.GetUser(ctx, r.OwnerID); err == nil {
			entry.OwnerName = owner.Name
			entry.OwnerEmail = owner.Email
		} else if !errors.Is(err, persistence.ErrNotFound) {
			return nil, fmt.Errorf("looking up owner %d: %w", r.OwnerID, err)
		}
		enriched = append(enriched, entry)
	}

	return enriched, nil
}

func (s *ReservationService) publish(ctx context.Context, logger *slog.Logger, update events.SlotUpdate) {
	// Fire and forget: delivery failure never rolls back the mutation.
	if err := s.sink.Publish(ctx, update); err != nil {
		logger.WarnContext(ctx, "slot update publish failed", "room_id", update.RoomID, "error", err)
	}
}

// validateSlotFields checks the fields shared by reservation and waitlist
// admission and parses the window.
func validateSlotFields(roomID, userID int64, date, startTime, endTime string) (timeslot.Window, error) {
	vErr := &ValidationError{}
	if roomID <= 0 {
		vErr.add("room_id", "room_id is required")
	}
	if userID <= 0 {
		vErr.add("user_id", "user_id is required")
	}
	if strings.TrimSpace(date) == "" {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(startTime) == "" {
		vErr.add("start_time", "start_time is required")
	}
	if strings.TrimSpace(endTime) == "" {
		vErr.add("end_time", "end_time is required")
	}
	if vErr.HasErrors() {
		return timeslot.Window{}, vErr
	}

	window, err := timeslot.New(date, startTime, endTime)
	if err != nil {
		switch {
		case errors.Is(err, timeslot.ErrInvalidRange):
			vErr.add("end_time", "end_time must be after start_time")
		default:
			if timeslot.ValidateDate(date) != nil {
				vErr.add("date", "date must be YYYY-MM-DD")
			}
			if _, cErr := timeslot.ParseClock(startTime); cErr != nil {
				vErr.add("start_time", "start_time must be HH:mm")
			}
			if _, cErr := timeslot.ParseClock(endTime); cErr != nil {
				vErr.add("end_time", "end_time must be HH:mm")
			}
		}
		return timeslot.Window{}, vErr
	}

	return window, nil
}

// normalizeParticipants splits raw participant values into member IDs and
// trimmed free-text labels. Values that parse as integers are members.
func normalizeParticipants(raw []string) []persistence.Participant {
	out := make([]persistence.Participant, 0, len(raw))
	for _, value := range raw {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil && id > 0 {
			out = append(out, persistence.Participant{UserID: id})
			continue
		}
		out = append(out, persistence.Participant{Label: trimmed})
	}
	return out
}
