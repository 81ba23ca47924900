package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

// JoinWaitlistInput captures caller provided waitlist fields.
type JoinWaitlistInput struct {
	RoomID    int64
	UserID    int64
	Date      string
	StartTime string
	EndTime   string
}

// WaitlistService manages the queue of users waiting for occupied slots and
// promotes the head of the queue when a slot frees up.
type WaitlistService struct {
	waitlist      persistence.WaitlistRepository
	reservations  persistence.ReservationRepository
	notifications persistence.NotificationRepository
	rooms         persistence.RoomCatalog
	locks         *booking.RoomLocks
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewWaitlistService wires dependencies for waitlist operations. The lock
// table must be shared with the reservation service.
func NewWaitlistService(
	waitlist persistence.WaitlistRepository,
	reservations persistence.ReservationRepository,
	notifications persistence.NotificationRepository,
	rooms persistence.RoomCatalog,
	locks *booking.RoomLocks,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *WaitlistService {
	if locks == nil {
		locks = booking.NewRoomLocks()
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &WaitlistService{
		waitlist:      waitlist,
		reservations:  reservations,
		notifications: notifications,
		rooms:         rooms,
		locks:         locks,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

// Join queues the user for an occupied slot. The room must exist and the
// user's future-reservation quota is checked before the slot-occupancy
// check; joining an open slot is rejected, since open slots are reserved
// directly, never waited on. Only past dates are rejected: a same-day
// slot can be waited on right up to its start, and there is no upper
// date bound on joining.
func (s *WaitlistService) Join(ctx context.Context, input JoinWaitlistInput) (persistence.WaitlistEntry, error) {
	logger := serviceLogger(ctx, s.logger, "waitlist", "join", "room_id", input.RoomID, "user_id", input.UserID)

	window, err := validateSlotFields(input.RoomID, input.UserID, input.Date, input.StartTime, input.EndTime)
	if err != nil {
		return persistence.WaitlistEntry{}, err
	}

	now := s.now()
	if input.Date < timeslot.DateOf(now) {
		return persistence.WaitlistEntry{}, ErrPastTime
	}

	if _, err := s.rooms.GetRoom(ctx, input.RoomID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.WaitlistEntry{}, ErrNotFound
		}
		logger.ErrorContext(ctx, "room lookup failed", "error", err)
		return persistence.WaitlistEntry{}, fmt.Errorf("looking up room %d: %w", input.RoomID, err)
	}

	s.locks.Lock(input.RoomID)
	entry, err := s.joinLocked(ctx, logger, input, window, now)
	s.locks.Unlock(input.RoomID)
	if err != nil {
		return persistence.WaitlistEntry{}, err
	}

	logger.InfoContext(ctx, "waitlist entry created", "entry_id", entry.ID)
	return entry, nil
}

func (s *WaitlistService) joinLocked(
	ctx context.Context,
	logger *slog.Logger,
	input JoinWaitlistInput,
	window timeslot.Window,
	now time.Time,
) (persistence.WaitlistEntry, error) {
	overQuota, err := s.overQuota(ctx, input.UserID, now)
	if err != nil {
		logger.ErrorContext(ctx, "reservation snapshot failed", "error", err)
		return persistence.WaitlistEntry{}, err
	}
	if overQuota {
		return persistence.WaitlistEntry{}, ErrQuotaExceeded
	}

	confirmed := persistence.ReservationConfirmed
	roomSnapshot, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{
		RoomID: &input.RoomID,
		Date:   &input.Date,
		Status: &confirmed,
	})
	if err != nil {
		logger.ErrorContext(ctx, "reservation snapshot failed", "error", err)
		return persistence.WaitlistEntry{}, fmt.Errorf("listing reservations: %w", err)
	}
	if !booking.HasConflict(input.RoomID, window, roomSnapshot) {
		return persistence.WaitlistEntry{}, ErrSlotOpen
	}

	existing, err := s.waitlist.ListEntries(ctx, persistence.WaitlistFilter{UserID: &input.UserID})
	if err != nil {
		logger.ErrorContext(ctx, "waitlist snapshot failed", "error", err)
		return persistence.WaitlistEntry{}, fmt.Errorf("listing waitlist entries for user %d: %w", input.UserID, err)
	}
	if booking.WaitingCount(input.UserID, existing) >= booking.MaxWaitingEntries {
		return persistence.WaitlistEntry{}, ErrWaitlistFull
	}
	for _, e := range existing {
		if e.RoomID == input.RoomID && e.Date == input.Date && e.StartMinute == window.Start && e.EndMinute == window.End {
			return persistence.WaitlistEntry{}, ErrDuplicateEntry
		}
	}

	entry := persistence.WaitlistEntry{
		ID:          s.idGenerator(),
		UserID:      input.UserID,
		RoomID:      input.RoomID,
		Date:        input.Date,
		StartMinute: window.Start,
		EndMinute:   window.End,
		CreatedAt:   now,
	}
	if err := s.waitlist.CreateEntry(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "waitlist append failed", "error", err)
		return persistence.WaitlistEntry{}, fmt.Errorf("storing waitlist entry: %w", err)
	}
	return entry, nil
}

// Cancel removes a waitlist entry. Only the entry's owner may remove it.
func (s *WaitlistService) Cancel(ctx context.Context, id string, userID int64) error {
	logger := serviceLogger(ctx, s.logger, "waitlist", "cancel", "entry_id", id, "user_id", userID)

	entry, err := s.waitlist.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "waitlist lookup failed", "error", err)
		return fmt.Errorf("looking up waitlist entry %s: %w", id, err)
	}
	if entry.UserID != userID {
		return ErrNotFound
	}

	if err := s.waitlist.DeleteEntry(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "waitlist delete failed", "error", err)
		return fmt.Errorf("deleting waitlist entry %s: %w", id, err)
	}

	logger.InfoContext(ctx, "waitlist entry removed")
	return nil
}

// ListForUser returns the user's waitlist entries, newest slot first.
func (s *WaitlistService) ListForUser(ctx context.Context, userID int64) ([]persistence.WaitlistEntry, error) {
	entries, err := s.waitlist.ListEntries(ctx, persistence.WaitlistFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("listing waitlist entries for user %d: %w", userID, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].StartMinute > entries[j].StartMinute
	})

	return entries, nil
}

// promoteLocked runs the promotion sweep for a freed slot. The caller must
// hold the room lock. Candidates are the waiting entries whose start
// minute matches the freed slot exactly, walked oldest first (entry ID
// breaks creation-time ties); each candidate is removed from the queue,
// then either promoted or discarded when over quota. At most one
// candidate is promoted per sweep.
func (s *WaitlistService) promoteLocked(ctx context.Context, freed persistence.Reservation) error {
	logger := serviceLogger(ctx, s.logger, "waitlist", "promote", "room_id", freed.RoomID, "date", freed.Date)

	candidates, err := s.waitlist.ListEntries(ctx, persistence.WaitlistFilter{
		RoomID:      &freed.RoomID,
		Date:        &freed.Date,
		StartMinute: &freed.StartMinute,
	})
	if err != nil {
		return fmt.Errorf("listing waitlist entries: %w", err)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})

	now := s.now()
	for _, candidate := range candidates {
		// The candidate leaves the queue regardless of the outcome.
		if err := s.waitlist.DeleteEntry(ctx, candidate.ID); err != nil && !errors.Is(err, persistence.ErrNotFound) {
			return fmt.Errorf("removing waitlist entry %s: %w", candidate.ID, err)
		}

		overQuota, err := s.overQuota(ctx, candidate.UserID, now)
		if err != nil {
			return err
		}
		if overQuota {
			logger.InfoContext(ctx, "waitlist candidate discarded", "entry_id", candidate.ID, "user_id", candidate.UserID)
			continue
		}

		// The promoted reservation reuses the entry's ID so the user can
		// correlate the notification with the entry they queued.
		promoted := persistence.Reservation{
			ID:          candidate.ID,
			RoomID:      candidate.RoomID,
			OwnerID:     candidate.UserID,
			Date:        candidate.Date,
			StartMinute: candidate.StartMinute,
			EndMinute:   candidate.EndMinute,
			Location:    freed.Location,
			Status:      persistence.ReservationConfirmed,
			CreatedAt:   now,
		}
		if err := s.reservations.CreateReservation(ctx, promoted); err != nil {
			return fmt.Errorf("storing promoted reservation: %w", err)
		}

		if s.notifications != nil {
			notification := persistence.Notification{
				ID:     s.idGenerator(),
				UserID: candidate.UserID,
				RoomID: candidate.RoomID,
				Message: fmt.Sprintf("Your waitlisted slot on %s from %s to %s is now reserved for you.",
					candidate.Date, timeslot.FormatClock(candidate.StartMinute), timeslot.FormatClock(candidate.EndMinute)),
				Timestamp: now,
			}
			if err := s.notifications.CreateNotification(ctx, notification); err != nil {
				logger.ErrorContext(ctx, "promotion notification failed", "user_id", candidate.UserID, "error", err)
			}
		}

		logger.InfoContext(ctx, "waitlist candidate promoted", "entry_id", candidate.ID, "user_id", candidate.UserID)
		return nil
	}

	return nil
}

func (s *WaitlistService) overQuota(ctx context.Context, userID int64, now time.Time) (bool, error) {
	confirmed := persistence.ReservationConfirmed
	snapshot, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{
		InvolvedUserID: &userID,
		Status:         &confirmed,
	})
	if err != nil {
		return false, fmt.Errorf("listing reservations for user %d: %w", userID, err)
	}
	return booking.FutureActiveCount(userID, now, snapshot) >= booking.MaxFutureReservations, nil
}
