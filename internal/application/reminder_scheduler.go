package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

// reminderWindowMin and reminderWindowMax bound how far ahead of a
// reservation's start a reminder fires. The band is wider than the tick so
// a start is never skipped by tick jitter.
const (
	reminderWindowMin = 29 * time.Minute
	reminderWindowMax = 31 * time.Minute

	defaultReminderInterval = time.Minute
)

// ReminderScheduler periodically scans confirmed reservations and delivers
// a notification to each owner roughly thirty minutes before the start.
// Delivery is deduplicated on the (user, room, date, start) key, so a
// reservation start produces at most one reminder no matter how many ticks
// observe it.
type ReminderScheduler struct {
	reservations  persistence.ReservationRepository
	notifications persistence.NotificationRepository
	interval      time.Duration
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewReminderScheduler wires dependencies for the reminder loop. A
// non-positive interval falls back to one minute.
func NewReminderScheduler(
	reservations persistence.ReservationRepository,
	notifications persistence.NotificationRepository,
	interval time.Duration,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *ReminderScheduler {
	if interval <= 0 {
		interval = defaultReminderInterval
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReminderScheduler{
		reservations:  reservations,
		notifications: notifications,
		interval:      interval,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

// Run ticks until the context is cancelled. A failed sweep is logged and
// the loop keeps going; the next tick retries naturally.
func (s *ReminderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "reminder sweep failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single sweep at the injected clock's current time.
func (s *ReminderScheduler) RunOnce(ctx context.Context) error {
	now := s.now()
	today := timeslot.DateOf(now)
	tomorrow := timeslot.DateOf(now.Add(24 * time.Hour))

	confirmed := persistence.ReservationConfirmed
	reservations, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{Status: &confirmed})
	if err != nil {
		return fmt.Errorf("listing reservations: %w", err)
	}

	for _, r := range reservations {
		// Only today and (for sweeps near midnight) tomorrow can hold a
		// start inside the reminder band.
		if r.Date != today && r.Date != tomorrow {
			continue
		}
		start, err := startInstant(r, now.Location())
		if err != nil {
			s.logger.WarnContext(ctx, "reservation has unparseable date", "reservation_id", r.ID, "error", err)
			continue
		}
		until := start.Sub(now)
		if until < reminderWindowMin || until > reminderWindowMax {
			continue
		}

		exists, err := s.notifications.ReminderExists(ctx, r.OwnerID, r.RoomID, r.Date, r.StartMinute)
		if err != nil {
			return fmt.Errorf("checking reminder for reservation %s: %w", r.ID, err)
		}
		if exists {
			continue
		}

		notification := persistence.Notification{
			ID:     s.idGenerator(),
			UserID: r.OwnerID,
			RoomID: r.RoomID,
			Message: fmt.Sprintf("Reminder: your reservation starts at %s on %s.",
				timeslot.FormatClock(r.StartMinute), r.Date),
			Timestamp:   now,
			Date:        r.Date,
			StartMinute: r.StartMinute,
		}
		if err := s.notifications.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("storing reminder for reservation %s: %w", r.ID, err)
		}
		s.logger.InfoContext(ctx, "reminder delivered", "reservation_id", r.ID, "user_id", r.OwnerID)
	}

	return nil
}

// startInstant converts a reservation's date and start minute to a wall
// clock instant in the given zone.
func startInstant(r persistence.Reservation, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", r.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(r.StartMinute) * time.Minute), nil
}
