package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/events"
	"github.com/example/room-reservation/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks. All services built by one factory
// share a single room lock table so their critical sections interleave the
// same way they do in production wiring.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Locks       *booking.RoomLocks
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Locks:       booking.NewRoomLocks(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Locks == nil {
		factory.Locks = booking.NewRoomLocks()
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WaitlistServiceDeps captures dependencies for constructing a waitlist
// service.
type WaitlistServiceDeps struct {
	Waitlist      persistence.WaitlistRepository
	Reservations  persistence.ReservationRepository
	Notifications persistence.NotificationRepository
	Rooms         persistence.RoomCatalog
	IDGenerator   func() string
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewWaitlistService builds a waitlist service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewWaitlistService(deps WaitlistServiceDeps) *application.WaitlistService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewWaitlistService(
		deps.Waitlist,
		deps.Reservations,
		deps.Notifications,
		deps.Rooms,
		f.Locks,
		idGen,
		now,
		deps.Logger,
	)
}

// ReservationServiceDeps captures dependencies for constructing a
// reservation service.
type ReservationServiceDeps struct {
	Reservations persistence.ReservationRepository
	Waitlist     *application.WaitlistService
	Rooms        persistence.RoomCatalog
	Users        persistence.UserDirectory
	Sink         events.Sink
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewReservationService builds a reservation service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewReservationService(deps ReservationServiceDeps) *application.ReservationService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewReservationService(
		deps.Reservations,
		deps.Waitlist,
		deps.Rooms,
		deps.Users,
		deps.Sink,
		f.Locks,
		idGen,
		now,
		deps.Logger,
	)
}

// ReminderSchedulerDeps captures dependencies for constructing a reminder
// scheduler.
type ReminderSchedulerDeps struct {
	Reservations  persistence.ReservationRepository
	Notifications persistence.NotificationRepository
	Interval      time.Duration
	IDGenerator   func() string
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewReminderScheduler builds a reminder scheduler using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewReminderScheduler(deps ReminderSchedulerDeps) *application.ReminderScheduler {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewReminderScheduler(
		deps.Reservations,
		deps.Notifications,
		deps.Interval,
		idGen,
		now,
		deps.Logger,
	)
}
