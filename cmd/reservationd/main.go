package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/config"
	"github.com/example/room-reservation/internal/events"
	httptransport "github.com/example/room-reservation/internal/http"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/memory"
	"github.com/example/room-reservation/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		reservationRepo  persistence.ReservationRepository
		waitlistRepo     persistence.WaitlistRepository
		notificationRepo persistence.NotificationRepository
		roomCatalog      persistence.RoomCatalog
		userDirectory    persistence.UserDirectory
	)
	if cfg.SQLiteDSN != "" {
		pool, perr := sqlite.Open(ctx, cfg.SQLiteDSN)
		if perr != nil {
			logger.Error("failed to open storage", "error", perr)
			os.Exit(1)
		}
		defer func() {
			if cerr := pool.Close(); cerr != nil {
				logger.Error("failed to close storage", "error", cerr)
			}
		}()
		catalog := sqlite.NewCatalogRepository(pool)
		reservationRepo = sqlite.NewReservationRepository(pool)
		waitlistRepo = sqlite.NewWaitlistRepository(pool)
		notificationRepo = sqlite.NewNotificationRepository(pool)
		roomCatalog = catalog
		userDirectory = catalog
		logger.Info("using sqlite storage", "dsn", cfg.SQLiteDSN)
	} else {
		store := memory.Open()
		store.SeedRooms(persistence.DefaultRooms())
		reservationRepo = store
		waitlistRepo = store
		notificationRepo = store
		roomCatalog = store
		userDirectory = store
		logger.Info("using in-memory storage")
	}

	var sink events.Sink = events.NopSink{}
	if cfg.AMQPURL != "" {
		amqpSink, serr := events.NewAMQPSink(cfg.AMQPURL, cfg.AMQPQueue)
		if serr != nil {
			logger.Error("failed to connect to message broker", "error", serr)
			os.Exit(1)
		}
		defer func() {
			if cerr := amqpSink.Close(); cerr != nil {
				logger.Error("failed to close message broker connection", "error", cerr)
			}
		}()
		sink = amqpSink
		logger.Info("publishing slot updates", "queue", cfg.AMQPQueue)
	}

	idGenerator := uuid.NewString
	now := time.Now
	locks := booking.NewRoomLocks()

	waitlistService := application.NewWaitlistService(waitlistRepo, reservationRepo, notificationRepo, roomCatalog, locks, idGenerator, now, logger)
	reservationService := application.NewReservationService(reservationRepo, waitlistService, roomCatalog, userDirectory, sink, locks, idGenerator, now, logger)
	notificationService := application.NewNotificationService(notificationRepo, logger)
	statsService := application.NewStatsService(reservationRepo, roomCatalog)
	reminders := application.NewReminderScheduler(reservationRepo, notificationRepo, cfg.ReminderInterval, idGenerator, now, logger)

	go reminders.Run(ctx)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Reservations:  httptransport.NewReservationHandler(reservationService, logger),
		Waitlist:      httptransport.NewWaitlistHandler(waitlistService, logger),
		Notifications: httptransport.NewNotificationHandler(notificationService, logger),
		Rooms:         httptransport.NewRoomHandler(roomCatalog, logger),
		Stats:         httptransport.NewStatsHandler(statsService, logger),
		Middleware:    []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
