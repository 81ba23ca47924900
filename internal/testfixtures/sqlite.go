package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style tests. The schema is applied and the room
// catalog seeded on open.
type SQLiteHarness struct {
	Reservations  persistence.ReservationRepository
	Waitlist      persistence.WaitlistRepository
	Notifications persistence.NotificationRepository
	Catalog       *sqlite.CatalogRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary file. A
// cleanup callback is registered with the provided testing.TB, so calling
// Close is optional.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "reservations.db")
	pool, err := sqlite.Open(context.Background(), path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	harness := &SQLiteHarness{
		Reservations:  sqlite.NewReservationRepository(pool),
		Waitlist:      sqlite.NewWaitlistRepository(pool),
		Notifications: sqlite.NewNotificationRepository(pool),
		Catalog:       sqlite.NewCatalogRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
