package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/room-reservation/internal/persistence"
)

// schemaStatements create the tables in dependency order. Statements are
// idempotent so Open can run them on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		equipment TEXT NOT NULL DEFAULT '',
		available INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		room_id INTEGER NOT NULL REFERENCES rooms(id),
		owner_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		purpose TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		cancelled_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS reservation_participants (
		reservation_id TEXT NOT NULL REFERENCES reservations(id),
		position INTEGER NOT NULL,
		user_id INTEGER NOT NULL DEFAULT 0,
		label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (reservation_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		room_id INTEGER NOT NULL REFERENCES rooms(id),
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		room_id INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		read INTEGER NOT NULL DEFAULT 0,
		date TEXT NOT NULL DEFAULT '',
		start_minute INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_room_date ON reservations(room_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_owner ON reservations(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_waitlist_room_date ON waitlist_entries(room_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id)`,
}

func (cp *ConnectionPool) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// seedRooms populates the room catalog on an empty database.
func (cp *ConnectionPool) seedRooms(ctx context.Context) error {
	var count int
	if err := cp.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		return fmt.Errorf("counting rooms: %w", err)
	}
	if count > 0 {
		return nil
	}

	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, room := range persistence.DefaultRooms() {
			available := 0
			if room.Available {
				available = 1
			}
			_, err := tx.Exec(
				"INSERT INTO rooms (id, name, location, capacity, equipment, available) VALUES (?, ?, ?, ?, ?, ?)",
				room.ID, room.Name, room.Location, room.Capacity, strings.Join(room.Equipment, ","), available,
			)
			if err != nil {
				return fmt.Errorf("seeding room %d: %w", room.ID, err)
			}
		}
		return nil
	})
}
