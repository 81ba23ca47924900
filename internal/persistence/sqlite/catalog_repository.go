package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/room-reservation/internal/persistence"
)

// CatalogRepository implements persistence.RoomCatalog and
// persistence.UserDirectory using SQLite. Equipment lists are stored as a
// comma-joined column.
type CatalogRepository struct {
	pool *ConnectionPool
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetRoom retrieves a room by ID.
func (r *CatalogRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, name, location, capacity, equipment, available
		FROM rooms
		WHERE id = ?
	`, id)

	room, err := scanRoom(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, err
	}
	return room, nil
}

// ListRooms lists the catalog ordered by room ID.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, name, location, capacity, equipment, available
		FROM rooms
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return rooms, nil
}

// GetUser retrieves a directory entry by ID.
func (r *CatalogRepository) GetUser(ctx context.Context, id int64) (persistence.User, error) {
	var user persistence.User
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT id, name, email, role
		FROM users
		WHERE id = ?
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}
	return user, nil
}

// SeedUsers inserts directory entries, replacing rows that share an ID.
// Exposed for operational seeding and tests.
func (r *CatalogRepository) SeedUsers(ctx context.Context, users []persistence.User) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, user := range users {
			_, err := tx.Exec(
				"INSERT OR REPLACE INTO users (id, name, email, role) VALUES (?, ?, ?, ?)",
				user.ID, user.Name, user.Email, user.Role,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var equipment string
	var available int

	err := row.Scan(&room.ID, &room.Name, &room.Location, &room.Capacity, &equipment, &available)
	if err != nil {
		return persistence.Room{}, err
	}

	room.Available = available != 0
	if equipment != "" {
		room.Equipment = strings.Split(equipment, ",")
	}
	return room, nil
}
